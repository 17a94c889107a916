package queue

import "errors"

// ErrSlotOccupied is returned by Ordered.Enqueue when the single slot
// already holds an undequeued task. The Ahead style's invariant is that at
// most one task sits in the ordered queue at a time (it is always the
// right-associated tail of the stream); callers enforce that invariant
// themselves rather than this type silently queuing a backlog.
var ErrSlotOccupied = errors.New("queue: ordered slot already occupied")

type slot[T any] struct {
	task T
	seq  int64
	full bool
}

// Ordered is the single-slot, sequence-numbered work queue backing the
// Ahead construction style (§4.2/§4.8 data model: "at most one task is on
// the work queue at any time"). Unlike LIFO/FIFO it never buffers more
// than one pending task; a second Enqueue before the first is Dequeue'd
// fails with ErrSlotOccupied.
type Ordered[T any] struct {
	cell *Cell[slot[T]]
}

// NewOrdered returns an empty Ordered queue.
func NewOrdered[T any]() *Ordered[T] {
	return &Ordered[T]{cell: NewCell(slot[T]{})}
}

type enqueueResult struct {
	ok bool
}

// Enqueue places task at seq into the single slot. It fails with
// ErrSlotOccupied if the slot is currently full.
func (q *Ordered[T]) Enqueue(task T, seq int64) error {
	res := ModifyCell(q.cell, func(old slot[T]) (slot[T], enqueueResult) {
		if old.full {
			return old, enqueueResult{ok: false}
		}
		return slot[T]{task: task, seq: seq, full: true}, enqueueResult{ok: true}
	})
	if !res.ok {
		return ErrSlotOccupied
	}
	return nil
}

type dequeueResult[T any] struct {
	task T
	seq  int64
	ok   bool
}

// Dequeue empties the slot and returns its task and sequence number.
func (q *Ordered[T]) Dequeue() (task T, seq int64, ok bool) {
	res := ModifyCell(q.cell, func(old slot[T]) (slot[T], dequeueResult[T]) {
		if !old.full {
			return old, dequeueResult[T]{}
		}
		return slot[T]{}, dequeueResult[T]{task: old.task, seq: old.seq, ok: true}
	})
	return res.task, res.seq, res.ok
}

// Empty reports whether the slot currently holds no task.
func (q *Ordered[T]) Empty() bool {
	return !q.cell.Load().full
}
