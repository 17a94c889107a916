package queue

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

type fifoNode[T any] struct {
	val  T
	next atomic.Pointer[fifoNode[T]]
}

// FIFO is a Michael-Scott lock-free queue: a dummy head node always
// precedes the real data, so Push and Pop never contend on the same
// pointer. It backs the WAsync-FIFO construction style, giving
// breadth-first scheduling across nested compositions.
type FIFO[T any] struct {
	head atomic.Pointer[fifoNode[T]]
	tail atomic.Pointer[fifoNode[T]]
}

// NewFIFO returns an empty FIFO.
func NewFIFO[T any]() *FIFO[T] {
	q := &FIFO[T]{}
	dummy := &fifoNode[T]{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Push adds v to the tail of the queue.
func (q *FIFO[T]) Push(v T) {
	n := &fifoNode[T]{val: v}
	var sw spin.Wait
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if tail != q.tail.Load() {
			sw.Once()
			continue
		}
		if next != nil {
			// Tail lagging behind; help advance it before retrying.
			q.tail.CompareAndSwap(tail, next)
			sw.Once()
			continue
		}
		if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			return
		}
		sw.Once()
	}
}

// Pop removes and returns the value at the head of the queue, if any.
func (q *FIFO[T]) Pop() (T, bool) {
	var sw spin.Wait
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if head != q.head.Load() {
			sw.Once()
			continue
		}
		if head == tail {
			if next == nil {
				var zero T
				return zero, false
			}
			// Tail lagging behind a completed push; help advance it.
			q.tail.CompareAndSwap(tail, next)
			sw.Once()
			continue
		}
		val := next.val
		if q.head.CompareAndSwap(head, next) {
			return val, true
		}
		sw.Once()
	}
}

// Empty reports whether the queue currently holds no elements, with the
// same advisory caveat as LIFO.Empty.
func (q *FIFO[T]) Empty() bool {
	head := q.head.Load()
	return head.next.Load() == nil
}
