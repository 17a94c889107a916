package ssv

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/danmux/ssv/queue"
	"github.com/danmux/ssv/reorder"
)

// aheadStrategy backs the Ahead construction style: source order is
// preserved by a single-slot ordered work queue plus a reorder heap and
// token protocol (§4.2, §4.3, §4.8). At most one fresh task ever sits in
// the work queue; a worker that dequeues it either holds the token (its
// seq equals the heap's current-seq, so it may push straight to the
// output queue) or does not (it must park the task as a heap continuation
// for whoever reaches that seq next).
type aheadStrategy struct {
	work *queue.Ordered[Task]
	heap *reorder.Heap
	next atomic.Int64
}

func newAheadStrategy() *aheadStrategy {
	return &aheadStrategy{work: queue.NewOrdered[Task](), heap: reorder.NewHeap()}
}

func (s *aheadStrategy) enqueue(task Task) error {
	seq := s.next.Add(1)
	if err := s.work.Enqueue(task, seq); err != nil {
		if errors.Is(err, queue.ErrSlotOccupied) {
			return ErrAheadSlotOccupied
		}
		return err
	}
	return nil
}

func (s *aheadStrategy) isWorkDone() bool {
	return s.work.Empty() && s.heap.Empty()
}

func (s *aheadStrategy) step(ctx context.Context, ssv *SSV, info *WorkerInfo) (bool, error) {
	// Prefer claiming a ready heap entry over taking fresh work — that is
	// how the stream keeps moving once its token holder has abandoned or
	// finished (§4.3).
	if entry, ok := s.heap.TryClaim(); ok {
		ssv.m.heapSize.Add(-1)
		return true, s.drive(ctx, ssv, info, entry.Seq, entry.Tail)
	}

	task, seq, ok := s.work.Dequeue()
	if !ok {
		return false, nil
	}

	if seq == s.heap.CurrentSeq() {
		out, resume, done := spawnTask(ctx, task)
		return true, s.drive(ctx, ssv, info, seq, &reorder.StreamTail{Out: out, Resume: resume, Done: done})
	}

	// Not the token: spawn it and immediately park the continuation —
	// this worker's job for this task is done until someone claims it.
	out, resume, done := spawnTask(ctx, task)
	s.heap.Push(reorder.Entry{Seq: seq, Tail: &reorder.StreamTail{Out: out, Resume: resume, Done: done}})
	ssv.m.heapSize.Add(1)
	return true, nil
}

// drive pumps a token-held continuation: each value it pulls is either
// pushed straight to the output queue (advancing once the whole task
// finishes, see reorder.Heap's doc comment) or, if the output queue is
// full, re-parked on the heap at the same seq with the pulled value
// preserved so the next claimer doesn't lose it (§4.3 abandonment).
func (s *aheadStrategy) drive(ctx context.Context, ssv *SSV, info *WorkerInfo, seq int64, tail *reorder.StreamTail) error {
	hasPending := tail.HasPending
	pending := tail.Pending

	for {
		var v any
		if hasPending {
			v = pending
			hasPending = false
		} else {
			select {
			case vv := <-tail.Out:
				v = vv
			case err := <-tail.Done:
				s.heap.Advance()
				if err != nil && ssv.cfg.ErrorTagging {
					err = newTaskTaggedError(err, nil, int(seq))
				}
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if ssv.cfg.BufferHigh > 0 && ssv.out.Len() >= int64(ssv.cfg.BufferHigh) {
			s.heap.Push(reorder.Entry{Seq: seq, Tail: &reorder.StreamTail{
				HasPending: true, Pending: v,
				Out: tail.Out, Resume: tail.Resume, Done: tail.Done,
			}})
			ssv.m.heapSize.Add(1)
			return nil
		}

		ssv.out.Push(yieldEvent(v))
		ssv.totalYields.AddAcqRel(1)
		info.recordYield()
		info.maybeReportLatency(ssv)

		keepGoing := !ssv.yieldLimitReached()
		select {
		case tail.Resume <- keepGoing:
		case <-ctx.Done():
			return ctx.Err()
		}
		if !keepGoing {
			select {
			case <-tail.Done:
			case <-ctx.Done():
			}
			s.heap.Advance()
			return nil
		}
	}
}
