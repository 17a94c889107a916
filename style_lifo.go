package ssv

import (
	"context"
	"sync/atomic"

	"github.com/danmux/ssv/queue"
)

// lifoStrategy backs the Async-LIFO construction style: a worker idle for
// new work prefers the most recently enqueued task, giving depth-first
// descent into nested compositions. Output order is completion order —
// there is no reorder heap (§5 "no ordering guarantee").
type lifoStrategy struct {
	work    *queue.LIFO[indexedTask]
	nextIdx atomic.Int64
}

func newLIFOStrategy() *lifoStrategy {
	return &lifoStrategy{work: queue.NewLIFO[indexedTask]()}
}

func (s *lifoStrategy) enqueue(task Task) error {
	idx := int(s.nextIdx.Add(1)) - 1
	s.work.Push(indexedTask{index: idx, task: task})
	return nil
}

func (s *lifoStrategy) step(ctx context.Context, ssv *SSV, info *WorkerInfo) (bool, error) {
	it, ok := s.work.Pop()
	if !ok {
		return false, nil
	}
	err := runInline(ctx, ssv, info, it.task)
	if err != nil && ssv.cfg.ErrorTagging {
		err = newTaskTaggedError(err, nil, it.index)
	}
	return true, err
}

func (s *lifoStrategy) isWorkDone() bool { return s.work.Empty() }
