package ssv

import (
	"context"
	"sync/atomic"

	"github.com/danmux/ssv/queue"
)

// fifoStrategy backs the WAsync-FIFO construction style: breadth-first
// scheduling of nested compositions via a Michael-Scott queue. Output
// order is completion order, same as Async-LIFO.
type fifoStrategy struct {
	work    *queue.FIFO[indexedTask]
	nextIdx atomic.Int64
}

func newFIFOStrategy() *fifoStrategy {
	return &fifoStrategy{work: queue.NewFIFO[indexedTask]()}
}

func (s *fifoStrategy) enqueue(task Task) error {
	idx := int(s.nextIdx.Add(1)) - 1
	s.work.Push(indexedTask{index: idx, task: task})
	return nil
}

func (s *fifoStrategy) step(ctx context.Context, ssv *SSV, info *WorkerInfo) (bool, error) {
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

func (s *fifoStrategy) isWorkDone() bool { return s.work.Empty() }
