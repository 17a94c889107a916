package ssv

import (
	"code.hybscloud.com/atomix"

	"github.com/danmux/ssv/metrics"
	"github.com/danmux/ssv/queue"
)

// outputQueue is the SSV's (events, len) output cell (§3 Data Model,
// §4.4): producers CAS-append through queue.Cell, the consumer drains by
// swapping the whole list out for nil. len is tracked as an independent
// atomic counter per §3 invariant 1, kept in lockstep with the swap.
type outputQueue struct {
	cell *queue.Cell[[]ChildEvent]
	ln   atomix.Int64
	bell *doorbell
	m    metrics.UpDownCounter
}

func newOutputQueue(bell *doorbell, m metrics.UpDownCounter) *outputQueue {
	return &outputQueue{cell: queue.NewCell[[]ChildEvent](nil), bell: bell, m: m}
}

// Push appends ev and signals the doorbell if the queue was empty just
// before this push landed (§3 invariant 5, §4.4).
func (q *outputQueue) Push(ev ChildEvent) {
	wasEmpty := queue.ModifyCell(q.cell, func(old []ChildEvent) ([]ChildEvent, bool) {
		next := make([]ChildEvent, 0, len(old)+1)
		next = append(next, old...)
		next = append(next, ev)
		return next, len(old) == 0
	})
	q.ln.AddAcqRel(1)
	q.m.Add(1)
	if wasEmpty {
		q.bell.Signal()
	}
}

// Drain swaps the queue's contents out for an empty slice and returns
// whatever was there.
func (q *outputQueue) Drain() []ChildEvent {
	out := queue.ModifyCell(q.cell, func(old []ChildEvent) ([]ChildEvent, []ChildEvent) {
		return nil, old
	})
	if len(out) > 0 {
		q.ln.AddAcqRel(-int64(len(out)))
		q.m.Add(-int64(len(out)))
	}
	return out
}

// Len returns the current output queue length.
func (q *outputQueue) Len() int64 { return q.ln.LoadAcquire() }
