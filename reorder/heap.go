package reorder

import (
	"container/heap"

	"github.com/danmux/ssv/queue"
)

// entryHeap is a container/heap.Interface over Entry, ordered by Seq.
type entryHeap []Entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].Seq < h[j].Seq }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(Entry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

type heapState struct {
	h          entryHeap
	currentSeq int64
}

// Heap is the Ahead style's reassembly structure (§3 AheadHeapEntry, §4.3
// token protocol). It is accessed entirely through a CAS-loop (queue.Cell)
// rather than a mutex, per the data model's ownership rule that nothing in
// the scheduling core is guarded by a lock.
//
// current-seq only ever advances via Advance, called by whichever worker
// is driving the token-holding task to completion — not by Push or
// TryClaim. A task registered via this package's Task adapter may yield
// more than once; current-seq therefore advances once per task reaching
// completion (its Done channel firing), not once per individual yield.
// That is a deliberate generalization of the single-value-per-slot source
// model to accommodate a multi-yield Task: it still guarantees that all of
// a task's yields are flushed contiguously before the next task's, which
// is exactly the ordering invariant the single-yield case trivially
// satisfies.
type Heap struct {
	cell *queue.Cell[heapState]
}

// NewHeap returns an empty Heap whose token starts at seq 0 — the first
// task handed to an Ahead SSV is always seq 0 and holds the token
// immediately, without ever touching the heap.
func NewHeap() *Heap {
	return &Heap{cell: queue.NewCell(heapState{})}
}

// Push registers e in the heap. Used both by a non-token worker parking a
// freshly dequeued task's continuation, and by a token holder abandoning
// mid-stream when the output queue is full.
func (r *Heap) Push(e Entry) {
	queue.ModifyCell(r.cell, func(old heapState) (heapState, struct{}) {
		h := append(entryHeap(nil), old.h...)
		heap.Push(&h, e)
		return heapState{h: h, currentSeq: old.currentSeq}, struct{}{}
	})
}

type claimResult struct {
	entry Entry
	ok    bool
}

// TryClaim removes and returns the heap's minimum entry if its sequence
// number equals the current token position. It does not advance
// current-seq — the claiming worker does that itself via Advance once it
// has actually driven the entry's task to completion, so that a second
// entry sitting at current-seq+1 cannot be claimed by another worker
// before the first claim's value has actually been accounted for.
func (r *Heap) TryClaim() (Entry, bool) {
	res := queue.ModifyCell(r.cell, func(old heapState) (heapState, claimResult) {
		if len(old.h) == 0 || old.h[0].Seq != old.currentSeq {
			return old, claimResult{}
		}
		h := append(entryHeap(nil), old.h...)
		e := heap.Pop(&h).(Entry)
		return heapState{h: h, currentSeq: old.currentSeq}, claimResult{entry: e, ok: true}
	})
	return res.entry, res.ok
}

// Advance moves current-seq forward by one. Called once a token holder's
// task (fresh or claimed) has run to completion.
func (r *Heap) Advance() {
	queue.ModifyCell(r.cell, func(old heapState) (heapState, struct{}) {
		return heapState{h: old.h, currentSeq: old.currentSeq + 1}, struct{}{}
	})
}

// CurrentSeq returns the token position.
func (r *Heap) CurrentSeq() int64 {
	return r.cell.Load().currentSeq
}

// PeekReady reports whether the heap's minimum entry is claimable right
// now, without removing it.
func (r *Heap) PeekReady() bool {
	s := r.cell.Load()
	return len(s.h) > 0 && s.h[0].Seq == s.currentSeq
}

// Len returns the number of entries currently parked in the heap —
// exposed for the ssv.heap.size metric.
func (r *Heap) Len() int {
	return len(r.cell.Load().h)
}

// Empty reports whether the heap holds no entries.
func (r *Heap) Empty() bool {
	return r.Len() == 0
}
