package ssv

import "github.com/danmux/ssv/queue"

// workerSet is the toggle-register used by the worker exit protocol
// (§4.6): a worker is added when forked and removed when it exits; a
// worker whose registration races the consumer's own toggle attempt sees
// its own id bounce in and back out rather than staying registered twice,
// which is why Toggle — not separate Add/Remove — is the primitive. It is
// implemented as copy-on-write snapshots under a CAS-loop, matching every
// other shared-state cell in this package.
type workerSet struct {
	cell *queue.Cell[map[uint64]struct{}]
	bell *doorbell
}

func newWorkerSet(bell *doorbell) *workerSet {
	return &workerSet{cell: queue.NewCell[map[uint64]struct{}](map[uint64]struct{}{}), bell: bell}
}

// Toggle removes tid if present (signaling the doorbell, since the set
// just shrank — a worker finished and the consumer may need to know) or
// inserts it if absent.
func (s *workerSet) Toggle(tid uint64) {
	shrank := queue.ModifyCell(s.cell, func(old map[uint64]struct{}) (map[uint64]struct{}, bool) {
		next := make(map[uint64]struct{}, len(old)+1)
		for k := range old {
			next[k] = struct{}{}
		}
		if _, present := next[tid]; present {
			delete(next, tid)
			return next, true
		}
		next[tid] = struct{}{}
		return next, false
	})
	if shrank {
		s.bell.Signal()
	}
}

// Len returns the worker set's current cardinality.
func (s *workerSet) Len() int { return len(s.cell.Load()) }

// Snapshot returns the ids currently registered.
func (s *workerSet) Snapshot() []uint64 {
	m := s.cell.Load()
	ids := make([]uint64, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	return ids
}

// Clear empties the set, used by CancelAll's teardown sweep.
func (s *workerSet) Clear() {
	queue.ModifyCell(s.cell, func(map[uint64]struct{}) (map[uint64]struct{}, struct{}) {
		return map[uint64]struct{}{}, struct{}{}
	})
}
