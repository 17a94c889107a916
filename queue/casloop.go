// Package queue provides the lock-free primitives the scheduler's work
// queues are built from: a generic CAS-loop cell, a Treiber LIFO stack, a
// Michael-Scott FIFO queue, and a single-slot ordered queue for the Ahead
// style.
package queue

import (
	"sync/atomic"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// maxCASAttempts bounds the optimistic retry loop before a caller falls
// back to a coarser backoff. Past this many failed attempts the cell is
// under heavy contention and spinning harder only burns CPU.
const maxCASAttempts = 32

// Cell is a generic compare-and-swap guarded value. Every mutation goes
// through ModifyCell: read the current snapshot, compute a new one, and
// CAS it in, retrying on conflict. There is no lock anywhere in Cell.
type Cell[T any] struct {
	p atomic.Pointer[T]
}

// NewCell returns a Cell initialized to v.
func NewCell[T any](v T) *Cell[T] {
	c := &Cell[T]{}
	c.p.Store(&v)
	return c
}

// Load returns the current snapshot.
func (c *Cell[T]) Load() T {
	return *c.p.Load()
}

// ModifyCell atomically replaces a Cell's value: fn receives the current
// snapshot and returns the replacement plus an arbitrary result to hand
// back to the caller. fn may be invoked more than once if the cell is
// contended, so it must be a pure function of its argument.
//
// This is the package's one CAS-loop: every LIFO, FIFO-adjacent, and
// Ordered operation that needs "read, compute, swap in" semantics is built
// on top of it rather than re-implementing the retry loop.
func ModifyCell[T any, R any](c *Cell[T], fn func(old T) (T, R)) R {
	var sw spin.Wait
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		oldPtr := c.p.Load()
		newVal, result := fn(*oldPtr)
		if c.p.CompareAndSwap(oldPtr, &newVal) {
			return result
		}
		sw.Once()
	}
	// Heavily contended: fall back to a coarser backoff between retries
	// instead of spinning as tightly. Still a CAS loop underneath — a
	// plain Store here would silently drop a concurrent update.
	var b iox.Backoff
	for {
		b.Wait()
		oldPtr := c.p.Load()
		newVal, result := fn(*oldPtr)
		if c.p.CompareAndSwap(oldPtr, &newVal) {
			return result
		}
	}
}
