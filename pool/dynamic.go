package pool

import "sync"

// NewDynamic is an unbounded, GC-cooperative pool. It is a thin wrapper
// around sync.Pool, suited to styles whose worker count fluctuates freely
// (paced mode, Parallel).
func NewDynamic(newFn func() interface{}) Pool {
	return &sync.Pool{New: newFn}
}
