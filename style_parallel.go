package ssv

import "context"

// parallelStrategy backs the Parallel construction style: there is no
// work queue at all. Every enqueued task is forked into its own worker
// immediately by the SSV facade (PushWorkerPar) rather than waiting for a
// consumer-driven dispatch decision, so step never has anything to pull —
// a parallel worker runs exactly one task, bound at fork time, and exits.
type parallelStrategy struct{}

func newParallelStrategy() *parallelStrategy { return &parallelStrategy{} }

func (s *parallelStrategy) enqueue(Task) error { return nil }

func (s *parallelStrategy) step(context.Context, *SSV, *WorkerInfo) (bool, error) {
	return false, nil
}

func (s *parallelStrategy) isWorkDone() bool { return true }
