package ssv

import "context"

// Style identifies which of the four construction styles an SSV was built
// with (Glossary: Ahead, Parallel, Async-LIFO, WAsync-FIFO). Exported so
// Gather/Wait's WithGatherStyle (driver.go, §6.1) can select one from
// outside the package.
type Style int

const (
	StyleAhead Style = iota
	StyleParallel
	StyleAsync
	StyleWAsync
)

// indexedTask pairs a task with its registration order, so a failure can
// still be tagged with a task index (§4.11) even for the styles whose
// queue discipline doesn't otherwise track one (Ahead uses its sequence
// number directly instead).
type indexedTask struct {
	index int
	task  Task
}

// strategy is the per-style "closures" §9's design notes call for: enqueue,
// step (combining work-loop and is-work-done into one poll), and
// isWorkDone. Ahead additionally carries a reorder heap; the others don't.
type strategy interface {
	// enqueue submits task, assigning it a registration index/sequence
	// number. Returns an error if the style's queue discipline refuses it
	// (Ahead's single slot may already be occupied).
	enqueue(task Task) error

	// step attempts one unit of progress for the given worker: claiming a
	// ready heap entry, driving a token-held continuation, or pulling and
	// running a fresh task. ok is false when there is nothing to do right
	// now, at which point the worker should exit and trust the consumer
	// to redispatch (§5).
	step(ctx context.Context, ssv *SSV, info *WorkerInfo) (ok bool, err error)

	// isWorkDone reports whether no further tasks can ever become
	// available from this style's queue (and, for Ahead, its heap).
	isWorkDone() bool
}
