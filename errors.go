package ssv

import "errors"

// Namespace prefixes every sentinel error this package defines.
const Namespace = "ssv"

var (
	// ErrInvalidState names an operation on an SSV in an unusable state.
	// No operation in this package returns it.
	ErrInvalidState = errors.New(Namespace + ": invalid state")

	// ErrCancelled is the root of the error CancelAll returns when workers
	// reported errors during its teardown sweep (ErrCancelWithErrors, §7
	// kind 2). Stop events and driver results caused by context
	// cancellation carry the context's own error instead.
	ErrCancelled = errors.New(Namespace + ": cancelled")

	// ErrYieldLimitReached names the Config.YieldLimit stop reason. A
	// worker stopped by the limit exits cleanly with a nil Stop error (§7
	// kind 4: not a failure), so this package never attaches or returns it.
	ErrYieldLimitReached = errors.New(Namespace + ": yield limit reached")

	// ErrTaskPanicked marks a Stop event produced by recovering a panic
	// inside a task's Run method.
	ErrTaskPanicked = errors.New(Namespace + ": task execution panicked")

	// ErrAheadSlotOccupied is returned by an Ahead SSV's Enqueue when a
	// task is already waiting in the single-slot work queue (§9 Open
	// Question 3): at most one task may sit there at a time, since it is
	// always the right-associated tail of the stream.
	ErrAheadSlotOccupied = errors.New(Namespace + ": ahead work slot already occupied")
)
