package ssv

import (
	"log/slog"
	"time"

	"github.com/danmux/ssv/metrics"
)

// Config holds an SSV's persistent, cross-composition-boundary settings —
// the State record's configuration fields (§3 Data Model), plus the
// ambient knobs this module layers on top (error tagging, metrics,
// logging).
type Config struct {
	// ThreadsHigh caps the worker pool. Zero means synchronous: no worker
	// goroutine is started and each worker body runs on the goroutine that
	// dispatches it (§6 thread-limit-zero scenario). For Parallel that is
	// the enqueuing goroutine, in program order. Async and WAsync tasks
	// run later, on the consumer's goroutine inside ReadOutput, in the
	// order their work queue pops them (LIFO for Async). An Ahead task
	// still runs on its own goroutine (spawnTask), driven from the
	// dispatching goroutine.
	// Default: 1500.
	ThreadsHigh uint

	// BufferHigh caps outstanding output events (maxBuffer). Ignored
	// for the Parallel style, which is always unbounded (§3 invariant 7).
	// Default: 1500.
	BufferHigh uint

	// StreamRate is the target yields/s. Non-positive selects bounded
	// mode; positive selects paced mode (§4.7).
	// Default: -1 (bounded mode).
	StreamRate float64

	// WorkerLatency optionally seeds the latency estimate before any
	// worker has reported a real sample (§4.5 bootstrap).
	// Default: 0 (no seed; the first measurement wins).
	WorkerLatency time.Duration

	// YieldLimit caps total yields across the SSV's lifetime. Zero means
	// unlimited.
	YieldLimit uint64

	// ErrorTagging wraps a failing worker's error with its task's
	// sequence number (Ahead) or registration index (Async, WAsync)
	// before attaching it to a Stop event (§4.11). Errors from Parallel
	// workers are not tagged.
	// Default: false.
	ErrorTagging bool

	// Metrics receives instrumentation for worker/queue/heap occupancy
	// and yield latency (§4.12). Disabling it changes no scheduling
	// behavior.
	// Default: metrics.NewNoopProvider().
	Metrics metrics.Provider

	// Logger receives diagnostics for cancellation sweeps and for panics
	// recovered in a worker body by forkWith. A panic inside a Task is
	// recovered earlier and reported as an ErrTaskPanicked Stop error
	// without logging, and the CAS fallback path does not log. The core
	// never logs on the happy path.
	// Default: a discard logger.
	Logger *slog.Logger
}

// defaultConfig centralizes Config defaults, applied as the base every
// functional-option builder starts from.
func defaultConfig() Config {
	return Config{
		ThreadsHigh:   1500,
		BufferHigh:    1500,
		StreamRate:    -1,
		WorkerLatency: 0,
		YieldLimit:    0,
		ErrorTagging:  false,
		Metrics:       metrics.NewNoopProvider(),
		Logger:        slog.New(discardHandler{}),
	}
}
