package ssv

import (
	"log/slog"
	"time"

	"github.com/danmux/ssv/metrics"
)

// Option configures a Config. Options panic on nil (their own value or a
// nil argument they were given), matching the discipline the teacher's
// options.go applies to its own functional options.
type Option func(*Config)

// WithThreadsHigh caps the worker pool. Zero selects synchronous mode.
func WithThreadsHigh(n uint) Option {
	return func(c *Config) { c.ThreadsHigh = n }
}

// WithBufferHigh caps outstanding output events.
func WithBufferHigh(n uint) Option {
	return func(c *Config) { c.BufferHigh = n }
}

// WithStreamRate selects paced mode at the given target yields/s. A
// non-positive value selects bounded mode.
func WithStreamRate(r float64) Option {
	return func(c *Config) { c.StreamRate = r }
}

// WithWorkerLatency seeds the latency estimate before any worker has
// reported a real sample.
func WithWorkerLatency(d time.Duration) Option {
	return func(c *Config) { c.WorkerLatency = d }
}

// WithYieldLimit caps total yields across the SSV's lifetime.
func WithYieldLimit(n uint64) Option {
	return func(c *Config) { c.YieldLimit = n }
}

// WithErrorTagging enables wrapping worker errors with task correlation
// metadata (§4.11).
func WithErrorTagging() Option {
	return func(c *Config) { c.ErrorTagging = true }
}

// WithMetrics installs a metrics provider. Panics if p is nil.
func WithMetrics(p metrics.Provider) Option {
	return func(c *Config) {
		if p == nil {
			panic(Namespace + ": nil metrics provider")
		}
		c.Metrics = p
	}
}

// WithLogger installs a structured logger. Panics if l is nil.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l == nil {
			panic(Namespace + ": nil logger")
		}
		c.Logger = l
	}
}

// buildConfig assembles a Config from defaultConfig plus opts, in order.
func buildConfig(opts ...Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic(Namespace + ": nil option")
		}
		opt(&cfg)
	}
	return cfg
}
