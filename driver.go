package ssv

import (
	"context"

	"code.hybscloud.com/atomix"
)

// Enqueuer is the narrow handle a Gather/Wait producer callback uses to
// seed tasks into the driver's root SSV (§6.1). It exists so produce
// never sees the SSV's own lifecycle methods (CancelAll, ReadOutput) —
// only the ability to submit work.
type Enqueuer struct {
	ssv   *SSV
	first atomix.Bool
}

// Enqueue submits task to the root SSV. For every style but Ahead this
// forks or queues task exactly like SSV.Enqueue. Ahead has no upfront
// firstTask parameter to carry the token-0 task, so the very first call
// an Enqueuer ever sees becomes that token holder (forkToken0); every
// later call goes through the ordered work queue like any other Ahead
// Enqueue.
func (e *Enqueuer) Enqueue(task Task) error {
	if e.ssv.style == StyleAhead && e.first.CompareAndSwapAcqRel(false, true) {
		e.ssv.forkToken0(task)
		return nil
	}
	return e.ssv.Enqueue(task)
}

// DriverOption configures Gather/Wait's root SSV (§6.1), independently of
// the Config passed alongside it.
type DriverOption func(*driverConfig)

type driverConfig struct {
	style Style
}

// WithGatherStyle selects which construction style backs Gather/Wait's
// root SSV. The default, if omitted, is Parallel — unbounded fan-out,
// completion-order output. StyleAhead instead preserves source order
// (§5): the first task an Enqueuer sees becomes the token-0 task, and
// Gather's result slice lands in the order produce submitted tasks rather
// than the order they completed.
func WithGatherStyle(style Style) DriverOption {
	return func(c *driverConfig) { c.style = style }
}

func buildDriverConfig(opts []DriverOption) driverConfig {
	c := driverConfig{style: StyleParallel}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// newRootSSV builds a style's SSV with no first task yet forked, for
// Gather/Wait to hand to produce via an Enqueuer. Parallel mirrors
// NewParallelSSV (§4.8: unbounded output, no buffer backpressure); the
// other styles otherwise use Config as given.
func newRootSSV(ctx context.Context, style Style, cfg Config) *SSV {
	switch style {
	case StyleAhead:
		return newSSV(ctx, StyleAhead, newAheadStrategy(), cfg)
	case StyleAsync:
		return newSSV(ctx, StyleAsync, newLIFOStrategy(), cfg)
	case StyleWAsync:
		return newSSV(ctx, StyleWAsync, newFIFOStrategy(), cfg)
	default:
		cfg.BufferHigh = 0
		return newSSV(ctx, StyleParallel, newParallelStrategy(), cfg)
	}
}

// Gather runs produce against a fresh root SSV and collects every yielded
// value into a slice, in the order the consumer observed them — source
// order for Ahead (WithGatherStyle(StyleAhead)), completion order
// otherwise (§6.1, §4.9, §5; grounded on the teacher's RunAll). The first
// Stop event carrying an error cancels every other worker and is
// returned; a clean run returns every yielded value and a nil error.
func Gather(ctx context.Context, cfg Config, produce func(*Enqueuer) error, opts ...DriverOption) ([]any, error) {
	dc := buildDriverConfig(opts)
	cfg.YieldLimit = 0
	s := newRootSSV(ctx, dc.style, cfg)

	if err := produce(&Enqueuer{ssv: s}); err != nil {
		_ = s.CancelAll()
		return nil, err
	}

	var results []any
	for {
		events := s.ReadOutput(ctx)
		for _, ev := range events {
			if ev.IsStop() {
				if err := ev.Err(); err != nil {
					_ = s.CancelAll()
					return results, err
				}
				continue
			}
			results = append(results, ev.Value())
		}
		if s.PostProcess() {
			return results, nil
		}
		if ctx.Err() != nil {
			_ = s.CancelAll()
			return results, ctx.Err()
		}
	}
}

// Wait runs produce the same way Gather does but discards yielded values,
// reporting only the terminal error (§6.1, grounded on the teacher's
// RunStream, which likewise forwards only errors to its caller by
// default).
func Wait(ctx context.Context, cfg Config, produce func(*Enqueuer) error, opts ...DriverOption) error {
	dc := buildDriverConfig(opts)
	cfg.YieldLimit = 0
	s := newRootSSV(ctx, dc.style, cfg)

	if err := produce(&Enqueuer{ssv: s}); err != nil {
		_ = s.CancelAll()
		return err
	}

	for {
		events := s.ReadOutput(ctx)
		for _, ev := range events {
			if ev.IsStop() {
				if err := ev.Err(); err != nil {
					_ = s.CancelAll()
					return err
				}
			}
		}
		if s.PostProcess() {
			return nil
		}
		if ctx.Err() != nil {
			_ = s.CancelAll()
			return ctx.Err()
		}
	}
}
