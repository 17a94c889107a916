package ssv

import (
	"context"
	"runtime"
	"time"

	"github.com/danmux/ssv/latency"
)

// ReadOutput is the consumer's blocking read (§4.7): it drains whatever
// Stop/yield events are ready, dispatching workers as needed, and blocks
// only when there is truly nothing to report and the stream is not yet
// finished. A nil, empty return paired with PostProcess()==true means the
// SSV is done; a nil, empty return with a cancelled ctx means the caller
// should stop polling.
func (s *SSV) ReadOutput(ctx context.Context) []ChildEvent {
	for {
		if events := s.out.Drain(); len(events) > 0 {
			return events
		}
		if s.PostProcess() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if s.cfg.StreamRate > 0 {
			s.blockingReadPaced(ctx)
		} else {
			s.blockingReadBounded(ctx)
		}
	}
}

// boundedReadDelay returns the small fixed wait bounded mode takes before
// arming the doorbell and attempting a dispatch (§4.7: "10-100 µs tuned by
// style and CPU count"). Ahead pays a little more since a worker there may
// need to spawn a continuation before anything reaches the output queue;
// more CPUs narrow the delay since a dispatch attempt is cheaper to retry.
func boundedReadDelay(style Style) time.Duration {
	base := 50 * time.Microsecond
	switch style {
	case StyleAhead:
		base = 100 * time.Microsecond
	case StyleParallel:
		base = 10 * time.Microsecond
	}
	if n := runtime.NumCPU(); n > 1 {
		base /= time.Duration(n)
	}
	if base < 10*time.Microsecond {
		base = 10 * time.Microsecond
	}
	if base > 100*time.Microsecond {
		base = 100 * time.Microsecond
	}
	return base
}

// blockingReadBounded implements §4.7's bounded mode: wait a small fixed
// time, arm the doorbell, attempt a dispatch, then block on the doorbell
// for whatever comes next — a final Stop if the work is exhausted, or
// more output otherwise. Both cases reduce to the same wait since the
// doorbell fires for either reason.
func (s *SSV) blockingReadBounded(ctx context.Context) {
	t := time.NewTimer(boundedReadDelay(s.style))
	select {
	case <-t.C:
	case <-ctx.Done():
		t.Stop()
		return
	}
	t.Stop()

	s.bell.Arm()
	s.maybeDispatch()
	if s.out.Len() > 0 {
		return
	}
	s.bell.Wait(ctx, 0)
}

// blockingReadPaced implements §4.5's paced mode: fold the latency window
// collected since the last pass, compute the desired worker count, and
// either dispatch up to that count or, if nothing was dispatched, sleep
// the deficit before re-checking (§9 Open Question 1: until a first
// latency sample lands, measured is zero and this falls back to bounded
// behavior rather than blocking forever on an undefined pacing target).
func (s *SSV) blockingReadPaced(ctx context.Context) {
	maxBuffer := int64(s.cfg.BufferHigh)
	if maxBuffer <= 0 {
		maxBuffer = 1 << 20
	}
	s.latencyCounters.Collect(maxBuffer)

	l := s.latencyCounters.Measured()
	if l <= 0 {
		s.blockingReadBounded(ctx)
		return
	}

	now := time.Now()
	s.dispatchMu.Lock()
	duration := now.Sub(s.lastDispatch)
	s.lastDispatch = now
	s.dispatchMu.Unlock()

	e := time.Duration(float64(time.Second) / s.cfg.StreamRate)
	count := s.workers.Len()
	maxWorkers := s.effectiveMaxWorkers()
	if maxWorkers == 0 {
		maxWorkers = count + 1
	}
	desired := latency.DesiredWorkers(count, duration, l, e, maxWorkers)

	dispatched := 0
	for count+dispatched < desired && !s.strat.isWorkDone() {
		if max := s.effectiveMaxWorkers(); max > 0 && s.workers.Len() >= max {
			break
		}
		s.maybeDispatch()
		dispatched++
	}

	if dispatched > 0 {
		return
	}

	// net <= 0 and nothing dispatched above: if no worker is even running,
	// sleeping here would deadlock forever, since nothing left would ever
	// signal the doorbell for a producer's Enqueue to wake us (§4.5: "the
	// consumer ... dispatches a single worker with a computed yield
	// budget"). SleepDeficit(0, e, duration) is always <= 0 in this case,
	// so there is nothing useful to sleep for either.
	if count == 0 && !s.strat.isWorkDone() {
		s.dispatchBudgeted(latency.YieldBudget(l, e))
		return
	}

	if deficit := latency.SleepDeficit(count, e, duration); deficit > 0 {
		t := time.NewTimer(deficit)
		select {
		case <-t.C:
		case <-ctx.Done():
		}
		t.Stop()
		return
	}

	s.bell.Arm()
	if s.out.Len() > 0 {
		return
	}
	s.bell.Wait(ctx, 0)
}

// maybeDispatch forks one worker to drain the style's work queue, if any
// work remains and the worker-count ceiling allows it (§4.7: "fork a
// worker if isWorkDone = false AND worker-count < maxWorkers"). When
// Config.ThreadsHigh is zero, forkWith runs the worker loop synchronously
// on this goroutine instead of forking, so a single call here drains the
// whole remaining queue before returning.
func (s *SSV) maybeDispatch() {
	if s.strat.isWorkDone() {
		return
	}
	if max := s.effectiveMaxWorkers(); max > 0 && s.workers.Len() >= max {
		return
	}
	s.forkWith(0, func(ctx context.Context, info *WorkerInfo) error {
		return runWorkerLoop(ctx, s, info)
	})
}

// dispatchBudgeted force-dispatches a single worker carrying a finite
// yield budget (§4.5's "computed yield budget"), used only by
// blockingReadPaced when the desired-worker formula says not to grow the
// pool but zero workers are currently running to ever produce one.
func (s *SSV) dispatchBudgeted(budget uint64) {
	if s.strat.isWorkDone() {
		return
	}
	s.forkWith(budget, func(ctx context.Context, info *WorkerInfo) error {
		return runWorkerLoop(ctx, s, info)
	})
}

// runWorkerLoop repeatedly asks the style's strategy for another step
// (§4.7's dispatched worker body for every style but Ahead's token-0 and
// Parallel's push-worker-par, which run a single pre-bound task instead).
// It stops on the first error, on context cancellation, on hitting
// Config.YieldLimit, on reaching its own budgeted yield cap, or when
// periodic inspection finds the pool now has more workers than paced
// mode's formula currently wants (§4.5 "surplus shedding") — or once the
// strategy reports no more steps are ready.
func runWorkerLoop(ctx context.Context, s *SSV, info *WorkerInfo) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.yieldLimitReached() {
			return nil
		}
		if info.atCap() {
			return nil
		}
		if s.isSurplus() {
			return nil
		}
		ok, err := s.strat.step(ctx, s, info)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
