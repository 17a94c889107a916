package ssv

import (
	"context"
	"sync"
	"time"

	"code.hybscloud.com/atomix"

	"github.com/danmux/ssv/latency"
	"github.com/danmux/ssv/metrics"
	"github.com/danmux/ssv/pool"
	"github.com/danmux/ssv/reorder"
)

// SSV is a Stream Scheduler Variable: the scheduling core shared by all
// four construction styles (§3 Data Model).
type SSV struct {
	style Style
	cfg   Config

	ctx    context.Context
	cancel context.CancelFunc

	bell    *doorbell
	out     *outputQueue
	workers *workerSet
	strat   strategy

	latencyCounters *latency.Counters
	infoPool        pool.Pool

	nextWorkerID atomix.Uint64
	totalYields  atomix.Int64

	cancelling atomix.Bool
	doneFlag   atomix.Bool

	dispatchMu   sync.Mutex
	lastDispatch time.Time

	m metricHandles
}

type metricHandles struct {
	active       metrics.UpDownCounter
	dispatched   metrics.Counter
	outputLen    metrics.UpDownCounter
	heapSize     metrics.UpDownCounter
	yieldLatency metrics.Histogram
}

func newMetricHandles(p metrics.Provider) metricHandles {
	return metricHandles{
		active:       p.UpDownCounter("ssv.workers.active", metrics.WithUnit("1")),
		dispatched:   p.Counter("ssv.workers.dispatched", metrics.WithUnit("1")),
		outputLen:    p.UpDownCounter("ssv.output.len", metrics.WithUnit("1")),
		heapSize:     p.UpDownCounter("ssv.heap.size", metrics.WithUnit("1")),
		yieldLatency: p.Histogram("ssv.yield.latency", metrics.WithUnit("seconds")),
	}
}

// newInfoPool picks a worker-info pool shaped to the style's concurrency
// profile (§4.6): Parallel forks unboundedly, so its pool grows and shrinks
// with GC pressure via pool.NewDynamic; the queue-backed styles run under a
// firm ThreadsHigh ceiling, so a pool pre-sized to that ceiling via
// pool.NewFixed avoids churn entirely once it's warm.
func newInfoPool(style Style, cfg Config) pool.Pool {
	newFn := func() interface{} { return &WorkerInfo{} }
	if style == StyleParallel || cfg.ThreadsHigh == 0 {
		return pool.NewDynamic(newFn)
	}
	return pool.NewFixed(cfg.ThreadsHigh, newFn)
}

func newSSV(ctx context.Context, style Style, strat strategy, cfg Config) *SSV {
	ctx, cancel := context.WithCancel(ctx)
	bell := newDoorbell()
	m := newMetricHandles(cfg.Metrics)
	s := &SSV{
		style:           style,
		cfg:             cfg,
		ctx:             ctx,
		cancel:          cancel,
		bell:            bell,
		out:             newOutputQueue(bell, m.outputLen),
		workers:         newWorkerSet(bell),
		strat:           strat,
		latencyCounters: &latency.Counters{},
		infoPool:        newInfoPool(style, cfg),
		lastDispatch:    time.Now(),
		m:               m,
	}
	if cfg.WorkerLatency > 0 {
		s.latencyCounters.SeedMeasured(cfg.WorkerLatency)
	}
	return s
}

// NewAheadSSV constructs an Ahead-style SSV: firstTask runs immediately
// holding the token at seq 0, and source order is preserved via the
// reorder heap for everything enqueued after it (§4.8).
func NewAheadSSV(ctx context.Context, firstTask Task, opts ...Option) *SSV {
	cfg := buildConfig(opts...)
	strat := newAheadStrategy()
	s := newSSV(ctx, StyleAhead, strat, cfg)
	s.forkToken0(firstTask)
	return s
}

// NewParallelSSV constructs a Parallel-style SSV: firstTask is forked
// immediately into its own worker, output is unbounded (§3 invariant 7),
// and every subsequent PushWorkerPar call forks another worker right away.
func NewParallelSSV(ctx context.Context, firstTask Task, opts ...Option) *SSV {
	cfg := buildConfig(opts...)
	cfg.BufferHigh = 0 // unbounded, per invariant 7
	strat := newParallelStrategy()
	s := newSSV(ctx, StyleParallel, strat, cfg)
	s.PushWorkerPar(firstTask)
	return s
}

// NewAsyncSSV constructs an Async-LIFO-style SSV: work-stealing over a
// Treiber stack, depth-first, completion-order output.
func NewAsyncSSV(ctx context.Context, firstTask Task, opts ...Option) *SSV {
	cfg := buildConfig(opts...)
	strat := newLIFOStrategy()
	s := newSSV(ctx, StyleAsync, strat, cfg)
	_ = strat.enqueue(firstTask)
	return s
}

// NewWAsyncSSV constructs a WAsync-FIFO-style SSV: work-stealing over a
// Michael-Scott queue, breadth-first, completion-order output.
func NewWAsyncSSV(ctx context.Context, firstTask Task, opts ...Option) *SSV {
	cfg := buildConfig(opts...)
	strat := newFIFOStrategy()
	s := newSSV(ctx, StyleWAsync, strat, cfg)
	_ = strat.enqueue(firstTask)
	return s
}

// forkToken0 starts the Ahead style's very first task directly, bypassing
// the work queue entirely — it is, by construction, already the token
// holder at seq 0 (§4.2 invariant 3: "the front task runs directly on the
// producing thread").
func (s *SSV) forkToken0(task Task) {
	strat := s.strat.(*aheadStrategy)
	s.forkWith(0, func(ctx context.Context, info *WorkerInfo) error {
		out, resume, done := spawnTask(ctx, task)
		return strat.drive(ctx, s, info, 0, &reorder.StreamTail{Out: out, Resume: resume, Done: done})
	})
}

// Enqueue submits task for later execution (§6 external interfaces). For
// Ahead this assigns the next sequence number; for Async/WAsync it pushes
// onto the style's work queue; for Parallel it forks a worker immediately,
// identical to PushWorkerPar.
func (s *SSV) Enqueue(task Task) error {
	if s.style == StyleParallel {
		s.PushWorkerPar(task)
		return nil
	}
	return s.strat.enqueue(task)
}

// PushWorkerPar forks a new worker to run task immediately, the
// always-unbounded-fan-out path (§6 "push-worker-par").
func (s *SSV) PushWorkerPar(task Task) {
	s.forkWith(0, func(ctx context.Context, info *WorkerInfo) error {
		return runInline(ctx, s, info, task)
	})
}

// forkWith registers a new worker and runs body either on a new goroutine
// or, when Config.ThreadsHigh is zero, synchronously on the caller's own
// goroutine (§6 thread-limit-zero scenario: the computation still
// completes without a worker goroutine; see Config.ThreadsHigh for which
// goroutine that is per style).
// yieldMax is the worker's own yield cap (0 means unlimited); paced mode's
// forced single-worker dispatch is the only caller that ever passes a
// nonzero value (§4.5 "computed yield budget").
func (s *SSV) forkWith(yieldMax uint64, body func(ctx context.Context, info *WorkerInfo) error) {
	info := s.infoPool.Get().(*WorkerInfo)
	id := s.nextWorkerID.AddAcqRel(1)
	info.Reset(id, yieldMax)

	s.workers.Toggle(id)
	s.m.active.Add(1)
	s.m.dispatched.Add(1)

	run := func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = taggedPanic(r)
				s.cfg.Logger.Error("ssv: worker panicked", "worker_id", info.ID, "panic", r)
			}
			s.workerExit(info, err)
		}()
		err = body(s.ctx, info)
	}

	if s.cfg.ThreadsHigh == 0 {
		run()
		return
	}
	go run()
}

// workerExit implements the exit protocol (§4.6): flush the worker's
// unreported latency window, unregister the worker, return its
// bookkeeping to the pool, and post a Stop event.
func (s *SSV) workerExit(info *WorkerInfo, err error) {
	if n := info.yieldsSoFar.LoadAcquire() - info.windowStartN; n > 0 {
		s.latencyCounters.RecordCurrent(n, time.Since(info.windowStart))
	}
	s.workers.Toggle(info.ID)
	s.m.active.Add(-1)
	s.infoPool.Put(info)
	s.out.Push(stopEvent(info.ID, err))
}

// yieldLimitReached reports whether Config.YieldLimit has been hit.
func (s *SSV) yieldLimitReached() bool {
	return s.cfg.YieldLimit > 0 && uint64(s.totalYields.LoadAcquire()) >= s.cfg.YieldLimit
}

// currentPeriod returns how many yields should elapse between a worker's
// latency self-reports, given the current measured estimate.
func currentPeriod(s *SSV) int64 {
	l := s.latencyCounters.Measured()
	maxBuffer := int64(s.cfg.BufferHigh)
	if maxBuffer <= 0 {
		maxBuffer = 1 << 20
	}
	return latency.Period(l, maxBuffer)
}

// effectiveMaxWorkers returns the dispatcher's worker ceiling (§9 Open
// Question 2): the SSV's own Config.ThreadsHigh, or 0 in synchronous mode.
// maybeDispatch, blockingReadPaced and the surplus check all read it here,
// so they share one source rather than a hardcoded constant. The Config is
// copied when the SSV is built; later changes to the caller's Config value
// do not reach an SSV already constructed.
func (s *SSV) effectiveMaxWorkers() int {
	if s.cfg.ThreadsHigh == 0 {
		return 0
	}
	return int(s.cfg.ThreadsHigh)
}

// desiredWorkerCount computes §4.5's DesiredWorkers from the SSV's live
// latency estimate and the time elapsed since the last dispatch decision,
// without advancing that clock — a read-only snapshot so a worker's
// periodic surplus check (isSurplus) doesn't perturb blockingReadPaced's
// own bookkeeping. Returns 0 (never surplus) outside paced mode or before
// a first latency sample lands.
func (s *SSV) desiredWorkerCount() int {
	if s.cfg.StreamRate <= 0 {
		return 0
	}
	l := s.latencyCounters.Measured()
	if l <= 0 {
		return 0
	}
	s.dispatchMu.Lock()
	duration := time.Since(s.lastDispatch)
	s.dispatchMu.Unlock()

	e := time.Duration(float64(time.Second) / s.cfg.StreamRate)
	count := s.workers.Len()
	maxWorkers := s.effectiveMaxWorkers()
	if maxWorkers == 0 {
		maxWorkers = count + 1
	}
	return latency.DesiredWorkers(count, duration, l, e, maxWorkers)
}

// isSurplus reports whether the current worker count now exceeds the
// desired count (§4.5 "surplus shedding"): a dispatched worker calls this
// between steps and self-terminates rather than keep claiming work a
// leaner pool could finish alone. Bounded mode has no pacing target and
// never sheds. The desired count is floored at 1 while work remains: the
// formula may say net <= 0, but blockingReadPaced's forced single-worker
// dispatch guarantees at least one worker is always allowed to exist, so
// shedding must never contradict that floor.
func (s *SSV) isSurplus() bool {
	if s.cfg.StreamRate <= 0 {
		return false
	}
	desired := s.desiredWorkerCount()
	if desired < 1 {
		desired = 1
	}
	return s.workers.Len() > desired
}

// PostProcess reports whether the stream is finished: no more work can
// ever become available, no workers are running, and the output queue has
// nothing left to drain (§6 "post-process"). It is idempotent: once it
// reports true it keeps reporting true.
func (s *SSV) PostProcess() bool {
	if s.doneFlag.LoadAcquire() {
		return true
	}
	done := s.strat.isWorkDone() && s.workers.Len() == 0 && s.out.Len() == 0
	if done {
		s.doneFlag.StoreRelease(true)
	}
	return done
}

// CancelAll tears the SSV down: cancels its context (the only kill
// primitive available to cooperating goroutines in Go), drains whatever
// Stop events are already queued, and aggregates their errors (§4.6, §7
// kind 2). Safe to call more than once; only the first call does work.
func (s *SSV) CancelAll() error {
	if !s.cancelling.CompareAndSwapAcqRel(false, true) {
		return nil
	}
	s.cfg.Logger.Warn("ssv: cancelling", "style", s.style, "workers_active", s.workers.Len())
	s.cancel()

	deadline := time.NewTimer(2 * time.Second)
	defer deadline.Stop()
	var errs []error
	for s.workers.Len() > 0 {
		events := s.out.Drain()
		for _, ev := range events {
			if ev.IsStop() && ev.Err() != nil {
				errs = append(errs, ev.Err())
			}
		}
		if len(events) == 0 {
			select {
			case <-deadline.C:
				s.workers.Clear()
			case <-time.After(time.Millisecond):
			}
		}
	}
	s.workers.Clear()
	return wrapCancelError(joinErrors(errs), len(errs))
}
