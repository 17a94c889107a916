package ssv

import (
	"context"
	"time"

	"code.hybscloud.com/atomix"
)

// WorkerInfo tracks one worker's lifetime bookkeeping (§3 Data Model): its
// identity, its optional per-worker yield cap, and the counters it uses to
// self-report latency every latency.Period yields.
type WorkerInfo struct {
	ID       uint64
	YieldMax uint64 // 0 = unlimited

	yieldsSoFar  atomix.Int64
	windowStartN int64
	windowStart  time.Time
}

// Reset reinitializes a WorkerInfo for reuse by pool.Pool, so a recycled
// record carries no state from whatever worker used it last.
func (w *WorkerInfo) Reset(id uint64, yieldMax uint64) {
	w.ID = id
	w.YieldMax = yieldMax
	w.yieldsSoFar.StoreRelaxed(0)
	w.windowStartN = 0
	w.windowStart = time.Now()
}

// recordYield increments this worker's yield count and reports whether it
// has now reached its own YieldMax (0 means never).
func (w *WorkerInfo) recordYield() (atCap bool) {
	n := w.yieldsSoFar.AddAcqRel(1)
	return w.YieldMax > 0 && uint64(n) >= w.YieldMax
}

// atCap reports whether this worker has already reached its own YieldMax,
// without incrementing anything. runWorkerLoop uses this to self-terminate
// a budgeted worker between tasks (§4.5: "its yield count equals its
// cap") instead of looping uselessly once every further yield attempt
// would be refused anyway.
func (w *WorkerInfo) atCap() bool {
	return w.YieldMax > 0 && uint64(w.yieldsSoFar.LoadAcquire()) >= w.YieldMax
}

// maybeReportLatency folds elapsed work time into the shared latency
// counters every latency.Period(measured, maxBuffer) yields, the
// self-reporting cadence §4.5 describes.
func (w *WorkerInfo) maybeReportLatency(ssv *SSV) {
	n := w.yieldsSoFar.LoadAcquire()
	period := currentPeriod(ssv)
	if n-w.windowStartN < period {
		return
	}
	dt := time.Since(w.windowStart)
	count := n - w.windowStartN
	ssv.latencyCounters.RecordCurrent(count, dt)
	if count > 0 {
		ssv.m.yieldLatency.Record(dt.Seconds() / float64(count))
	}
	w.windowStartN = n
	w.windowStart = time.Now()
}

// runInline executes task directly on the calling goroutine, pushing each
// yielded value straight to the output queue and applying backpressure and
// the yield-limit/per-worker-cap cutoffs inline. This is the execution
// path for every style except Ahead, whose token protocol needs the
// pausable spawnTask form instead (style_ahead.go).
//
// Panics are converted into a Stop-bearing error the same way the
// teacher's worker.execute recovers a panicking task: defer, recover,
// wrap, return.
func runInline(ctx context.Context, ssv *SSV, info *WorkerInfo, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = taggedPanic(r)
		}
	}()

	yield := func(v any) bool {
		if ssv.yieldLimitReached() {
			return false
		}
		if ssv.style != StyleParallel && ssv.cfg.BufferHigh > 0 && ssv.out.Len() >= int64(ssv.cfg.BufferHigh) {
			return false
		}
		ssv.out.Push(yieldEvent(v))
		ssv.totalYields.AddAcqRel(1)
		if atCap := info.recordYield(); atCap {
			return false
		}
		info.maybeReportLatency(ssv)
		return true
	}

	return task.Run(ctx, yield)
}
