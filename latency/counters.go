// Package latency implements the scheduler's self-measuring latency
// accounting (§4.5): the current/collected/measured/long-term counters a
// worker feeds and the dispatcher reads back to size its worker pool.
package latency

import (
	"time"

	"code.hybscloud.com/atomix"
)

// MinDelay is the smallest interval the pacing model treats as
// significant; windows smaller than this are left to accumulate further
// before being folded into a new measurement.
const MinDelay = time.Millisecond

// Window is a (yield count, elapsed work time) accounting pair.
type Window struct {
	N  int64
	Dt time.Duration
}

// Counters holds the four SSV-wide latency cells from §4.5. Each field is
// independently atomic; per the data model's ownership rule there is no
// lock spanning them — Collect tolerates the resulting look-then-act
// slack, since the model is explicitly best-effort (§1 Non-goals).
type Counters struct {
	currentN    atomix.Int64
	currentDt   atomix.Int64 // nanoseconds
	collectedN  atomix.Int64
	collectedDt atomix.Int64
	measured    atomix.Int64 // ns/yield; 0 = not yet measured
	longTermN   atomix.Int64
	longTermT0  atomix.Int64 // unix nanos of first sample; 0 = not started
}

// RecordCurrent folds a worker's self-reported sample into the current
// window. A worker calls this every Period(L, maxBuffer) yields.
func (c *Counters) RecordCurrent(n int64, dt time.Duration) {
	if c.longTermT0.LoadAcquire() == 0 {
		c.longTermT0.CompareAndSwapAcqRel(0, time.Now().UnixNano())
	}
	c.currentN.AddAcqRel(n)
	c.currentDt.AddAcqRel(int64(dt))
	c.longTermN.AddAcqRel(n)
}

// takeCurrent atomically reads and resets the current window. atomix
// exposes no single-instruction swap, so this is a manual CAS-retry swap:
// read both fields, CAS the count back to zero against the value just
// read, then subtract the duration just read. A concurrent RecordCurrent
// landing after the reads is left out of this collection pass and picked
// up by the next one — acceptable under the best-effort pacing contract.
func (c *Counters) takeCurrent() Window {
	for {
		n := c.currentN.LoadAcquire()
		dt := c.currentDt.LoadAcquire()
		if c.currentN.CompareAndSwapAcqRel(n, 0) {
			c.currentDt.AddAcqRel(-dt)
			return Window{N: n, Dt: time.Duration(dt)}
		}
	}
}

func (c *Counters) collected() Window {
	return Window{N: c.collectedN.LoadAcquire(), Dt: time.Duration(c.collectedDt.LoadAcquire())}
}

func (c *Counters) setCollected(w Window) {
	c.collectedN.StoreRelease(w.N)
	c.collectedDt.StoreRelease(int64(w.Dt))
}

// Measured returns the current smoothed per-yield latency estimate, or
// zero if no measurement has happened yet (§4.5 bootstrap, Open Question
// 1: a caller should seed this via SeedMeasured from Config.WorkerLatency
// before relying on it).
func (c *Counters) Measured() time.Duration {
	return time.Duration(c.measured.LoadAcquire())
}

// SeedMeasured installs an initial measured latency if none has been
// recorded yet. It is a no-op once a real measurement has landed.
func (c *Counters) SeedMeasured(l time.Duration) {
	c.measured.CompareAndSwapAcqRel(0, int64(l))
}

// Collect is the consumer-side half of §4.5: fold the current window into
// collected, and re-derive Measured() once enough mass has accumulated —
// either the buffer cap is exceeded, MinDelay has elapsed, there is no
// prior measurement, or the new estimate would move by more than 2x.
func (c *Counters) Collect(maxBuffer int64) {
	cur := c.takeCurrent()
	if cur.N == 0 {
		return
	}
	prev := c.collected()
	pending := Window{N: prev.N + cur.N, Dt: prev.Dt + cur.Dt}

	prevMeasured := c.Measured()
	shouldMeasure := pending.N > maxBuffer || pending.Dt > MinDelay || prevMeasured == 0
	if !shouldMeasure {
		candidate := pending.Dt / time.Duration(pending.N)
		ratio := float64(candidate) / float64(prevMeasured)
		if ratio > 2 || ratio < 0.5 {
			shouldMeasure = true
		}
	}

	if !shouldMeasure {
		c.setCollected(pending)
		return
	}
	c.measured.StoreRelease(int64(pending.Dt / time.Duration(pending.N)))
	c.setCollected(Window{})
}

// LongTermRate returns the total yields recorded and the wall-clock
// elapsed since the first one, for long-term throughput diagnostics.
func (c *Counters) LongTermRate() (n int64, elapsed time.Duration) {
	t0 := c.longTermT0.LoadAcquire()
	n = c.longTermN.LoadAcquire()
	if t0 == 0 {
		return n, 0
	}
	return n, time.Since(time.Unix(0, t0))
}

// Period returns how many yields a worker should perform between
// self-reports: max(1, min(MinDelay/L, maxBuffer)).
func Period(l time.Duration, maxBuffer int64) int64 {
	if l <= 0 {
		return 1
	}
	p := int64(MinDelay / l)
	if p > maxBuffer {
		p = maxBuffer
	}
	if p < 1 {
		p = 1
	}
	return p
}
