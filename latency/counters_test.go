package latency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCounters_MeasuredZeroBeforeAnyRecord(t *testing.T) {
	c := &Counters{}
	require.Equal(t, time.Duration(0), c.Measured())
}

func TestCounters_SeedMeasuredOnlyAppliesOnce(t *testing.T) {
	c := &Counters{}
	c.SeedMeasured(5 * time.Millisecond)
	require.Equal(t, 5*time.Millisecond, c.Measured())

	c.SeedMeasured(9 * time.Millisecond)
	require.Equal(t, 5*time.Millisecond, c.Measured(), "seed is a no-op once a value is set")
}

func TestCounters_CollectDerivesMeasuredOnFirstSample(t *testing.T) {
	c := &Counters{}
	c.RecordCurrent(100, 10*time.Millisecond)
	c.Collect(1000)

	require.Equal(t, 100*time.Microsecond, c.Measured())
}

func TestCounters_CollectAccumulatesBelowBufferThreshold(t *testing.T) {
	c := &Counters{}
	c.SeedMeasured(100 * time.Microsecond)

	// A tiny window that doesn't cross maxBuffer, MinDelay, or the 2x
	// reestimate band should just accumulate into collected, not
	// overwrite measured.
	c.RecordCurrent(1, 100*time.Microsecond)
	c.Collect(1_000_000)

	require.Equal(t, 100*time.Microsecond, c.Measured())
}

func TestCounters_CollectReestimatesOnLargeRatioJump(t *testing.T) {
	c := &Counters{}
	c.SeedMeasured(10 * time.Microsecond)

	// 50x slower than the seed should force a re-measurement even
	// though the sample is small: it stays under both MinDelay and
	// maxBuffer, so only the 2x band can trigger it.
	c.RecordCurrent(1, 500*time.Microsecond)
	c.Collect(1_000_000)

	require.Equal(t, 500*time.Microsecond, c.Measured())
}

func TestCounters_LongTermRateTracksTotalYields(t *testing.T) {
	c := &Counters{}
	n, elapsed := c.LongTermRate()
	require.Zero(t, n)
	require.Zero(t, elapsed)

	c.RecordCurrent(10, time.Millisecond)
	c.RecordCurrent(5, time.Millisecond)

	n, elapsed = c.LongTermRate()
	require.Equal(t, int64(15), n)
	require.GreaterOrEqual(t, elapsed, time.Duration(0))
}

func TestPeriod_BoundedByMaxBufferAndAtLeastOne(t *testing.T) {
	require.Equal(t, int64(1), Period(0, 1000))
	require.Equal(t, int64(1), Period(10*time.Second, 1000))

	p := Period(time.Microsecond, 10)
	require.Equal(t, int64(10), p, "clamped to maxBuffer")
}
