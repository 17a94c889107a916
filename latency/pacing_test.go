package latency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDesiredWorkers_ZeroLatencyOrTargetFallsBackToOne(t *testing.T) {
	require.Equal(t, 1, DesiredWorkers(0, time.Second, 0, time.Millisecond, 10))
	require.Equal(t, 1, DesiredWorkers(0, time.Second, time.Millisecond, 0, 10))
}

func TestDesiredWorkers_ClampedToMaxWorkers(t *testing.T) {
	got := DesiredWorkers(1, time.Second, 10*time.Millisecond, time.Microsecond, 5)
	require.LessOrEqual(t, got, 5)
}

func TestDesiredWorkers_GrowsWithHigherLatencyPerYield(t *testing.T) {
	low := DesiredWorkers(1, time.Second, time.Millisecond, time.Millisecond, 10000)
	high := DesiredWorkers(1, time.Second, 100*time.Millisecond, time.Millisecond, 10000)
	require.Greater(t, high, low)
}

func TestSleepDeficit_ZeroWhenAlreadyBehindSchedule(t *testing.T) {
	d := SleepDeficit(1, time.Millisecond, time.Second)
	require.Equal(t, time.Duration(0), d)
}

func TestSleepDeficit_PositiveWhenAheadOfSchedule(t *testing.T) {
	d := SleepDeficit(1, time.Second, time.Millisecond)
	require.Greater(t, d, time.Duration(0))
}

func TestSleepDeficit_FloorsBelowMinDelayToZero(t *testing.T) {
	d := SleepDeficit(1, MinDelay/2, 0)
	require.Equal(t, time.Duration(0), d)
}
