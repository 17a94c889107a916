package ssv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Scenario 5 (spec §8): paced rate. A single producer yields roughly once
// per millisecond (simulating real per-yield work so latency.Counters has
// something non-zero to measure), driven by a 1000 yields/s paced SSV.
// Over a 2s window the observed yield count should land near the target
// rate, well inside the scenario's generous [500, 2000] band. This test
// exercises ReadOutput/blockingReadPaced end-to-end rather than the pure
// latency.DesiredWorkers/SleepDeficit functions in isolation.
func TestScenario_PacedRate(t *testing.T) {
	task := TaskFunc(func(ctx context.Context, yield func(v any) bool) error {
		for i := 1; ; i++ {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Millisecond):
			}
			if !yield(i) {
				return nil
			}
		}
	})

	s := NewWAsyncSSV(context.Background(), task, WithStreamRate(1000), WithBufferHigh(10000))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var count int
	for ctx.Err() == nil {
		for _, ev := range s.ReadOutput(ctx) {
			if !ev.IsStop() {
				count++
			}
		}
	}
	require.NoError(t, s.CancelAll())

	require.GreaterOrEqual(t, count, 500)
	require.LessOrEqual(t, count, 2000)
}

// blockingReadPaced's forced single-worker dispatch (§4.5): when the
// desired-worker formula says net <= 0 but no worker is currently
// running, a worker must still be force-dispatched so a producer's
// Enqueue is never left with nothing to ever signal the doorbell again.
func TestBlockingReadPaced_ForceDispatchesWhenNoWorkerRunning(t *testing.T) {
	s := NewWAsyncSSV(context.Background(), TaskValues(1), WithStreamRate(1000))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	values, errs := splitEvents(drainAll(t, s, 2*time.Second))
	require.Empty(t, errs)
	require.Equal(t, []any{1}, values)

	require.NoError(t, s.Enqueue(TaskValues(2)))

	s.dispatchMu.Lock()
	s.lastDispatch = time.Now()
	s.dispatchMu.Unlock()
	s.latencyCounters.SeedMeasured(time.Microsecond)

	s.blockingReadPaced(ctx)

	events := s.out.Drain()
	deadline := time.After(time.Second)
	for len(events) == 0 {
		select {
		case <-deadline:
			t.Fatal("forced dispatch never produced output for the second task")
		case <-time.After(time.Millisecond):
		}
		events = s.out.Drain()
	}
	more, moreErrs := splitEvents(events)
	require.Empty(t, moreErrs)
	require.Contains(t, more, 2)
}
