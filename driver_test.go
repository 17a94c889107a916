package ssv

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGather_CollectsEveryYieldedValue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	results, err := Gather(ctx, buildConfig(), func(e *Enqueuer) error {
		require.NoError(t, e.Enqueue(TaskValues(1, 2, 3)))
		require.NoError(t, e.Enqueue(TaskValues(4, 5, 6)))
		return nil
	})
	require.NoError(t, err)

	ints := make([]int, len(results))
	for i, v := range results {
		ints[i] = v.(int)
	}
	sort.Ints(ints)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, ints)
}

func TestGather_AheadStyleCollectsInSourceOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	results, err := Gather(ctx, buildConfig(), func(e *Enqueuer) error {
		require.NoError(t, e.Enqueue(TaskValues(1, 2, 3)))
		require.NoError(t, e.Enqueue(TaskValues(4, 5, 6)))
		return nil
	}, WithGatherStyle(StyleAhead))
	require.NoError(t, err)
	require.Equal(t, []any{1, 2, 3, 4, 5, 6}, results)
}

func TestGather_ProduceErrorCancelsBeforeRunning(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	wantErr := errors.New("setup failed")
	results, err := Gather(ctx, buildConfig(), func(*Enqueuer) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	require.Empty(t, results)
}

func TestGather_FirstWorkerErrorPropagatesAndCancelsSiblings(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	boom := errors.New("boom")
	_, err := Gather(ctx, buildConfig(), func(e *Enqueuer) error {
		return e.Enqueue(TaskFunc(func(context.Context, func(any) bool) error {
			return boom
		}))
	})
	require.ErrorIs(t, err, boom)
}

func TestWait_DiscardsValuesReportsNilOnSuccess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := Wait(ctx, buildConfig(), func(e *Enqueuer) error {
		return e.Enqueue(TaskValues(1, 2, 3))
	})
	require.NoError(t, err)
}

func TestWait_ReportsTerminalError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	boom := errors.New("boom")
	err := Wait(ctx, buildConfig(), func(e *Enqueuer) error {
		return e.Enqueue(TaskError(boom))
	})
	require.ErrorIs(t, err, boom)
}
