package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrdered_EmptyDequeueFails(t *testing.T) {
	q := NewOrdered[string]()
	require.True(t, q.Empty())
	_, _, ok := q.Dequeue()
	require.False(t, ok)
}

func TestOrdered_EnqueueDequeueRoundTrip(t *testing.T) {
	q := NewOrdered[string]()
	require.NoError(t, q.Enqueue("a", 5))
	require.False(t, q.Empty())

	task, seq, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, "a", task)
	require.Equal(t, int64(5), seq)
	require.True(t, q.Empty())
}

func TestOrdered_EnqueueWhileOccupiedFails(t *testing.T) {
	q := NewOrdered[string]()
	require.NoError(t, q.Enqueue("first", 1))

	err := q.Enqueue("second", 2)
	require.ErrorIs(t, err, ErrSlotOccupied)

	task, seq, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, "first", task)
	require.Equal(t, int64(1), seq)
}

func TestOrdered_SlotReusableAfterDequeue(t *testing.T) {
	q := NewOrdered[string]()
	require.NoError(t, q.Enqueue("first", 1))
	_, _, _ = q.Dequeue()
	require.NoError(t, q.Enqueue("second", 2))

	task, seq, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, "second", task)
	require.Equal(t, int64(2), seq)
}
