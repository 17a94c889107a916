package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFIFO_EmptyPopFails(t *testing.T) {
	q := NewFIFO[int]()
	require.True(t, q.Empty())
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestFIFO_PushPopIsFirstInFirstOut(t *testing.T) {
	q := NewFIFO[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)
	require.False(t, q.Empty())

	for _, want := range []int{1, 2, 3} {
		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, v)
	}
	require.True(t, q.Empty())
}

func TestFIFO_ConcurrentProducersSingleConsumer(t *testing.T) {
	q := NewFIFO[int]()
	const producers = 20
	const perProducer = 200
	const total = producers * perProducer

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(base*perProducer + i)
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[int]struct{}, total)
	for len(seen) < total {
		v, ok := q.Pop()
		require.True(t, ok)
		seen[v] = struct{}{}
	}
	require.Len(t, seen, total)
	require.True(t, q.Empty())
}
