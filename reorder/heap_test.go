package reorder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeap_EmptyHasNothingClaimable(t *testing.T) {
	h := NewHeap()
	require.True(t, h.Empty())
	require.False(t, h.PeekReady())

	_, ok := h.TryClaim()
	require.False(t, ok)
}

func TestHeap_TryClaimOnlyReturnsEntryAtCurrentSeq(t *testing.T) {
	h := NewHeap()
	tail1 := &StreamTail{}
	tail2 := &StreamTail{}

	// Push seq 1 before seq 0: only seq 0 (the current token) is claimable.
	h.Push(Entry{Seq: 1, Tail: tail1})
	require.Equal(t, 1, h.Len())
	require.False(t, h.PeekReady())
	_, ok := h.TryClaim()
	require.False(t, ok)

	h.Push(Entry{Seq: 0, Tail: tail2})
	require.Equal(t, 2, h.Len())
	require.True(t, h.PeekReady())

	entry, ok := h.TryClaim()
	require.True(t, ok)
	require.Equal(t, int64(0), entry.Seq)
	require.Same(t, tail2, entry.Tail)

	// current-seq has not advanced yet: seq 1 is still not claimable.
	require.Equal(t, int64(0), h.CurrentSeq())
	_, ok = h.TryClaim()
	require.False(t, ok)
}

func TestHeap_AdvanceUnlocksNextSeq(t *testing.T) {
	h := NewHeap()
	h.Push(Entry{Seq: 0, Tail: &StreamTail{}})

	entry, ok := h.TryClaim()
	require.True(t, ok)
	require.Equal(t, int64(0), entry.Seq)

	h.Advance()
	require.Equal(t, int64(1), h.CurrentSeq())

	h.Push(Entry{Seq: 1, Tail: &StreamTail{}})
	require.True(t, h.PeekReady())

	entry, ok = h.TryClaim()
	require.True(t, ok)
	require.Equal(t, int64(1), entry.Seq)
}

func TestHeap_OrdersMultipleParkedEntriesBySeq(t *testing.T) {
	h := NewHeap()
	for _, seq := range []int64{3, 1, 0, 2} {
		h.Push(Entry{Seq: seq, Tail: &StreamTail{}})
	}
	require.Equal(t, 4, h.Len())

	for want := int64(0); want <= 3; want++ {
		entry, ok := h.TryClaim()
		require.True(t, ok)
		require.Equal(t, want, entry.Seq)
		h.Advance()
	}
	require.True(t, h.Empty())
}
