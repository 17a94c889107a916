package ssv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinErrors_NilOnEmpty(t *testing.T) {
	require.NoError(t, joinErrors(nil))
}

func TestJoinErrors_JoinsAll(t *testing.T) {
	e1 := errors.New("one")
	e2 := errors.New("two")
	err := joinErrors([]error{e1, e2})
	require.ErrorIs(t, err, e1)
	require.ErrorIs(t, err, e2)
}

func TestWrapCancelError_NilOnNilCause(t *testing.T) {
	require.NoError(t, wrapCancelError(nil, 0))
}

func TestWrapCancelError_WrapsErrCancelled(t *testing.T) {
	cause := errors.New("worker failed")
	err := wrapCancelError(cause, 1)
	require.ErrorIs(t, err, ErrCancelWithErrors)
	require.ErrorIs(t, err, ErrCancelled)
}
