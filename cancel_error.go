package ssv

import (
	"errors"
	"fmt"
)

// ErrCancelWithErrors wraps ErrCancelled when one or more workers exited
// with an error during CancelAll's teardown sweep (§4.6, §7 kind 2).
var ErrCancelWithErrors = fmt.Errorf("%w: workers reported errors", ErrCancelled)

// joinErrors collapses a teardown sweep's per-worker errors into one, nil
// if there were none.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// wrapCancelError folds a teardown sweep's joined worker errors into
// ErrCancelWithErrors so a caller can errors.Is against ErrCancelled
// regardless of how many workers failed. Returns nil if cause is nil.
func wrapCancelError(cause error, count int) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w (%d worker(s)): %v", ErrCancelWithErrors, count, cause)
}
