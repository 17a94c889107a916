package ssv

import (
	"context"
	"time"

	"code.hybscloud.com/atomix"
)

// doorbell is the binary wakeup signal from producers to the consumer,
// edge-triggered and lost-wakeup-free via a need-doorbell handshake (§4.4,
// Glossary "doorbell"): a producer only sends on ch after observing
// needSignal set and clearing it itself; the consumer sets needSignal
// before re-checking the guarded condition and only then blocks on ch.
// That ordering — clear-before-signal on the producer side,
// set-before-recheck on the consumer side — is what rules out the classic
// missed-wakeup race.
type doorbell struct {
	needSignal atomix.Bool
	ch         chan struct{}
}

func newDoorbell() *doorbell {
	return &doorbell{ch: make(chan struct{}, 1)}
}

// Arm sets need-doorbell. The caller must re-check its guarded condition
// after calling Arm and before calling Wait, or a signal racing the Arm
// call is harmlessly absorbed rather than lost.
func (d *doorbell) Arm() {
	d.needSignal.StoreRelease(true)
}

// Signal clears need-doorbell, if set, and wakes the consumer exactly
// once. Calls that find need-doorbell already clear are no-ops — extra
// signals beyond the first are never required for correctness (§3
// invariant 5 permits them, it just never promises exactly one).
func (d *doorbell) Signal() {
	if d.needSignal.CompareAndSwapAcqRel(true, false) {
		select {
		case d.ch <- struct{}{}:
		default:
		}
	}
}

// Wait blocks until Signal fires, ctx is done, or timeout elapses. A
// non-positive timeout waits indefinitely.
func (d *doorbell) Wait(ctx context.Context, timeout time.Duration) {
	if timeout <= 0 {
		select {
		case <-d.ch:
		case <-ctx.Done():
		}
		return
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-d.ch:
	case <-ctx.Done():
	case <-t.C:
	}
}
