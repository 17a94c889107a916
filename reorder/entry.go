// Package reorder implements the Ahead style's sequence-keyed reassembly
// heap and the token protocol that governs which worker may emit directly
// to the output queue.
package reorder

// StreamTail is a parked continuation: a task goroutine blocked mid-yield,
// waiting for its holder to decide whether it may produce its next value.
// It is the Go realization of the data model's "StreamTail(k)" case — a
// computation suspended rather than a value already in hand.
type StreamTail struct {
	// HasPending and Pending carry a value the previous holder already
	// pulled off Out but could not push to the output queue (§4.3
	// abandonment: the output queue was full). A fresh, never-driven
	// continuation has HasPending false.
	HasPending bool
	Pending    any

	Out    <-chan any
	Resume chan<- bool
	Done   <-chan error
}

// Entry is one reassembly-heap slot: the task registered at Seq, not yet
// fully drained into the output queue.
type Entry struct {
	Seq  int64
	Tail *StreamTail
}
