package ssv

// ChildEvent is the tagged union a worker posts to the output queue
// (§3 Data Model): either a Yield carrying a value, or a Stop carrying the
// worker's id and terminal error (nil on a clean exit).
type ChildEvent struct {
	yield bool
	value any
	tid   uint64
	err   error
}

func yieldEvent(v any) ChildEvent { return ChildEvent{yield: true, value: v} }
func stopEvent(tid uint64, err error) ChildEvent {
	return ChildEvent{yield: false, tid: tid, err: err}
}

// IsYield reports whether this event carries a value.
func (e ChildEvent) IsYield() bool { return e.yield }

// IsStop reports whether this event marks a worker's exit.
func (e ChildEvent) IsStop() bool { return !e.yield }

// Value returns the yielded value. Only meaningful when IsYield is true.
func (e ChildEvent) Value() any { return e.value }

// WorkerID returns the id of the worker that stopped. Only meaningful
// when IsStop is true.
func (e ChildEvent) WorkerID() uint64 { return e.tid }

// Err returns the worker's terminal error, nil on a clean exit. Only
// meaningful when IsStop is true.
func (e ChildEvent) Err() error { return e.err }
