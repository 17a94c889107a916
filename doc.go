// Package ssv implements a Stream Scheduler Variable: a bounded,
// rate-adaptive, multi-producer/single-consumer scheduling core for
// concurrently evaluating a tree of tasks that each yield zero or more
// values before completing.
//
// Construction
//
// Four construction styles cover the combinations of ordering and fan-out
// shape a stream combinator might need:
//   - NewAheadSSV: speculative, source-order-preserving (a reorder heap
//     reassembles out-of-order completions into input order).
//   - NewParallelSSV: unbounded fan-out, every task forked immediately,
//     completion order.
//   - NewAsyncSSV: LIFO work-stealing, completion order, depth-first.
//   - NewWAsyncSSV: FIFO work-stealing, completion order, breadth-first.
//
// All four share the same worker lifecycle, doorbell-based wakeup, and
// dispatcher; only the work-queue discipline and the presence of a reorder
// heap differ.
//
// Defaults
//
// Unless overridden via functional options, a Config defaults to:
//   - ThreadsHigh: 1500
//   - BufferHigh: 1500
//   - StreamRate: -1 (bounded mode)
//   - ErrorTagging: false
//   - Metrics: metrics.NewNoopProvider()
//   - Logger: a discard logger
//
// Driving a stream
//
// Gather and Wait are the top-level convenience entry points; callers
// needing finer control construct an SSV directly and drive ReadOutput in
// a loop until PostProcess reports the stream is done.
package ssv
