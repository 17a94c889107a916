package ssv

import "context"

// Task is the SSV's unit of work (§6 External Interfaces, §9 "workers are
// callable objects that take a yield-fn callback"): a computation that may
// yield zero or more values through the callback before completing or
// failing. yield returns false once the scheduler can no longer accept
// another value right now — a well-behaved Task should stop yielding and
// return promptly when that happens, the same way the teacher's task
// adapters stop promptly on ctx.Done().
type Task interface {
	Run(ctx context.Context, yield func(v any) bool) error
}

// TaskFunc adapts a plain function to Task.
type TaskFunc func(ctx context.Context, yield func(v any) bool) error

func (f TaskFunc) Run(ctx context.Context, yield func(v any) bool) error {
	return f(ctx, yield)
}

// TaskValue builds a Task that yields exactly one value and stops,
// mirroring the flat single-result task shape most callers reach for
// first.
func TaskValue(v any) Task {
	return TaskFunc(func(_ context.Context, yield func(v any) bool) error {
		yield(v)
		return nil
	})
}

// TaskValues builds a Task that yields each value in order, stopping
// early if yield ever reports the scheduler has no room left.
func TaskValues(vs ...any) Task {
	return TaskFunc(func(_ context.Context, yield func(v any) bool) error {
		for _, v := range vs {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

// TaskError builds a Task that yields nothing and fails immediately.
func TaskError(err error) Task {
	return TaskFunc(func(context.Context, func(v any) bool) error { return err })
}

// spawnTask runs task on its own goroutine and exposes it as a pausable
// producer: out delivers one yielded value at a time, resume replies
// whether the task may produce its next one, and done reports the task's
// terminal error. This is how the Ahead style turns a push-style,
// multi-yield Task into something a token holder can park mid-stream and
// another worker can later pick back up — the Go equivalent of a
// resumable continuation, built the same "goroutine plus a pair of
// channels" way the teacher's task adapters isolate a call from its
// caller's cancellation.
func spawnTask(ctx context.Context, task Task) (out chan any, resume chan bool, done chan error) {
	out = make(chan any)
	resume = make(chan bool)
	done = make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- taggedPanic(r)
			}
		}()
		err := task.Run(ctx, func(v any) bool {
			select {
			case out <- v:
			case <-ctx.Done():
				return false
			}
			select {
			case keep := <-resume:
				return keep
			case <-ctx.Done():
				return false
			}
		})
		done <- err
	}()

	return out, resume, done
}
