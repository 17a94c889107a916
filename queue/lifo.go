package queue

// lifoNode links one stack element into a Treiber stack.
type lifoNode[T any] struct {
	val  T
	next *lifoNode[T]
}

// LIFO is a Treiber stack: lock-free, last-in-first-out. It backs the
// Async-LIFO construction style, where a worker idle for new work prefers
// the task most recently enqueued (depth-first descent into nested
// compositions).
type LIFO[T any] struct {
	top *Cell[*lifoNode[T]]
}

// NewLIFO returns an empty LIFO.
func NewLIFO[T any]() *LIFO[T] {
	return &LIFO[T]{top: NewCell[*lifoNode[T]](nil)}
}

// Push adds v to the top of the stack.
func (s *LIFO[T]) Push(v T) {
	ModifyCell(s.top, func(old *lifoNode[T]) (*lifoNode[T], struct{}) {
		return &lifoNode[T]{val: v, next: old}, struct{}{}
	})
}

type popResult[T any] struct {
	val T
	ok  bool
}

// Pop removes and returns the most recently pushed value, if any.
func (s *LIFO[T]) Pop() (T, bool) {
	res := ModifyCell(s.top, func(old *lifoNode[T]) (*lifoNode[T], popResult[T]) {
		if old == nil {
			var zero T
			return nil, popResult[T]{val: zero, ok: false}
		}
		return old.next, popResult[T]{val: old.val, ok: true}
	})
	return res.val, res.ok
}

// Empty reports whether the stack currently holds no elements. The answer
// is advisory the instant it returns — a concurrent Push can invalidate it
// immediately — but is safe to use as a "nothing to do right now" signal.
func (s *LIFO[T]) Empty() bool {
	return s.top.Load() == nil
}
