package libraries

import (
	"sync"

	"smallbasic/pkg/value"
)

// Result is what a thunk hands back to the engine: a value that is ready
// now, or a Future the engine has to wait on before continuing.
type Result struct {
	value  value.Value
	future *Future
}

// Ready returns a completed result carrying v
func Ready(v value.Value) Result {
	return Result{value: v}
}

// Done returns a completed result without a value
func Done() Result {
	return Result{}
}

// Pending returns a result that completes together with f
func Pending(f *Future) Result {
	return Result{future: f}
}

func (r Result) IsPending() bool {
	return r.future != nil
}

// Value returns the result value, or an empty value if there is none
func (r Result) Value() value.Value {
	if r.value == nil {
		return value.Empty
	}

	return r.value
}

func (r Result) Future() *Future {
	return r.future
}

// Future is a single-assignment cell completed by an asynchronous host
// operation, usually from another goroutine.
type Future struct {
	once  sync.Once
	done  chan struct{}
	value value.Value
}

func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Complete stores v and wakes up waiters. Only the first call has an effect.
func (f *Future) Complete(v value.Value) {
	f.once.Do(func() {
		f.value = v
		close(f.done)
	})
}

// Done is closed once the future completes
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether Complete was called, without blocking
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Value returns the completed value, or an empty value before completion
func (f *Future) Value() value.Value {
	if !f.IsComplete() || f.value == nil {
		return value.Empty
	}

	return f.value
}
