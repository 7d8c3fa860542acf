// Package timer runs a function after a delay as a cancellable asynchronous
// operation.
package timer

import (
	"context"
	"time"
)

// Op is a delayed operation producing a T. It resolves exactly once.
type Op[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}
	val    T
	err    error
}

// Start schedules fn to run after delay. fn receives a context that is
// cancelled when the operation is cancelled. If the operation is cancelled
// before the delay elapses, fn is never called and the result is ctx.Err().
func Start[T any](ctx context.Context, delay time.Duration, fn func(context.Context) (T, error)) *Op[T] {
	ctx, cancel := context.WithCancel(ctx)
	op := &Op[T]{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(op.done)
		defer cancel()

		t := time.NewTimer(delay)
		defer t.Stop()

		select {
		case <-ctx.Done():
			op.err = ctx.Err()
			return
		case <-t.C:
		}
		op.val, op.err = fn(ctx)
	}()

	return op
}

// Cancel aborts the operation if it has not run yet. Safe to call many times.
func (o *Op[T]) Cancel() {
	o.cancel()
}

// Done is closed once the operation has resolved.
func (o *Op[T]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation resolves or ctx is done. Cancelling ctx only
// stops the wait; use Cancel to abort the operation itself.
func (o *Op[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.val, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
