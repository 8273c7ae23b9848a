package nb

import (
	"context"
	"runtime"
)

// Block polls op until it stops reporting WouldBlock and returns the
// outcome. It is the blocking mode of use: a busy-wait that yields the
// processor between polls.
func Block[T any, E error](op func() Result[T, E]) (T, error) {
	for {
		r := op()
		if !r.IsWouldBlock() {
			return r.Unpack()
		}
		runtime.Gosched()
	}
}

// BlockContext is Block with cancellation. ctx is checked between polls;
// once it is done the operation is simply no longer polled and ctx.Err()
// is returned.
func BlockContext[T any, E error](ctx context.Context, op func() Result[T, E]) (T, error) {
	for {
		r := op()
		if !r.IsWouldBlock() {
			return r.Unpack()
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		default:
		}
		runtime.Gosched()
	}
}

// Poll performs a single poll of op. On completion it calls onReady or
// onErr (either may be nil) and returns true. On WouldBlock it returns
// false and calls nothing, so it can sit inside a cooperative loop or an
// interrupt handler.
func Poll[T any, E error](op func() Result[T, E], onReady func(T), onErr func(E)) bool {
	r := op()
	switch {
	case r.IsReady():
		if onReady != nil {
			onReady(r.value)
		}
	case r.Failed():
		if onErr != nil {
			onErr(r.err)
		}
	default:
		return false
	}
	return true
}
