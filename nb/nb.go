// Package nb defines the outcome of a non-blocking peripheral operation.
//
// A non-blocking operation either completes now, with a value or with an
// operation error, or reports that it would have to wait for the hardware
// (WouldBlock). WouldBlock is not a failure: the caller decides whether to
// spin, yield to other work or wait for an interrupt and poll again.
package nb

import "errors"

// ErrWouldBlock is returned by Result.Unpack when the operation could not
// complete without waiting.
var ErrWouldBlock = errors.New("nb: operation would block")

// Unit is the success payload of operations that produce no value.
type Unit = struct{}

// Infallible is the error type of operations that cannot fail.
// No type outside this package can implement it, so its only usable value
// is nil and a Result[T, Infallible] never carries a failure.
type Infallible interface {
	error
	infallible()
}

type state uint8

const (
	stateWouldBlock state = iota
	stateReady
	stateFailed
)

// Result is the outcome of one poll of a non-blocking operation.
// The zero value is WouldBlock.
type Result[T any, E error] struct {
	value T
	err   E
	state state
}

// Ready returns a completed result carrying v.
// The error type is given explicitly: nb.Ready[MyError](v).
func Ready[E error, T any](v T) Result[T, E] {
	return Result[T, E]{value: v, state: stateReady}
}

// Err returns a completed result carrying the operation error e.
// The value type is given explicitly: nb.Err[byte](e).
func Err[T any, E error](e E) Result[T, E] {
	if any(e) == nil {
		panic("nb: Err called with nil error")
	}
	return Result[T, E]{err: e, state: stateFailed}
}

// WouldBlock returns a result telling the caller to poll again later.
func WouldBlock[T any, E error]() Result[T, E] {
	return Result[T, E]{}
}

// IsWouldBlock reports whether the operation must be retried.
func (r Result[T, E]) IsWouldBlock() bool {
	return r.state == stateWouldBlock
}

// IsReady reports whether the operation completed successfully.
func (r Result[T, E]) IsReady() bool {
	return r.state == stateReady
}

// Failed reports whether the operation completed with an error.
func (r Result[T, E]) Failed() bool {
	return r.state == stateFailed
}

// Value returns the value and error of a completed operation.
// Both are zero when the result is WouldBlock.
func (r Result[T, E]) Value() (T, E) {
	return r.value, r.err
}

// Failure returns the operation error, or the zero E if the result did
// not fail.
func (r Result[T, E]) Failure() E {
	return r.err
}

// Unpack converts the result into the usual Go pair.
// WouldBlock is reported as ErrWouldBlock.
func (r Result[T, E]) Unpack() (T, error) {
	switch r.state {
	case stateReady:
		return r.value, nil
	case stateFailed:
		return r.value, r.err
	default:
		return r.value, ErrWouldBlock
	}
}

// String names the outcome, for logs and test failures.
func (r Result[T, E]) String() string {
	switch r.state {
	case stateReady:
		return "Ready"
	case stateFailed:
		return "Err(" + r.err.Error() + ")"
	default:
		return "WouldBlock"
	}
}

// Map transforms the value of a ready result and passes the other
// outcomes through unchanged.
func Map[T, U any, E error](r Result[T, E], f func(T) U) Result[U, E] {
	switch r.state {
	case stateReady:
		return Ready[E](f(r.value))
	case stateFailed:
		return Result[U, E]{err: r.err, state: stateFailed}
	default:
		return Result[U, E]{}
	}
}

// Erase widens the error type to error.
func Erase[T any, E error](r Result[T, E]) Result[T, error] {
	out := Result[T, error]{value: r.value, state: r.state}
	if r.state == stateFailed {
		out.err = r.err
	}
	return out
}

// Done unwraps the result of an operation that cannot fail.
// ok is false while the operation would block.
func Done[T any](r Result[T, Infallible]) (v T, ok bool) {
	return r.value, r.state == stateReady
}
