package hal

import "nbhal/nb"

// CountDown is a one-shot or periodic count-down timer.
//
// Time is the unit the target counts in (ticks, time.Duration, ...);
// callers convert to it before calling Start.
type CountDown[Time any] interface {
	// Start begins counting down from count. Calling Start on a running
	// timer restarts it from zero elapsed time.
	Start(count Time)

	// TryWait returns WouldBlock until the count has elapsed. It cannot
	// fail.
	TryWait() nb.Result[nb.Unit, nb.Infallible]
}

// Periodic marks a CountDown that re-arms itself after elapsing.
type Periodic interface {
	Periodic()
}

// Cancel stops a running CountDown. It returns ErrNotRunning when the
// timer was not started or has already elapsed.
type Cancel interface {
	Cancel() error
}
