//go:build rp2040 || rp2350

package rp2040

import (
	"time"

	"nbhal/hal"
	"nbhal/nb"
	"nbhal/sched"
)

// Timer is a one-shot count-down on the microsecond hardware timer. Any
// number of Timers can share the counter. Once elapsed it stays elapsed
// until restarted; a timer that was never started or was cancelled never
// elapses.
type Timer struct {
	deadline sched.Deadline
}

var (
	_ hal.CountDown[time.Duration] = (*Timer)(nil)
	_ hal.Cancel                   = (*Timer)(nil)
)

// Start implements hal.CountDown. Counts longer than about 35 minutes wrap.
func (t *Timer) Start(d time.Duration) {
	t.deadline.Start(Ticks(), uint32(d/time.Microsecond), false)
}

// TryWait implements hal.CountDown.
func (t *Timer) TryWait() nb.Result[nb.Unit, nb.Infallible] {
	return wait(&t.deadline)
}

// Cancel implements hal.Cancel.
func (t *Timer) Cancel() error {
	return cancel(&t.deadline)
}

// PeriodicTimer restarts itself each time it elapses. Missed periods are
// consumed one per TryWait.
type PeriodicTimer struct {
	deadline sched.Deadline
}

var (
	_ hal.Periodic = (*PeriodicTimer)(nil)
	_ hal.Cancel   = (*PeriodicTimer)(nil)
)

func (t *PeriodicTimer) Periodic() {}

// Start implements hal.CountDown.
func (t *PeriodicTimer) Start(d time.Duration) {
	t.deadline.Start(Ticks(), uint32(d/time.Microsecond), true)
}

// TryWait implements hal.CountDown.
func (t *PeriodicTimer) TryWait() nb.Result[nb.Unit, nb.Infallible] {
	return wait(&t.deadline)
}

// Cancel implements hal.Cancel.
func (t *PeriodicTimer) Cancel() error {
	return cancel(&t.deadline)
}

func wait(d *sched.Deadline) nb.Result[nb.Unit, nb.Infallible] {
	if !d.Take(Ticks()) {
		return nb.WouldBlock[nb.Unit, nb.Infallible]()
	}
	return nb.Ready[nb.Infallible](nb.Unit{})
}

func cancel(d *sched.Deadline) error {
	if !d.Stop(Ticks()) {
		return hal.ErrNotRunning
	}
	return nil
}
