package sim

import (
	"time"

	"nbhal/hal"
	"nbhal/nb"
	"nbhal/sched"
)

// Timer is a one-shot count-down timer in clock time. Once elapsed,
// TryWait keeps returning ready until the timer is restarted.
type Timer struct {
	clk      *Clock
	deadline sched.Deadline
}

var (
	_ hal.CountDown[time.Duration] = (*Timer)(nil)
	_ hal.Cancel                   = (*Timer)(nil)
)

// NewTimer creates a stopped one-shot timer.
func NewTimer(clk *Clock) *Timer {
	return &Timer{clk: clk}
}

// Start implements hal.CountDown.
func (t *Timer) Start(count time.Duration) {
	t.StartTicks(t.clk.Ticks(count))
}

// StartTicks starts the timer for a raw tick count.
func (t *Timer) StartTicks(ticks uint32) {
	t.deadline.Start(t.clk.Now(), ticks, false)
}

// TryWait implements hal.CountDown.
func (t *Timer) TryWait() nb.Result[nb.Unit, nb.Infallible] {
	t.clk.poll()
	if !t.deadline.Take(t.clk.Now()) {
		return nb.WouldBlock[nb.Unit, nb.Infallible]()
	}
	return nb.Ready[nb.Infallible](nb.Unit{})
}

// Cancel implements hal.Cancel.
func (t *Timer) Cancel() error {
	if !t.deadline.Stop(t.clk.Now()) {
		return hal.ErrNotRunning
	}
	return nil
}

// PeriodicTimer re-arms itself every period. Each TryWait success consumes
// one elapsed period, so a late caller sees every missed period in turn.
type PeriodicTimer struct {
	clk      *Clock
	deadline sched.Deadline
}

var (
	_ hal.CountDown[time.Duration] = (*PeriodicTimer)(nil)
	_ hal.Periodic                 = (*PeriodicTimer)(nil)
	_ hal.Cancel                   = (*PeriodicTimer)(nil)
)

// NewPeriodicTimer creates a stopped periodic timer.
func NewPeriodicTimer(clk *Clock) *PeriodicTimer {
	return &PeriodicTimer{clk: clk}
}

// Periodic implements hal.Periodic.
func (t *PeriodicTimer) Periodic() {}

// Start implements hal.CountDown.
func (t *PeriodicTimer) Start(count time.Duration) {
	t.StartTicks(t.clk.Ticks(count))
}

// StartTicks starts the timer for a raw tick period.
func (t *PeriodicTimer) StartTicks(ticks uint32) {
	t.deadline.Start(t.clk.Now(), ticks, true)
}

// TryWait implements hal.CountDown.
func (t *PeriodicTimer) TryWait() nb.Result[nb.Unit, nb.Infallible] {
	t.clk.poll()
	if !t.deadline.Take(t.clk.Now()) {
		return nb.WouldBlock[nb.Unit, nb.Infallible]()
	}
	return nb.Ready[nb.Infallible](nb.Unit{})
}

// Cancel implements hal.Cancel.
func (t *PeriodicTimer) Cancel() error {
	if !t.deadline.Stop(t.clk.Now()) {
		return hal.ErrNotRunning
	}
	return nil
}
