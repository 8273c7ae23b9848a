// Package sim is a software-simulated microcontroller implementing every
// peripheral contract in hal on a virtual tick clock.
//
// Simulated hardware only moves when the clock advances: either
// explicitly with Advance, or by AutoStep ticks on every peripheral
// operation so that blocking helpers can spin on it. Nothing here is safe
// for concurrent use.
package sim

import (
	"time"

	"nbhal/sched"
)

// DefaultTickHz is the default virtual clock frequency (1 tick = 1us)
const DefaultTickHz = 1000000

// Clock is a 32-bit wrapping virtual tick counter with a schedule of
// hardware events.
type Clock struct {
	hz       uint32
	now      uint32
	elapsed  uint64
	autoStep uint32
	events   sched.Scheduler
}

// NewClock creates a clock running at hz ticks per second.
func NewClock(hz uint32) *Clock {
	if hz == 0 {
		hz = DefaultTickHz
	}
	return &Clock{hz: hz}
}

// Hz returns the tick frequency.
func (c *Clock) Hz() uint32 {
	return c.hz
}

// Now returns the current time in ticks.
func (c *Clock) Now() uint32 {
	return c.now
}

// Elapsed returns the ticks elapsed since the clock was created. Unlike
// Now it does not wrap.
func (c *Clock) Elapsed() uint64 {
	return c.elapsed
}

// SetAutoStep sets how many ticks elapse on every peripheral operation.
// Zero freezes time between explicit Advance calls.
func (c *Clock) SetAutoStep(ticks uint32) {
	c.autoStep = ticks
}

// Advance moves time forward by n ticks, firing every event that falls due
// on the way in time order.
func (c *Clock) Advance(n uint32) {
	target := c.now + n
	for {
		next, ok := c.events.Next()
		if !ok || sched.Before(target, next) {
			break
		}
		if sched.Before(c.now, next) {
			c.elapsed += uint64(next - c.now)
			c.now = next
		}
		c.events.Dispatch(c.now)
	}
	c.elapsed += uint64(target - c.now)
	c.now = target
}

// AdvanceDuration moves time forward by d.
func (c *Clock) AdvanceDuration(d time.Duration) {
	c.Advance(c.Ticks(d))
}

// every runs fn when the clock reaches start, then every period ticks for
// as long as fn returns true.
func (c *Clock) every(start, period uint32, fn func() bool) *sched.Timer {
	t := &sched.Timer{WakeTime: start}
	t.Handler = func(t *sched.Timer) sched.Action {
		if !fn() || period == 0 {
			return sched.Done
		}
		t.WakeTime += period
		return sched.Reschedule
	}
	c.events.Schedule(t)
	return t
}

// after runs fn once, delay ticks from now.
func (c *Clock) after(delay uint32, fn func()) *sched.Timer {
	return c.every(c.now+delay, 0, func() bool { fn(); return false })
}

// cancel removes a pending event.
func (c *Clock) cancel(t *sched.Timer) {
	if t != nil {
		c.events.Cancel(t)
	}
}

// poll is called by every peripheral operation.
func (c *Clock) poll() {
	if c.autoStep != 0 {
		c.Advance(c.autoStep)
	}
}

// Ticks converts a duration to clock ticks, rounding down
func (c *Clock) Ticks(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(uint64(d) * uint64(c.hz) / uint64(time.Second))
}

// Duration converts clock ticks to a duration
func (c *Clock) Duration(ticks uint32) time.Duration {
	return time.Duration(uint64(ticks) * uint64(time.Second) / uint64(c.hz))
}
