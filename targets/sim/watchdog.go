package sim

import (
	"time"

	"nbhal/hal"
	"nbhal/sched"
)

// Watchdog is a simulated independent watchdog. When the period elapses
// without a Feed it fires the reset hook once and stops.
type Watchdog struct {
	clk     *Clock
	period  uint32
	running bool
	timer   *sched.Timer
	resets  int
	onReset func()
}

var (
	_ hal.Watchdog                      = (*Watchdog)(nil)
	_ hal.WatchdogEnable[time.Duration] = (*Watchdog)(nil)
	_ hal.WatchdogDisable               = (*Watchdog)(nil)
)

// NewWatchdog creates a stopped watchdog. onReset may be nil.
func NewWatchdog(clk *Clock, onReset func()) *Watchdog {
	return &Watchdog{clk: clk, onReset: onReset}
}

// Start implements hal.WatchdogEnable.
func (w *Watchdog) Start(period time.Duration) error {
	ticks := w.clk.Ticks(period)
	if ticks == 0 {
		return hal.ErrUnsupported
	}
	w.period = ticks
	w.running = true
	w.arm()
	return nil
}

// Feed implements hal.Watchdog.
func (w *Watchdog) Feed() {
	if w.running {
		w.arm()
	}
}

// Disable implements hal.WatchdogDisable.
func (w *Watchdog) Disable() error {
	w.clk.cancel(w.timer)
	w.timer = nil
	w.running = false
	return nil
}

// Running reports whether the watchdog is counting.
func (w *Watchdog) Running() bool {
	return w.running
}

// Resets returns how many times the watchdog has expired.
func (w *Watchdog) Resets() int {
	return w.resets
}

func (w *Watchdog) arm() {
	w.clk.cancel(w.timer)
	w.timer = w.clk.after(w.period, w.expire)
}

func (w *Watchdog) expire() {
	w.timer = nil
	w.running = false
	w.resets++
	if w.onReset != nil {
		w.onReset()
	}
}
