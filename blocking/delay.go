package blocking

import (
	"time"

	"nbhal/hal"
	"nbhal/nb"
)

// Delay sleeps by spinning on a count-down timer.
type Delay struct {
	timer hal.CountDown[time.Duration]
}

// NewDelay returns a Delay using timer. The timer is restarted by every
// call.
func NewDelay(timer hal.CountDown[time.Duration]) *Delay {
	return &Delay{timer: timer}
}

// Sleep blocks for dur.
func (d *Delay) Sleep(dur time.Duration) {
	d.timer.Start(dur)
	nb.Block(d.timer.TryWait)
}

// DelayMs blocks for ms milliseconds.
func (d *Delay) DelayMs(ms uint32) {
	d.Sleep(time.Duration(ms) * time.Millisecond)
}

// DelayUs blocks for us microseconds.
func (d *Delay) DelayUs(us uint32) {
	d.Sleep(time.Duration(us) * time.Microsecond)
}
