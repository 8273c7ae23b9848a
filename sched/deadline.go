package sched

// Deadline is the state of a count-down timer on a wrapping tick clock.
// One-shot deadlines stay elapsed until restarted; periodic ones move one
// period forward each time Take succeeds.
type Deadline struct {
	at       uint32
	period   uint32
	running  bool
	periodic bool
}

// Start arms the deadline ticks after now. A periodic deadline of zero
// ticks is treated as one tick.
func (d *Deadline) Start(now, ticks uint32, periodic bool) {
	if periodic && ticks == 0 {
		ticks = 1
	}
	d.at = now + ticks
	d.period = ticks
	d.running = true
	d.periodic = periodic
}

// Elapsed reports whether a started deadline has passed. A deadline that
// was never started or was stopped never elapses.
func (d *Deadline) Elapsed(now uint32) bool {
	return d.running && !Before(now, d.at)
}

// Take is Elapsed that also consumes one period of a periodic deadline.
func (d *Deadline) Take(now uint32) bool {
	if !d.Elapsed(now) {
		return false
	}
	if d.periodic {
		d.at += d.period
	}
	return true
}

// Stop disarms the deadline. It returns false when there was nothing to
// stop: the deadline was idle, or it was a one-shot that already elapsed.
func (d *Deadline) Stop(now uint32) bool {
	if !d.running || (!d.periodic && d.Elapsed(now)) {
		return false
	}
	d.running = false
	return true
}
