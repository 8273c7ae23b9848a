package sim

import "nbhal/hal"

// Qei is a simulated quadrature encoder interface with a 16-bit wrapping
// counter. Channel A and B levels are fed through Update, or whole counts
// through Step.
type Qei struct {
	count uint16
	dir   hal.Direction
	state uint8
}

var _ hal.Qei[uint16] = (*Qei)(nil)

// quadrature transition table indexed by previous<<2 | current AB state;
// A leading B counts up
var qeiTable = [16]int8{
	0, -1, 1, 0,
	1, 0, 0, -1,
	-1, 0, 0, 1,
	0, 1, -1, 0,
}

// Update feeds the current A and B input levels. Invalid double
// transitions are ignored.
func (q *Qei) Update(a, b bool) {
	var cur uint8
	if a {
		cur |= 2
	}
	if b {
		cur |= 1
	}
	if d := qeiTable[q.state<<2|cur]; d != 0 {
		q.Step(int(d))
	}
	q.state = cur
}

// Step moves the count by n, setting the direction from its sign.
func (q *Qei) Step(n int) {
	switch {
	case n > 0:
		q.dir = hal.Upcounting
	case n < 0:
		q.dir = hal.Downcounting
	}
	q.count += uint16(n)
}

// Count implements hal.Qei.
func (q *Qei) Count() (uint16, error) {
	return q.count, nil
}

// Direction implements hal.Qei.
func (q *Qei) Direction() (hal.Direction, error) {
	return q.dir, nil
}
