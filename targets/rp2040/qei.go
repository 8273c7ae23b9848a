package rp2040

import "nbhal/hal"

// encoder is the position source behind a Qei.
type encoder interface {
	Position() int
	SetPosition(int)
}

// Qei is a quadrature encoder decoded by GPIO interrupts. The count is
// the encoder position truncated to 16 bits; Direction is the direction
// of the last change seen by Count or Direction.
type Qei struct {
	dev  encoder
	last int
	dir  hal.Direction
}

var _ hal.Qei[uint16] = (*Qei)(nil)

func (q *Qei) sample() int {
	pos := q.dev.Position()
	switch {
	case pos > q.last:
		q.dir = hal.Upcounting
	case pos < q.last:
		q.dir = hal.Downcounting
	}
	q.last = pos
	return pos
}

// Count implements hal.Qei. It cannot fail.
func (q *Qei) Count() (uint16, error) {
	return uint16(q.sample()), nil
}

// Direction implements hal.Qei. It cannot fail.
func (q *Qei) Direction() (hal.Direction, error) {
	q.sample()
	return q.dir, nil
}

// Reset sets the position back to zero.
func (q *Qei) Reset() {
	q.dev.SetPosition(0)
	q.last = 0
}
