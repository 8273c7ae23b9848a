package hal

// Direction is the direction a quadrature encoder is counting in.
type Direction uint8

const (
	Upcounting Direction = iota
	Downcounting
)

func (d Direction) String() string {
	if d == Downcounting {
		return "down"
	}
	return "up"
}

// Qei is a quadrature encoder interface. Reads are instantaneous.
type Qei[Count any] interface {
	Count() (Count, error)
	Direction() (Direction, error)
}
