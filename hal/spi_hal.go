package hal

import "nbhal/nb"

// FullDuplex is an SPI master exchanging one word at a time.
//
// SPI clocks a word in for every word it clocks out, so every TrySend must
// be followed by a TryRead that collects the word received during that
// transfer, even when the caller does not need it. Both return WouldBlock
// while the bus is busy.
type FullDuplex[Word any, E error] interface {
	TrySend(word Word) nb.Result[nb.Unit, E]
	TryRead() nb.Result[Word, E]
}

// Mode is the SPI clock polarity and phase.
type Mode struct {
	Polarity Polarity
	Phase    Phase
}

// Polarity is the idle level of the clock line.
type Polarity uint8

const (
	IdleLow Polarity = iota
	IdleHigh
)

// Phase selects the clock edge on which data is captured.
type Phase uint8

const (
	CaptureOnFirstTransition Phase = iota
	CaptureOnSecondTransition
)

// The four standard SPI modes.
var (
	Mode0 = Mode{IdleLow, CaptureOnFirstTransition}
	Mode1 = Mode{IdleLow, CaptureOnSecondTransition}
	Mode2 = Mode{IdleHigh, CaptureOnFirstTransition}
	Mode3 = Mode{IdleHigh, CaptureOnSecondTransition}
)

// Number returns the conventional mode number, 0 to 3.
func (m Mode) Number() uint8 {
	return uint8(m.Polarity)<<1 | uint8(m.Phase)
}
