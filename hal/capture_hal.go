package hal

import "nbhal/nb"

// Capture latches the value of a free-running counter on input events.
//
// TryCapture returns WouldBlock until an event has been latched on ch.
// If the counter was latched again before the previous capture was read,
// the capture fails with ErrOvercapture (or a target error); it is never
// silently dropped.
//
// Resolution is the counter tick period. Two successive captures on a
// periodic signal differ, with wrap-around, by the signal period divided
// by the resolution.
type Capture[Channel, Time, Count any, E error] interface {
	TryCapture(ch Channel) nb.Result[Count, E]

	Enable(ch Channel) error
	Disable(ch Channel) error

	Resolution() (Time, error)
	SetResolution(resolution Time) error
}
