package hal

import "errors"

// Common operation errors. Targets may return these or their own error
// types; callers should test with errors.Is.
var (
	ErrOverrun        = errors.New("hal: overrun")
	ErrModeFault      = errors.New("hal: mode fault")
	ErrOvercapture    = errors.New("hal: overcapture")
	ErrDutyOutOfRange = errors.New("hal: duty out of range")
	ErrUnknownChannel = errors.New("hal: unknown channel")
	ErrNotRunning     = errors.New("hal: timer not running")
	ErrDisabled       = errors.New("hal: channel disabled")
	ErrUnsupported    = errors.New("hal: unsupported")
)

// SerialErrorKind classifies a serial receive error.
type SerialErrorKind uint8

const (
	Overrun SerialErrorKind = iota + 1
	Framing
	Parity
	Noise
)

func (k SerialErrorKind) String() string {
	switch k {
	case Overrun:
		return "overrun"
	case Framing:
		return "framing"
	case Parity:
		return "parity"
	case Noise:
		return "noise"
	default:
		return "unknown"
	}
}

// SerialError is a receive error reported by a serial port.
type SerialError struct {
	Kind SerialErrorKind
}

func (e SerialError) Error() string {
	return "serial: " + e.Kind.String() + " error"
}

// Is lets errors.Is(err, ErrOverrun) match an overrun SerialError.
func (e SerialError) Is(target error) bool {
	return target == ErrOverrun && e.Kind == Overrun
}
