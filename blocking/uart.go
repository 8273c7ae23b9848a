package blocking

import (
	"tinygo.org/x/drivers"

	"nbhal/hal"
	"nbhal/nb"
)

// UART adapts a byte serial port to drivers.UART so tinygo drivers that
// talk over a UART (GPS, modems, ...) can use any hal serial port.
//
// Read returns whatever has been received without waiting, like
// machine.UART; Write blocks until every byte is queued.
type UART[E error] struct {
	port hal.Serial[byte, E]
}

var _ drivers.UART = (*UART[error])(nil)

// NewUART returns a UART over port.
func NewUART[E error](port hal.Serial[byte, E]) *UART[E] {
	return &UART[E]{port: port}
}

// Read implements io.Reader. It returns 0, nil when nothing is buffered.
func (u *UART[E]) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		r := u.port.TryRead()
		if r.IsWouldBlock() {
			break
		}
		b, err := r.Unpack()
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}

// Write implements io.Writer.
func (u *UART[E]) Write(p []byte) (int, error) {
	if err := WriteAll[byte, E](u.port, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Buffered returns the number of received bytes waiting, when the port
// can tell; otherwise 0.
func (u *UART[E]) Buffered() int {
	if b, ok := u.port.(interface{ Buffered() int }); ok {
		return b.Buffered()
	}
	return 0
}

// Flush waits until everything written has been sent.
func (u *UART[E]) Flush() error {
	_, err := nb.Block(u.port.TryFlush)
	return err
}
