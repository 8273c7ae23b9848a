package blocking

import (
	"errors"

	"nbhal/hal"
	"nbhal/nb"
)

// ErrTimedOut is returned by ReadWithTimeout when the timer elapses first.
var ErrTimedOut = errors.New("blocking: timed out")

// Write blocks until word has been queued.
func Write[W any, E error](s hal.SerialWrite[W, E], word W) error {
	_, err := nb.Block(func() nb.Result[nb.Unit, E] { return s.TryWrite(word) })
	return err
}

// WriteAll queues every word of buf, blocking while the transmitter is
// full. It does not wait for the words to leave; see Flush.
func WriteAll[W any, E error](s hal.SerialWrite[W, E], buf []W) error {
	for _, w := range buf {
		if err := Write(s, w); err != nil {
			return err
		}
	}
	return nil
}

// Flush blocks until all queued words have been sent.
func Flush[W any, E error](s hal.SerialWrite[W, E]) error {
	_, err := nb.Block(s.TryFlush)
	return err
}

// Read blocks until a word is received.
func Read[W any, E error](s hal.SerialRead[W, E]) (W, error) {
	return nb.Block(s.TryRead)
}

// ReadWithTimeout reads one word, giving up with ErrTimedOut once timer
// has counted down timeout. A word that is ready is returned even if the
// timer has also elapsed.
func ReadWithTimeout[W any, E error, T any](s hal.SerialRead[W, E], timer hal.CountDown[T], timeout T) (W, error) {
	timer.Start(timeout)
	for {
		r := s.TryRead()
		if !r.IsWouldBlock() {
			return r.Unpack()
		}
		if timer.TryWait().IsReady() {
			var zero W
			return zero, ErrTimedOut
		}
	}
}

// Writer adapts a byte serial port to io.Writer, so fmt can print to it.
type Writer[E error] struct {
	port hal.SerialWrite[byte, E]
}

// NewWriter returns a Writer over port.
func NewWriter[E error](port hal.SerialWrite[byte, E]) *Writer[E] {
	return &Writer[E]{port: port}
}

// Write implements io.Writer.
func (w *Writer[E]) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := Write(w.port, b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (w *Writer[E]) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if err := Write(w.port, s[i]); err != nil {
			return i, err
		}
	}
	return len(s), nil
}

// Flush waits until everything written has been sent.
func (w *Writer[E]) Flush() error {
	return Flush(w.port)
}
