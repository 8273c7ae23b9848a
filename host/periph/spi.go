package periph

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"nbhal/hal"
	"nbhal/nb"
)

// SPI is a full-duplex byte SPI over a periph connection. Each TrySend
// runs one single-byte transaction; the byte clocked in is held until
// TryRead, like the receive register of an MCU SPI block.
type SPI struct {
	conn    spi.Conn
	rx      [1]byte
	rxFull  bool
	overrun bool
}

var _ hal.FullDuplex[byte, error] = (*SPI)(nil)

// Connect configures port for mode at frequency f with 8-bit words.
func Connect(port spi.Port, f physic.Frequency, mode hal.Mode) (*SPI, error) {
	c, err := port.Connect(f, spi.Mode(mode.Number()), 8)
	if err != nil {
		return nil, fmt.Errorf("periph: spi connect: %w", err)
	}
	return NewSPI(c), nil
}

// NewSPI wraps an already configured connection.
func NewSPI(c spi.Conn) *SPI {
	return &SPI{conn: c}
}

// TrySend implements hal.FullDuplex.
func (s *SPI) TrySend(w byte) nb.Result[nb.Unit, error] {
	var r [1]byte
	if err := s.conn.Tx([]byte{w}, r[:]); err != nil {
		return nb.Err[nb.Unit](err)
	}
	if s.rxFull {
		s.overrun = true
	}
	s.rx = r
	s.rxFull = true
	return nb.Ready[error](nb.Unit{})
}

// TryRead implements hal.FullDuplex. An overrun is reported once before
// the newest word.
func (s *SPI) TryRead() nb.Result[byte, error] {
	if s.overrun {
		s.overrun = false
		return nb.Err[byte](hal.ErrOverrun)
	}
	if !s.rxFull {
		return nb.WouldBlock[byte, error]()
	}
	s.rxFull = false
	return nb.Ready[error](s.rx[0])
}
