package sim

import (
	"nbhal/hal"
	"nbhal/nb"
)

// Device answers one SPI word: it receives the word clocked out by the
// master and returns the word clocked back in.
type Device func(out byte) byte

// Loopback is a Device with MISO tied to MOSI.
func Loopback(out byte) byte { return out }

// SPI is a simulated SPI master with a single-word receive buffer, like
// most MCU SPI blocks.
type SPI struct {
	clk       *Clock
	wordTicks uint32
	mode      hal.Mode
	dev       Device

	busy    bool
	rxFull  bool
	rx      byte
	overrun bool
}

var _ hal.FullDuplex[byte, error] = (*SPI)(nil)

// NewSPI creates an SPI master talking to dev. A nil dev is a loopback.
func NewSPI(clk *Clock, wordTicks uint32, mode hal.Mode, dev Device) *SPI {
	if dev == nil {
		dev = Loopback
	}
	if wordTicks == 0 {
		wordTicks = 1
	}
	return &SPI{clk: clk, wordTicks: wordTicks, mode: mode, dev: dev}
}

func modeFromNumber(n uint8) hal.Mode {
	return hal.Mode{Polarity: hal.Polarity(n >> 1 & 1), Phase: hal.Phase(n & 1)}
}

// Mode returns the configured clock mode.
func (s *SPI) Mode() hal.Mode {
	return s.mode
}

// TrySend implements hal.FullDuplex. It returns WouldBlock while a
// transfer is in progress.
func (s *SPI) TrySend(w byte) nb.Result[nb.Unit, error] {
	s.clk.poll()
	if s.busy {
		return nb.WouldBlock[nb.Unit, error]()
	}
	s.busy = true
	s.clk.after(s.wordTicks, func() {
		s.busy = false
		if s.rxFull {
			// previous word never read
			s.overrun = true
		}
		s.rx = s.dev(w)
		s.rxFull = true
	})
	return nb.Ready[error](nb.Unit{})
}

// TryRead implements hal.FullDuplex. It returns WouldBlock until the word
// clocked in by the last TrySend is available. After an overrun it fails
// once with hal.ErrOverrun; the newest word is still there to read.
func (s *SPI) TryRead() nb.Result[byte, error] {
	s.clk.poll()
	if s.overrun {
		s.overrun = false
		return nb.Err[byte](hal.ErrOverrun)
	}
	if !s.rxFull {
		return nb.WouldBlock[byte, error]()
	}
	s.rxFull = false
	return nb.Ready[error](s.rx)
}
