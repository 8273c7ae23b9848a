//go:build rp2040 || rp2350

package rp2040

import (
	"device/rp"
	"errors"
	"machine"

	"nbhal/hal"
	"nbhal/nb"
)

// SPIBus is one of the pin assignments of the two SPI controllers
type SPIBus struct {
	spi  *machine.SPI // SPI controller (SPI0 or SPI1)
	sck  machine.Pin  // Clock pin
	mosi machine.Pin  // Master Out Slave In
	miso machine.Pin  // Master In Slave Out
	name string       // Human-readable name
}

// SPIBuses lists the usable pin assignments, indexed by bus number
var SPIBuses = []SPIBus{
	// SPI0 configurations
	{spi: machine.SPI0, sck: machine.GPIO2, mosi: machine.GPIO3, miso: machine.GPIO0, name: "spi0a"},
	{spi: machine.SPI0, sck: machine.GPIO6, mosi: machine.GPIO7, miso: machine.GPIO4, name: "spi0b"},
	{spi: machine.SPI0, sck: machine.GPIO18, mosi: machine.GPIO19, miso: machine.GPIO16, name: "spi0c"},
	{spi: machine.SPI0, sck: machine.GPIO22, mosi: machine.GPIO23, miso: machine.GPIO20, name: "spi0d"},
	{spi: machine.SPI0, sck: machine.GPIO2, mosi: machine.GPIO3, miso: machine.GPIO4, name: "spi0e"},

	// SPI1 configurations
	{spi: machine.SPI1, sck: machine.GPIO10, mosi: machine.GPIO11, miso: machine.GPIO8, name: "spi1a"},
	{spi: machine.SPI1, sck: machine.GPIO14, mosi: machine.GPIO15, miso: machine.GPIO12, name: "spi1b"},
	{spi: machine.SPI1, sck: machine.GPIO26, mosi: machine.GPIO27, miso: machine.GPIO24, name: "spi1c"},
	{spi: machine.SPI1, sck: machine.GPIO10, mosi: machine.GPIO11, miso: machine.GPIO12, name: "spi1d"},
}

// Name returns the human-readable bus name
func (b SPIBus) Name() string {
	return b.name
}

// SPI is a full-duplex byte SPI master on the PL022 controller. Words go
// through the 8-entry hardware FIFOs; TrySend and TryRead only check the
// FIFO status flags.
type SPI struct {
	bus  *machine.SPI
	mode hal.Mode
}

var _ hal.FullDuplex[byte, error] = (*SPI)(nil)

// NewSPI configures bus number id at rate Hz in the given mode.
func NewSPI(id int, rate uint32, mode hal.Mode) (*SPI, error) {
	if id < 0 || id >= len(SPIBuses) {
		return nil, errors.New("invalid SPI bus ID")
	}
	cfg := SPIBuses[id]

	err := cfg.spi.Configure(machine.SPIConfig{
		Frequency: rate,
		SCK:       cfg.sck,
		SDO:       cfg.mosi, // SDO = Serial Data Out (MOSI)
		SDI:       cfg.miso, // SDI = Serial Data In (MISO)
		Mode:      mode.Number(),
	})
	if err != nil {
		return nil, err
	}
	return &SPI{bus: cfg.spi, mode: mode}, nil
}

// Mode returns the configured clock mode.
func (s *SPI) Mode() hal.Mode {
	return s.mode
}

// TrySend implements hal.FullDuplex.
func (s *SPI) TrySend(w byte) nb.Result[nb.Unit, error] {
	if !s.bus.Bus.SSPSR.HasBits(rp.SPI0_SSPSR_TNF) {
		return nb.WouldBlock[nb.Unit, error]()
	}
	s.bus.Bus.SSPDR.Set(uint32(w))
	return nb.Ready[error](nb.Unit{})
}

// TryRead implements hal.FullDuplex. A receive FIFO overrun is reported
// once and clears the flag.
func (s *SPI) TryRead() nb.Result[byte, error] {
	if s.bus.Bus.SSPRIS.HasBits(rp.SPI0_SSPRIS_RORRIS) {
		s.bus.Bus.SSPICR.Set(rp.SPI0_SSPICR_RORIC)
		return nb.Err[byte](hal.ErrOverrun)
	}
	if !s.bus.Bus.SSPSR.HasBits(rp.SPI0_SSPSR_RNE) {
		return nb.WouldBlock[byte, error]()
	}
	return nb.Ready[error](byte(s.bus.Bus.SSPDR.Get()))
}
