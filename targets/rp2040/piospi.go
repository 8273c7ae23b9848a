//go:build rp2040 || rp2350

package rp2040

import (
	"machine"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"nbhal/hal"
	"nbhal/nb"
)

// PIOSPI is a byte SPI master running the piolib SPI program on a PIO
// state machine, for pins the hardware controllers cannot reach. The
// state machine FIFOs play the role of the controller FIFOs.
type PIOSPI struct {
	sm  pio.StateMachine
	dev *piolib.SPI
}

var _ hal.FullDuplex[byte, error] = (*PIOSPI)(nil)

// NewPIOSPI claims a state machine on block (pio.PIO0 or pio.PIO1) and
// loads the SPI program. Only modes 0 and 1 are supported by the program.
func NewPIOSPI(block *pio.PIO, cfg machine.SPIConfig) (*PIOSPI, error) {
	sm, err := block.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	dev, err := piolib.NewSPI(sm, cfg)
	if err != nil {
		sm.Unclaim()
		return nil, err
	}
	return &PIOSPI{sm: sm, dev: dev}, nil
}

// TrySend implements hal.FullDuplex.
func (s *PIOSPI) TrySend(w byte) nb.Result[nb.Unit, error] {
	if s.sm.IsTxFIFOFull() {
		return nb.WouldBlock[nb.Unit, error]()
	}
	s.sm.TxPut(uint32(w))
	return nb.Ready[error](nb.Unit{})
}

// TryRead implements hal.FullDuplex.
func (s *PIOSPI) TryRead() nb.Result[byte, error] {
	if s.sm.IsRxFIFOEmpty() {
		return nb.WouldBlock[byte, error]()
	}
	return nb.Ready[error](byte(s.sm.RxGet()))
}

// Tx is the blocking bulk transfer of the piolib driver.
func (s *PIOSPI) Tx(w, r []byte) error {
	return s.dev.Tx(w, r)
}
