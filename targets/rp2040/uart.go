//go:build rp2040 || rp2350

package rp2040

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"nbhal/hal"
	"nbhal/nb"
)

// UART is a byte serial port over an interrupt-driven uartx UART. The
// receive and transmit ring buffers are filled and drained by the UART
// interrupt, so the non-blocking operations only look at the rings.
type UART struct {
	hw *uartx.UART
}

var _ hal.Serial[byte, error] = (*UART)(nil)

// UARTConfig selects the controller and pins.
type UARTConfig struct {
	Bus  uint8 // 0 or 1
	Baud uint32
	TX   machine.Pin
	RX   machine.Pin
}

// NewUART configures one of the two UART controllers.
func NewUART(cfg UARTConfig) (*UART, error) {
	var hw *uartx.UART
	switch cfg.Bus {
	case 0:
		hw = uartx.UART0
	case 1:
		hw = uartx.UART1
	default:
		return nil, hal.ErrUnsupported
	}
	// Defaults inside uartx apply if zero.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       cfg.TX,
		RX:       cfg.RX,
	}); err != nil {
		return nil, err
	}
	return &UART{hw: hw}, nil
}

// TryRead implements hal.SerialRead.
func (u *UART) TryRead() nb.Result[byte, error] {
	if u.hw.Buffered() == 0 {
		return nb.WouldBlock[byte, error]()
	}
	b, err := u.hw.ReadByte()
	if err != nil {
		return nb.WouldBlock[byte, error]()
	}
	return nb.Ready[error](b)
}

// TryWrite implements hal.SerialWrite.
func (u *UART) TryWrite(b byte) nb.Result[nb.Unit, error] {
	if u.hw.SendSome([]byte{b}) == 0 {
		return nb.WouldBlock[nb.Unit, error]()
	}
	return nb.Ready[error](nb.Unit{})
}

// TryFlush implements hal.SerialWrite. It completes once the software
// ring is empty; the last few bytes may still be in the hardware FIFO.
func (u *UART) TryFlush() nb.Result[nb.Unit, error] {
	if u.hw.TxBuffer.Used() != 0 {
		return nb.WouldBlock[nb.Unit, error]()
	}
	return nb.Ready[error](nb.Unit{})
}

// SetBaudRate changes the baud rate.
func (u *UART) SetBaudRate(br uint32) {
	u.hw.SetBaudRate(br)
}

// Write blocks until p is queued and drained, for debug output.
func (u *UART) Write(p []byte) (int, error) {
	return u.hw.Write(p)
}
