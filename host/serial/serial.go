// Package serial provides host serial ports that implement the hal serial
// contracts, so drivers written for a microcontroller UART can run
// against a USB-serial adapter or a pseudo-terminal.
package serial

import (
	"errors"
	"io"

	"nbhal/hal"
)

// ErrClosed is returned by operations on a closed port.
var ErrClosed = errors.New("serial: port closed")

// Port is a host serial port usable both as an io.ReadWriteCloser and as
// a non-blocking hal byte serial port.
type Port interface {
	io.ReadWriteCloser
	hal.Serial[byte, error]

	// Flush blocks until buffered output has been handed to the device
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "/dev/pts/3")
	Device string

	// Baud rate
	Baud int

	// Read timeout in milliseconds for the blocking Read (0 = wait forever)
	ReadTimeout int

	// Depth of the software receive and transmit buffers of a NativePort
	FIFO int
}

// DefaultConfig returns a default configuration: 115200 8N1
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
		FIFO:        256,
	}
}
