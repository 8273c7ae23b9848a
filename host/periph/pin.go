// Package periph adapts periph.io/x/conn/v3 devices to the hal contracts,
// so a driver written for a microcontroller can run on a Linux board
// (Raspberry Pi, BeagleBone, FT232H) or against periph's test doubles.
package periph

import (
	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"

	"nbhal/hal"
)

// Pin is a GPIO line. The hal pin operations cannot report errors, so a
// failed periph call is logged and kept for Err.
type Pin struct {
	io    gpio.PinIO
	level gpio.Level
	err   error
}

var (
	_ hal.InputPin            = (*Pin)(nil)
	_ hal.StatefulOutputPin   = (*Pin)(nil)
	_ hal.ToggleableOutputPin = (*Pin)(nil)
)

// NewOutput configures p as an output driving initial.
func NewOutput(p gpio.PinIO, initial gpio.Level) (*Pin, error) {
	if err := p.Out(initial); err != nil {
		return nil, err
	}
	return &Pin{io: p, level: initial}, nil
}

// NewInput configures p as an input with the given pull resistor.
func NewInput(p gpio.PinIO, pull gpio.Pull) (*Pin, error) {
	if err := p.In(pull, gpio.NoEdge); err != nil {
		return nil, err
	}
	return &Pin{io: p}, nil
}

func (p *Pin) drive(l gpio.Level) {
	if err := p.io.Out(l); err != nil {
		glog.Warningf("periph: %s: out %s: %v", p.io, l, err)
		p.err = err
		return
	}
	p.level = l
}

// SetHigh implements hal.OutputPin.
func (p *Pin) SetHigh() { p.drive(gpio.High) }

// SetLow implements hal.OutputPin.
func (p *Pin) SetLow() { p.drive(gpio.Low) }

// Toggle implements hal.ToggleableOutputPin.
func (p *Pin) Toggle() { p.drive(!p.level) }

// IsSetHigh reports the last level successfully driven.
func (p *Pin) IsSetHigh() bool { return p.level == gpio.High }
func (p *Pin) IsSetLow() bool  { return p.level == gpio.Low }

// IsHigh reads the line.
func (p *Pin) IsHigh() bool { return p.io.Read() == gpio.High }
func (p *Pin) IsLow() bool  { return p.io.Read() == gpio.Low }

// Err returns the last error from the underlying pin, if any.
func (p *Pin) Err() error {
	return p.err
}

// String returns the periph pin name.
func (p *Pin) String() string {
	return p.io.String()
}
