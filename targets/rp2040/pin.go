//go:build rp2040 || rp2350

package rp2040

import (
	"machine"

	"nbhal/hal"
)

// Pin is a GPIO pin. The pad input stays enabled on outputs, so an output
// Pin reads back the level it drives.
type Pin struct {
	machine.Pin
}

var (
	_ hal.InputPin            = Pin{}
	_ hal.StatefulOutputPin   = Pin{}
	_ hal.ToggleableOutputPin = Pin{}
)

// Output configures p as a push-pull output
func Output(p machine.Pin) Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return Pin{p}
}

// InputPullUp configures p as an input with the pull-up enabled
func InputPullUp(p machine.Pin) Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return Pin{p}
}

// InputPullDown configures p as an input with the pull-down enabled
func InputPullDown(p machine.Pin) Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	return Pin{p}
}

func (p Pin) SetHigh()        { p.Pin.High() }
func (p Pin) SetLow()         { p.Pin.Low() }
func (p Pin) Toggle()         { p.Pin.Set(!p.Pin.Get()) }
func (p Pin) IsHigh() bool    { return p.Pin.Get() }
func (p Pin) IsLow() bool     { return !p.Pin.Get() }
func (p Pin) IsSetHigh() bool { return p.Pin.Get() }
func (p Pin) IsSetLow() bool  { return !p.Pin.Get() }
