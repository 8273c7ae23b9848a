package sim

import "nbhal/hal"

// Pin is a simulated digital pin. As an output its level is the last value
// driven; as an input it reads that same level, so a test can Drive it
// from outside. Change listeners run on every level change.
type Pin struct {
	level     bool
	listeners []func(bool)
}

var (
	_ hal.InputPin            = (*Pin)(nil)
	_ hal.StatefulOutputPin   = (*Pin)(nil)
	_ hal.ToggleableOutputPin = (*Pin)(nil)
)

// Drive sets the pin level.
func (p *Pin) Drive(level bool) {
	if level == p.level {
		return
	}
	p.level = level
	for _, fn := range p.listeners {
		fn(level)
	}
}

// OnChange registers fn to run whenever the level changes.
func (p *Pin) OnChange(fn func(level bool)) {
	p.listeners = append(p.listeners, fn)
}

func (p *Pin) SetHigh()        { p.Drive(true) }
func (p *Pin) SetLow()         { p.Drive(false) }
func (p *Pin) Toggle()         { p.Drive(!p.level) }
func (p *Pin) IsSetHigh() bool { return p.level }
func (p *Pin) IsSetLow() bool  { return !p.level }
func (p *Pin) IsHigh() bool    { return p.level }
func (p *Pin) IsLow() bool     { return !p.level }
