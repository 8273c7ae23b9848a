package hal

// InputPin is a digital input.
type InputPin interface {
	// IsHigh reports whether the input is high.
	IsHigh() bool
	// IsLow reports whether the input is low.
	IsLow() bool
}

// OutputPin is a digital output. Driving a pin cannot fail.
type OutputPin interface {
	SetHigh()
	SetLow()
}

// StatefulOutputPin is an output that can report the level it was last
// driven to.
type StatefulOutputPin interface {
	OutputPin

	// IsSetHigh reports whether the pin is driven high.
	IsSetHigh() bool
	// IsSetLow reports whether the pin is driven low.
	IsSetLow() bool
}

// ToggleableOutputPin is an output that can invert its level.
type ToggleableOutputPin interface {
	Toggle()
}

// SoftwareToggle adds Toggle to any StatefulOutputPin.
type SoftwareToggle struct {
	StatefulOutputPin
}

// Toggle drives the pin to the opposite of its current level.
func (p SoftwareToggle) Toggle() {
	if p.IsSetLow() {
		p.SetHigh()
	} else {
		p.SetLow()
	}
}
