package sim

import (
	"nbhal/hal"
	"nbhal/nb"
)

// ADCPin is an analog input of the simulated ADC.
type ADCPin uint8

// Channel implements hal.ADCChannel.
func (p ADCPin) Channel() uint8 { return uint8(p) }

var _ hal.ADCChannel[uint8] = ADCPin(0)

// ADC is a simulated single-converter ADC. A conversion takes a fixed
// number of ticks and samples the input when it completes; later changes
// to the input do not affect the collected value.
type ADC struct {
	clk     *Clock
	latency uint32
	bits    uint8
	inputs  []uint16

	converting bool
	sampled    bool
	pin        ADCPin
	sample     uint16
}

var _ hal.OneShot[uint16, ADCPin, error] = (*ADC)(nil)

// NewADC creates an ADC with the given number of inputs, resolution in
// bits and conversion time in ticks.
func NewADC(clk *Clock, inputs int, bits uint8, latency uint32) *ADC {
	if bits == 0 || bits > 16 {
		bits = 12
	}
	return &ADC{clk: clk, latency: latency, bits: bits, inputs: make([]uint16, inputs)}
}

// Max returns the largest sample value.
func (a *ADC) Max() uint16 {
	return uint16(1<<a.bits - 1)
}

// Set drives input pin to raw value v, clamped to Max.
func (a *ADC) Set(pin ADCPin, v uint16) error {
	if int(pin) >= len(a.inputs) {
		return hal.ErrUnknownChannel
	}
	a.inputs[pin] = min(v, a.Max())
	return nil
}

// TryRead implements hal.OneShot. The first poll of a pin starts a
// conversion; polls for any other pin return WouldBlock until that
// conversion has been collected.
func (a *ADC) TryRead(pin ADCPin) nb.Result[uint16, error] {
	a.clk.poll()
	if int(pin) >= len(a.inputs) {
		return nb.Err[uint16](hal.ErrUnknownChannel)
	}
	if !a.converting {
		a.start(pin)
	}
	if a.pin != pin || !a.sampled {
		return nb.WouldBlock[uint16, error]()
	}
	a.converting = false
	return nb.Ready[error](a.sample)
}

func (a *ADC) start(pin ADCPin) {
	a.converting = true
	a.sampled = false
	a.pin = pin
	latch := func() {
		a.sample = a.inputs[pin]
		a.sampled = true
	}
	if a.latency == 0 {
		latch()
		return
	}
	a.clk.after(a.latency, latch)
}
