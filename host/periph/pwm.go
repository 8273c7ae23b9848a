package periph

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"nbhal/hal"
)

// PwmPin drives a single periph PWM output. The duty cycle is expressed
// in gpio.Duty units, so MaxDuty is gpio.DutyMax.
type PwmPin struct {
	out     gpio.PinOut
	freq    physic.Frequency
	duty    gpio.Duty
	enabled bool
}

var _ hal.PwmPin[gpio.Duty] = (*PwmPin)(nil)

// NewPwmPin returns a disabled PWM output at frequency f. The line is
// driven low until Enable.
func NewPwmPin(out gpio.PinOut, f physic.Frequency) (*PwmPin, error) {
	if f <= 0 {
		return nil, fmt.Errorf("periph: invalid pwm frequency %s", f)
	}
	if err := out.Out(gpio.Low); err != nil {
		return nil, err
	}
	return &PwmPin{out: out, freq: f}, nil
}

func (p *PwmPin) apply() error {
	if !p.enabled {
		return nil
	}
	return p.out.PWM(p.duty, p.freq)
}

// Enable starts the waveform with the current duty cycle.
func (p *PwmPin) Enable() error {
	p.enabled = true
	return p.apply()
}

// Disable stops the waveform and drives the line low.
func (p *PwmPin) Disable() error {
	p.enabled = false
	return p.out.Out(gpio.Low)
}

func (p *PwmPin) Duty() (gpio.Duty, error) {
	return p.duty, nil
}

// SetDuty sets the duty cycle, in [0, gpio.DutyMax].
func (p *PwmPin) SetDuty(d gpio.Duty) error {
	if !d.Valid() {
		return fmt.Errorf("periph: duty %d: %w", d, hal.ErrDutyOutOfRange)
	}
	p.duty = d
	return p.apply()
}

func (p *PwmPin) MaxDuty() (gpio.Duty, error) {
	return gpio.DutyMax, nil
}

// Period returns the waveform period.
func (p *PwmPin) Period() time.Duration {
	return p.freq.Period()
}

// SetPeriod changes the waveform period, keeping the duty ratio.
func (p *PwmPin) SetPeriod(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("periph: period %s: %w", d, hal.ErrUnsupported)
	}
	p.freq = physic.PeriodToFrequency(d)
	return p.apply()
}
