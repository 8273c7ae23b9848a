//go:build rp2040 || rp2350

package rp2040

import (
	"fmt"
	"machine"
	"time"

	"nbhal/hal"
)

// pwmPeripheral abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
	SetPeriod(period uint64) error
}

// PWM is one hardware PWM slice. Each of the 8 slices drives two channels
// (A on even GPIOs, B on odd) sharing a period. Duty is in counter
// steps, so MaxDuty is the slice TOP value and changes with the period.
type PWM struct {
	slice   pwmPeripheral
	period  time.Duration
	duty    [2]uint32
	enabled [2]bool
	pins    [2]machine.Pin
	used    [2]bool
}

var _ hal.Pwm[uint8, time.Duration, uint32] = (*PWM)(nil)

// NewPWM configures the slice that drives pin with the given period and
// returns it with the pin's channel attached.
func NewPWM(pin machine.Pin, period time.Duration) (*PWM, uint8, error) {
	// GPIO pin N maps to slice (N >> 1) & 0x7, channel N & 1 (even=A, odd=B)
	slice := pwmSlice(uint8((uint32(pin) >> 1) & 0x7))
	if err := slice.Configure(machine.PWMConfig{Period: uint64(period.Nanoseconds())}); err != nil {
		return nil, 0, err
	}
	p := &PWM{slice: slice, period: period}
	ch, err := p.Attach(pin)
	if err != nil {
		return nil, 0, err
	}
	return p, ch, nil
}

// Attach routes pin to its channel of this slice. The channel starts
// disabled with zero duty.
func (p *PWM) Attach(pin machine.Pin) (uint8, error) {
	ch, err := p.slice.Channel(pin)
	if err != nil {
		return 0, err
	}
	p.pins[ch] = pin
	p.used[ch] = true
	p.slice.Set(ch, 0)
	return ch, nil
}

func (p *PWM) check(ch uint8) error {
	if int(ch) >= len(p.used) || !p.used[ch] {
		return fmt.Errorf("pwm channel %d: %w", ch, hal.ErrUnknownChannel)
	}
	return nil
}

// Enable implements hal.Pwm.
func (p *PWM) Enable(ch uint8) error {
	if err := p.check(ch); err != nil {
		return err
	}
	p.enabled[ch] = true
	p.slice.Set(ch, p.duty[ch])
	return nil
}

// Disable implements hal.Pwm. The slice keeps running and the channel
// compare value is set to zero, so the pin idles low.
func (p *PWM) Disable(ch uint8) error {
	if err := p.check(ch); err != nil {
		return err
	}
	p.enabled[ch] = false
	p.slice.Set(ch, 0)
	return nil
}

func (p *PWM) Period() (time.Duration, error) {
	return p.period, nil
}

// SetPeriod implements hal.Pwm. Duty cycles keep their ratio to the
// period.
func (p *PWM) SetPeriod(period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("pwm period %s: %w", period, hal.ErrUnsupported)
	}
	oldTop := p.slice.Top()
	if err := p.slice.SetPeriod(uint64(period.Nanoseconds())); err != nil {
		return err
	}
	newTop := p.slice.Top()
	for ch := range p.duty {
		if oldTop > 0 {
			p.duty[ch] = uint32(uint64(p.duty[ch]) * uint64(newTop) / uint64(oldTop))
		}
		if p.enabled[ch] {
			p.slice.Set(uint8(ch), p.duty[ch])
		}
	}
	p.period = period
	return nil
}

func (p *PWM) Duty(ch uint8) (uint32, error) {
	if err := p.check(ch); err != nil {
		return 0, err
	}
	return p.duty[ch], nil
}

// SetDuty implements hal.Pwm, with duty in [0, MaxDuty].
func (p *PWM) SetDuty(ch uint8, duty uint32) error {
	if err := p.check(ch); err != nil {
		return err
	}
	if duty > p.slice.Top() {
		return fmt.Errorf("pwm duty %d: %w", duty, hal.ErrDutyOutOfRange)
	}
	p.duty[ch] = duty
	if p.enabled[ch] {
		p.slice.Set(ch, duty)
	}
	return nil
}

func (p *PWM) MaxDuty() (uint32, error) {
	return p.slice.Top(), nil
}

// Pin returns the single-channel view of ch.
func (p *PWM) Pin(ch uint8) *PwmPin {
	return &PwmPin{pwm: p, ch: ch}
}

// PwmPin is one channel of a PWM slice.
type PwmPin struct {
	pwm *PWM
	ch  uint8
}

var _ hal.PwmPin[uint32] = (*PwmPin)(nil)

func (p *PwmPin) Enable() error             { return p.pwm.Enable(p.ch) }
func (p *PwmPin) Disable() error            { return p.pwm.Disable(p.ch) }
func (p *PwmPin) Duty() (uint32, error)     { return p.pwm.Duty(p.ch) }
func (p *PwmPin) SetDuty(duty uint32) error { return p.pwm.SetDuty(p.ch, duty) }
func (p *PwmPin) MaxDuty() (uint32, error)  { return p.pwm.MaxDuty() }

// pwmSlice returns the PWM peripheral for a given slice number
func pwmSlice(n uint8) pwmPeripheral {
	switch n {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
