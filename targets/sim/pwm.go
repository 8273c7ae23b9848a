package sim

import (
	"time"

	"nbhal/hal"
)

// Channel names a channel of a multi-channel peripheral.
type Channel uint8

// PWM is a simulated PWM block whose channels share one period. Duty is
// counted in clock ticks, so MaxDuty equals the period in ticks.
type PWM struct {
	clk     *Clock
	period  uint32
	duty    []uint32
	enabled []bool
}

var _ hal.Pwm[Channel, time.Duration, uint32] = (*PWM)(nil)

// NewPWM creates a PWM block with n channels, all disabled at 0 duty.
func NewPWM(clk *Clock, channels int, period time.Duration) *PWM {
	p := &PWM{
		clk:     clk,
		duty:    make([]uint32, channels),
		enabled: make([]bool, channels),
	}
	p.period = clk.Ticks(period)
	if p.period == 0 {
		p.period = 1
	}
	return p
}

// Channels returns the number of channels.
func (p *PWM) Channels() int {
	return len(p.duty)
}

func (p *PWM) check(ch Channel) error {
	if int(ch) >= len(p.duty) {
		return hal.ErrUnknownChannel
	}
	return nil
}

// Enable implements hal.Pwm.
func (p *PWM) Enable(ch Channel) error {
	if err := p.check(ch); err != nil {
		return err
	}
	p.enabled[ch] = true
	return nil
}

// Disable implements hal.Pwm.
func (p *PWM) Disable(ch Channel) error {
	if err := p.check(ch); err != nil {
		return err
	}
	p.enabled[ch] = false
	return nil
}

// Enabled reports whether ch is enabled.
func (p *PWM) Enabled(ch Channel) bool {
	return p.check(ch) == nil && p.enabled[ch]
}

// Period implements hal.Pwm.
func (p *PWM) Period() (time.Duration, error) {
	return p.clk.Duration(p.period), nil
}

// SetPeriod implements hal.Pwm. Duties keep their ratio to the period.
func (p *PWM) SetPeriod(period time.Duration) error {
	ticks := p.clk.Ticks(period)
	if ticks == 0 {
		return hal.ErrUnsupported
	}
	for i, d := range p.duty {
		p.duty[i] = uint32(uint64(d) * uint64(ticks) / uint64(p.period))
	}
	p.period = ticks
	return nil
}

// Duty implements hal.Pwm.
func (p *PWM) Duty(ch Channel) (uint32, error) {
	if err := p.check(ch); err != nil {
		return 0, err
	}
	return p.duty[ch], nil
}

// SetDuty implements hal.Pwm.
func (p *PWM) SetDuty(ch Channel, duty uint32) error {
	if err := p.check(ch); err != nil {
		return err
	}
	if duty > p.period {
		return hal.ErrDutyOutOfRange
	}
	p.duty[ch] = duty
	return nil
}

// MaxDuty implements hal.Pwm.
func (p *PWM) MaxDuty() (uint32, error) {
	return p.period, nil
}

// Level returns the output level of ch at the current clock time.
func (p *PWM) Level(ch Channel) bool {
	if !p.Enabled(ch) {
		return false
	}
	return p.clk.Now()%p.period < p.duty[ch]
}

// Pin returns a single-channel view of ch.
func (p *PWM) Pin(ch Channel) *PwmPin {
	return &PwmPin{pwm: p, ch: ch}
}

// PwmPin is one channel of a PWM block.
type PwmPin struct {
	pwm *PWM
	ch  Channel
}

var _ hal.PwmPin[uint32] = (*PwmPin)(nil)

func (p *PwmPin) Enable() error             { return p.pwm.Enable(p.ch) }
func (p *PwmPin) Disable() error            { return p.pwm.Disable(p.ch) }
func (p *PwmPin) Duty() (uint32, error)     { return p.pwm.Duty(p.ch) }
func (p *PwmPin) SetDuty(duty uint32) error { return p.pwm.SetDuty(p.ch, duty) }
func (p *PwmPin) MaxDuty() (uint32, error)  { return p.pwm.MaxDuty() }
