package hal

// Pwm is a multi-channel pulse width modulator sharing one period.
//
// Channel names a channel, Time is the period unit and Duty the duty
// cycle unit. SetDuty fails with ErrDutyOutOfRange (or a target error)
// when duty exceeds MaxDuty.
type Pwm[Channel, Time, Duty any] interface {
	Disable(ch Channel) error
	Enable(ch Channel) error

	Period() (Time, error)
	SetPeriod(period Time) error

	Duty(ch Channel) (Duty, error)
	SetDuty(ch Channel, duty Duty) error
	MaxDuty() (Duty, error)
}

// PwmPin is a single PWM channel.
type PwmPin[Duty any] interface {
	Disable() error
	Enable() error

	Duty() (Duty, error)
	SetDuty(duty Duty) error
	MaxDuty() (Duty, error)
}
