package sim

import (
	"fmt"
	"time"
)

// BoardConfig describes a simulated board. Zero fields are filled in by
// config.Load; NewBoard expects a complete configuration.
type BoardConfig struct {
	TickHz   uint32 `json:"tick_hz"`   // Virtual clock frequency
	AutoStep uint32 `json:"auto_step"` // Ticks elapsed per peripheral operation

	Serial   SerialConfig   `json:"serial"`
	SPI      SPIConfig      `json:"spi"`
	PWM      PWMConfig      `json:"pwm"`
	Capture  CaptureConfig  `json:"capture"`
	ADC      ADCConfig      `json:"adc"`
	RNG      RNGConfig      `json:"rng"`
	Watchdog WatchdogConfig `json:"watchdog"`

	Pins int `json:"pins"` // Number of digital pins
}

// SerialConfig configures UART0.
type SerialConfig struct {
	Baud     int  `json:"baud"`
	FIFO     int  `json:"fifo"`     // FIFO depth in words
	Loopback bool `json:"loopback"` // Wire TX to RX instead of to the Remote port
}

// SPIConfig configures SPI0. The bus is a loopback unless a Device is
// attached in code.
type SPIConfig struct {
	ClockHz uint32 `json:"clock_hz"`
	Mode    uint8  `json:"mode"`
}

// PWMConfig configures PWM0.
type PWMConfig struct {
	Channels int    `json:"channels"`
	PeriodUS uint32 `json:"period_us"`
}

// CaptureConfig configures CAPTURE0. Signals maps a channel to the
// period in microseconds of the square wave attached to it.
type CaptureConfig struct {
	Channels     int                `json:"channels"`
	ResolutionUS uint32             `json:"resolution_us"`
	Signals      map[Channel]uint32 `json:"signals"`
}

// ADCConfig configures ADC0.
type ADCConfig struct {
	Inputs  int      `json:"inputs"`
	Bits    uint8    `json:"bits"`
	Latency uint32   `json:"latency"` // Conversion time in ticks
	Values  []uint16 `json:"values"`  // Initial input levels
}

// RNGConfig configures the random number generator.
type RNGConfig struct {
	Seed   uint64 `json:"seed"`
	Refill uint32 `json:"refill"` // Ticks per generated word
}

// WatchdogConfig configures the watchdog. A zero timeout leaves it
// stopped.
type WatchdogConfig struct {
	TimeoutMS uint32 `json:"timeout_ms"`
}

// Validate checks the fields NewBoard cannot build from.
func (cfg *BoardConfig) Validate() error {
	switch {
	case cfg.Serial.FIFO < 1:
		return fmt.Errorf("serial fifo must be at least 1, got %d", cfg.Serial.FIFO)
	case cfg.Serial.Baud < 0:
		return fmt.Errorf("serial baud must not be negative, got %d", cfg.Serial.Baud)
	case cfg.SPI.Mode > 3:
		return fmt.Errorf("spi mode must be 0-3, got %d", cfg.SPI.Mode)
	case cfg.PWM.Channels < 0:
		return fmt.Errorf("pwm channels must not be negative, got %d", cfg.PWM.Channels)
	case cfg.Capture.Channels < 0:
		return fmt.Errorf("capture channels must not be negative, got %d", cfg.Capture.Channels)
	case cfg.ADC.Inputs < 0:
		return fmt.Errorf("adc inputs must not be negative, got %d", cfg.ADC.Inputs)
	case cfg.Pins < 0:
		return fmt.Errorf("pins must not be negative, got %d", cfg.Pins)
	}
	return nil
}

// Board is a complete simulated microcontroller.
type Board struct {
	Clock *Clock

	UART0 *Port
	// Remote is the far end of UART0, nil when UART0 is a loopback
	Remote *Port

	SPI0     *SPI
	Timer0   *Timer
	Timer1   *PeriodicTimer
	PWM0     *PWM
	Capture0 *Capture
	Qei0     *Qei
	ADC0     *ADC
	RNG      *RNG
	Watchdog *Watchdog
	Pins     []*Pin
}

// NewBoard builds every peripheral described by cfg.
func NewBoard(cfg *BoardConfig) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("board config: %w", err)
	}

	clk := NewClock(cfg.TickHz)
	clk.SetAutoStep(cfg.AutoStep)

	b := &Board{Clock: clk}

	wt := WordTicks(clk, cfg.Serial.Baud)
	if cfg.Serial.Loopback {
		b.UART0 = NewLoopback(clk, cfg.Serial.FIFO, wt)
	} else {
		b.UART0, b.Remote = NewSerialPair(clk, cfg.Serial.FIFO, wt)
	}

	spiTicks := uint32(1)
	if cfg.SPI.ClockHz > 0 {
		spiTicks = max(1, uint32(uint64(clk.Hz())*8/uint64(cfg.SPI.ClockHz)))
	}
	b.SPI0 = NewSPI(clk, spiTicks, modeFromNumber(cfg.SPI.Mode), nil)

	b.Timer0 = NewTimer(clk)
	b.Timer1 = NewPeriodicTimer(clk)
	b.PWM0 = NewPWM(clk, cfg.PWM.Channels, us(cfg.PWM.PeriodUS))

	b.Capture0 = NewCapture(clk, cfg.Capture.Channels, us(cfg.Capture.ResolutionUS))
	for ch, period := range cfg.Capture.Signals {
		if err := b.Capture0.Feed(ch, us(period)); err != nil {
			return nil, err
		}
	}

	b.Qei0 = &Qei{}

	b.ADC0 = NewADC(clk, cfg.ADC.Inputs, cfg.ADC.Bits, cfg.ADC.Latency)
	for i, v := range cfg.ADC.Values {
		if err := b.ADC0.Set(ADCPin(i), v); err != nil {
			return nil, err
		}
	}

	b.RNG = NewRNG(clk, cfg.RNG.Seed, cfg.RNG.Refill)

	b.Watchdog = NewWatchdog(clk, nil)
	if cfg.Watchdog.TimeoutMS > 0 {
		if err := b.Watchdog.Start(time.Duration(cfg.Watchdog.TimeoutMS) * time.Millisecond); err != nil {
			return nil, err
		}
	}

	b.Pins = make([]*Pin, cfg.Pins)
	for i := range b.Pins {
		b.Pins[i] = &Pin{}
	}
	return b, nil
}

func us(v uint32) time.Duration {
	return time.Duration(v) * time.Microsecond
}
