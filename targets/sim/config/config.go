// Package config loads simulated board descriptions from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"nbhal/targets/sim"
)

// Load parses a JSON board description and fills in defaults
func Load(jsonData []byte) (*sim.BoardConfig, error) {
	var config sim.BoardConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, fmt.Errorf("parse board config: %w", err)
	}

	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}

	return &config, nil
}

// LoadFile reads and parses a board description file
func LoadFile(path string) (*sim.BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board config: %w", err)
	}
	return Load(data)
}

// Default returns the default board
func Default() *sim.BoardConfig {
	var config sim.BoardConfig
	applyDefaults(&config)
	return &config
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *sim.BoardConfig) {
	if config.TickHz == 0 {
		config.TickHz = sim.DefaultTickHz
	}

	// UART0: 115200 8N1 with a 16-word FIFO
	if config.Serial.Baud == 0 {
		config.Serial.Baud = 115200
	}
	if config.Serial.FIFO == 0 {
		config.Serial.FIFO = 16
	}

	if config.SPI.ClockHz == 0 {
		config.SPI.ClockHz = 1000000
	}

	// PWM0: 4 channels at 1kHz
	if config.PWM.Channels == 0 {
		config.PWM.Channels = 4
	}
	if config.PWM.PeriodUS == 0 {
		config.PWM.PeriodUS = 1000
	}

	if config.Capture.Channels == 0 {
		config.Capture.Channels = 2
	}
	if config.Capture.ResolutionUS == 0 {
		config.Capture.ResolutionUS = 1
	}

	// ADC0: 12-bit, 2us conversion at the default tick rate
	if config.ADC.Inputs == 0 {
		config.ADC.Inputs = max(4, len(config.ADC.Values))
	}
	if config.ADC.Bits == 0 {
		config.ADC.Bits = 12
	}
	if config.ADC.Latency == 0 {
		config.ADC.Latency = 2
	}

	if config.RNG.Seed == 0 {
		config.RNG.Seed = 1
	}
	if config.RNG.Refill == 0 {
		config.RNG.Refill = 1
	}

	if config.Pins == 0 {
		config.Pins = 30
	}
}
