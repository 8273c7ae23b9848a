//go:build rp2040

package rp2040

import (
	"machine"

	"tinygo.org/x/drivers/encoders"
)

// NewQei configures pins a and b with pull-ups and edge interrupts. Every
// edge counts (precision 1).
func NewQei(a, b machine.Pin) (*Qei, error) {
	dev := encoders.NewQuadratureViaInterrupt(a, b)
	if err := dev.Configure(encoders.QuadratureConfig{Precision: 1}); err != nil {
		return nil, err
	}
	return &Qei{dev: dev}, nil
}
