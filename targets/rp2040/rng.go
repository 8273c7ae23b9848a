//go:build rp2040 || rp2350

package rp2040

import (
	"machine"

	"nbhal/hal"
	"nbhal/nb"
)

// RNG returns words from machine.GetRNG, which samples the ring
// oscillator. A word is always available.
type RNG struct{}

var _ hal.RNG[uint32, error] = RNG{}

// TryNext implements hal.RNG.
func (RNG) TryNext() nb.Result[uint32, error] {
	v, err := machine.GetRNG()
	if err != nil {
		return nb.Err[uint32](err)
	}
	return nb.Ready[error](v)
}
