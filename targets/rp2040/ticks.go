//go:build rp2040 || rp2350

// Package rp2040 implements the hal contracts on the Raspberry Pi RP2040
// and RP2350 under TinyGo. Everything here polls hardware status bits and
// returns WouldBlock instead of waiting.
package rp2040

// TickHz is the frequency of the microsecond hardware timer
const TickHz = 1000000

// Ticks returns the low 32 bits of the microsecond counter
func Ticks() uint32 {
	return timerRAWL.Get()
}

// Uptime reads the full 64-bit microsecond counter
func Uptime() uint64 {
	// Must read high first, then low, then high again to detect rollover
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}
