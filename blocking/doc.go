// Package blocking builds blocking helpers on the non-blocking contracts
// in hal: write a whole buffer, read with a timeout, exchange SPI words,
// sleep on a count-down timer, fill a buffer from an RNG, and adapt hal
// peripherals to io and tinygo.org/x/drivers interfaces.
//
// Every helper spins on nb.Block, so it works on any target regardless of
// how the target makes progress.
package blocking
