package blocking

import (
	"tinygo.org/x/drivers"

	"nbhal/hal"
	"nbhal/nb"
)

// Exchange sends one word and returns the word clocked in with it.
func Exchange[W any, E error](spi hal.FullDuplex[W, E], word W) (W, error) {
	if _, err := nb.Block(func() nb.Result[nb.Unit, E] { return spi.TrySend(word) }); err != nil {
		var zero W
		return zero, err
	}
	return nb.Block(spi.TryRead)
}

// Transfer sends words and replaces each with the word received during
// its transfer.
func Transfer[W any, E error](spi hal.FullDuplex[W, E], words []W) error {
	for i, w := range words {
		in, err := Exchange(spi, w)
		if err != nil {
			return err
		}
		words[i] = in
	}
	return nil
}

// WriteSPI sends words, discarding what is clocked in.
func WriteSPI[W any, E error](spi hal.FullDuplex[W, E], words []W) error {
	for _, w := range words {
		if _, err := Exchange(spi, w); err != nil {
			return err
		}
	}
	return nil
}

// SPIBus adapts a byte-wide hal SPI to drivers.SPI, the bus interface of
// the tinygo driver collection.
type SPIBus[E error] struct {
	spi hal.FullDuplex[byte, E]
}

var _ drivers.SPI = (*SPIBus[error])(nil)

// NewSPIBus returns an SPIBus over spi.
func NewSPIBus[E error](spi hal.FullDuplex[byte, E]) *SPIBus[E] {
	return &SPIBus[E]{spi: spi}
}

// Tx implements drivers.SPI. Either slice may be nil; when w is shorter
// than r, zeros are sent for the remaining words.
func (b *SPIBus[E]) Tx(w, r []byte) error {
	n := max(len(w), len(r))
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, err := Exchange(b.spi, out)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

// Transfer implements drivers.SPI.
func (b *SPIBus[E]) Transfer(w byte) (byte, error) {
	return Exchange(b.spi, w)
}
