package blocking

import (
	"io"

	"nbhal/hal"
	"nbhal/nb"
)

// Word is an unsigned word an RNG can produce.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Next blocks until the generator produces a word.
func Next[W any, E error](rng hal.RNG[W, E]) (W, error) {
	return nb.Block(rng.TryNext)
}

// Fill fills buf with random bytes, taking each word little-endian.
func Fill[W Word, E error](rng hal.RNG[W, E], buf []byte) error {
	size := wordSize[W]()
	for i := 0; i < len(buf); {
		w, err := Next(rng)
		if err != nil {
			return err
		}
		v := uint64(w)
		for j := 0; j < size && i < len(buf); j++ {
			buf[i] = byte(v)
			v >>= 8
			i++
		}
	}
	return nil
}

func wordSize[W Word]() int {
	n := 0
	for v := uint64(^W(0)); v != 0; v >>= 8 {
		n++
	}
	return n
}

// NewReader returns an io.Reader of random bytes from rng.
func NewReader[W Word, E error](rng hal.RNG[W, E]) io.Reader {
	return readerFunc(func(p []byte) (int, error) {
		if err := Fill(rng, p); err != nil {
			return 0, err
		}
		return len(p), nil
	})
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
