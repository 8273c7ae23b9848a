package hal

import "nbhal/nb"

// RNG produces random words. TryNext returns WouldBlock until the
// generator has collected enough entropy for the next word.
type RNG[Word any, E error] interface {
	TryNext() nb.Result[Word, E]
}
