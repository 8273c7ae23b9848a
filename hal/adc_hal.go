package hal

import "nbhal/nb"

// ADCChannel is implemented by pins an ADC can sample.
type ADCChannel[ID any] interface {
	Channel() ID
}

// OneShot starts a single conversion on pin and returns the sample.
//
// TryRead returns WouldBlock while the conversion is in progress. Polling
// another pin while a conversion is in flight also returns WouldBlock
// until the pending conversion has been collected.
type OneShot[Word, Pin any, E error] interface {
	TryRead(pin Pin) nb.Result[Word, E]
}
