package periph

import (
	"periph.io/x/conn/v3/analog"

	"nbhal/hal"
	"nbhal/nb"
)

// ADC converts periph analog inputs. periph reads are synchronous, so
// TryRead never returns WouldBlock.
type ADC struct{}

var _ hal.OneShot[int32, analog.PinADC, error] = ADC{}

// TryRead implements hal.OneShot with the raw sample value.
func (ADC) TryRead(pin analog.PinADC) nb.Result[int32, error] {
	s, err := pin.Read()
	if err != nil {
		return nb.Err[int32](err)
	}
	return nb.Ready[error](s.Raw)
}

// Sample reads pin and returns both the raw value and the voltage, when
// the device knows it.
func (ADC) Sample(pin analog.PinADC) (analog.Sample, error) {
	return pin.Read()
}

// Max returns the largest raw value pin can report.
func (ADC) Max(pin analog.PinADC) int32 {
	_, hi := pin.Range()
	return hi.Raw
}
