//go:build rp2040 || rp2350

package rp2040

import (
	"device/rp"
	"errors"
	"machine"

	"nbhal/hal"
	"nbhal/nb"
)

// ErrADCConversion is returned when the converter flags a conversion error.
var ErrADCConversion = errors.New("adc: conversion error")

// ADCPin is an ADC input: channels 0-3 are GPIO26-GPIO29, channel 4 is
// the internal temperature sensor.
type ADCPin struct {
	ch uint8
}

var _ hal.ADCChannel[uint8] = ADCPin{}

// Channel implements hal.ADCChannel.
func (p ADCPin) Channel() uint8 { return p.ch }

// TempSensor is the internal temperature sensor input.
var TempSensor = ADCPin{ch: 4}

// ADC is the single SAR converter. One conversion runs at a time: the
// first TryRead of a pin starts it and later calls return WouldBlock
// until READY is set. Reads of other pins wait for the pending one.
type ADC struct {
	pending int8
}

var _ hal.OneShot[uint16, ADCPin, error] = (*ADC)(nil)

// NewADC powers up the converter.
func NewADC() *ADC {
	machine.InitADC()
	return &ADC{pending: -1}
}

// Pin configures an analog GPIO (GPIO26-GPIO29) as an ADC input.
func (a *ADC) Pin(p machine.Pin) (ADCPin, error) {
	if p < machine.ADC0 || p > machine.ADC3 {
		return ADCPin{}, errors.New("unsupported ADC channel")
	}
	adc := machine.ADC{Pin: p}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return ADCPin{}, err
	}
	return ADCPin{ch: uint8(p - machine.ADC0)}, nil
}

// TryRead implements hal.OneShot with the raw 12-bit result (0-4095).
func (a *ADC) TryRead(pin ADCPin) nb.Result[uint16, error] {
	if a.pending < 0 {
		if pin.ch == TempSensor.ch {
			rp.ADC.CS.SetBits(rp.ADC_CS_TS_EN)
		}
		rp.ADC.CS.ReplaceBits(uint32(pin.ch)<<rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Msk, 0)
		rp.ADC.CS.SetBits(rp.ADC_CS_START_ONCE)
		a.pending = int8(pin.ch)
		return nb.WouldBlock[uint16, error]()
	}
	if a.pending != int8(pin.ch) || !rp.ADC.CS.HasBits(rp.ADC_CS_READY) {
		return nb.WouldBlock[uint16, error]()
	}

	a.pending = -1
	if rp.ADC.CS.HasBits(rp.ADC_CS_ERR) {
		return nb.Err[uint16](ErrADCConversion)
	}
	return nb.Ready[error](uint16(rp.ADC.RESULT.Get()))
}

// Max returns the largest raw conversion result.
func (a *ADC) Max() uint16 {
	return 4095
}
