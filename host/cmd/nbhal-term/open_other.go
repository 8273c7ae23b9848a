//go:build !linux && !wasm

package main

import (
	"errors"

	"nbhal/host/serial"
)

func openPort(cfg *serial.Config, raw bool) (serial.Port, error) {
	if raw {
		return nil, errors.New("-raw is only supported on linux")
	}
	return serial.Open(cfg)
}
