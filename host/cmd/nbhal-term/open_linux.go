//go:build linux

package main

import "nbhal/host/serial"

func openPort(cfg *serial.Config, raw bool) (serial.Port, error) {
	if raw {
		return serial.OpenTTY(cfg)
	}
	return serial.Open(cfg)
}
