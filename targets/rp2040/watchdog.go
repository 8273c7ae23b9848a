//go:build rp2040 || rp2350

package rp2040

import (
	"device/rp"
	"machine"
	"time"

	"nbhal/hal"
)

// Watchdog drives the chip watchdog. Starting it again reconfigures the
// timeout.
type Watchdog struct{}

var (
	_ hal.Watchdog                      = Watchdog{}
	_ hal.WatchdogEnable[time.Duration] = Watchdog{}
	_ hal.WatchdogDisable               = Watchdog{}
)

// Start implements hal.WatchdogEnable.
func (Watchdog) Start(period time.Duration) error {
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: uint32(period.Milliseconds())})
	if err != nil {
		return err
	}
	return machine.Watchdog.Start()
}

// Feed implements hal.Watchdog.
func (Watchdog) Feed() {
	machine.Watchdog.Update()
}

// Disable implements hal.WatchdogDisable.
func (Watchdog) Disable() error {
	rp.WATCHDOG.CTRL.ClearBits(rp.WATCHDOG_CTRL_ENABLE)
	return nil
}

// Reset forces a chip reset through the watchdog
func Reset() {
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	_ = machine.Watchdog.Start()
	for {
		time.Sleep(time.Millisecond)
	}
}
