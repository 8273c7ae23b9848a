package hal

// Watchdog resets the system unless fed before its period elapses.
type Watchdog interface {
	// Feed restarts the watchdog period. It cannot fail.
	Feed()
}

// WatchdogEnable starts a watchdog with the given period.
type WatchdogEnable[Time any] interface {
	Start(period Time) error
}

// WatchdogDisable stops a running watchdog.
type WatchdogDisable interface {
	Disable() error
}
