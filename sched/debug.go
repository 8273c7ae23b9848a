package sched

// DebugWriter receives one line of debug output
type DebugWriter func(string)

var (
	// debugPrintln is set by platform code (UART, USB, glog on the host)
	debugPrintln DebugWriter = func(s string) {}

	debugEnabled bool
)

// SetDebugWriter redirects debug output. A nil writer silences it.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(s string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug line if debug output is enabled
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}
