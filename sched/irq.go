package sched

import "strconv"

// Line identifies an interrupt source.
type Line uint8

// Handler services one interrupt. It returns false when it found nothing
// to do, i.e. the non-blocking operation it polled reported WouldBlock.
type Handler func() bool

// Dispatcher delivers raised interrupt lines to their handlers.
type Dispatcher struct {
	handlers map[Line]Handler
	counts   map[Line]uint32
	spurious uint32
}

// NewDispatcher creates a Dispatcher with no handlers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Line]Handler),
		counts:   make(map[Line]uint32),
	}
}

// Register installs h for line, replacing any previous handler.
func (d *Dispatcher) Register(line Line, h Handler) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	d.handlers[line] = h
}

// Raise runs the handler for line once, as the interrupt controller
// would. An unhandled line, or a handler that found nothing to do, counts
// as spurious.
func (d *Dispatcher) Raise(line Line) {
	state := disableInterrupts()
	h := d.handlers[line]
	d.counts[line]++
	restoreInterrupts(state)

	if h == nil || !h() {
		d.spurious++
		DebugPrintln("[IRQ] spurious line=" + strconv.Itoa(int(line)))
	}
}

// Count returns how many times line has been raised.
func (d *Dispatcher) Count(line Line) uint32 {
	return d.counts[line]
}

// Spurious returns the number of interrupts that found nothing to do.
func (d *Dispatcher) Spurious() uint32 {
	return d.spurious
}
