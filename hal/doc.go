// Package hal defines hardware-independent contracts for peripheral I/O.
//
// Each peripheral category is a small interface, or a family of them, that
// a target implements for its hardware. Drivers written against these
// interfaces run on any target that provides them.
//
// Operations that may have to wait for the hardware return an nb.Result and
// report WouldBlock instead of blocking. Such operations have no side
// effect while they report WouldBlock, so they can be polled from a busy
// loop, a cooperative task or an interrupt handler alike. Operations that
// are instantaneous on every known target (pin I/O, PWM configuration,
// encoder reads) are plain synchronous calls.
//
// Go interfaces have no associated types; the word, error, channel, time
// and duty types a target chooses are the type parameters of the
// interfaces here.
package hal
