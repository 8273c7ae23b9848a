package hal

import "nbhal/nb"

// SerialRead reads single words from a serial receiver.
//
// TryRead returns WouldBlock while the receive buffer is empty. Receive
// errors (overrun, framing, parity, noise) are reported through E.
type SerialRead[Word any, E error] interface {
	TryRead() nb.Result[Word, E]
}

// SerialWrite writes single words to a serial transmitter.
//
// TryWrite returns WouldBlock while the transmit buffer is full; the word
// was not queued and must be offered again. TryFlush returns WouldBlock
// until every queued word has been shifted out.
type SerialWrite[Word any, E error] interface {
	TryWrite(word Word) nb.Result[nb.Unit, E]
	TryFlush() nb.Result[nb.Unit, E]
}

// Serial is a full serial port.
type Serial[Word any, E error] interface {
	SerialRead[Word, E]
	SerialWrite[Word, E]
}
