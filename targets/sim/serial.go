package sim

import (
	"nbhal/fifo"
	"nbhal/hal"
	"nbhal/nb"
)

// Port is a simulated UART with transmit and receive FIFOs of equal depth.
// A written word is shifted out one word time after it leaves the transmit
// FIFO and lands in the receive FIFO of the peer port. A word arriving at a
// full receive FIFO is lost and the next read reports an overrun.
type Port struct {
	clk       *Clock
	wordTicks uint32

	tx   *fifo.Fifo[byte]
	rx   *fifo.Fifo[byte]
	peer *Port

	shifting bool
	rxErr    hal.SerialErrorKind
}

var _ hal.Serial[byte, error] = (*Port)(nil)

func newPort(clk *Clock, size int, wordTicks uint32) *Port {
	if wordTicks == 0 {
		wordTicks = 1
	}
	return &Port{
		clk:       clk,
		wordTicks: wordTicks,
		tx:        fifo.New[byte](size),
		rx:        fifo.New[byte](size),
	}
}

// NewSerialPair returns two ports wired TX to RX in both directions.
// size is the FIFO depth and wordTicks the time to shift out one word.
func NewSerialPair(clk *Clock, size int, wordTicks uint32) (*Port, *Port) {
	a := newPort(clk, size, wordTicks)
	b := newPort(clk, size, wordTicks)
	a.peer, b.peer = b, a
	return a, b
}

// NewLoopback returns a port whose TX is wired to its own RX.
func NewLoopback(clk *Clock, size int, wordTicks uint32) *Port {
	p := newPort(clk, size, wordTicks)
	p.peer = p
	return p
}

// WordTicks returns the ticks needed to shift out one word at baud with
// one start and one stop bit.
func WordTicks(clk *Clock, baud int) uint32 {
	if baud <= 0 {
		return 1
	}
	t := uint32(uint64(clk.Hz()) * 10 / uint64(baud))
	if t == 0 {
		t = 1
	}
	return t
}

// TryRead implements hal.SerialRead.
func (p *Port) TryRead() nb.Result[byte, error] {
	p.clk.poll()
	if p.rxErr != 0 {
		kind := p.rxErr
		p.rxErr = 0
		return nb.Err[byte, error](hal.SerialError{Kind: kind})
	}
	b, ok := p.rx.Pop()
	if !ok {
		return nb.WouldBlock[byte, error]()
	}
	return nb.Ready[error](b)
}

// TryWrite implements hal.SerialWrite.
func (p *Port) TryWrite(b byte) nb.Result[nb.Unit, error] {
	p.clk.poll()
	if !p.tx.Push(b) {
		return nb.WouldBlock[nb.Unit, error]()
	}
	p.startShift()
	return nb.Ready[error](nb.Unit{})
}

// TryFlush implements hal.SerialWrite.
func (p *Port) TryFlush() nb.Result[nb.Unit, error] {
	p.clk.poll()
	if p.shifting || !p.tx.IsEmpty() {
		return nb.WouldBlock[nb.Unit, error]()
	}
	return nb.Ready[error](nb.Unit{})
}

// startShift moves the next queued word into the shift register
func (p *Port) startShift() {
	if p.shifting {
		return
	}
	b, ok := p.tx.Pop()
	if !ok {
		return
	}
	p.shifting = true
	p.clk.after(p.wordTicks, func() {
		p.shifting = false
		p.peer.receive(b)
		p.startShift()
	})
}

func (p *Port) receive(b byte) {
	if !p.rx.Push(b) {
		p.rxErr = hal.Overrun
	}
}

// InjectError makes the next read fail with the given error kind, as a
// line fault would.
func (p *Port) InjectError(kind hal.SerialErrorKind) {
	p.rxErr = kind
}

// Buffered returns the number of words waiting in the receive FIFO.
func (p *Port) Buffered() int {
	return p.rx.Len()
}
