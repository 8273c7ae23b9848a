package sim

import (
	"errors"
	"testing"

	"nbhal/hal"
	"nbhal/nb"
	"nbhal/sched"
)

func TestSerialReadWouldBlockIsIdempotent(t *testing.T) {
	clk := NewClock(0)
	a, b := NewSerialPair(clk, 4, 3)

	for i := 0; i < 10; i++ {
		if r := b.TryRead(); !r.IsWouldBlock() {
			t.Fatalf("poll %d: got %s, want WouldBlock", i, r)
		}
	}
	if b.Buffered() != 0 {
		t.Fatalf("Buffered = %d after empty polls", b.Buffered())
	}

	if r := a.TryWrite('x'); !r.IsReady() {
		t.Fatalf("TryWrite = %s", r)
	}
	clk.Advance(2)
	if r := b.TryRead(); !r.IsWouldBlock() {
		t.Fatalf("word arrived early: %s", r)
	}
	clk.Advance(1)
	v, err := b.TryRead().Unpack()
	if err != nil || v != 'x' {
		t.Fatalf("TryRead = (%q, %v)", v, err)
	}
	if r := b.TryRead(); !r.IsWouldBlock() {
		t.Fatalf("word read twice: %s", r)
	}
}

// Writer and reader run as cooperative tasks, one clock tick per loop
// iteration. Every byte must arrive once and in order for any FIFO depth.
func TestSerialOrderingAcrossFifoSizes(t *testing.T) {
	msg := []byte("The quick brown fox jumps over the lazy dog 0123456789")

	for size := 1; size <= 6; size++ {
		clk := NewClock(0)
		a, b := NewSerialPair(clk, size, 2)

		var got []byte
		sent := 0
		flushed := false
		loop := sched.NewLoop()
		loop.AddFunc(
			func() bool {
				for sent < len(msg) && a.TryWrite(msg[sent]).IsReady() {
					sent++
				}
				if sent < len(msg) {
					return false
				}
				flushed = a.TryFlush().IsReady()
				return flushed
			},
			func() bool {
				r := b.TryRead()
				if r.Failed() {
					t.Fatalf("size %d: read failed: %s", size, r)
				}
				if v, err := r.Unpack(); err == nil {
					got = append(got, v)
				}
				return len(got) == len(msg)
			},
			func() bool {
				clk.Advance(1)
				return flushed && len(got) == len(msg)
			},
		)

		if err := loop.RunUntilIdle(10000); err != nil {
			t.Fatalf("size %d: %v (got %q)", size, err, got)
		}
		if string(got) != string(msg) {
			t.Errorf("size %d: got %q", size, got)
		}
	}
}

func TestSerialWriteWouldBlockWhenFull(t *testing.T) {
	clk := NewClock(0)
	a, b := NewSerialPair(clk, 2, 5)

	// shift register plus a two word FIFO
	for i := byte(0); i < 3; i++ {
		if r := a.TryWrite(i); !r.IsReady() {
			t.Fatalf("write %d: %s", i, r)
		}
	}
	if r := a.TryWrite(3); !r.IsWouldBlock() {
		t.Fatalf("write to full TX = %s, want WouldBlock", r)
	}
	if r := a.TryFlush(); !r.IsWouldBlock() {
		t.Fatalf("flush with queued data = %s", r)
	}

	clk.Advance(100)
	if r := a.TryFlush(); !r.IsReady() {
		t.Fatalf("flush after drain = %s", r)
	}

	// third word overran the two word RX FIFO
	_, err := b.TryRead().Unpack()
	if !errors.Is(err, hal.ErrOverrun) {
		t.Fatalf("first read err = %v, want overrun", err)
	}
	for want := byte(0); want < 2; want++ {
		v, err := b.TryRead().Unpack()
		if err != nil || v != want {
			t.Fatalf("read = (%d, %v), want %d", v, err, want)
		}
	}
}

func TestSerialInjectError(t *testing.T) {
	clk := NewClock(0)
	p := NewLoopback(clk, 1, 1)
	p.InjectError(hal.Framing)

	_, err := p.TryRead().Unpack()
	var se hal.SerialError
	if !errors.As(err, &se) || se.Kind != hal.Framing {
		t.Fatalf("err = %v, want framing error", err)
	}
	if r := p.TryRead(); !r.IsWouldBlock() {
		t.Fatalf("error reported twice: %s", r)
	}
}

func TestSerialBlockWithAutoStep(t *testing.T) {
	clk := NewClock(0)
	clk.SetAutoStep(1)
	p := NewLoopback(clk, 1, WordTicks(clk, 1000000))

	if _, err := nb.Block(func() nb.Result[nb.Unit, error] { return p.TryWrite(0x55) }); err != nil {
		t.Fatal(err)
	}
	v, err := nb.Block(p.TryRead)
	if err != nil || v != 0x55 {
		t.Fatalf("Block(TryRead) = (%#x, %v)", v, err)
	}
}

func TestWordTicks(t *testing.T) {
	clk := NewClock(1000000)
	if got := WordTicks(clk, 100000); got != 100 {
		t.Errorf("WordTicks(100000) = %d, want 100", got)
	}
	if got := WordTicks(clk, 0); got != 1 {
		t.Errorf("WordTicks(0) = %d, want 1", got)
	}
}
