package blocking

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nbhal/hal"
	"nbhal/nb"
	"nbhal/targets/sim"
)

func newClock() *sim.Clock {
	clk := sim.NewClock(0)
	clk.SetAutoStep(1)
	return clk
}

func TestWriteAllThenRead(t *testing.T) {
	clk := newClock()
	a, b := sim.NewSerialPair(clk, 64, 2)

	msg := []byte("hello, world")
	require.NoError(t, WriteAll(a, msg))
	require.NoError(t, Flush(a))

	got := make([]byte, len(msg))
	for i := range got {
		v, err := Read(b)
		require.NoError(t, err)
		got[i] = v
	}
	require.Equal(t, msg, got)
}

func TestReadWithTimeout(t *testing.T) {
	clk := newClock()
	port := sim.NewLoopback(clk, 4, 3)
	timer := sim.NewTimer(clk)

	start := clk.Now()
	_, err := ReadWithTimeout(port, timer, 100*time.Microsecond)
	require.ErrorIs(t, err, ErrTimedOut)
	require.GreaterOrEqual(t, clk.Now()-start, uint32(100))

	require.NoError(t, Write(port, 'k'))
	v, err := ReadWithTimeout(port, timer, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, byte('k'), v)

	port.InjectError(hal.Parity)
	_, err = ReadWithTimeout(port, timer, time.Millisecond)
	var se hal.SerialError
	require.ErrorAs(t, err, &se)
	require.Equal(t, hal.Parity, se.Kind)
}

func TestWriterWithFmt(t *testing.T) {
	clk := newClock()
	a, b := sim.NewSerialPair(clk, 64, 1)

	w := NewWriter(a)
	_, err := fmt.Fprintf(w, "adc=%d\n", 2048)
	require.NoError(t, err)
	_, err = w.WriteString("ok")
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	u := NewUART(b)
	require.Equal(t, 11, u.Buffered())
	buf := make([]byte, 32)
	n, err := u.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "adc=2048\nok", string(buf[:n]))

	n, err = u.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUARTWrite(t *testing.T) {
	clk := newClock()
	a, b := sim.NewSerialPair(clk, 8, 1)
	u := NewUART(a)

	n, err := u.Write([]byte("ping"))
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.NoError(t, u.Flush())
	require.Equal(t, 4, b.Buffered())
}

// failingPort rejects every write with its error.
type failingPort struct{ err error }

func (p failingPort) TryWrite(byte) nb.Result[nb.Unit, error] { return nb.Err[nb.Unit](p.err) }
func (p failingPort) TryFlush() nb.Result[nb.Unit, error]     { return nb.Ready[error](nb.Unit{}) }

func TestWriteErrorsPropagate(t *testing.T) {
	boom := errors.New("line down")
	require.ErrorIs(t, WriteAll(failingPort{boom}, []byte("x")), boom)

	n, err := NewWriter(failingPort{boom}).Write([]byte("abc"))
	require.ErrorIs(t, err, boom)
	require.Zero(t, n)
}

func TestSPITransfer(t *testing.T) {
	clk := newClock()
	spi := sim.NewSPI(clk, 4, hal.Mode0, func(out byte) byte { return out + 1 })

	words := []byte{1, 2, 3}
	require.NoError(t, Transfer(spi, words))
	require.Equal(t, []byte{2, 3, 4}, words)

	require.NoError(t, WriteSPI(spi, []byte{9, 9}))

	// The read after each send keeps the receive buffer clear.
	v, err := Exchange(spi, 0x10)
	require.NoError(t, err)
	require.Equal(t, byte(0x11), v)
}

func TestSPIBus(t *testing.T) {
	clk := newClock()
	bus := NewSPIBus(sim.NewSPI(clk, 1, hal.Mode0, func(out byte) byte { return ^out }))

	r := make([]byte, 3)
	require.NoError(t, bus.Tx([]byte{0x00, 0xF0}, r))
	require.Equal(t, []byte{0xFF, 0x0F, 0xFF}, r)

	require.NoError(t, bus.Tx([]byte{1, 2}, nil))

	v, err := bus.Transfer(0xAA)
	require.NoError(t, err)
	require.Equal(t, byte(0x55), v)
}

func TestDelay(t *testing.T) {
	clk := newClock()
	d := NewDelay(sim.NewTimer(clk))

	start := clk.Now()
	d.DelayUs(50)
	require.GreaterOrEqual(t, clk.Now()-start, uint32(50))

	start = clk.Now()
	d.DelayMs(2)
	require.GreaterOrEqual(t, clk.Now()-start, uint32(2000))
}

func TestFillAndReader(t *testing.T) {
	clk := newClock()
	ref := sim.NewRNG(clk, 7, 2)
	var want []byte
	for i := 0; i < 3; i++ {
		w, err := Next(ref)
		require.NoError(t, err)
		want = append(want, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}

	buf := make([]byte, 10)
	require.NoError(t, Fill(sim.NewRNG(clk, 7, 2), buf))
	require.Equal(t, want[:10], buf)

	got := make([]byte, 12)
	_, err := io.ReadFull(NewReader(sim.NewRNG(clk, 7, 2)), got)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestWordSize(t *testing.T) {
	require.Equal(t, 1, wordSize[uint8]())
	require.Equal(t, 2, wordSize[uint16]())
	require.Equal(t, 4, wordSize[uint32]())
	require.Equal(t, 8, wordSize[uint64]())
}
