//go:build !wasm

package serial

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nbhal/hal"
)

func newPipePort(t *testing.T, fifo int) (*NativePort, net.Conn) {
	t.Helper()
	local, remote := net.Pipe()
	p := newNativePort(local, &Config{Device: "pipe", Baud: 115200, FIFO: fifo})
	t.Cleanup(func() {
		p.Close()
		remote.Close()
	})
	return p, remote
}

func TestNativePortReadOrder(t *testing.T) {
	p, remote := newPipePort(t, 16)

	_, err := remote.Write([]byte("abc"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return p.Buffered() == 3 }, time.Second, time.Millisecond)

	for _, want := range []byte("abc") {
		got, err := p.TryRead().Unpack()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.True(t, p.TryRead().IsWouldBlock())
}

func TestNativePortOverrun(t *testing.T) {
	p, remote := newPipePort(t, 2)

	_, err := remote.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return p.Buffered() == 2 }, time.Second, time.Millisecond)

	_, err = p.TryRead().Unpack()
	require.ErrorIs(t, err, hal.ErrOverrun)

	b, err := p.TryRead().Unpack()
	require.NoError(t, err)
	require.Equal(t, byte(1), b)
	b, err = p.TryRead().Unpack()
	require.NoError(t, err)
	require.Equal(t, byte(2), b)
}

func TestNativePortWriteAndFlush(t *testing.T) {
	p, remote := newPipePort(t, 16)

	for _, b := range []byte("xyz") {
		require.True(t, p.TryWrite(b).IsReady())
	}

	got := make([]byte, 3)
	_, err := io.ReadFull(remote, got)
	require.NoError(t, err)
	require.Equal(t, "xyz", string(got))
	require.Eventually(t, func() bool { return p.TryFlush().IsReady() }, time.Second, time.Millisecond)

	go func() {
		buf := make([]byte, 8)
		io.ReadFull(remote, buf)
	}()
	n, err := p.Write([]byte("12345678"))
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.NoError(t, p.Flush())
}

func TestNativePortTxFull(t *testing.T) {
	p, _ := newPipePort(t, 2)

	// nothing reads the remote end, so the writer goroutine stalls holding
	// whatever it took and the FIFO eventually fills
	require.Eventually(t, func() bool { return p.TryWrite('a').IsWouldBlock() }, time.Second, time.Millisecond)
	require.True(t, p.TryFlush().IsWouldBlock())
}

func TestNativePortClose(t *testing.T) {
	p, _ := newPipePort(t, 4)
	require.NoError(t, p.Close())

	_, err := p.TryRead().Unpack()
	require.ErrorIs(t, err, ErrClosed)
	_, err = p.TryWrite('a').Unpack()
	require.ErrorIs(t, err, ErrClosed)

	n, err := p.Read(make([]byte, 4))
	require.Zero(t, n)
	require.ErrorIs(t, err, ErrClosed)
}

func TestNativePortReadTimeout(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()
	p := newNativePort(local, &Config{Device: "pipe", ReadTimeout: 20, FIFO: 8})
	defer p.Close()

	start := time.Now()
	n, err := p.Read(make([]byte, 4))
	require.NoError(t, err)
	require.Zero(t, n)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
