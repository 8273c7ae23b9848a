//go:build !wasm

package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	"nbhal/fifo"
	"nbhal/hal"
	"nbhal/nb"
)

// NativePort is a portable serial port over github.com/tarm/serial.
// Background goroutines move data between the device and bounded software
// FIFOs; the non-blocking operations only touch the FIFOs.
type NativePort struct {
	port io.ReadWriteCloser
	cfg  *Config

	mu      sync.Mutex
	rx      *fifo.Fifo[byte]
	tx      *fifo.Fifo[byte]
	sending int
	overrun bool
	rxErr   error
	txErr   error

	rxWake chan struct{}
	txWake chan struct{}
	txDone chan struct{}
	done   chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ Port = (*NativePort)(nil)

// Open opens a native serial port
func Open(cfg *Config) (*NativePort, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	glog.V(1).Infof("serial: opened %s at %d baud", cfg.Device, cfg.Baud)

	return newNativePort(port, cfg), nil
}

// newNativePort starts the I/O goroutines over an open device
func newNativePort(rw io.ReadWriteCloser, cfg *Config) *NativePort {
	size := cfg.FIFO
	if size <= 0 {
		size = 256
	}
	p := &NativePort{
		port:   rw,
		cfg:    cfg,
		rx:     fifo.New[byte](size),
		tx:     fifo.New[byte](size),
		rxWake: make(chan struct{}, 1),
		txWake: make(chan struct{}, 1),
		txDone: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	p.wg.Add(2)
	go p.readLoop()
	go p.writeLoop()
	return p
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (p *NativePort) closing() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *NativePort) readLoop() {
	defer p.wg.Done()

	buf := make([]byte, 64)
	for {
		n, err := p.port.Read(buf)
		if n > 0 {
			p.mu.Lock()
			for _, b := range buf[:n] {
				if !p.rx.Push(b) {
					p.overrun = true
				}
			}
			p.mu.Unlock()
			signal(p.rxWake)
			glog.V(2).Infof("serial %s: rx % x", p.cfg.Device, buf[:n])
		}
		if err == nil {
			continue
		}
		if p.closing() {
			return
		}
		// tarm reports a read timeout on a tty as io.EOF
		if errors.Is(err, io.EOF) && p.cfg.ReadTimeout > 0 {
			continue
		}
		glog.Warningf("serial %s: read: %v", p.cfg.Device, err)
		p.mu.Lock()
		p.rxErr = err
		p.mu.Unlock()
		signal(p.rxWake)
		return
	}
}

func (p *NativePort) writeLoop() {
	defer p.wg.Done()

	buf := make([]byte, 64)
	for {
		p.mu.Lock()
		n := p.tx.Read(buf)
		p.sending = n
		p.mu.Unlock()

		if n == 0 {
			select {
			case <-p.txWake:
				continue
			case <-p.done:
				return
			}
		}

		_, err := p.port.Write(buf[:n])
		p.mu.Lock()
		p.sending = 0
		if err != nil && p.txErr == nil {
			p.txErr = err
		}
		p.mu.Unlock()
		signal(p.txDone)

		if err != nil {
			if !p.closing() {
				glog.Warningf("serial %s: write: %v", p.cfg.Device, err)
			}
			return
		}
		glog.V(2).Infof("serial %s: tx % x", p.cfg.Device, buf[:n])
	}
}

// TryRead implements hal.SerialRead. A software FIFO overflow is reported
// once as an overrun; a device error is reported after the buffered data.
func (p *NativePort) TryRead() nb.Result[byte, error] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.overrun {
		p.overrun = false
		return nb.Err[byte, error](hal.SerialError{Kind: hal.Overrun})
	}
	if b, ok := p.rx.Pop(); ok {
		return nb.Ready[error](b)
	}
	if p.rxErr != nil {
		return nb.Err[byte](p.rxErr)
	}
	return nb.WouldBlock[byte, error]()
}

// TryWrite implements hal.SerialWrite.
func (p *NativePort) TryWrite(b byte) nb.Result[nb.Unit, error] {
	p.mu.Lock()
	if p.txErr != nil {
		err := p.txErr
		p.mu.Unlock()
		return nb.Err[nb.Unit](err)
	}
	ok := p.tx.Push(b)
	p.mu.Unlock()

	if !ok {
		return nb.WouldBlock[nb.Unit, error]()
	}
	signal(p.txWake)
	return nb.Ready[error](nb.Unit{})
}

// TryFlush implements hal.SerialWrite. It completes once every byte has
// been written to the device.
func (p *NativePort) TryFlush() nb.Result[nb.Unit, error] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.txErr != nil {
		return nb.Err[nb.Unit](p.txErr)
	}
	if p.sending > 0 || !p.tx.IsEmpty() {
		return nb.WouldBlock[nb.Unit, error]()
	}
	return nb.Ready[error](nb.Unit{})
}

// Read reads buffered data, waiting up to ReadTimeout for the first byte.
// It returns 0, nil on timeout.
func (p *NativePort) Read(b []byte) (int, error) {
	var timeout <-chan time.Time
	if p.cfg.ReadTimeout > 0 {
		timer := time.NewTimer(time.Duration(p.cfg.ReadTimeout) * time.Millisecond)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		p.mu.Lock()
		n := p.rx.Read(b)
		err := p.rxErr
		p.mu.Unlock()

		if n > 0 || len(b) == 0 {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		select {
		case <-p.rxWake:
		case <-p.done:
			return 0, ErrClosed
		case <-timeout:
			return 0, nil
		}
	}
}

// Write queues all of b, waiting for FIFO space as needed.
func (p *NativePort) Write(b []byte) (int, error) {
	written := 0
	for written < len(b) {
		p.mu.Lock()
		err := p.txErr
		n := 0
		if err == nil {
			n = p.tx.Write(b[written:])
		}
		p.mu.Unlock()

		if err != nil {
			return written, err
		}
		written += n
		signal(p.txWake)
		if written == len(b) {
			break
		}
		select {
		case <-p.txDone:
		case <-p.done:
			return written, ErrClosed
		}
	}
	return written, nil
}

// Flush blocks until every queued byte has been written to the device.
func (p *NativePort) Flush() error {
	for {
		r := p.TryFlush()
		if !r.IsWouldBlock() {
			_, err := r.Unpack()
			return err
		}
		select {
		case <-p.txDone:
		case <-p.done:
			return ErrClosed
		case <-time.After(time.Millisecond):
		}
	}
}

// Buffered returns the number of received bytes waiting to be read.
func (p *NativePort) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rx.Len()
}

// Close stops the I/O goroutines and closes the device.
func (p *NativePort) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.rxErr = ErrClosed
		p.txErr = ErrClosed
		p.mu.Unlock()

		close(p.done)
		err = p.port.Close()
		p.wg.Wait()
		glog.V(1).Infof("serial: closed %s", p.cfg.Device)
	})
	return err
}
