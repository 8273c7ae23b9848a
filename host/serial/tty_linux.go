//go:build linux

package serial

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"

	"nbhal/nb"
)

// TTY is a Linux terminal device in raw mode with a non-blocking file
// descriptor. Its hal operations are single system calls: EAGAIN is
// WouldBlock, and TryFlush watches the kernel output queue.
type TTY struct {
	fd  int
	cfg *Config
}

var _ Port = (*TTY)(nil)

// OpenTTY opens cfg.Device in raw 8N1 mode
func OpenTTY(cfg *Config) (*TTY, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Device, err)
	}

	if err := makeRaw(fd, cfg.Baud); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to configure %s: %w", cfg.Device, err)
	}
	glog.V(1).Infof("serial: opened tty %s at %d baud", cfg.Device, cfg.Baud)

	return &TTY{fd: fd, cfg: cfg}, nil
}

// makeRaw switches the terminal to raw 8N1 at the given baud rate
func makeRaw(fd int, baud int) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	speed := baudToUnix(baud)
	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= speed
	termios.Ispeed = speed
	termios.Ospeed = speed

	// reads never wait inside the kernel
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(fd, unix.TCSETS, termios)
}

func baudToUnix(baud int) uint32 {
	switch baud {
	case 9600:
		return unix.B9600
	case 19200:
		return unix.B19200
	case 38400:
		return unix.B38400
	case 57600:
		return unix.B57600
	case 115200:
		return unix.B115200
	case 230400:
		return unix.B230400
	case 460800:
		return unix.B460800
	case 921600:
		return unix.B921600
	default:
		return unix.B115200 // fallback
	}
}

func wouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR)
}

// TryRead implements hal.SerialRead.
func (t *TTY) TryRead() nb.Result[byte, error] {
	var b [1]byte
	n, err := unix.Read(t.fd, b[:])
	switch {
	case wouldBlock(err):
		return nb.WouldBlock[byte, error]()
	case err != nil:
		return nb.Err[byte](fmt.Errorf("serial %s: read: %w", t.cfg.Device, err))
	case n == 0:
		return nb.WouldBlock[byte, error]()
	}
	return nb.Ready[error](b[0])
}

// TryWrite implements hal.SerialWrite.
func (t *TTY) TryWrite(b byte) nb.Result[nb.Unit, error] {
	n, err := unix.Write(t.fd, []byte{b})
	switch {
	case wouldBlock(err):
		return nb.WouldBlock[nb.Unit, error]()
	case err != nil:
		return nb.Err[nb.Unit](fmt.Errorf("serial %s: write: %w", t.cfg.Device, err))
	case n == 0:
		return nb.WouldBlock[nb.Unit, error]()
	}
	return nb.Ready[error](nb.Unit{})
}

// TryFlush implements hal.SerialWrite. It completes once the kernel
// output queue is empty.
func (t *TTY) TryFlush() nb.Result[nb.Unit, error] {
	queued, err := unix.IoctlGetInt(t.fd, unix.TIOCOUTQ)
	if err != nil {
		return nb.Err[nb.Unit](fmt.Errorf("serial %s: outq: %w", t.cfg.Device, err))
	}
	if queued > 0 {
		return nb.WouldBlock[nb.Unit, error]()
	}
	return nb.Ready[error](nb.Unit{})
}

// wait polls the descriptor for events, up to timeout milliseconds
// (negative waits forever). It reports whether the descriptor is ready.
func (t *TTY) wait(events int16, timeout int) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: events}}
	for {
		n, err := unix.Poll(fds, timeout)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
}

// Read waits up to ReadTimeout for data and reads what is available.
// It returns 0, nil on timeout.
func (t *TTY) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	timeout := t.cfg.ReadTimeout
	if timeout <= 0 {
		timeout = -1
	}
	for {
		n, err := unix.Read(t.fd, b)
		if n > 0 {
			return n, nil
		}
		if err != nil && !wouldBlock(err) {
			return 0, fmt.Errorf("serial %s: read: %w", t.cfg.Device, err)
		}
		ready, err := t.wait(unix.POLLIN, timeout)
		if err != nil {
			return 0, err
		}
		if !ready {
			return 0, nil
		}
	}
}

// Write writes all of b, waiting for the device when its buffer is full.
func (t *TTY) Write(b []byte) (int, error) {
	written := 0
	for written < len(b) {
		n, err := unix.Write(t.fd, b[written:])
		if n > 0 {
			written += n
		}
		if err != nil && !wouldBlock(err) {
			return written, fmt.Errorf("serial %s: write: %w", t.cfg.Device, err)
		}
		if written < len(b) {
			if _, err := t.wait(unix.POLLOUT, -1); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

// Flush blocks until all output has been transmitted (tcdrain).
func (t *TTY) Flush() error {
	return unix.IoctlSetInt(t.fd, unix.TCSBRK, 1)
}

// Fd returns the file descriptor.
func (t *TTY) Fd() int {
	return t.fd
}

// Close closes the device.
func (t *TTY) Close() error {
	if t.fd < 0 {
		return ErrClosed
	}
	err := unix.Close(t.fd)
	t.fd = -1
	return err
}
