package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/shlex"

	"nbhal/hal"
	"nbhal/nb"
	"nbhal/sched"
)

var errQuit = errors.New("quit")

// session shares one serial port between the interactive prompt and the
// receive task of the poll loop.
type session struct {
	mu      sync.Mutex
	port    hal.Serial[byte, error]
	out     io.Writer
	timeout time.Duration

	// tick runs under the lock before every receive poll, to drive a
	// simulated board
	tick func()
}

var _ hal.Serial[byte, error] = (*session)(nil)

func newSession(port hal.Serial[byte, error], out io.Writer, timeout time.Duration) *session {
	return &session{port: port, out: out, timeout: timeout}
}

func (s *session) TryRead() nb.Result[byte, error] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.TryRead()
}

func (s *session) TryWrite(b byte) nb.Result[nb.Unit, error] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.TryWrite(b)
}

func (s *session) TryFlush() nb.Result[nb.Unit, error] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.TryFlush()
}

// receiver returns the loop task that prints received bytes. Line errors
// are printed inline; any other error ends the task.
func (s *session) receiver() sched.Task {
	return sched.TaskFunc(func() bool {
		s.mu.Lock()
		if s.tick != nil {
			s.tick()
		}
		s.mu.Unlock()

		for {
			r := s.TryRead()
			if r.IsWouldBlock() {
				return false
			}
			b, err := r.Unpack()
			if err != nil {
				fmt.Fprintf(s.out, "<%v>", err)
				var lineErr hal.SerialError
				if errors.As(err, &lineErr) {
					return false
				}
				glog.Errorf("receive: %v", err)
				return true
			}
			s.out.Write([]byte{b})
		}
	})
}

func (s *session) writeAll(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	for _, b := range data {
		if _, err := nb.BlockContext(ctx, func() nb.Result[nb.Unit, error] { return s.TryWrite(b) }); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := nb.BlockContext(ctx, s.TryFlush)
	return err
}

// execute runs one prompt line. It returns errQuit for quit.
func (s *session) execute(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "quit", "exit", "q":
		return errQuit

	case "help", "?":
		printHelp(s.out)
		return nil

	case "send":
		text := strings.Join(args[1:], " ")
		if err := s.writeAll(ctx, []byte(text+"\r\n")); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		glog.V(1).Infof("sent %d bytes", len(text)+2)
		return nil

	case "hex":
		data, err := parseHex(args[1:])
		if err != nil {
			return err
		}
		if err := s.writeAll(ctx, data); err != nil {
			return fmt.Errorf("hex: %w", err)
		}
		glog.V(1).Infof("sent % x", data)
		return nil

	case "flush":
		if err := s.flush(ctx); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", args[0])
	}
}

// parseHex accepts bytes as separate arguments ("01 02 ff") or joined
// ("0102ff").
func parseHex(args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errors.New("hex: no bytes given")
	}
	data, err := hex.DecodeString(strings.Join(args, ""))
	if err != nil {
		return nil, fmt.Errorf("hex: %w", err)
	}
	return data, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "\nAvailable commands:")
	fmt.Fprintln(w, "  help           - Show this help message")
	fmt.Fprintln(w, "  send TEXT      - Send TEXT followed by CR LF")
	fmt.Fprintln(w, "  hex BYTES      - Send raw bytes given in hex (\"hex 01 02 ff\")")
	fmt.Fprintln(w, "  flush          - Wait until all output has been sent")
	fmt.Fprintln(w, "  quit/exit/q    - Exit the program")
	fmt.Fprintln(w)
}
