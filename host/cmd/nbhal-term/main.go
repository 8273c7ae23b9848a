// Command nbhal-term is a serial terminal built on the hal serial
// contracts. It talks to a real port, checks a port with TX wired to RX,
// or drives a simulated board.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/golang/glog"

	"nbhal/host/serial"
	"nbhal/nb"
	"nbhal/sched"
	"nbhal/targets/sim"
	"nbhal/targets/sim/config"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	mode    = flag.String("mode", "term", "Mode: term, loopback or sim")
	board   = flag.String("board", "", "Simulated board JSON file (sim mode, default board if empty)")
	raw     = flag.Bool("raw", false, "Use the raw non-blocking tty driver instead of the portable one")
	timeout = flag.Duration("timeout", 2*time.Second, "Timeout for blocking writes, flushes and the loopback check")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	sched.SetDebugWriter(func(s string) { glog.Info(s) })
	sched.SetDebugEnabled(bool(glog.V(1)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch *mode {
	case "term":
		err = runTerm(ctx)
	case "loopback":
		err = runLoopback(ctx)
	case "sim":
		err = runSim(ctx)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

func open() (serial.Port, error) {
	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := openPort(cfg, *raw)
	if err != nil {
		return nil, err
	}
	glog.Infof("opened %s at %d baud", cfg.Device, cfg.Baud)
	return port, nil
}

func runTerm(ctx context.Context) error {
	port, err := open()
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("Connected to %s. Type 'help' for available commands, 'quit' to exit.\n", *device)
	return interact(ctx, newSession(port, os.Stdout, *timeout))
}

func runSim(ctx context.Context) error {
	cfg := config.Default()
	if *board != "" {
		var err error
		if cfg, err = config.LoadFile(*board); err != nil {
			return err
		}
	}
	b, err := sim.NewBoard(cfg)
	if err != nil {
		return err
	}

	s := newSession(b.UART0, os.Stdout, *timeout)
	s.tick = simTicker(b, time.Millisecond)

	fmt.Println("Simulated board: UART0 is wired to an upper-casing echo device.")
	fmt.Println("Type 'help' for available commands, 'quit' to exit.")
	return interact(ctx, s)
}

// simTicker advances the board clock by one loop interval and runs the
// echo device on the far end of UART0.
func simTicker(b *sim.Board, interval time.Duration) func() {
	var held byte
	holding := false
	return func() {
		b.Clock.AdvanceDuration(interval)
		b.Watchdog.Feed()
		if b.Remote == nil {
			return
		}
		for {
			if !holding {
				v, err := b.Remote.TryRead().Unpack()
				if err != nil {
					return
				}
				held, holding = bytes.ToUpper([]byte{v})[0], true
			}
			if b.Remote.TryWrite(held).IsWouldBlock() {
				return
			}
			holding = false
		}
	}
}

// interact runs the poll loop in the background and the prompt in front.
func interact(ctx context.Context, s *session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := sched.NewLoop()
	loop.Interval = time.Millisecond
	loop.Add(s.receiver())
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			glog.Errorf("poll loop: %v", err)
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			glog.Errorf("reading input: %v", err)
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := s.execute(ctx, strings.TrimSpace(line))
			if errors.Is(err, errQuit) {
				fmt.Println("Goodbye!")
				return nil
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// runLoopback sends a test pattern and expects to read it back.
func runLoopback(ctx context.Context) error {
	port, err := open()
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	if err := checkLoopback(ctx, port, []byte("nbhal loopback 0123456789\r\n")); err != nil {
		return err
	}
	fmt.Println("Loopback OK")
	return nil
}

func checkLoopback(ctx context.Context, port serial.Port, pattern []byte) error {
	got := make([]byte, 0, len(pattern))
	for _, want := range pattern {
		if _, err := nb.BlockContext(ctx, func() nb.Result[nb.Unit, error] { return port.TryWrite(want) }); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		b, err := nb.BlockContext(ctx, port.TryRead)
		if err != nil {
			return fmt.Errorf("read after %d bytes: %w", len(got), err)
		}
		got = append(got, b)
		if b != want {
			return fmt.Errorf("loopback mismatch at byte %d: sent %#02x, received %#02x", len(got)-1, want, b)
		}
	}
	glog.V(1).Infof("loopback: %d bytes echoed", len(got))
	return nil
}
