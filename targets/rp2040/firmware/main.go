//go:build rp2040

// Command firmware is a demonstration image for a Raspberry Pi Pico. It
// runs every peripheral through the hal contracts from one cooperative
// loop: a UART echo, an LED heartbeat, a PWM fade, ADC and encoder
// reports, and an MCP3008 on a PIO SPI bus.
package main

import (
	"machine"
	"strconv"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"tinygo.org/x/drivers/mcp3008"

	"nbhal/blocking"
	"nbhal/hal"
	"nbhal/nb"
	"nbhal/sched"
	"nbhal/targets/rp2040"
)

func main() {
	// Disable the watchdog on boot to clear any previous state
	_ = rp2040.Watchdog{}.Disable()

	uart, err := rp2040.NewUART(rp2040.UARTConfig{Bus: 0, Baud: 115200, TX: machine.UART0_TX_PIN, RX: machine.UART0_RX_PIN})
	if err != nil {
		return
	}
	out := blocking.NewWriter(uart)
	sched.SetDebugWriter(func(s string) {
		out.WriteString(s)
		out.WriteString("\r\n")
	})
	sched.SetDebugEnabled(true)
	sched.DebugPrintln("=== nbhal demo ===")

	loop := sched.NewLoop()
	loop.Interval = 100 * time.Microsecond

	loop.Add(echo(uart))
	loop.Add(heartbeat(rp2040.Output(machine.LED)))

	if task, err := fade(machine.GPIO16); err == nil {
		loop.Add(task)
	} else {
		sched.DebugPrintln("[PWM] " + err.Error())
	}

	adc := rp2040.NewADC()
	loop.Add(temperature(adc, out))

	if qei, err := rp2040.NewQei(machine.GPIO20, machine.GPIO21); err == nil {
		loop.Add(encoderReport(qei, out))
	}

	if task, err := externalADC(out); err == nil {
		loop.Add(task)
	} else {
		sched.DebugPrintln("[SPI] " + err.Error())
	}

	var wdt rp2040.Watchdog
	if err := wdt.Start(500 * time.Millisecond); err == nil {
		loop.AddFunc(func() bool { wdt.Feed(); return false })
	}

	for {
		loop.Step()
		time.Sleep(loop.Interval)
	}
}

// echo returns every received byte, holding it while the transmitter is
// full.
func echo(s hal.Serial[byte, error]) sched.Task {
	var held byte
	holding := false
	return sched.TaskFunc(func() bool {
		if !holding {
			nb.Poll(s.TryRead, func(b byte) { held, holding = b, true }, func(err error) {
				sched.DebugPrintln("[UART] " + err.Error())
			})
		}
		if holding && s.TryWrite(held).IsReady() {
			holding = false
		}
		return false
	})
}

func heartbeat(led rp2040.Pin) sched.Task {
	var t rp2040.PeriodicTimer
	t.Start(500 * time.Millisecond)
	return sched.TaskFunc(func() bool {
		if _, ok := nb.Done(t.TryWait()); ok {
			led.Toggle()
		}
		return false
	})
}

func fade(pin machine.Pin) (sched.Task, error) {
	pwm, ch, err := rp2040.NewPWM(pin, time.Millisecond)
	if err != nil {
		return nil, err
	}
	out := pwm.Pin(ch)
	if err := out.Enable(); err != nil {
		return nil, err
	}
	maxDuty, _ := out.MaxDuty()

	var t rp2040.PeriodicTimer
	t.Start(10 * time.Millisecond)
	step := maxDuty / 100
	duty, up := uint32(0), true
	return sched.TaskFunc(func() bool {
		if _, ok := nb.Done(t.TryWait()); !ok {
			return false
		}
		switch {
		case up && duty+step > maxDuty:
			up = false
		case !up && duty < step:
			up = true
		}
		if up {
			duty += step
		} else {
			duty -= step
		}
		_ = out.SetDuty(duty)
		return false
	})
}

func temperature(adc *rp2040.ADC, out *blocking.Writer[error]) sched.Task {
	var t rp2040.PeriodicTimer
	t.Start(time.Second)
	sampling := false
	return sched.TaskFunc(func() bool {
		if !sampling {
			_, sampling = nb.Done(t.TryWait())
			return false
		}
		nb.Poll(func() nb.Result[uint16, error] { return adc.TryRead(rp2040.TempSensor) },
			func(raw uint16) {
				sampling = false
				out.WriteString("temp_raw=" + strconv.Itoa(int(raw)) + "\r\n")
			},
			func(err error) {
				sampling = false
				sched.DebugPrintln("[ADC] " + err.Error())
			})
		return false
	})
}

func encoderReport(q hal.Qei[uint16], out *blocking.Writer[error]) sched.Task {
	last, err := q.Count()
	if err != nil {
		sched.DebugPrintln("[QEI] " + err.Error())
	}
	return sched.TaskFunc(func() bool {
		c, err := q.Count()
		if err != nil {
			sched.DebugPrintln("[QEI] " + err.Error())
			return true
		}
		if c == last {
			return false
		}
		last = c
		dir, err := q.Direction()
		if err != nil {
			sched.DebugPrintln("[QEI] " + err.Error())
			return true
		}
		out.WriteString("qei=" + strconv.Itoa(int(c)) + " " + dir.String() + "\r\n")
		return false
	})
}

// externalADC reads channel 0 of an MCP3008 on a PIO SPI bus through the
// TinyGo driver, which only needs a drivers.SPI.
func externalADC(out *blocking.Writer[error]) (sched.Task, error) {
	spi, err := rp2040.NewPIOSPI(pio.PIO0, machine.SPIConfig{
		Frequency: 1000000,
		SCK:       machine.GPIO10,
		SDO:       machine.GPIO11,
		SDI:       machine.GPIO12,
		Mode:      hal.Mode0.Number(),
	})
	if err != nil {
		return nil, err
	}
	dev := mcp3008.New(blocking.NewSPIBus[error](spi), machine.GPIO13)
	dev.Configure()

	var t rp2040.PeriodicTimer
	t.Start(2 * time.Second)
	return sched.TaskFunc(func() bool {
		if _, ok := nb.Done(t.TryWait()); ok {
			out.WriteString("mcp3008[0]=" + strconv.Itoa(int(dev.CH0.Get())) + "\r\n")
		}
		return false
	})
}
