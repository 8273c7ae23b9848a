package sim

import (
	"errors"
	"testing"
	"time"

	"nbhal/hal"
	"nbhal/nb"
)

func TestSPIFullDuplex(t *testing.T) {
	clk := NewClock(0)
	spi := NewSPI(clk, 8, hal.Mode0, func(out byte) byte { return ^out })

	if r := spi.TrySend(0xA5); !r.IsReady() {
		t.Fatalf("TrySend = %s", r)
	}
	if r := spi.TrySend(0x00); !r.IsWouldBlock() {
		t.Fatalf("TrySend while busy = %s", r)
	}
	for i := 0; i < 5; i++ {
		if r := spi.TryRead(); !r.IsWouldBlock() {
			t.Fatalf("TryRead mid-transfer = %s", r)
		}
	}
	clk.Advance(8)
	v, err := spi.TryRead().Unpack()
	if err != nil || v != 0x5A {
		t.Fatalf("TryRead = (%#x, %v), want 0x5a", v, err)
	}
}

func TestSPIOverrun(t *testing.T) {
	clk := NewClock(0)
	spi := NewSPI(clk, 1, hal.Mode3, nil)
	if spi.Mode().Number() != 3 {
		t.Fatalf("mode = %d", spi.Mode().Number())
	}

	spi.TrySend(1)
	clk.Advance(1)
	spi.TrySend(2)
	clk.Advance(1)

	if _, err := spi.TryRead().Unpack(); !errors.Is(err, hal.ErrOverrun) {
		t.Fatalf("err = %v, want overrun", err)
	}
	if v, err := spi.TryRead().Unpack(); err != nil || v != 2 {
		t.Fatalf("after overrun = (%d, %v), want the newest word 2", v, err)
	}
	if r := spi.TryRead(); !r.IsWouldBlock() {
		t.Fatalf("after draining = %s", r)
	}
}

func TestPWMDutyRoundTrip(t *testing.T) {
	clk := NewClock(0)
	pwm := NewPWM(clk, 2, time.Millisecond)

	maxDuty, err := pwm.MaxDuty()
	if err != nil || maxDuty != 1000 {
		t.Fatalf("MaxDuty = (%d, %v)", maxDuty, err)
	}
	for d := uint32(0); d <= maxDuty; d++ {
		if err := pwm.SetDuty(1, d); err != nil {
			t.Fatalf("SetDuty(%d) = %v", d, err)
		}
		if got, _ := pwm.Duty(1); got != d {
			t.Fatalf("Duty = %d after SetDuty(%d)", got, d)
		}
	}
	if err := pwm.SetDuty(1, maxDuty+1); !errors.Is(err, hal.ErrDutyOutOfRange) {
		t.Fatalf("SetDuty(max+1) = %v", err)
	}
	if got, _ := pwm.Duty(1); got != maxDuty {
		t.Fatalf("failed SetDuty changed duty to %d", got)
	}
	if err := pwm.Enable(2); !errors.Is(err, hal.ErrUnknownChannel) {
		t.Fatalf("Enable(2) = %v", err)
	}
}

func TestPWMPeriodAndLevel(t *testing.T) {
	clk := NewClock(0)
	pwm := NewPWM(clk, 1, 100*time.Microsecond)
	pin := pwm.Pin(0)
	var _ hal.PwmPin[uint32] = pin

	if err := pin.SetDuty(25); err != nil {
		t.Fatal(err)
	}
	if pwm.Level(0) {
		t.Fatal("disabled channel drives high")
	}
	if err := pin.Enable(); err != nil {
		t.Fatal(err)
	}
	clk.Advance(10)
	if !pwm.Level(0) {
		t.Error("output low inside the duty window")
	}
	clk.Advance(20)
	if pwm.Level(0) {
		t.Error("output high past the duty window")
	}

	if err := pwm.SetPeriod(200 * time.Microsecond); err != nil {
		t.Fatal(err)
	}
	if p, _ := pwm.Period(); p != 200*time.Microsecond {
		t.Errorf("Period = %v", p)
	}
	if d, _ := pin.Duty(); d != 50 {
		t.Errorf("duty after doubling period = %d, want 50", d)
	}
	if m, _ := pin.MaxDuty(); m != 200 {
		t.Errorf("MaxDuty = %d", m)
	}
	if err := pwm.SetPeriod(0); !errors.Is(err, hal.ErrUnsupported) {
		t.Errorf("SetPeriod(0) = %v", err)
	}
	if err := pin.Disable(); err != nil || pwm.Enabled(0) {
		t.Errorf("Disable = %v, enabled %v", err, pwm.Enabled(0))
	}
}

func TestCapturePeriod(t *testing.T) {
	clk := NewClock(0)
	capt := NewCapture(clk, 2, 2*time.Microsecond)
	if err := capt.Feed(0, 100*time.Microsecond); err != nil {
		t.Fatal(err)
	}
	if err := capt.Enable(0); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if r := capt.TryCapture(0); !r.IsWouldBlock() {
			t.Fatalf("capture before any edge = %s", r)
		}
	}

	clk.Advance(100)
	c1, err := capt.TryCapture(0).Unpack()
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(100)
	c2, err := capt.TryCapture(0).Unpack()
	if err != nil {
		t.Fatal(err)
	}
	if c2-c1 != 50 {
		t.Errorf("capture difference = %d, want 50", c2-c1)
	}
	if res, _ := capt.Resolution(); res != 2*time.Microsecond {
		t.Errorf("Resolution = %v", res)
	}
}

func TestCapturePeriodAcrossWrap(t *testing.T) {
	clk := NewClock(0)
	capt := NewCapture(clk, 1, 2*time.Microsecond)
	capt.Feed(0, 100*time.Microsecond)

	// The 16-bit counter wraps at 131072us.
	clk.Advance(130900)
	capt.Enable(0)
	clk.Advance(100)
	c1, _ := capt.TryCapture(0).Unpack()
	clk.Advance(100)
	c2, _ := capt.TryCapture(0).Unpack()

	if c2 > c1 {
		t.Fatalf("counter did not wrap: %d then %d", c1, c2)
	}
	if c2-c1 != 50 {
		t.Errorf("wrapping difference = %d, want 50", c2-c1)
	}
}

func TestCaptureAcrossClockWrap(t *testing.T) {
	clk := NewClock(0)
	clk.Advance(0xFFFFFFFF - 100)
	capt := NewCapture(clk, 1, 3*time.Microsecond)
	capt.Feed(0, 30*time.Microsecond)
	capt.Enable(0)

	clk.Advance(30)
	prev, err := capt.TryCapture(0).Unpack()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		clk.Advance(30)
		c, err := capt.TryCapture(0).Unpack()
		if err != nil {
			t.Fatal(err)
		}
		if c-prev != 10 {
			t.Fatalf("edge %d: difference = %d, want 10 (now=%#x)", i, c-prev, clk.Now())
		}
		prev = c
	}
	if clk.Now() > 0xFFFF {
		t.Fatalf("tick clock did not wrap, now=%#x", clk.Now())
	}
}

func TestCaptureOvercapture(t *testing.T) {
	clk := NewClock(0)
	capt := NewCapture(clk, 1, time.Microsecond)
	capt.Feed(0, 10*time.Microsecond)
	capt.Enable(0)

	clk.Advance(20)
	if _, err := capt.TryCapture(0).Unpack(); !errors.Is(err, hal.ErrOvercapture) {
		t.Fatalf("err = %v, want overcapture", err)
	}
	if r := capt.TryCapture(0); !r.IsWouldBlock() {
		t.Fatalf("after overcapture = %s", r)
	}
	clk.Advance(10)
	if v, err := capt.TryCapture(0).Unpack(); err != nil || v != 30 {
		t.Fatalf("capture = (%d, %v), want 30", v, err)
	}

	if err := capt.Disable(0); err != nil {
		t.Fatal(err)
	}
	if _, err := capt.TryCapture(0).Unpack(); !errors.Is(err, hal.ErrDisabled) {
		t.Fatalf("disabled channel err = %v", err)
	}
	if _, err := capt.TryCapture(3).Unpack(); !errors.Is(err, hal.ErrUnknownChannel) {
		t.Fatalf("unknown channel err = %v", err)
	}
}

func TestCaptureManualEdgeAndResolution(t *testing.T) {
	clk := NewClock(0)
	capt := NewCapture(clk, 1, time.Microsecond)
	capt.Enable(0)
	if err := capt.SetResolution(4 * time.Microsecond); err != nil {
		t.Fatal(err)
	}
	if err := capt.SetResolution(0); !errors.Is(err, hal.ErrUnsupported) {
		t.Fatalf("SetResolution(0) = %v", err)
	}

	clk.Advance(40)
	capt.Edge(0)
	if v, _ := capt.TryCapture(0).Unpack(); v != 10 {
		t.Errorf("capture = %d, want 10", v)
	}
}

func TestQei(t *testing.T) {
	var q Qei
	var _ hal.Qei[uint16] = &q

	// A leads B: one full cycle forward
	for _, s := range [][2]bool{{true, false}, {true, true}, {false, true}, {false, false}} {
		q.Update(s[0], s[1])
	}
	if c, _ := q.Count(); c != 4 {
		t.Fatalf("count = %d, want 4", c)
	}
	if d, _ := q.Direction(); d != hal.Upcounting {
		t.Fatalf("direction = %s", d)
	}

	// B leads A: back one step
	q.Update(false, true)
	if c, _ := q.Count(); c != 3 {
		t.Fatalf("count = %d, want 3", c)
	}
	if d, _ := q.Direction(); d != hal.Downcounting {
		t.Fatalf("direction = %s", d)
	}

	q.Step(-4)
	if c, _ := q.Count(); c != 0xFFFF {
		t.Errorf("count = %d, want wrap to 65535", c)
	}
}

func TestADCOneShot(t *testing.T) {
	clk := NewClock(0)
	adc := NewADC(clk, 2, 10, 3)
	adc.Set(0, 700)
	adc.Set(1, 5000)

	if adc.Max() != 1023 {
		t.Fatalf("Max = %d", adc.Max())
	}
	if r := adc.TryRead(0); !r.IsWouldBlock() {
		t.Fatalf("conversion finished instantly: %s", r)
	}
	clk.Advance(3)
	// pin 0 is still waiting to be collected
	for i := 0; i < 3; i++ {
		if r := adc.TryRead(1); !r.IsWouldBlock() {
			t.Fatalf("other pin during conversion = %s", r)
		}
	}
	if v, err := adc.TryRead(0).Unpack(); err != nil || v != 700 {
		t.Fatalf("TryRead(0) = (%d, %v)", v, err)
	}

	v, err := nb.Block(func() nb.Result[uint16, error] {
		clk.Advance(1)
		return adc.TryRead(1)
	})
	if err != nil || v != 1023 {
		t.Fatalf("TryRead(1) = (%d, %v), want clamped 1023", v, err)
	}
	if _, err := adc.TryRead(9).Unpack(); !errors.Is(err, hal.ErrUnknownChannel) {
		t.Fatalf("unknown pin err = %v", err)
	}
	if ADCPin(1).Channel() != 1 {
		t.Fatal("ADCPin channel mismatch")
	}
}

func TestADCSamplesAtCompletion(t *testing.T) {
	clk := NewClock(0)
	adc := NewADC(clk, 1, 12, 5)
	adc.Set(0, 100)

	if r := adc.TryRead(0); !r.IsWouldBlock() {
		t.Fatalf("conversion finished instantly: %s", r)
	}
	adc.Set(0, 200)
	clk.Advance(5)
	adc.Set(0, 999)
	if v, err := adc.TryRead(0).Unpack(); err != nil || v != 200 {
		t.Fatalf("TryRead = (%d, %v), want 200 sampled at completion", v, err)
	}

	instant := NewADC(clk, 1, 12, 0)
	instant.Set(0, 42)
	if v, err := instant.TryRead(0).Unpack(); err != nil || v != 42 {
		t.Fatalf("zero-latency TryRead = (%d, %v)", v, err)
	}
}

func TestWatchdog(t *testing.T) {
	clk := NewClock(0)
	resets := 0
	wd := NewWatchdog(clk, func() { resets++ })

	if err := wd.Start(5 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	clk.AdvanceDuration(4 * time.Millisecond)
	wd.Feed()
	clk.AdvanceDuration(4 * time.Millisecond)
	if resets != 0 {
		t.Fatal("fed watchdog expired")
	}
	clk.AdvanceDuration(2 * time.Millisecond)
	if resets != 1 || wd.Resets() != 1 || wd.Running() {
		t.Fatalf("resets=%d running=%v", resets, wd.Running())
	}

	wd.Start(time.Millisecond)
	if err := wd.Disable(); err != nil {
		t.Fatal(err)
	}
	clk.AdvanceDuration(10 * time.Millisecond)
	if wd.Resets() != 1 {
		t.Fatal("disabled watchdog expired")
	}
	if err := wd.Start(0); !errors.Is(err, hal.ErrUnsupported) {
		t.Fatalf("Start(0) = %v", err)
	}
}

func TestRNG(t *testing.T) {
	clk := NewClock(0)
	a := NewRNG(clk, 42, 3)
	b := NewRNG(clk, 42, 3)

	for i := 0; i < 4; i++ {
		if !a.TryNext().IsWouldBlock() {
			t.Fatal("word ready before refill")
		}
	}
	clk.Advance(3)
	va, okA := nb.Done(a.TryNext())
	vb, okB := nb.Done(b.TryNext())
	if !okA || !okB || va != vb {
		t.Fatalf("same seed gave (%d, %v) and (%d, %v)", va, okA, vb, okB)
	}
	if !a.TryNext().IsWouldBlock() {
		t.Fatal("second word ready without refill time")
	}
}

func TestPin(t *testing.T) {
	var p Pin
	var changes []bool
	p.OnChange(func(l bool) { changes = append(changes, l) })

	p.SetHigh()
	p.SetHigh()
	if !p.IsHigh() || !p.IsSetHigh() {
		t.Fatal("pin not high")
	}
	p.Toggle()
	if !p.IsLow() || !p.IsSetLow() {
		t.Fatal("toggle did not drive low")
	}
	if len(changes) != 2 {
		t.Fatalf("changes = %v, want two", changes)
	}
}
