package sched

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSchedulerOrder(t *testing.T) {
	var s Scheduler
	var fired []uint32
	h := func(tm *Timer) Action {
		fired = append(fired, tm.WakeTime)
		return Done
	}

	for _, w := range []uint32{300, 100, 200} {
		s.Schedule(&Timer{WakeTime: w, Handler: h})
	}
	if next, ok := s.Next(); !ok || next != 100 {
		t.Fatalf("Next = (%d, %v), want 100", next, ok)
	}

	if n := s.Dispatch(150); n != 1 {
		t.Errorf("Dispatch(150) ran %d timers, want 1", n)
	}
	s.Dispatch(1000)
	want := []uint32{100, 200, 300}
	for i, w := range want {
		if fired[i] != w {
			t.Errorf("fired[%d] = %d, want %d", i, fired[i], w)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after dispatching everything", s.Len())
	}
}

func TestSchedulerWrapAround(t *testing.T) {
	var s Scheduler
	var fired []string
	s.Schedule(&Timer{WakeTime: 5, Handler: func(*Timer) Action { fired = append(fired, "after-wrap"); return Done }})
	s.Schedule(&Timer{WakeTime: 0xFFFFFFF0, Handler: func(*Timer) Action { fired = append(fired, "before-wrap"); return Done }})

	s.Dispatch(0xFFFFFFF8)
	if len(fired) != 1 || fired[0] != "before-wrap" {
		t.Fatalf("fired = %v", fired)
	}
	s.Dispatch(10)
	if len(fired) != 2 || fired[1] != "after-wrap" {
		t.Fatalf("fired = %v", fired)
	}
}

func TestSchedulerReschedule(t *testing.T) {
	var s Scheduler
	count := 0
	s.Schedule(&Timer{WakeTime: 10, Handler: func(tm *Timer) Action {
		count++
		tm.WakeTime += 10
		if count == 3 {
			return Done
		}
		return Reschedule
	}})

	for now := uint32(0); now <= 100; now++ {
		s.Dispatch(now)
	}
	if count != 3 {
		t.Errorf("handler ran %d times, want 3", count)
	}
}

func TestSchedulerCancel(t *testing.T) {
	var s Scheduler
	ran := false
	tm := &Timer{WakeTime: 1, Handler: func(*Timer) Action { ran = true; return Done }}
	s.Schedule(tm)
	if !s.Cancel(tm) {
		t.Fatal("Cancel should find the timer")
	}
	if s.Cancel(tm) {
		t.Error("second Cancel should report not scheduled")
	}
	s.Dispatch(10)
	if ran {
		t.Error("cancelled timer ran")
	}
}

func TestLoopDropsFinishedTasks(t *testing.T) {
	l := NewLoop()
	a, b := 0, 0
	l.AddFunc(
		func() bool { a++; return a == 2 },
		func() bool { b++; return b == 4 },
	)

	if err := l.RunUntilIdle(10); err != nil {
		t.Fatal(err)
	}
	if a != 2 || b != 4 {
		t.Errorf("polls a=%d b=%d, want 2 and 4", a, b)
	}

	l.AddFunc(func() bool { return false })
	if err := l.RunUntilIdle(3); !errors.Is(err, ErrStalled) {
		t.Errorf("RunUntilIdle = %v, want ErrStalled", err)
	}
}

func TestLoopAddDuringStep(t *testing.T) {
	l := NewLoop()
	added := false
	l.AddFunc(func() bool {
		if !added {
			added = true
			l.AddFunc(func() bool { return true })
		}
		return true
	})
	if n := l.Step(); n != 1 {
		t.Errorf("after first step %d tasks pending, want 1", n)
	}
	if n := l.Step(); n != 0 {
		t.Errorf("after second step %d tasks pending, want 0", n)
	}
}

func TestLoopRun(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Microsecond
	polls := 0
	l.AddFunc(func() bool { polls++; return polls == 5 })
	l.TriggerNext()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run = %v", err)
	}

	l.AddFunc(func() bool { return false })
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel2()
	if err := l.Run(ctx2); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run = %v, want deadline exceeded", err)
	}
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	pending := 2
	d.Register(1, func() bool {
		if pending == 0 {
			return false
		}
		pending--
		return true
	})

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	SetDebugEnabled(true)
	defer func() {
		SetDebugWriter(nil)
		SetDebugEnabled(false)
	}()

	d.Raise(1)
	d.Raise(1)
	d.Raise(1)
	d.Raise(7)

	if d.Count(1) != 3 || d.Count(7) != 1 {
		t.Errorf("counts = %d/%d", d.Count(1), d.Count(7))
	}
	if d.Spurious() != 2 {
		t.Errorf("Spurious = %d, want 2", d.Spurious())
	}
	if len(lines) != 2 || lines[1] != "[IRQ] spurious line=7" {
		t.Errorf("debug output = %q", lines)
	}
}
