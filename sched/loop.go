// Package sched runs non-blocking peripheral operations without an
// executor: a cooperative poll loop, a sorted timer list and an
// interrupt-style dispatcher.
package sched

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStalled is returned by RunUntilIdle when tasks are still pending after
// the step limit.
var ErrStalled = errors.New("sched: tasks still pending")

// Task is one unit of cooperative work. Poll makes whatever progress is
// possible without blocking and reports whether the task has finished.
type Task interface {
	Poll() bool
}

// TaskFunc adapts a function to Task.
type TaskFunc func() bool

// Poll implements Task.
func (f TaskFunc) Poll() bool { return f() }

// Loop polls its tasks in registration order, once per iteration, and
// drops each task once it reports finished.
type Loop struct {
	Interval time.Duration

	tasks []Task
	lock  sync.Mutex

	wakeUpCh chan struct{}
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: time.Millisecond, wakeUpCh: make(chan struct{}, 1)}
}

// Add registers tasks.
func (l *Loop) Add(tasks ...Task) *Loop {
	l.lock.Lock()
	l.tasks = append(l.tasks, tasks...)
	l.lock.Unlock()
	return l
}

// AddFunc registers functions as tasks.
func (l *Loop) AddFunc(fns ...func() bool) *Loop {
	for _, fn := range fns {
		l.Add(TaskFunc(fn))
	}
	return l
}

// Len returns the number of pending tasks.
func (l *Loop) Len() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.tasks)
}

// Step polls every pending task once and returns how many remain.
func (l *Loop) Step() int {
	l.lock.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.lock.Unlock()

	remaining := tasks[:0]
	for _, t := range tasks {
		if !t.Poll() {
			remaining = append(remaining, t)
		}
	}

	l.lock.Lock()
	// Tasks added during the step go after the survivors.
	l.tasks = append(remaining, l.tasks...)
	n := len(l.tasks)
	l.lock.Unlock()
	return n
}

// RunUntilIdle steps the loop until no task is pending, or returns
// ErrStalled after maxSteps iterations.
func (l *Loop) RunUntilIdle(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if l.Step() == 0 {
			return nil
		}
	}
	if l.Len() == 0 {
		return nil
	}
	return ErrStalled
}

// Run steps the loop every Interval, or sooner when TriggerNext is called,
// until ctx is done or no task is left.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval == 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if l.Step() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-l.wakeUpCh:
		}
	}
}

// TriggerNext wakes Run for an immediate iteration. It never blocks and
// may be called from interrupt handlers.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}
