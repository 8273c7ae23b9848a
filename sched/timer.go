package sched

import "strconv"

// Action is returned by a timer handler
type Action uint8

const (
	// Done drops the timer from the schedule
	Done Action = iota
	// Reschedule puts the timer back using its updated WakeTime
	Reschedule
)

// Timer is a scheduled event on a 32-bit wrapping tick clock
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) Action
	next     *Timer
}

// Before reports whether tick a comes before tick b, allowing for
// wrap-around of the 32-bit clock.
func Before(a, b uint32) bool {
	return int32(a-b) < 0
}

// Scheduler keeps timers sorted by wake time
type Scheduler struct {
	list *Timer
}

// Schedule adds t to the schedule. A timer must not be scheduled twice.
func (s *Scheduler) Schedule(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.insert(t)
}

// insert places t in sorted order by WakeTime
func (s *Scheduler) insert(t *Timer) {
	if s.list == nil || Before(t.WakeTime, s.list.WakeTime) {
		t.next = s.list
		s.list = t
		return
	}

	current := s.list
	for current.next != nil && !Before(t.WakeTime, current.next.WakeTime) {
		current = current.next
	}

	t.next = current.next
	current.next = t
}

// Cancel removes t from the schedule and reports whether it was scheduled
func (s *Scheduler) Cancel(t *Timer) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for p := &s.list; *p != nil; p = &(*p).next {
		if *p == t {
			*p = t.next
			t.next = nil
			return true
		}
	}
	return false
}

// Next returns the wake time of the earliest timer
func (s *Scheduler) Next() (uint32, bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if s.list == nil {
		return 0, false
	}
	return s.list.WakeTime, true
}

// Len returns the number of scheduled timers
func (s *Scheduler) Len() int {
	n := 0
	for t := s.list; t != nil; t = t.next {
		n++
	}
	return n
}

// Dispatch runs every timer due at or before now and returns how many
// handlers ran.
func (s *Scheduler) Dispatch(now uint32) int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	ran := 0
	for s.list != nil && !Before(now, s.list.WakeTime) {
		timer := s.list
		s.list = timer.next
		timer.next = nil

		ran++
		if timer.Handler(timer) != Reschedule {
			continue
		}
		if !Before(now, timer.WakeTime) {
			// Rescheduled into the past; it runs again on the next dispatch
			DebugPrintln("[SCHED] timer in past wake=" + strconv.FormatUint(uint64(timer.WakeTime), 10) +
				" now=" + strconv.FormatUint(uint64(now), 10))
			s.insert(timer)
			break
		}
		s.insert(timer)
	}
	return ran
}
