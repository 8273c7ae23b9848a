package rp2040

import (
	"testing"

	"nbhal/hal"
)

type fakeEncoder struct{ pos int }

func (e *fakeEncoder) Position() int     { return e.pos }
func (e *fakeEncoder) SetPosition(p int) { e.pos = p }

func TestQeiCountAndDirection(t *testing.T) {
	enc := &fakeEncoder{}
	var q hal.Qei[uint16] = &Qei{dev: enc}

	enc.pos = 5
	if c, err := q.Count(); err != nil || c != 5 {
		t.Fatalf("Count = (%d, %v), want 5", c, err)
	}
	if d, err := q.Direction(); err != nil || d != hal.Upcounting {
		t.Fatalf("Direction = (%s, %v), want up", d, err)
	}

	enc.pos = -1
	if c, _ := q.Count(); c != 0xFFFF {
		t.Errorf("Count = %#x, want 0xffff", c)
	}
	if d, _ := q.Direction(); d != hal.Downcounting {
		t.Errorf("Direction = %s, want down", d)
	}

	// No movement keeps the last direction.
	if d, _ := q.Direction(); d != hal.Downcounting {
		t.Errorf("Direction after no movement = %s", d)
	}
}

func TestQeiReset(t *testing.T) {
	enc := &fakeEncoder{pos: 40}
	q := &Qei{dev: enc}
	q.Count()
	q.Reset()
	if enc.pos != 0 {
		t.Fatalf("position = %d after Reset", enc.pos)
	}
	if c, _ := q.Count(); c != 0 {
		t.Errorf("Count = %d after Reset", c)
	}
}
