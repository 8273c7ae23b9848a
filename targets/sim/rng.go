package sim

import (
	"math/rand/v2"

	"nbhal/hal"
	"nbhal/nb"
	"nbhal/sched"
)

// RNG is a simulated hardware random number generator. It produces one
// word every refill ticks from a seeded generator, so runs are repeatable.
type RNG struct {
	clk     *Clock
	src     *rand.Rand
	refill  uint32
	readyAt uint32
}

var _ hal.RNG[uint32, nb.Infallible] = (*RNG)(nil)

// NewRNG creates a generator whose first word is ready refill ticks from
// now.
func NewRNG(clk *Clock, seed uint64, refill uint32) *RNG {
	return &RNG{
		clk:     clk,
		src:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		refill:  refill,
		readyAt: clk.Now() + refill,
	}
}

// TryNext implements hal.RNG. It cannot fail.
func (r *RNG) TryNext() nb.Result[uint32, nb.Infallible] {
	r.clk.poll()
	now := r.clk.Now()
	if sched.Before(now, r.readyAt) {
		return nb.WouldBlock[uint32, nb.Infallible]()
	}
	r.readyAt = now + r.refill
	return nb.Ready[nb.Infallible](r.src.Uint32())
}
