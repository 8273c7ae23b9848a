package sim

import (
	"time"

	"nbhal/hal"
	"nbhal/nb"
	"nbhal/sched"
)

// Capture is a simulated input capture unit with a free-running 16-bit
// counter. The counter ticks once per resolution and each channel latches
// it on the rising edges of the signal attached with Feed.
type Capture struct {
	clk      *Clock
	resTicks uint32
	channels []captureChannel
}

type captureChannel struct {
	enabled     bool
	latched     bool
	overcapture bool
	value       uint16
	signal      *sched.Timer
}

var _ hal.Capture[Channel, time.Duration, uint16, error] = (*Capture)(nil)

// NewCapture creates a capture unit with n disabled channels.
func NewCapture(clk *Clock, channels int, resolution time.Duration) *Capture {
	c := &Capture{clk: clk, channels: make([]captureChannel, channels)}
	c.resTicks = clk.Ticks(resolution)
	if c.resTicks == 0 {
		c.resTicks = 1
	}
	return c
}

func (c *Capture) channel(ch Channel) (*captureChannel, error) {
	if int(ch) >= len(c.channels) {
		return nil, hal.ErrUnknownChannel
	}
	return &c.channels[ch], nil
}

// counter returns the free-running counter value. It counts from the
// non-wrapping elapsed time so it stays continuous when the tick clock wraps.
func (c *Capture) counter() uint16 {
	return uint16(c.clk.Elapsed() / uint64(c.resTicks))
}

// Feed attaches a square wave with the given period to ch; its first
// rising edge is one period from now. A zero period detaches the signal.
func (c *Capture) Feed(ch Channel, period time.Duration) error {
	cc, err := c.channel(ch)
	if err != nil {
		return err
	}
	c.clk.cancel(cc.signal)
	cc.signal = nil

	ticks := c.clk.Ticks(period)
	if ticks == 0 {
		return nil
	}
	cc.signal = c.clk.every(c.clk.Now()+ticks, ticks, func() bool {
		c.edge(cc)
		return true
	})
	return nil
}

// Edge latches the counter on ch now, as an input event would.
func (c *Capture) Edge(ch Channel) error {
	cc, err := c.channel(ch)
	if err != nil {
		return err
	}
	c.edge(cc)
	return nil
}

func (c *Capture) edge(cc *captureChannel) {
	if !cc.enabled {
		return
	}
	if cc.latched {
		cc.overcapture = true
	}
	cc.value = c.counter()
	cc.latched = true
}

// TryCapture implements hal.Capture. A disabled channel fails with
// hal.ErrDisabled.
func (c *Capture) TryCapture(ch Channel) nb.Result[uint16, error] {
	c.clk.poll()
	cc, err := c.channel(ch)
	if err != nil {
		return nb.Err[uint16](err)
	}
	if !cc.enabled {
		return nb.Err[uint16](hal.ErrDisabled)
	}
	if cc.overcapture {
		cc.overcapture = false
		cc.latched = false
		return nb.Err[uint16](hal.ErrOvercapture)
	}
	if !cc.latched {
		return nb.WouldBlock[uint16, error]()
	}
	cc.latched = false
	return nb.Ready[error](cc.value)
}

// Enable implements hal.Capture.
func (c *Capture) Enable(ch Channel) error {
	cc, err := c.channel(ch)
	if err != nil {
		return err
	}
	cc.enabled = true
	return nil
}

// Disable implements hal.Capture. Pending captures are discarded.
func (c *Capture) Disable(ch Channel) error {
	cc, err := c.channel(ch)
	if err != nil {
		return err
	}
	cc.enabled = false
	cc.latched = false
	cc.overcapture = false
	return nil
}

// Resolution implements hal.Capture.
func (c *Capture) Resolution() (time.Duration, error) {
	return c.clk.Duration(c.resTicks), nil
}

// SetResolution implements hal.Capture. The resolution cannot be finer
// than one clock tick.
func (c *Capture) SetResolution(resolution time.Duration) error {
	ticks := c.clk.Ticks(resolution)
	if ticks == 0 {
		return hal.ErrUnsupported
	}
	c.resTicks = ticks
	return nil
}
