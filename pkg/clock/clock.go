// Package clock measures frame times and paces a frame loop to a target rate.
package clock

import (
	"time"
)

// Clock measures the time between frames and optionally sleeps to hold a frame rate.
//
// # Timing Model
//
// The first call to Tick or TickFrameRate starts the clock and returns 0.
// Every later call returns the milliseconds elapsed since the previous call.
//
// TickFrameRate paces against the time the clock started, not against the
// previous frame: after n frames at rate r the loop should be at n*1000/r ms.
// A slow frame is therefore made up by shorter sleeps on the following frames
// instead of accumulating drift.
//
// # Thread Safety
//
// Clock is not safe for concurrent use. It belongs to the goroutine that runs
// the frame loop.
type Clock struct {
	now   func() time.Time
	sleep func(time.Duration)

	created  time.Time
	start    time.Time
	previous time.Time
	frames   uint64
}

// New creates a clock backed by the wall clock.
func New() *Clock {
	return NewWithSource(time.Now, time.Sleep)
}

// NewWithSource creates a clock with an injected time source.
// Tests use it to drive the clock without sleeping.
func NewWithSource(now func() time.Time, sleep func(time.Duration)) *Clock {
	t := now()
	return &Clock{
		now:      now,
		sleep:    sleep,
		created:  t,
		start:    t,
		previous: t,
	}
}

// Tick returns the milliseconds elapsed since the previous tick (0 on the first tick).
func (c *Clock) Tick() float64 {
	if c.frames == 0 {
		return c.initialize()
	}
	return c.update()
}

// TickFrameRate behaves like Tick but first sleeps until the expected time of
// the current frame at rate frames per second. A non-positive rate disables pacing.
func (c *Clock) TickFrameRate(rate int) float64 {
	if c.frames == 0 {
		return c.initialize()
	}
	if rate > 0 {
		expected := time.Duration(c.frames) * time.Second / time.Duration(rate)
		actual := c.now().Sub(c.start)
		if delta := expected - actual; delta > 0 {
			c.sleep(delta)
		}
	}
	return c.update()
}

// Frames returns the number of ticks since the clock started.
func (c *Clock) Frames() uint64 {
	return c.frames
}

// Ticks returns the milliseconds elapsed since the clock was created.
func (c *Clock) Ticks() float64 {
	return millis(c.now().Sub(c.created))
}

func (c *Clock) initialize() float64 {
	c.frames = 1
	t := c.now()
	c.start = t
	c.previous = t
	return 0
}

func (c *Clock) update() float64 {
	c.frames++
	t := c.now()
	elapsed := t.Sub(c.previous)
	c.previous = t
	return millis(elapsed)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
