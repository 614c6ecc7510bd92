package engine

import "fmt"

// Clock is the simulation time. It only moves forward.
type Clock struct {
	now float64
}

// NewClock creates a clock at time 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at t.
// Used to resume a scenario from a known point in time.
func NewClockAt(t float64) *Clock {
	return &Clock{now: t}
}

// Now returns the current time.
func (c *Clock) Now() float64 {
	return c.now
}

// Advance moves the clock to t. Moving backwards is a clock regression and
// leaves the clock unchanged.
func (c *Clock) Advance(t float64) error {
	if t < c.now {
		return NewClockRegressionError(c.now, t)
	}
	c.now = t
	return nil
}

func formatTime(t float64) string {
	return fmt.Sprintf("%g", t)
}
