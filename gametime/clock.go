package gametime

import "time"

// Clock converts real frame time into game time using a fixed scale of
// game seconds per real second.
type Clock struct {
	now   GameTime
	scale float64
}

// NewClock returns a clock at scenario start. Scales at or below zero are
// treated as 1.
func NewClock(scale float64) *Clock {
	if scale <= 0 {
		scale = 1
	}
	return &Clock{scale: scale}
}

// Advance moves the clock forward by a real frame duration and returns the
// game-time delta that elapsed.
func (c *Clock) Advance(frame time.Duration) time.Duration {
	if frame <= 0 {
		return 0
	}
	delta := time.Duration(float64(frame) * c.scale)
	c.now = c.now.Add(delta)
	return delta
}

// Now returns the current game time.
func (c *Clock) Now() GameTime {
	return c.now
}

// SetNow rewinds or forwards the clock to an absolute instant. Used when
// restoring a captured state.
func (c *Clock) SetNow(t GameTime) {
	c.now = t
}

// Scale returns the configured game seconds per real second.
func (c *Clock) Scale() float64 {
	return c.scale
}

// ScaleDuration converts a real duration into the equivalent game duration
// under the clock's scale.
func (c *Clock) ScaleDuration(real time.Duration) time.Duration {
	return time.Duration(float64(real) * c.scale)
}
