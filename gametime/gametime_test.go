package gametime

import (
	"math"
	"testing"
	"time"
)

func TestGameTimeFields(t *testing.T) {
	gt := FromDuration(26*time.Hour + 14*time.Minute + 5*time.Second)

	if got := gt.Day(); got != 1 {
		t.Errorf("day: got %d, want 1", got)
	}
	if got := gt.Hour(); got != 2 {
		t.Errorf("hour: got %d, want 2", got)
	}
	if got := gt.Minute(); got != 14 {
		t.Errorf("minute: got %d, want 14", got)
	}
	if got := gt.Second(); got != 5 {
		t.Errorf("second: got %d, want 5", got)
	}
	if got := gt.String(); got != "day 1 02:14:05" {
		t.Errorf("string: got %q", got)
	}
}

func TestGameTimeArithmetic(t *testing.T) {
	a := FromSeconds(90)
	b := a.Add(30 * time.Second)

	if got := b.Seconds(); math.Abs(got-120) > 1e-9 {
		t.Errorf("add: got %v, want 120s", got)
	}
	if got := b.Sub(a); got != 30*time.Second {
		t.Errorf("sub: got %v, want 30s", got)
	}
	if !a.Before(b) || !b.After(a) || a.Equal(b) {
		t.Error("ordering comparisons inconsistent")
	}

	// moving backward never crosses scenario start
	if got := FromSeconds(10).Add(-time.Minute); got.Seconds() != 0 {
		t.Errorf("underflow clamp: got %v, want 0", got.Seconds())
	}
}

func TestClockAdvanceScaled(t *testing.T) {
	c := NewClock(2.0)

	delta := c.Advance(500 * time.Millisecond)
	if delta != time.Second {
		t.Errorf("delta: got %v, want 1s", delta)
	}
	if got := c.Now().Seconds(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("now: got %v, want 1s", got)
	}

	// zero and negative frames do not move the clock
	if d := c.Advance(0); d != 0 {
		t.Errorf("zero frame: got %v", d)
	}
	if d := c.Advance(-time.Second); d != 0 {
		t.Errorf("negative frame: got %v", d)
	}
}

func TestClockSetNow(t *testing.T) {
	c := NewClock(1.0)
	c.Advance(time.Hour)

	restored := FromSeconds(42)
	c.SetNow(restored)
	if !c.Now().Equal(restored) {
		t.Errorf("got %v, want %v", c.Now(), restored)
	}
}

func TestUnitHelpers(t *testing.T) {
	if got := Hours(1.5); got != 90*time.Minute {
		t.Errorf("hours: got %v", got)
	}
	if got := Minutes(0.5); got != 30*time.Second {
		t.Errorf("minutes: got %v", got)
	}
	if got := Seconds(2.5); got != 2500*time.Millisecond {
		t.Errorf("seconds: got %v", got)
	}
}
