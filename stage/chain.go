package stage

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/pthm-cable/pulse/gametime"
)

var (
	ErrAlreadyInverted     = errors.New("stage: chain is already inverted")
	ErrAlreadyInvertedBack = errors.New("stage: chain is not inverted")
	ErrNotActive           = errors.New("stage: chain is not active at the given time")
	ErrNoActiveStage       = errors.New("stage: no active stage at the given time")
	ErrOnHealthyStage      = errors.New("stage: cannot invert back while on the healthy stage")
)

// Chain holds the materialized stage timings of one disease or injury.
// Timings are kept in ascending level order; when the chain is inverted
// their temporal order reverses and a synthetic healthy tail may follow.
type Chain struct {
	specs   []Spec
	timings []Timing
	healthy *Timing

	inverted   bool
	activation gametime.GameTime
	willEnd    bool
	end        gametime.GameTime
	selfHealOn Level
}

// Build materializes a chain at an activation time. Stage starts
// accumulate: each stage begins where the previous one peaks. For every
// stage with a self-heal chance, a roll is made; the first success marks
// the level the chain will start healing on.
func Build(specs []Spec, activation gametime.GameTime, rng *rand.Rand) (*Chain, error) {
	if err := validateSpecs(specs); err != nil {
		return nil, err
	}

	c := &Chain{
		specs:      append([]Spec(nil), specs...),
		timings:    make([]Timing, len(specs)),
		activation: activation,
		selfHealOn: LevelUndefined,
	}

	cursor := activation
	for i, sp := range c.specs {
		start := cursor
		peak := start.Add(sp.Duration)
		c.timings[i] = Timing{
			Level:    sp.Level,
			Start:    start,
			Peak:     peak,
			Duration: sp.Duration,
			Endless:  sp.Endless,
		}
		cursor = peak
	}

	c.willEnd = !anyEndless(c.specs)
	if c.willEnd {
		c.end = cursor
	}

	for _, sp := range c.specs {
		if sp.SelfHealChance <= 0 {
			continue
		}
		if rng.Float64()*100 < float64(sp.SelfHealChance) {
			c.selfHealOn = sp.Level
			break
		}
	}
	return c, nil
}

func validateSpecs(specs []Spec) error {
	if len(specs) == 0 {
		return errors.New("stage: chain needs at least one stage")
	}
	prev := LevelHealthy
	for i, sp := range specs {
		if sp.Level < LevelInitial || sp.Level > LevelCritical {
			return fmt.Errorf("stage: level %v cannot appear in a chain", sp.Level)
		}
		if sp.Level <= prev {
			return errors.New("stage: levels must be unique and ascending")
		}
		if sp.Duration <= 0 {
			return fmt.Errorf("stage: level %v has no duration", sp.Level)
		}
		if sp.Endless && i != len(specs)-1 {
			return errors.New("stage: only the last stage may be endless")
		}
		prev = sp.Level
	}
	return nil
}

func anyEndless(specs []Spec) bool {
	for _, sp := range specs {
		if sp.Endless {
			return true
		}
	}
	return false
}

// Inverted reports whether the chain is running toward recovery.
func (c *Chain) Inverted() bool { return c.inverted }

// Activation returns the chain's earliest start.
func (c *Chain) Activation() gametime.GameTime { return c.activation }

// End returns the instant the chain finishes. ok is false while any
// remaining stage is endless.
func (c *Chain) End() (gametime.GameTime, bool) { return c.end, c.willEnd }

// IsOldAt reports whether the chain has fully run out at the instant.
func (c *Chain) IsOldAt(t gametime.GameTime) bool {
	return c.willEnd && t.After(c.end)
}

// SelfHealOn returns the level on which the chain starts healing on its
// own, or LevelUndefined when no spawn roll succeeded.
func (c *Chain) SelfHealOn() Level { return c.selfHealOn }

// MaxLevel returns the most severe level the chain can reach.
func (c *Chain) MaxLevel() Level { return c.specs[len(c.specs)-1].Level }

// Specs returns the chain's stage specs in ascending level order.
func (c *Chain) Specs() []Spec {
	return append([]Spec(nil), c.specs...)
}

// Timings returns the materialized stage timings in ascending level
// order, without the healthy tail.
func (c *Chain) Timings() []Timing {
	return append([]Timing(nil), c.timings...)
}

// HealthyTail returns the synthetic healthy stage of an inverted disease
// chain.
func (c *Chain) HealthyTail() (Timing, bool) {
	if c.healthy == nil {
		return Timing{}, false
	}
	return *c.healthy, true
}

// TimingFor returns the timing of one level, including the healthy tail.
func (c *Chain) TimingFor(level Level) (Timing, bool) {
	if level == LevelHealthy {
		return c.HealthyTail()
	}
	for _, tm := range c.timings {
		if tm.Level == level {
			return tm, true
		}
	}
	return Timing{}, false
}

// TimeOrdered returns all timings, healthy tail included, in the order
// they occur on the game clock.
func (c *Chain) TimeOrdered() []Timing {
	out := make([]Timing, 0, len(c.timings)+1)
	if c.inverted {
		for i := len(c.timings) - 1; i >= 0; i-- {
			out = append(out, c.timings[i])
		}
		if c.healthy != nil {
			out = append(out, *c.healthy)
		}
		return out
	}
	out = append(out, c.timings...)
	return out
}

// ActiveAt returns the stage active at the instant. When two stages touch
// at a boundary the later one wins.
func (c *Chain) ActiveAt(t gametime.GameTime) (Timing, bool) {
	var active Timing
	found := false
	for _, tm := range c.TimeOrdered() {
		if tm.Contains(t) {
			active = tm
			found = true
		}
	}
	return active, found
}

// PercentAt returns the active stage and its progress percent at the
// instant.
func (c *Chain) PercentAt(t gametime.GameTime) (Timing, float64, bool) {
	tm, ok := c.ActiveAt(t)
	if !ok {
		return Timing{}, 0, false
	}
	return tm, tm.PercentAt(t), true
}

// contains reports whether the instant falls inside the chain's overall
// lifetime.
func (c *Chain) contains(t gametime.GameTime) bool {
	if t.Before(c.activation) {
		return false
	}
	return !c.willEnd || !t.After(c.end)
}

// Invert rewrites the chain at the given instant so that time flows from
// the current stage back toward recovery. The active stage is mirrored
// around the instant, less severe levels are laid out after it in reverse
// order, more severe levels are re-anchored into the past, and a healthy
// tail of the given duration is appended when one is requested. An
// inverted chain always ends.
func (c *Chain) Invert(t gametime.GameTime, healthyTail time.Duration) error {
	if c.inverted {
		return ErrAlreadyInverted
	}
	if !c.contains(t) {
		return ErrNotActive
	}
	active, ok := c.ActiveAt(t)
	if !ok {
		return ErrNoActiveStage
	}

	idx := c.levelIndex(active.Level)
	pivotDur := active.Duration

	// mirror the pivot around the instant; a stage already holding at
	// peak starts healing right now
	toPeak := active.Peak.Sub(t)
	if toPeak < 0 {
		toPeak = 0
	}
	newStart := t.Add(-toPeak)
	newPeak := newStart.Add(pivotDur)
	c.timings[idx] = Timing{
		Level:    active.Level,
		Start:    newStart,
		Peak:     newPeak,
		Duration: newPeak.Sub(newStart),
		Endless:  false,
	}

	// less severe levels play out after the pivot, most severe last
	cursor := newPeak
	for i := idx - 1; i >= 0; i-- {
		dur := c.specs[i].Duration
		c.timings[i] = Timing{
			Level:    c.specs[i].Level,
			Start:    cursor,
			Peak:     cursor.Add(dur),
			Duration: dur,
			Endless:  false,
		}
		cursor = cursor.Add(dur)
	}

	if healthyTail > 0 {
		c.healthy = &Timing{
			Level:    LevelHealthy,
			Start:    cursor,
			Peak:     cursor.Add(healthyTail),
			Duration: healthyTail,
			Endless:  false,
		}
		cursor = cursor.Add(healthyTail)
	}

	// more severe levels become the chain's past
	left := newStart
	for i := idx + 1; i < len(c.timings); i++ {
		dur := c.specs[i].Duration
		peak := left
		start := peak.Add(-dur)
		c.timings[i] = Timing{
			Level:    c.specs[i].Level,
			Start:    start,
			Peak:     peak,
			Duration: peak.Sub(start),
			Endless:  false,
		}
		left = start
	}

	c.inverted = true
	c.activation = left
	c.willEnd = true
	c.end = cursor
	return nil
}

// InvertBack rewrites an inverted chain at the given instant so severity
// climbs again. The active stage is mirrored around the instant, more
// severe levels follow it with their original durations and endless
// flags, less severe levels are re-anchored into the past, and the
// healthy tail is dropped.
func (c *Chain) InvertBack(t gametime.GameTime) error {
	if !c.inverted {
		return ErrAlreadyInvertedBack
	}
	if !c.contains(t) {
		return ErrNotActive
	}
	active, ok := c.ActiveAt(t)
	if !ok {
		return ErrNoActiveStage
	}
	if active.Level == LevelHealthy {
		return ErrOnHealthyStage
	}

	idx := c.levelIndex(active.Level)
	pivotDur := active.Duration

	toPeak := active.Peak.Sub(t)
	if toPeak < 0 {
		toPeak = 0
	}
	newStart := t.Add(-toPeak)
	newPeak := newStart.Add(pivotDur)
	c.timings[idx] = Timing{
		Level:    active.Level,
		Start:    newStart,
		Peak:     newPeak,
		Duration: newPeak.Sub(newStart),
		Endless:  c.specs[idx].Endless,
	}

	cursor := newPeak
	for i := idx + 1; i < len(c.timings); i++ {
		dur := c.specs[i].Duration
		c.timings[i] = Timing{
			Level:    c.specs[i].Level,
			Start:    cursor,
			Peak:     cursor.Add(dur),
			Duration: dur,
			Endless:  c.specs[i].Endless,
		}
		cursor = cursor.Add(dur)
	}

	left := newStart
	for i := idx - 1; i >= 0; i-- {
		dur := c.specs[i].Duration
		peak := left
		start := peak.Add(-dur)
		c.timings[i] = Timing{
			Level:    c.specs[i].Level,
			Start:    start,
			Peak:     peak,
			Duration: peak.Sub(start),
			Endless:  c.specs[i].Endless,
		}
		left = start
	}

	c.healthy = nil
	c.inverted = false
	c.activation = c.timings[0].Start
	c.willEnd = !anyEndless(c.specs)
	if c.willEnd {
		c.end = c.timings[len(c.timings)-1].Peak
	}
	return nil
}

func (c *Chain) levelIndex(level Level) int {
	for i, tm := range c.timings {
		if tm.Level == level {
			return i
		}
	}
	return -1
}
