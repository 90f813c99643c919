// Package stage models the timed severity chains that drive diseases and
// injuries: a sequence of levels with absolute start and peak times, plus
// the inversion mechanics that turn a worsening chain into a healing one.
package stage

import (
	"time"

	"github.com/pthm-cable/pulse/gametime"
)

// Level is the severity of one stage. Healthy is only materialized as the
// synthetic tail of an inverted disease chain.
type Level int

const (
	LevelUndefined Level = iota - 1
	LevelHealthy
	LevelInitial
	LevelProgressing
	LevelWorrying
	LevelCritical
)

var levelNames = map[Level]string{
	LevelUndefined:   "undefined",
	LevelHealthy:     "healthy",
	LevelInitial:     "initial",
	LevelProgressing: "progressing",
	LevelWorrying:    "worrying",
	LevelCritical:    "critical",
}

func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return "undefined"
}

// LevelFromString resolves a severity level by name.
func LevelFromString(name string) (Level, bool) {
	for l, n := range levelNames {
		if n == name && l != LevelUndefined {
			return l, true
		}
	}
	return LevelUndefined, false
}

// Spec describes one stage of a chain before it is bound to time.
type Spec struct {
	Level          Level
	Duration       time.Duration
	Endless        bool
	SelfHealChance int
}

// Timing is one stage bound to absolute game time. Start is when the
// stage begins and Peak when it reaches full severity; an endless stage
// holds at peak with no end.
type Timing struct {
	Level    Level
	Start    gametime.GameTime
	Peak     gametime.GameTime
	Duration time.Duration
	Endless  bool
}

// Contains reports whether the instant falls inside the stage's active
// window.
func (tm Timing) Contains(t gametime.GameTime) bool {
	if t.Before(tm.Start) {
		return false
	}
	return tm.Endless || !t.After(tm.Peak)
}

// PercentAt returns the stage's progress toward peak at the instant, in
// 0..100. Endless stages hold at 100 after their peak.
func (tm Timing) PercentAt(t gametime.GameTime) float64 {
	if t.Before(tm.Start) {
		return 0
	}
	if !t.Before(tm.Peak) {
		return 100
	}
	span := tm.Peak.Sub(tm.Start)
	if span <= 0 {
		return 100
	}
	return float64(t.Sub(tm.Start)) / float64(span) * 100
}
