// Package gametime provides the game-clock value used across the health
// simulation: an absolute instant measured from scenario start, with
// nanosecond-accurate duration arithmetic and real-to-game scaling.
package gametime

import (
	"fmt"
	"time"
)

// GameTime is an absolute instant on the game clock, stored as the elapsed
// duration since scenario start. The zero value is the scenario start.
type GameTime struct {
	elapsed time.Duration
}

// FromDuration builds a GameTime from an elapsed duration.
func FromDuration(d time.Duration) GameTime {
	return GameTime{elapsed: d}
}

// FromSeconds builds a GameTime from elapsed floating-point game seconds.
func FromSeconds(secs float64) GameTime {
	return GameTime{elapsed: time.Duration(secs * float64(time.Second))}
}

// Add returns the instant d after t. Negative d moves backward but never
// before scenario start.
func (t GameTime) Add(d time.Duration) GameTime {
	e := t.elapsed + d
	if e < 0 {
		e = 0
	}
	return GameTime{elapsed: e}
}

// Sub returns the duration from o to t (t − o).
func (t GameTime) Sub(o GameTime) time.Duration {
	return t.elapsed - o.elapsed
}

// Elapsed returns the duration since scenario start.
func (t GameTime) Elapsed() time.Duration {
	return t.elapsed
}

// Seconds returns the elapsed game seconds as a float.
func (t GameTime) Seconds() float64 {
	return t.elapsed.Seconds()
}

// Before reports whether t is earlier than o.
func (t GameTime) Before(o GameTime) bool {
	return t.elapsed < o.elapsed
}

// After reports whether t is later than o.
func (t GameTime) After(o GameTime) bool {
	return t.elapsed > o.elapsed
}

// Equal reports whether t and o are the same instant.
func (t GameTime) Equal(o GameTime) bool {
	return t.elapsed == o.elapsed
}

// Day returns the zero-based day number of the instant.
func (t GameTime) Day() int {
	return int(t.elapsed / (24 * time.Hour))
}

// Hour returns the hour of day in 0..23.
func (t GameTime) Hour() int {
	return int(t.elapsed/time.Hour) % 24
}

// Minute returns the minute of hour in 0..59.
func (t GameTime) Minute() int {
	return int(t.elapsed/time.Minute) % 60
}

// Second returns the second of minute in 0..59.
func (t GameTime) Second() int {
	return int(t.elapsed/time.Second) % 60
}

// String formats the instant as "day N HH:MM:SS".
func (t GameTime) String() string {
	return fmt.Sprintf("day %d %02d:%02d:%02d", t.Day(), t.Hour(), t.Minute(), t.Second())
}

// Hours converts floating-point game hours to a duration.
func Hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// Minutes converts floating-point game minutes to a duration.
func Minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

// Seconds converts floating-point game seconds to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
