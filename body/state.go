package body

import (
	"math"

	"github.com/pthm-cable/pulse/gametime"
)

// State is a value capture of a tracker, suitable for JSON save files.
type State struct {
	Sleeping         bool        `json:"sleeping"`
	SleepLeftSeconds float64     `json:"sleep_left_seconds"`
	SleepingForHours float64     `json:"sleeping_for_hours"`
	LastSleptSeconds float64     `json:"last_slept_seconds"`
	LastSleptHours   float64     `json:"last_slept_hours"`
	HasSlept         bool        `json:"has_slept"`
	Clothes          []string    `json:"clothes"`
	Appliances       []Appliance `json:"appliances"`
	ColdResistance   float64     `json:"cold_resistance"`
	WaterResistance  float64     `json:"water_resistance"`
	Warmth           float64     `json:"warmth"`
	Wetness          float64     `json:"wetness"`
}

// State captures the tracker.
func (t *Tracker) State() State {
	return State{
		Sleeping:         t.sleeping,
		SleepLeftSeconds: t.sleepLeft.Seconds(),
		SleepingForHours: t.sleepingFor,
		LastSleptSeconds: t.lastSlept.Seconds(),
		LastSleptHours:   t.lastSleptFor,
		HasSlept:         t.hasSlept,
		Clothes:          t.Clothes(),
		Appliances:       t.Appliances(),
		ColdResistance:   t.coldResistance,
		WaterResistance:  t.waterResistance,
		Warmth:           t.warmth,
		Wetness:          t.wetness,
	}
}

// Restore overwrites the tracker with a captured state.
func (t *Tracker) Restore(s State) {
	t.sleeping = s.Sleeping
	t.sleepLeft = gametime.Seconds(s.SleepLeftSeconds)
	t.sleepingFor = s.SleepingForHours
	t.lastSlept = gametime.FromSeconds(s.LastSleptSeconds)
	t.lastSleptFor = s.LastSleptHours
	t.hasSlept = s.HasSlept
	t.clothes = append([]string(nil), s.Clothes...)
	t.appliances = append([]Appliance(nil), s.Appliances...)
	t.coldResistance = s.ColdResistance
	t.waterResistance = s.WaterResistance
	t.warmth = s.Warmth
	t.wetness = s.Wetness
}

// ApproxEqual reports whether two captures match, with float fields
// compared to a 1e-4 tolerance.
func (s State) ApproxEqual(o State) bool {
	if s.Sleeping != o.Sleeping || s.HasSlept != o.HasSlept {
		return false
	}
	if len(s.Clothes) != len(o.Clothes) || len(s.Appliances) != len(o.Appliances) {
		return false
	}
	for i := range s.Clothes {
		if s.Clothes[i] != o.Clothes[i] {
			return false
		}
	}
	for i := range s.Appliances {
		if s.Appliances[i] != o.Appliances[i] {
			return false
		}
	}
	const eps = 1e-4
	floats := [][2]float64{
		{s.SleepLeftSeconds, o.SleepLeftSeconds},
		{s.SleepingForHours, o.SleepingForHours},
		{s.LastSleptSeconds, o.LastSleptSeconds},
		{s.LastSleptHours, o.LastSleptHours},
		{s.ColdResistance, o.ColdResistance},
		{s.WaterResistance, o.WaterResistance},
		{s.Warmth, o.Warmth},
		{s.Wetness, o.Wetness},
	}
	for _, f := range floats {
		if math.Abs(f[0]-f[1]) > eps {
			return false
		}
	}
	return true
}
