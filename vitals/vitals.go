// Package vitals defines the snapshot of health scalars shared by the
// engine, its monitors and the demo host.
package vitals

import "math"

// Bounds of the 0..100 level scales.
const (
	ScaleMin = 0.0
	ScaleMax = 100.0
)

// Epsilon is the tolerance used when comparing captured snapshots.
const Epsilon = 1e-4

// Snapshot holds every health scalar at one instant. Temperature is in
// degrees Celsius, heart rate in beats per minute, pressures in mmHg and
// the remaining fields are 0..100 level scales.
type Snapshot struct {
	BodyTemperature float64 `json:"body_temperature"`
	HeartRate       float64 `json:"heart_rate"`
	TopPressure     float64 `json:"top_pressure"`
	BottomPressure  float64 `json:"bottom_pressure"`
	BloodLevel      float64 `json:"blood_level"`
	FoodLevel       float64 `json:"food_level"`
	WaterLevel      float64 `json:"water_level"`
	StaminaLevel    float64 `json:"stamina_level"`
	FatigueLevel    float64 `json:"fatigue_level"`
	OxygenLevel     float64 `json:"oxygen_level"`
}

// Healthy returns the reference snapshot of a fully rested, healthy
// character.
func Healthy() Snapshot {
	return Snapshot{
		BodyTemperature: 36.6,
		HeartRate:       64,
		TopPressure:     120,
		BottomPressure:  70,
		BloodLevel:      100,
		FoodLevel:       100,
		WaterLevel:      100,
		StaminaLevel:    100,
		FatigueLevel:    0,
		OxygenLevel:     100,
	}
}

// ClampScales clamps the level fields into [ScaleMin, ScaleMax] in place.
// Temperature, heart rate and pressures are left untouched.
func (s *Snapshot) ClampScales() {
	s.BloodLevel = clampScale(s.BloodLevel)
	s.FoodLevel = clampScale(s.FoodLevel)
	s.WaterLevel = clampScale(s.WaterLevel)
	s.StaminaLevel = clampScale(s.StaminaLevel)
	s.FatigueLevel = clampScale(s.FatigueLevel)
	s.OxygenLevel = clampScale(s.OxygenLevel)
}

// ApproxEqual reports whether every field of s and o matches within
// Epsilon.
func (s Snapshot) ApproxEqual(o Snapshot) bool {
	return eq(s.BodyTemperature, o.BodyTemperature) &&
		eq(s.HeartRate, o.HeartRate) &&
		eq(s.TopPressure, o.TopPressure) &&
		eq(s.BottomPressure, o.BottomPressure) &&
		eq(s.BloodLevel, o.BloodLevel) &&
		eq(s.FoodLevel, o.FoodLevel) &&
		eq(s.WaterLevel, o.WaterLevel) &&
		eq(s.StaminaLevel, o.StaminaLevel) &&
		eq(s.FatigueLevel, o.FatigueLevel) &&
		eq(s.OxygenLevel, o.OxygenLevel)
}

func eq(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func clampScale(v float64) float64 {
	if v < ScaleMin {
		return ScaleMin
	}
	if v > ScaleMax {
		return ScaleMax
	}
	return v
}
