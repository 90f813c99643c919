// Package main provides CMA-ES search for survival-balance parameters.
package main

import (
	"github.com/pthm-cable/pulse/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Baseline drains
			{Name: "food_drain", Path: "drains.food_per_second", Min: 0.0005, Max: 0.01, Default: 0.00243},
			{Name: "water_drain", Path: "drains.water_per_second", Min: 0.001, Max: 0.02, Default: 0.00486},
			// Passive regeneration
			{Name: "stamina_regen", Path: "regen.stamina_per_second", Min: 0.02, Max: 0.5, Default: 0.1},
			{Name: "blood_regen", Path: "regen.blood_per_second", Min: 0.001, Max: 0.05, Default: 0.005},
			{Name: "oxygen_regen", Path: "regen.oxygen_per_second", Min: 2.0, Max: 20.0, Default: 10.0},
			// Running economy
			{Name: "run_stamina_drain", Path: "running.stamina_per_second", Min: 0.1, Max: 1.0, Default: 0.35},
			{Name: "run_water_drain", Path: "running.water_per_second", Min: 0.002, Max: 0.05, Default: 0.01},
			// Sleep debt
			{Name: "exhausted_after", Path: "fatigue.exhausted_after_hours", Min: 8.0, Max: 24.0, Default: 16.0},
			// Scenario routine
			{Name: "meal_interval", Path: "demo.meal_interval_hours", Min: 2.0, Max: 8.0, Default: 5.0},
			{Name: "drink_interval", Path: "demo.drink_interval_hours", Min: 1.0, Max: 6.0, Default: 3.0},
			{Name: "sleep_after", Path: "demo.sleep_after_hours", Min: 12.0, Max: 20.0, Default: 16.0},
			// Healing tail
			{Name: "healthy_stage", Path: "health.healthy_stage_minutes", Min: 2.0, Max: 10.0, Default: 5.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)

	cfg.Drains.FoodPerSecond = v[0]
	cfg.Drains.WaterPerSecond = v[1]

	cfg.Regen.StaminaPerSecond = v[2]
	cfg.Regen.BloodPerSecond = v[3]
	cfg.Regen.OxygenPerSecond = v[4]

	cfg.Running.StaminaPerSecond = v[5]
	cfg.Running.WaterPerSecond = v[6]

	cfg.Fatigue.ExhaustedAfterHours = v[7]

	cfg.Demo.MealIntervalHours = v[8]
	cfg.Demo.DrinkIntervalHours = v[9]
	cfg.Demo.SleepAfterHours = v[10]

	cfg.Health.HealthyStageMinutes = v[11]
}
