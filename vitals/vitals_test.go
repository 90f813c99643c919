package vitals

import (
	"math"
	"testing"
)

func TestHealthyReference(t *testing.T) {
	h := Healthy()

	if math.Abs(h.BodyTemperature-36.6) > 1e-9 {
		t.Errorf("body temperature: got %v, want 36.6", h.BodyTemperature)
	}
	if h.HeartRate != 64 {
		t.Errorf("heart rate: got %v, want 64", h.HeartRate)
	}
	if h.TopPressure != 120 || h.BottomPressure != 70 {
		t.Errorf("pressure: got %v/%v, want 120/70", h.TopPressure, h.BottomPressure)
	}
	if h.FatigueLevel != 0 {
		t.Errorf("fatigue: got %v, want 0", h.FatigueLevel)
	}
	for name, v := range map[string]float64{
		"blood":   h.BloodLevel,
		"food":    h.FoodLevel,
		"water":   h.WaterLevel,
		"stamina": h.StaminaLevel,
		"oxygen":  h.OxygenLevel,
	} {
		if v != 100 {
			t.Errorf("%s: got %v, want 100", name, v)
		}
	}
}

func TestClampScales(t *testing.T) {
	s := Snapshot{
		BodyTemperature: 45.0,
		HeartRate:       300,
		FoodLevel:       130,
		WaterLevel:      -4,
		StaminaLevel:    50,
	}
	s.ClampScales()

	if s.FoodLevel != 100 {
		t.Errorf("food: got %v, want 100", s.FoodLevel)
	}
	if s.WaterLevel != 0 {
		t.Errorf("water: got %v, want 0", s.WaterLevel)
	}
	if s.StaminaLevel != 50 {
		t.Errorf("stamina: got %v, want 50", s.StaminaLevel)
	}

	// temperature and heart rate are not level scales
	if s.BodyTemperature != 45.0 || s.HeartRate != 300 {
		t.Error("clamp must not touch temperature or heart rate")
	}
}

func TestApproxEqual(t *testing.T) {
	a := Healthy()
	b := a
	b.StaminaLevel += Epsilon / 2

	if !a.ApproxEqual(b) {
		t.Error("snapshots within epsilon must compare equal")
	}

	b.StaminaLevel = a.StaminaLevel + 1e-3
	if a.ApproxEqual(b) {
		t.Error("snapshots beyond epsilon must compare unequal")
	}
}
