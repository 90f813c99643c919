// Package health implements the tick engine that composes diseases,
// injuries, medical agents and side-effect monitors into the character's
// vitals.
package health

import (
	"time"

	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/vitals"
)

// Deltas is one side-effect monitor's contribution to a tick. Temperature,
// heart rate, pressures and fatigue are absolute offsets over the healthy
// baseline; the drains are rates per game second.
type Deltas struct {
	BodyTemperature float64
	HeartRate       float64
	TopPressure     float64
	BottomPressure  float64

	FoodDrain    float64
	WaterDrain   float64
	StaminaDrain float64
	OxygenDrain  float64
	BloodDrain   float64

	Fatigue float64
}

// Add accumulates o into d field-wise.
func (d *Deltas) Add(o Deltas) {
	d.BodyTemperature += o.BodyTemperature
	d.HeartRate += o.HeartRate
	d.TopPressure += o.TopPressure
	d.BottomPressure += o.BottomPressure
	d.FoodDrain += o.FoodDrain
	d.WaterDrain += o.WaterDrain
	d.StaminaDrain += o.StaminaDrain
	d.OxygenDrain += o.OxygenDrain
	d.BloodDrain += o.BloodDrain
	d.Fatigue += o.Fatigue
}

// PlayerStatus is the host-reported activity snapshot for one frame.
type PlayerStatus struct {
	IsRunning    bool `json:"is_running"`
	IsSwimming   bool `json:"is_swimming"`
	IsUnderwater bool `json:"is_underwater"`
}

// Environment is the host-reported weather snapshot.
type Environment struct {
	Temperature   float64 `json:"temperature"`    // °C
	WindSpeed     float64 `json:"wind_speed"`     // m/s
	RainIntensity float64 `json:"rain_intensity"` // 0..1
}

// ConsumedItem is the record built when an inventory item is eaten or
// drunk. Gains are 0..100 level points applied immediately; the poison
// chances describe the item's spoilage window for food-poisoning
// monitors.
type ConsumedItem struct {
	Name                string
	IsFood              bool
	IsWater             bool
	FoodGain            float64
	WaterGain           float64
	FreshPoisonChance   float64
	SpoiledPoisonChance float64
	Spoiled             bool
}

// Frame is the per-tick summary handed to the engine and its monitors.
type Frame struct {
	Now   gametime.GameTime
	Delta time.Duration // game time since the previous tick

	Player PlayerStatus
	Env    Environment
	Vitals vitals.Snapshot // snapshot entering the tick

	Sleeping       bool
	HasSlept       bool
	LastSleptHours float64
	JustWoke       bool // set on the first tick after a wake-up
}

// SideEffectMonitor contributes vitals deltas each tick. Implementations
// keep their own accumulators; the engine only sums what they return.
type SideEffectMonitor interface {
	OnFrame(f *Frame) Deltas
}

// DiseaseMonitor observes frames and intake and may spawn diseases in
// response, such as rolling food poisoning on a spoiled meal.
type DiseaseMonitor interface {
	OnFrame(e *Engine, f *Frame)
	OnConsumed(e *Engine, now gametime.GameTime, item ConsumedItem)
}
