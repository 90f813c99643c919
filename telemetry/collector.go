// Package telemetry aggregates the health event stream into window
// statistics, per-survivor lifetimes, notable moments, performance
// timings and durable run records.
package telemetry

import (
	"time"

	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/vitals"
)

// Collector accumulates events within game-time windows and produces
// WindowStats.
type Collector struct {
	window      time.Duration
	windowStart gametime.GameTime

	deaths          int
	diseasesSpawned int
	diseasesHealed  int
	diseasesExpired int
	injuriesSpawned int
	injuriesHealed  int
	injuriesExpired int
	doses           int
	activations     int
	itemsConsumed   int
	alarms          int
}

// NewCollector creates a stats collector flushing every windowSec game
// seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 600
	}
	return &Collector{window: gametime.Seconds(windowSec)}
}

// Record classifies one event into the current window's counters.
func (c *Collector) Record(ev events.Event) {
	switch ev.Kind {
	case events.KindDeathFromDisease, events.KindDeathFromInjury:
		c.deaths++
	case events.KindDiseaseSpawned:
		c.diseasesSpawned++
	case events.KindDiseaseInverted:
		c.diseasesHealed++
	case events.KindDiseaseExpired:
		c.diseasesExpired++
	case events.KindInjurySpawned:
		c.injuriesSpawned++
	case events.KindInjuryInverted:
		c.injuriesHealed++
	case events.KindInjuryExpired:
		c.injuriesExpired++
	case events.KindMedicalAgentDoseReceived:
		c.doses++
	case events.KindMedicalAgentActivated:
		c.activations++
	case events.KindItemConsumed:
		c.itemsConsumed++
	default:
		if IsAlarm(ev.Kind) {
			c.alarms++
		}
	}
}

// IsAlarm reports whether the kind is one of the engine's vitals alarms.
func IsAlarm(k events.Kind) bool {
	switch k {
	case events.KindStaminaDrained,
		events.KindOxygenDrained,
		events.KindFoodDrained,
		events.KindWaterDrained,
		events.KindBloodDrained,
		events.KindTired,
		events.KindExhausted,
		events.KindLowBloodPressureDanger,
		events.KindHighBloodPressureDanger,
		events.KindLowBodyTemperatureDanger,
		events.KindHighBodyTemperatureDanger,
		events.KindLowHeartRateDanger,
		events.KindHighHeartRateDanger:
		return true
	}
	return false
}

// ShouldFlush reports whether a full window has passed.
func (c *Collector) ShouldFlush(now gametime.GameTime) bool {
	return now.Sub(c.windowStart) >= c.window
}

// Window returns the window length.
func (c *Collector) Window() time.Duration { return c.window }

// Flush produces a WindowStats from the window's counters and the given
// population sample, then resets for the next window. samples holds one
// vitals snapshot per living survivor.
func (c *Collector) Flush(now gametime.GameTime, samples []vitals.Snapshot) WindowStats {
	var healRate float64
	spawned := c.diseasesSpawned + c.injuriesSpawned
	if spawned > 0 {
		healRate = float64(c.diseasesHealed+c.injuriesHealed) / float64(spawned)
	}

	food := make([]float64, len(samples))
	water := make([]float64, len(samples))
	stamina := make([]float64, len(samples))
	fatigue := make([]float64, len(samples))
	temp := make([]float64, len(samples))
	for i, s := range samples {
		food[i] = s.FoodLevel
		water[i] = s.WaterLevel
		stamina[i] = s.StaminaLevel
		fatigue[i] = s.FatigueLevel
		temp[i] = s.BodyTemperature
	}

	foodMean, foodP10, foodP50, foodP90 := ComputeVitalStats(food)
	waterMean, waterP10, waterP50, waterP90 := ComputeVitalStats(water)
	staminaMean, _, _, _ := ComputeVitalStats(stamina)
	fatigueMean, _, _, _ := ComputeVitalStats(fatigue)
	tempMean, tempMax := MeanMax(temp)

	stats := WindowStats{
		WindowStartSec: c.windowStart.Seconds(),
		WindowEndSec:   now.Seconds(),
		Day:            now.Day(),

		Survivors: len(samples),

		Deaths:          c.deaths,
		DiseasesSpawned: c.diseasesSpawned,
		DiseasesHealed:  c.diseasesHealed,
		DiseasesExpired: c.diseasesExpired,
		InjuriesSpawned: c.injuriesSpawned,
		InjuriesHealed:  c.injuriesHealed,
		InjuriesExpired: c.injuriesExpired,

		DosesTaken:       c.doses,
		AgentActivations: c.activations,
		ItemsConsumed:    c.itemsConsumed,
		Alarms:           c.alarms,

		HealRate: healRate,

		FoodMean: foodMean,
		FoodP10:  foodP10,
		FoodP50:  foodP50,
		FoodP90:  foodP90,

		WaterMean: waterMean,
		WaterP10:  waterP10,
		WaterP50:  waterP50,
		WaterP90:  waterP90,

		StaminaMean: staminaMean,
		FatigueMean: fatigueMean,
		TempMean:    tempMean,
		TempMax:     tempMax,
	}

	c.windowStart = now
	c.deaths = 0
	c.diseasesSpawned = 0
	c.diseasesHealed = 0
	c.diseasesExpired = 0
	c.injuriesSpawned = 0
	c.injuriesHealed = 0
	c.injuriesExpired = 0
	c.doses = 0
	c.activations = 0
	c.itemsConsumed = 0
	c.alarms = 0

	return stats
}
