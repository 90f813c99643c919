package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// WindowStats holds aggregated statistics for one game-time window.
type WindowStats struct {
	WindowStartSec float64 `csv:"-"`
	WindowEndSec   float64 `csv:"window_end_sec"`
	Day            int     `csv:"day"`

	// Population at window end
	Survivors int `csv:"survivors"`

	// Events during window
	Deaths          int `csv:"deaths"`
	DiseasesSpawned int `csv:"diseases_spawned"`
	DiseasesHealed  int `csv:"diseases_healed"`
	DiseasesExpired int `csv:"diseases_expired"`
	InjuriesSpawned int `csv:"injuries_spawned"`
	InjuriesHealed  int `csv:"injuries_healed"`
	InjuriesExpired int `csv:"injuries_expired"`

	DosesTaken       int `csv:"doses_taken"`
	AgentActivations int `csv:"agent_activations"`
	ItemsConsumed    int `csv:"items_consumed"`
	Alarms           int `csv:"alarms"`

	// Heals over spawns within the window
	HealRate float64 `csv:"heal_rate"`

	// Vitals distribution across living survivors at window end
	FoodMean float64 `csv:"food_mean"`
	FoodP10  float64 `csv:"food_p10"`
	FoodP50  float64 `csv:"food_p50"`
	FoodP90  float64 `csv:"food_p90"`

	WaterMean float64 `csv:"water_mean"`
	WaterP10  float64 `csv:"water_p10"`
	WaterP50  float64 `csv:"water_p50"`
	WaterP90  float64 `csv:"water_p90"`

	StaminaMean float64 `csv:"stamina_mean"`
	FatigueMean float64 `csv:"fatigue_mean"`
	TempMean    float64 `csv:"temp_mean"`
	TempMax     float64 `csv:"temp_max"`
}

// Percentile calculates the p-th percentile of a sorted slice, with p in
// [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeVitalStats calculates mean and percentiles for one vital across
// the population.
func ComputeVitalStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// MeanMax returns the mean and maximum of the values, or zeros when
// empty.
func MeanMax(values []float64) (mean, max float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	max = math.Inf(-1)
	var sum float64
	for _, v := range values {
		sum += v
		if v > max {
			max = v
		}
	}
	return sum / float64(n), max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start_sec", s.WindowStartSec),
		slog.Float64("window_end_sec", s.WindowEndSec),
		slog.Int("day", s.Day),
		slog.Int("survivors", s.Survivors),
		slog.Int("deaths", s.Deaths),
		slog.Int("diseases_spawned", s.DiseasesSpawned),
		slog.Int("diseases_healed", s.DiseasesHealed),
		slog.Int("diseases_expired", s.DiseasesExpired),
		slog.Int("injuries_spawned", s.InjuriesSpawned),
		slog.Int("injuries_healed", s.InjuriesHealed),
		slog.Int("injuries_expired", s.InjuriesExpired),
		slog.Int("doses_taken", s.DosesTaken),
		slog.Int("agent_activations", s.AgentActivations),
		slog.Int("items_consumed", s.ItemsConsumed),
		slog.Int("alarms", s.Alarms),
		slog.Float64("heal_rate", s.HealRate),
		slog.Float64("food_mean", s.FoodMean),
		slog.Float64("food_p10", s.FoodP10),
		slog.Float64("food_p50", s.FoodP50),
		slog.Float64("food_p90", s.FoodP90),
		slog.Float64("water_mean", s.WaterMean),
		slog.Float64("water_p10", s.WaterP10),
		slog.Float64("water_p50", s.WaterP50),
		slog.Float64("water_p90", s.WaterP90),
		slog.Float64("stamina_mean", s.StaminaMean),
		slog.Float64("fatigue_mean", s.FatigueMean),
		slog.Float64("temp_mean", s.TempMean),
		slog.Float64("temp_max", s.TempMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end_sec", s.WindowEndSec,
		"day", s.Day,
		"survivors", s.Survivors,
		"deaths", s.Deaths,
		"diseases_spawned", s.DiseasesSpawned,
		"diseases_healed", s.DiseasesHealed,
		"diseases_expired", s.DiseasesExpired,
		"injuries_spawned", s.InjuriesSpawned,
		"injuries_healed", s.InjuriesHealed,
		"injuries_expired", s.InjuriesExpired,
		"doses_taken", s.DosesTaken,
		"agent_activations", s.AgentActivations,
		"items_consumed", s.ItemsConsumed,
		"alarms", s.Alarms,
		"heal_rate", s.HealRate,
		"food_mean", s.FoodMean,
		"water_mean", s.WaterMean,
		"stamina_mean", s.StaminaMean,
		"fatigue_mean", s.FatigueMean,
		"temp_mean", s.TempMean,
		"temp_max", s.TempMax,
	)
}
