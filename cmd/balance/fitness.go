package main

import (
	"math"

	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/game"
	"github.com/pthm-cable/pulse/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
// Evaluations are sequential: the config is process-global, so two runs
// with different parameters cannot overlap.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	scriptsDir  string
	statsWindow float64

	bestFitness float64
	bestRecords *telemetry.Records
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, scriptsDir string) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		scriptsDir:  scriptsDir,
		statsWindow: 600.0, // 10 game minutes per window
		bestFitness: math.Inf(1),
	}
}

// BestRecords returns the run records from the best evaluation.
func (fe *FitnessEvaluator) BestRecords() *telemetry.Records {
	return fe.bestRecords
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	meanSurvivalSec float64
	windowStats     []telemetry.WindowStats
	records         *telemetry.Records
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative mean survival seconds, scaled by a quality bonus
// for runs where diseases get beaten instead of merely outlasted.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedRecords *telemetry.Records

	for _, seed := range fe.seeds {
		result := fe.runSimulation(x, seed)
		quality := fe.computeQuality(result.windowStats)
		fitness := -(result.meanSurvivalSec * (1.0 + 0.2*quality))

		totalFitness += fitness
		totalQuality += quality
		if fitness < bestSeedFitness {
			bestSeedFitness = fitness
			bestSeedRecords = result.records
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestRecords = bestSeedRecords
	}
	fe.lastQuality = totalQuality / n

	return avgFitness
}

// runSimulation executes a single headless run until the population is
// gone or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	config.Set(cfg)

	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		ScriptsDir:     fe.scriptsDir,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer g.Unload()

	for g.Alive() > 0 && g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}

	// Mean survival across the population: finished runs from the
	// records, everyone still standing at cutoff counts the full run.
	var total float64
	var count int
	for _, rec := range g.Records().All() {
		total += rec.SurvivalSec
		count++
	}
	if alive := g.Alive(); alive > 0 {
		total += g.ElapsedSeconds() * float64(alive)
		count += alive
	}
	if count > 0 {
		result.meanSurvivalSec = total / float64(count)
	}
	result.records = g.Records()

	return result
}

// computeQuality scores how the population lived, not just how long:
// heal rate counts for, alarm pressure counts against. Returns [0,1].
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) == 0 {
		return 0
	}

	var healSum, alarmSum float64
	for _, w := range windows {
		healSum += w.HealRate
		alarmSum += float64(w.Alarms)
	}
	n := float64(len(windows))

	healRate := healSum / n
	alarmsPerWindow := alarmSum / n

	// More than ~20 alarms per window means vitals are pinned against
	// their thresholds; scale the penalty into [0,1].
	alarmPenalty := alarmsPerWindow / 20.0
	if alarmPenalty > 1 {
		alarmPenalty = 1
	}

	quality := healRate - 0.5*alarmPenalty
	if quality < 0 {
		quality = 0
	}
	if quality > 1 {
		quality = 1
	}
	return quality
}

// copyConfig returns a value copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cp := *fe.baseConfig
	return &cp
}
