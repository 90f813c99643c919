// Package game hosts the headless demo world: a small population of
// survivors, each driven by its own health controller, plus the scenario
// script that feeds them, sleeps them, infects them and treats them. The
// world mirrors every survivor's vitals into an ECS so telemetry and
// population queries never reach into the controllers.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pulse/character"
	"github.com/pthm-cable/pulse/components"
	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/scripting"
	"github.com/pthm-cable/pulse/telemetry"
)

// FrameDT is the real time advanced per simulation step.
const FrameDT = 100 * time.Millisecond

// Options configures a game run.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	ScriptsDir     string  // "" = "scripts"
	SaveDir        string  // "" = no save files
	OutputDir      string  // "" = no CSV output
	StepsPerUpdate int

	// StatsCallback receives every flushed stats window. Used by
	// parameter sweeps.
	StatsCallback func(telemetry.WindowStats)
}

// survivor binds one controller to its ECS entity and the scenario
// state driving it.
type survivor struct {
	id     uint32
	entity ecs.Entity
	ctrl   *character.Controller

	lastMeal   gametime.GameTime
	lastDrink  gametime.GameTime
	awakeSince gametime.GameTime
	nextTreat  gametime.GameTime

	infected bool
	injured  bool
	dead     bool
	cause    string // disease or injury that killed them
}

// Game holds the complete demo world state.
type Game struct {
	rng     *rand.Rand
	rngSeed int64

	world          *ecs.World
	survivorMapper *ecs.Map2[components.Identity, components.VitalSigns]
	survivorFilter *ecs.Filter2[components.Identity, components.VitalSigns]
	vitalsMap      *ecs.Map1[components.VitalSigns]

	survivors []*survivor
	nextID    uint32
	alive     int

	scripts *scripting.Engine

	collector       *telemetry.Collector
	perfCollector   *telemetry.PerfCollector
	lifetimeTracker *telemetry.LifetimeTracker
	momentDetector  *telemetry.MomentDetector
	records         *telemetry.Records
	outputManager   *telemetry.OutputManager

	logStats       bool
	saveDir        string
	statsCallback  func(telemetry.WindowStats)
	stepsPerUpdate int

	tick    int32
	elapsed time.Duration // game time since world start
}

// NewGameWithOptions builds a world, loads the content pack and spawns
// the configured population.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	scriptsDir := opts.ScriptsDir
	if scriptsDir == "" {
		scriptsDir = "scripts"
	}
	scripts, err := scripting.NewEngine(scriptsDir)
	if err != nil {
		return nil, fmt.Errorf("loading content pack: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	world := ecs.NewWorld()
	g := &Game{
		rng:     rand.New(rand.NewSource(seed)),
		rngSeed: seed,
		world:   world,
		survivorMapper: ecs.NewMap2[
			components.Identity,
			components.VitalSigns,
		](world),
		survivorFilter: ecs.NewFilter2[
			components.Identity,
			components.VitalSigns,
		](world),
		vitalsMap: ecs.NewMap1[components.VitalSigns](world),

		scripts: scripts,

		collector:       telemetry.NewCollector(statsWindow),
		perfCollector:   telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		lifetimeTracker: telemetry.NewLifetimeTracker(),
		momentDetector:  telemetry.NewMomentDetector(12),
		records:         telemetry.NewRecords(10),

		logStats:       opts.LogStats,
		saveDir:        opts.SaveDir,
		statsCallback:  opts.StatsCallback,
		stepsPerUpdate: steps,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			scripts.Close()
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			scripts.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
	}

	g.spawnInitialPopulation()

	return g, nil
}

// Tick returns the number of simulation steps run so far.
func (g *Game) Tick() int32 { return g.tick }

// Alive returns the number of living survivors.
func (g *Game) Alive() int { return g.alive }

// ElapsedSeconds returns game seconds since world start.
func (g *Game) ElapsedSeconds() float64 { return g.elapsed.Seconds() }

// Records returns the run records collected so far, best first.
func (g *Game) Records() *telemetry.Records { return g.records }

// Seed returns the world's RNG seed.
func (g *Game) Seed() int64 { return g.rngSeed }

// gameNow returns the shared world clock. Every controller advances by
// the same frame, so this matches each survivor's own clock.
func (g *Game) gameNow() gametime.GameTime {
	return gametime.FromDuration(g.elapsed)
}

// UpdateHeadless runs the configured number of simulation steps.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// Unload flushes run records and closes the content pack and output
// files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if g.records.Len() > 0 {
			g.outputManager.WriteRecords(g.records)
		}
		g.outputManager.Close()
		g.outputManager = nil
	}
	if g.scripts != nil {
		g.scripts.Close()
		g.scripts = nil
	}
}
