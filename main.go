package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scriptsDir := flag.String("scripts", "scripts", "Directory of Lua content scripts")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in game seconds (0 = use config)")
	saveDir := flag.String("save-dir", "", "Directory for character save files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = run until everyone is dead)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation steps per update call (higher = faster runs)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		ScriptsDir:     *scriptsDir,
		SaveDir:        *saveDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	})
	if err != nil {
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting simulation",
		"seed", g.Seed(),
		"survivors", g.Alive(),
		"max_ticks", *maxTicks,
		"steps_per_update", *stepsPerUpdate,
	)

	for {
		g.UpdateHeadless()

		if g.Alive() == 0 {
			slog.Info("population extinct", "tick", g.Tick(), "elapsed_sec", g.ElapsedSeconds())
			break
		}
		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "alive", g.Alive())
			break
		}
	}

	g.SaveSurvivors()

	if best, ok := g.Records().Best(); ok {
		slog.Info("longest run",
			"name", best.Name,
			"survival_sec", best.SurvivalSec,
			"days", best.Days,
			"cause", best.Cause,
		)
	}
}
