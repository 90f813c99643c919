package game

import (
	"log/slog"

	"github.com/pthm-cable/pulse/telemetry"
	"github.com/pthm-cable/pulse/vitals"
)

// flushTelemetry closes the stats window when due and handles moments.
func (g *Game) flushTelemetry() {
	now := g.gameNow()
	if !g.collector.ShouldFlush(now) {
		return
	}

	samples := make([]vitals.Snapshot, 0, g.alive)
	for _, surv := range g.survivors {
		if !surv.dead {
			samples = append(samples, surv.ctrl.Engine().Snapshot())
		}
	}

	stats := g.collector.Flush(now, samples)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndSec); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, m := range g.momentDetector.Check(stats) {
		if g.logStats {
			m.LogMoment()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteMoment(m); err != nil {
				slog.Error("failed to write moment", "error", err)
			}
		}
	}
}

// SaveSurvivors writes a save file for every living survivor. No-op
// without a save directory.
func (g *Game) SaveSurvivors() {
	if g.saveDir == "" {
		return
	}
	for _, surv := range g.survivors {
		if surv.dead {
			continue
		}
		save := &telemetry.SaveFile{
			Version:        telemetry.SaveVersion,
			Seed:           g.rngSeed,
			SavedAtSeconds: surv.ctrl.Now().Seconds(),
			Character:      surv.ctrl.State(),
		}
		path, err := telemetry.SaveCharacter(save, g.saveDir)
		if err != nil {
			slog.Error("failed to save character", "name", surv.ctrl.Name(), "error", err)
			continue
		}
		slog.Info("character saved", "name", surv.ctrl.Name(), "path", path)
	}
}
