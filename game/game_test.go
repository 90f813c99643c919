package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/telemetry"
)

// testPack is a minimal content pack: one quick disease, one injury, one
// agent and a small kit, so scenario paths fire within a short run.
const testPack = `
register_disease{
  name = "Flu",
  stages = {
    {
      level = "initial",
      reaches_peak_in_hours = 0.05,
      self_heal_chance = 100,
      body_temperature = 37.5,
      heart_rate = 80,
    },
  },
}

register_injury{
  name = "Cut",
  stages = {
    {
      level = "initial",
      reaches_peak_in_hours = 0.1,
      self_heal_chance = 100,
      stamina_drain = 0.004,
      blood_drain = 0.006,
    },
  },
}

register_agent{
  name = "Aspirin",
  curve = "immediately",
  duration_minutes = 30,
  items = { "Aspirin Pills" },
}

register_item{
  name = "Water Bottle",
  count = 20,
  weight_per_unit = 1100,
  consumable = { is_water = true, water_gain = 35 },
}

register_item{
  name = "Canned Soup",
  count = 20,
  weight_per_unit = 420,
  consumable = { is_food = true, food_gain = 30 },
}

register_item{
  name = "Aspirin Pills",
  count = 10,
  weight_per_unit = 20,
  consumable = {},
}

register_item{
  name = "Bandage",
  count = 5,
  weight_per_unit = 40,
  appliance = { body_appliance = true },
}

register_item{
  name = "Wool Jacket",
  count = 1,
  weight_per_unit = 1200,
  clothes = { cold_resistance = 40, water_resistance = 10 },
}
`

func writePack(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pack.lua"), []byte(testPack), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func testConfig(t *testing.T) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Demo.Survivors = 2
	cfg.Demo.InfectAfterMinutes = 2
	cfg.Demo.InjureAfterMinutes = 3
	cfg.Telemetry.StatsWindow = 120
	config.Set(cfg)
}

func TestGameSpawnsConfiguredPopulation(t *testing.T) {
	testConfig(t)

	g, err := NewGameWithOptions(Options{Seed: 7, ScriptsDir: writePack(t)})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	if got, want := g.Alive(), 2; got != want {
		t.Fatalf("Alive() = %d, want %d", got, want)
	}

	g.UpdateHeadless()
	if g.Tick() != 1 {
		t.Errorf("Tick() = %d, want 1", g.Tick())
	}
	if g.ElapsedSeconds() <= 0 {
		t.Errorf("ElapsedSeconds() = %v, want > 0", g.ElapsedSeconds())
	}
}

func TestGameScenarioSpawnsAndFlushesWindows(t *testing.T) {
	testConfig(t)

	var windows []telemetry.WindowStats
	g, err := NewGameWithOptions(Options{
		Seed:           7,
		ScriptsDir:     writePack(t),
		StepsPerUpdate: 100,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	// 6000 steps at 0.1s per step = 10 game minutes: past both
	// survivors' infection and injury marks and several stats windows.
	for g.Tick() < 6000 && g.Alive() > 0 {
		g.UpdateHeadless()
	}

	if len(windows) == 0 {
		t.Fatal("no stats windows flushed")
	}

	var diseases, injuries int
	for _, w := range windows {
		diseases += w.DiseasesSpawned
		injuries += w.InjuriesSpawned
	}
	if diseases == 0 {
		t.Error("scenario spawned no diseases")
	}
	if injuries == 0 {
		t.Error("scenario spawned no injuries")
	}

	last := windows[len(windows)-1]
	if last.Survivors != g.Alive() {
		t.Errorf("window survivors = %d, want %d", last.Survivors, g.Alive())
	}
}

func TestGameSavesSurvivors(t *testing.T) {
	testConfig(t)

	saveDir := t.TempDir()
	g, err := NewGameWithOptions(Options{Seed: 7, ScriptsDir: writePack(t), SaveDir: saveDir})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	g.UpdateHeadless()
	g.SaveSurvivors()

	entries, err := os.ReadDir(saveDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d save files, want 2", len(entries))
	}

	save, err := telemetry.LoadSaveFile(filepath.Join(saveDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("LoadSaveFile: %v", err)
	}
	if save.Version != telemetry.SaveVersion {
		t.Errorf("save version = %d, want %d", save.Version, telemetry.SaveVersion)
	}
	if save.Seed != 7 {
		t.Errorf("save seed = %d, want 7", save.Seed)
	}
}
