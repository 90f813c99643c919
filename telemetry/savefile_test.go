package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/pulse/character"
	"github.com/pthm-cable/pulse/health"
	"github.com/pthm-cable/pulse/vitals"
)

func TestSaveCharacterRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	save := &SaveFile{
		Version:        SaveVersion,
		Seed:           42,
		SavedAtSeconds: 7200,
		Character: character.State{
			Name:       "Mariner Jyn",
			NowSeconds: 7200,
			Health: health.State{
				Alive: true,
				Vitals: vitals.Snapshot{
					BodyTemperature: 36.6,
					HeartRate:       71,
					FoodLevel:       64,
					WaterLevel:      52,
				},
			},
		},
	}

	path, err := SaveCharacter(save, tmpDir)
	if err != nil {
		t.Fatalf("SaveCharacter failed: %v", err)
	}

	want := filepath.Join(tmpDir, "save_mariner_jyn_7200.json")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("save file not created at %s", path)
	}

	loaded, err := LoadSaveFile(path)
	if err != nil {
		t.Fatalf("LoadSaveFile failed: %v", err)
	}

	if loaded.Seed != save.Seed {
		t.Errorf("seed mismatch: got %d, want %d", loaded.Seed, save.Seed)
	}
	if loaded.Character.Name != save.Character.Name {
		t.Errorf("name mismatch: got %s, want %s", loaded.Character.Name, save.Character.Name)
	}
	if !loaded.Character.Health.Alive {
		t.Error("loaded character should be alive")
	}
	if loaded.Character.Health.Vitals.HeartRate != 71 {
		t.Errorf("heart rate mismatch: got %v, want 71", loaded.Character.Health.Vitals.HeartRate)
	}
}

func TestLoadSaveFileRejectsWrongVersion(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "save_old.json")

	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSaveFile(path); err == nil {
		t.Error("expected version error, got nil")
	}
}
