package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRecordsConsider(t *testing.T) {
	r := NewRecords(3)

	runs := []RunRecord{
		{Name: "Ash", SurvivalSec: 3600, Cause: "flu"},
		{Name: "Birch", SurvivalSec: 7200, Cause: "cut"},
		{Name: "Cedar", SurvivalSec: 1800, Cause: "food poisoning"},
	}
	for _, run := range runs {
		if !r.Consider(run) {
			t.Errorf("run %s rejected with table not full", run.Name)
		}
	}

	// Table full. A shorter run should bounce, a longer one should evict
	// the current shortest.
	if r.Consider(RunRecord{Name: "Dune", SurvivalSec: 900}) {
		t.Error("900s run entered a table whose floor is 1800s")
	}
	if !r.Consider(RunRecord{Name: "Elm", SurvivalSec: 5400}) {
		t.Error("5400s run should evict the 1800s entry")
	}

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	wantOrder := []string{"Birch", "Elm", "Ash"}
	for i, name := range wantOrder {
		if all[i].Name != name {
			t.Errorf("entry %d = %s, want %s", i, all[i].Name, name)
		}
	}

	best, ok := r.Best()
	if !ok || best.Name != "Birch" {
		t.Errorf("best = %v (%v), want Birch", best.Name, ok)
	}
}

func TestRecordsSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "records.json")

	r := NewRecords(5)
	r.Consider(RunRecord{Name: "Ash", Seed: 7, SurvivalSec: 86400, Days: 1, Cause: "flu", DiseasesCaught: 2, DiseasesBeaten: 1})
	r.Consider(RunRecord{Name: "Birch", Seed: 7, SurvivalSec: 43200, Cause: "cut", InjuriesTaken: 1})

	if err := r.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadRecords(path, 5)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d entries, want 2", loaded.Len())
	}

	best, _ := loaded.Best()
	if best.Name != "Ash" || best.DiseasesCaught != 2 {
		t.Errorf("best = %+v, want Ash with 2 diseases caught", best)
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	r, err := LoadRecords(filepath.Join(t.TempDir(), "absent.json"), 3)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("missing file should yield an empty table, got %d entries", r.Len())
	}
}

func TestLoadRecordsVersionMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "records.json")

	stale := `{"version": 99, "entries": [{"name": "Ash", "survival_sec": 60}]}`
	if err := os.WriteFile(path, []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRecords(path, 3)
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("version mismatch should start fresh, got %d entries", r.Len())
	}
}
