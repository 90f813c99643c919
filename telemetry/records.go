package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// RecordsVersion is incremented when the records format changes.
const RecordsVersion = 1

// RunRecord is one finished survivor run.
type RunRecord struct {
	Name        string  `json:"name"`
	Seed        int64   `json:"seed"`
	SurvivalSec float64 `json:"survival_sec"`
	Days        int     `json:"days"`
	Cause       string  `json:"cause"`

	DiseasesCaught int `json:"diseases_caught"`
	DiseasesBeaten int `json:"diseases_beaten"`
	InjuriesTaken  int `json:"injuries_taken"`
	DosesTaken     int `json:"doses_taken"`
}

// Records keeps the longest runs seen across simulations, best first.
type Records struct {
	maxSize int
	entries []RunRecord
}

// NewRecords creates a record table with the given capacity.
func NewRecords(maxSize int) *Records {
	if maxSize < 1 {
		maxSize = 10
	}
	return &Records{maxSize: maxSize}
}

// Consider offers a finished run to the table. Returns true when the run
// enters it.
func (r *Records) Consider(rec RunRecord) bool {
	if len(r.entries) == r.maxSize && rec.SurvivalSec <= r.entries[len(r.entries)-1].SurvivalSec {
		return false
	}
	r.entries = append(r.entries, rec)
	sort.Slice(r.entries, func(i, j int) bool {
		return r.entries[i].SurvivalSec > r.entries[j].SurvivalSec
	})
	if len(r.entries) > r.maxSize {
		r.entries = r.entries[:r.maxSize]
	}
	for _, e := range r.entries {
		if e == rec {
			return true
		}
	}
	return false
}

// Best returns the longest run, if any.
func (r *Records) Best() (RunRecord, bool) {
	if len(r.entries) == 0 {
		return RunRecord{}, false
	}
	return r.entries[0], true
}

// All returns the table's entries, best first.
func (r *Records) All() []RunRecord {
	return append([]RunRecord(nil), r.entries...)
}

// Len returns the number of recorded runs.
func (r *Records) Len() int { return len(r.entries) }

type recordsFile struct {
	Version int         `json:"version"`
	Entries []RunRecord `json:"entries"`
}

// Save writes the record table as JSON.
func (r *Records) Save(path string) error {
	data, err := json.MarshalIndent(recordsFile{
		Version: RecordsVersion,
		Entries: r.entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// LoadRecords reads a record table from disk, keeping at most maxSize
// entries. A missing file yields an empty table.
func LoadRecords(path string, maxSize int) (*Records, error) {
	r := NewRecords(maxSize)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	var file recordsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	if file.Version != RecordsVersion {
		slog.Warn("records: version mismatch, starting fresh",
			"got", file.Version, "want", RecordsVersion)
		return r, nil
	}

	for _, e := range file.Entries {
		r.Consider(e)
	}
	return r, nil
}
