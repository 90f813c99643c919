package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/pulse/config"
)

// OutputManager handles structured run output with CSV logging. A nil
// manager is valid and discards everything.
type OutputManager struct {
	dir         string
	statsFile   *os.File
	perfFile    *os.File
	momentsFile *os.File

	statsHeaderWritten   bool
	perfHeaderWritten    bool
	momentsHeaderWritten bool
}

// NewOutputManager creates an output manager rooted at dir. Returns nil
// if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	f, err = os.Create(filepath.Join(dir, "moments.csv"))
	if err != nil {
		om.statsFile.Close()
		om.perfFile.Close()
		return nil, fmt.Errorf("creating moments.csv: %w", err)
	}
	om.momentsFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML for
// reproducibility.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a window stats record to stats.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.statsHeaderWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		om.statsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}

	return nil
}

// WritePerf appends a frame stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEndSec float64) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(windowEndSec)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// WriteMoment appends a moment record to moments.csv.
func (om *OutputManager) WriteMoment(m Moment) error {
	if om == nil {
		return nil
	}

	records := []Moment{m}

	if !om.momentsHeaderWritten {
		if err := gocsv.Marshal(records, om.momentsFile); err != nil {
			return fmt.Errorf("writing moment: %w", err)
		}
		om.momentsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.momentsFile); err != nil {
			return fmt.Errorf("writing moment: %w", err)
		}
	}

	return nil
}

// WriteRecords saves the run record table as JSON next to the CSVs.
func (om *OutputManager) WriteRecords(r *Records) error {
	if om == nil || r == nil {
		return nil
	}
	return r.Save(filepath.Join(om.dir, "records.json"))
}

// RecordsPath returns the path of the records table inside dir, usable
// before a manager exists.
func RecordsPath(dir string) string {
	return filepath.Join(dir, "records.json")
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.statsFile != nil {
		if err := om.statsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.momentsFile != nil {
		if err := om.momentsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
