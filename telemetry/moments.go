package telemetry

import (
	"fmt"
	"log/slog"
)

// MomentType identifies the kind of notable moment.
type MomentType string

const (
	MomentDeath        MomentType = "death"
	MomentEpidemic     MomentType = "epidemic"
	MomentMassCasualty MomentType = "mass_casualty"
	MomentQuietStretch MomentType = "quiet_stretch"
)

// Moment is one notable point in a run, written to moments.csv.
type Moment struct {
	Type        MomentType `csv:"type"`
	TimeSec     float64    `csv:"time_sec"`
	Day         int        `csv:"day"`
	Description string     `csv:"description"`
}

// NewDeathMoment builds the moment recorded when a survivor dies.
func NewDeathMoment(name, cause string, timeSec float64, day int) Moment {
	return Moment{
		Type:        MomentDeath,
		TimeSec:     timeSec,
		Day:         day,
		Description: fmt.Sprintf("%s died of %s", name, cause),
	}
}

// LogMoment logs the moment using slog.
func (m Moment) LogMoment() {
	slog.Info("moment",
		"type", string(m.Type),
		"time_sec", m.TimeSec,
		"day", m.Day,
		"description", m.Description,
	)
}

// MomentDetector finds notable windows in the stats stream.
type MomentDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	quietWindows int
}

// NewMomentDetector creates a detector with the given history size.
func NewMomentDetector(historySize int) *MomentDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &MomentDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered moments.
func (md *MomentDetector) Check(stats WindowStats) []Moment {
	var moments []Moment

	if md.historyFull || md.historyIdx > 0 {
		if m := md.checkEpidemic(stats); m != nil {
			moments = append(moments, *m)
		}
		if m := md.checkMassCasualty(stats); m != nil {
			moments = append(moments, *m)
		}
		if m := md.checkQuietStretch(stats); m != nil {
			moments = append(moments, *m)
		}
	}

	md.addToHistory(stats)
	return moments
}

func (md *MomentDetector) addToHistory(stats WindowStats) {
	md.history[md.historyIdx] = stats
	md.historyIdx = (md.historyIdx + 1) % md.historySize
	if md.historyIdx == 0 {
		md.historyFull = true
	}
}

func (md *MomentDetector) getHistory() []WindowStats {
	if md.historyFull {
		return md.history
	}
	return md.history[:md.historyIdx]
}

// checkEpidemic flags a window whose disease spawns run well above the
// rolling average.
func (md *MomentDetector) checkEpidemic(stats WindowStats) *Moment {
	history := md.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.DiseasesSpawned
	}
	avg := float64(total) / float64(len(history))

	if stats.DiseasesSpawned >= 2 && float64(stats.DiseasesSpawned) > avg*2.0 {
		return &Moment{
			Type:        MomentEpidemic,
			TimeSec:     stats.WindowEndSec,
			Day:         stats.Day,
			Description: fmt.Sprintf("%d diseases spawned against a %.1f average", stats.DiseasesSpawned, avg),
		}
	}

	return nil
}

// checkMassCasualty flags a window with more than one death.
func (md *MomentDetector) checkMassCasualty(stats WindowStats) *Moment {
	if stats.Deaths < 2 {
		return nil
	}
	return &Moment{
		Type:        MomentMassCasualty,
		TimeSec:     stats.WindowEndSec,
		Day:         stats.Day,
		Description: fmt.Sprintf("%d survivors died within one window", stats.Deaths),
	}
}

// checkQuietStretch flags five consecutive windows without deaths,
// spawns or alarms, exactly once per stretch.
func (md *MomentDetector) checkQuietStretch(stats WindowStats) *Moment {
	if stats.Deaths > 0 || stats.DiseasesSpawned > 0 || stats.InjuriesSpawned > 0 || stats.Alarms > 0 {
		md.quietWindows = 0
		return nil
	}

	md.quietWindows++
	if md.quietWindows != 5 {
		return nil
	}
	return &Moment{
		Type:        MomentQuietStretch,
		TimeSec:     stats.WindowEndSec,
		Day:         stats.Day,
		Description: fmt.Sprintf("%d survivors healthy over 5+ windows", stats.Survivors),
	}
}
