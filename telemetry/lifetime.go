package telemetry

import (
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
)

// Lifetime tracks one survivor's run from spawn to death.
type Lifetime struct {
	SpawnedAtSec float64
	SurvivalSec  float64

	DiseasesCaught int
	DiseasesBeaten int
	InjuriesTaken  int
	InjuriesBeaten int
	DosesTaken     int
	ItemsConsumed  int
	Alarms         int

	PeakFatigue float64

	// Name of the disease or injury that killed the survivor; empty
	// while alive.
	Cause string
}

// LifetimeTracker manages per-survivor lifetime statistics by name.
type LifetimeTracker struct {
	stats map[string]*Lifetime
}

// NewLifetimeTracker creates an empty lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[string]*Lifetime),
	}
}

// Register starts tracking a survivor spawned at the given game time.
func (lt *LifetimeTracker) Register(name string, at gametime.GameTime) {
	lt.stats[name] = &Lifetime{SpawnedAtSec: at.Seconds()}
}

// Get returns the lifetime for a survivor, or nil if not tracked.
func (lt *LifetimeTracker) Get(name string) *Lifetime {
	return lt.stats[name]
}

// Remove stops tracking a survivor and returns the final lifetime.
func (lt *LifetimeTracker) Remove(name string) *Lifetime {
	stats := lt.stats[name]
	delete(lt.stats, name)
	return stats
}

// Observe classifies one of the survivor's events into their lifetime.
func (lt *LifetimeTracker) Observe(name string, ev events.Event) {
	s := lt.stats[name]
	if s == nil {
		return
	}
	switch ev.Kind {
	case events.KindDiseaseSpawned:
		s.DiseasesCaught++
	case events.KindDiseaseInverted:
		s.DiseasesBeaten++
	case events.KindInjurySpawned:
		s.InjuriesTaken++
	case events.KindInjuryInverted:
		s.InjuriesBeaten++
	case events.KindMedicalAgentDoseReceived:
		s.DosesTaken++
	case events.KindItemConsumed:
		s.ItemsConsumed++
	case events.KindDeathFromDisease, events.KindDeathFromInjury:
		s.Cause = ev.Name
	default:
		if IsAlarm(ev.Kind) {
			s.Alarms++
		}
	}
}

// UpdateSurvival refreshes the survivor's time alive.
func (lt *LifetimeTracker) UpdateSurvival(name string, now gametime.GameTime) {
	if s := lt.stats[name]; s != nil {
		s.SurvivalSec = now.Seconds() - s.SpawnedAtSec
	}
}

// UpdateFatigue tracks the survivor's peak fatigue.
func (lt *LifetimeTracker) UpdateFatigue(name string, fatigue float64) {
	if s := lt.stats[name]; s != nil && fatigue > s.PeakFatigue {
		s.PeakFatigue = fatigue
	}
}

// All returns every tracked lifetime.
func (lt *LifetimeTracker) All() map[string]*Lifetime {
	return lt.stats
}

// Count returns the number of tracked survivors.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
