package telemetry

import (
	"testing"

	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
)

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()

	spawn := gametime.FromSeconds(100)
	lt.Register("Ash", spawn)
	lt.Register("Birch", spawn)

	if lt.Count() != 2 {
		t.Fatalf("count = %d, want 2", lt.Count())
	}

	at := spawn.Add(gametime.Hours(1))
	lt.Observe("Ash", events.NewNamed(events.KindDiseaseSpawned, at, "flu"))
	lt.Observe("Ash", events.NewNamed(events.KindDiseaseInverted, at, "flu"))
	lt.Observe("Ash", events.NewDose(at, "aspirin", "aspirin pills"))
	lt.Observe("Ash", events.NewItem(events.KindItemConsumed, at, "aspirin pills", 1))
	lt.Observe("Ash", events.New(events.KindTired, at))
	lt.Observe("Ash", events.New(events.KindWokeUp, at))

	// Events against untracked names are dropped.
	lt.Observe("Ghost", events.New(events.KindTired, at))

	s := lt.Get("Ash")
	if s == nil {
		t.Fatal("Ash not tracked")
	}
	if s.DiseasesCaught != 1 || s.DiseasesBeaten != 1 {
		t.Errorf("diseases caught/beaten = %d/%d, want 1/1", s.DiseasesCaught, s.DiseasesBeaten)
	}
	if s.DosesTaken != 1 || s.ItemsConsumed != 1 || s.Alarms != 1 {
		t.Errorf("doses/items/alarms = %d/%d/%d, want 1/1/1", s.DosesTaken, s.ItemsConsumed, s.Alarms)
	}

	lt.UpdateFatigue("Ash", 40)
	lt.UpdateFatigue("Ash", 25)
	if s.PeakFatigue != 40 {
		t.Errorf("peak fatigue = %v, want 40", s.PeakFatigue)
	}

	lt.UpdateSurvival("Ash", spawn.Add(gametime.Hours(2)))
	if s.SurvivalSec != 7200 {
		t.Errorf("survival = %v, want 7200", s.SurvivalSec)
	}

	lt.Observe("Ash", events.NewNamed(events.KindDeathFromDisease, at, "flu"))
	if s.Cause != "flu" {
		t.Errorf("cause = %q, want flu", s.Cause)
	}

	final := lt.Remove("Ash")
	if final == nil || final.Cause != "flu" {
		t.Errorf("removed lifetime = %+v", final)
	}
	if lt.Count() != 1 {
		t.Errorf("count after remove = %d, want 1", lt.Count())
	}
	if lt.Get("Ash") != nil {
		t.Error("Ash still tracked after remove")
	}
}
