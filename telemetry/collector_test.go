package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/vitals"
)

func TestCollectorRecordAndFlush(t *testing.T) {
	c := NewCollector(600)

	start := gametime.GameTime{}
	mid := start.Add(gametime.Seconds(300))
	end := start.Add(gametime.Seconds(600))

	if c.ShouldFlush(mid) {
		t.Error("should not flush halfway through the window")
	}

	for _, ev := range []events.Event{
		events.NewNamed(events.KindDiseaseSpawned, mid, "flu"),
		events.NewNamed(events.KindDiseaseSpawned, mid, "food poisoning"),
		events.NewNamed(events.KindDiseaseInverted, mid, "flu"),
		events.NewNamed(events.KindDiseaseSelfHealStarted, mid, "flu"),
		events.NewNamed(events.KindInjurySpawned, mid, "cut"),
		events.NewNamed(events.KindInjuryExpired, mid, "cut"),
		events.NewNamed(events.KindDeathFromDisease, mid, "food poisoning"),
		events.NewDose(mid, "aspirin", "aspirin pills"),
		events.NewDose(mid, "aspirin", "aspirin pills"),
		events.NewNamed(events.KindMedicalAgentActivated, mid, "aspirin"),
		events.NewItem(events.KindItemConsumed, mid, "canned soup", 1),
		events.New(events.KindTired, mid),
		events.New(events.KindWaterDrained, mid),
		events.New(events.KindWokeUp, mid),
	} {
		c.Record(ev)
	}

	if !c.ShouldFlush(end) {
		t.Fatal("should flush after a full window")
	}

	samples := []vitals.Snapshot{
		{FoodLevel: 40, WaterLevel: 20, StaminaLevel: 80, FatigueLevel: 10, BodyTemperature: 36.6},
		{FoodLevel: 60, WaterLevel: 80, StaminaLevel: 60, FatigueLevel: 30, BodyTemperature: 38.0},
	}
	stats := c.Flush(end, samples)

	if stats.WindowStartSec != 0 || stats.WindowEndSec != 600 {
		t.Errorf("window = [%v, %v], want [0, 600]", stats.WindowStartSec, stats.WindowEndSec)
	}
	if stats.Survivors != 2 {
		t.Errorf("survivors = %d, want 2", stats.Survivors)
	}
	if stats.Deaths != 1 {
		t.Errorf("deaths = %d, want 1", stats.Deaths)
	}
	if stats.DiseasesSpawned != 2 || stats.DiseasesHealed != 1 {
		t.Errorf("diseases spawned/healed = %d/%d, want 2/1", stats.DiseasesSpawned, stats.DiseasesHealed)
	}
	if stats.InjuriesSpawned != 1 || stats.InjuriesExpired != 1 {
		t.Errorf("injuries spawned/expired = %d/%d, want 1/1", stats.InjuriesSpawned, stats.InjuriesExpired)
	}
	if stats.DosesTaken != 2 || stats.AgentActivations != 1 {
		t.Errorf("doses/activations = %d/%d, want 2/1", stats.DosesTaken, stats.AgentActivations)
	}
	if stats.ItemsConsumed != 1 {
		t.Errorf("items consumed = %d, want 1", stats.ItemsConsumed)
	}
	if stats.Alarms != 2 {
		t.Errorf("alarms = %d, want 2", stats.Alarms)
	}

	// One heal over three spawns. Self-heal onset does not count until
	// the disease actually inverts.
	if math.Abs(stats.HealRate-1.0/3.0) > 1e-9 {
		t.Errorf("heal rate = %v, want 1/3", stats.HealRate)
	}

	if math.Abs(stats.FoodMean-50) > 1e-9 {
		t.Errorf("food mean = %v, want 50", stats.FoodMean)
	}
	if math.Abs(stats.WaterMean-50) > 1e-9 {
		t.Errorf("water mean = %v, want 50", stats.WaterMean)
	}
	if stats.TempMax != 38.0 {
		t.Errorf("temp max = %v, want 38.0", stats.TempMax)
	}

	// Flush resets counters and advances the window.
	if c.ShouldFlush(end.Add(gametime.Seconds(300))) {
		t.Error("new window should not flush after 300s")
	}
	next := c.Flush(end.Add(gametime.Seconds(600)), nil)
	if next.Deaths != 0 || next.DiseasesSpawned != 0 || next.Alarms != 0 {
		t.Error("counters should reset after flush")
	}
	if next.WindowStartSec != 600 {
		t.Errorf("next window start = %v, want 600", next.WindowStartSec)
	}
}

func TestIsAlarm(t *testing.T) {
	alarms := []events.Kind{
		events.KindStaminaDrained,
		events.KindOxygenDrained,
		events.KindFoodDrained,
		events.KindWaterDrained,
		events.KindBloodDrained,
		events.KindTired,
		events.KindExhausted,
		events.KindLowBloodPressureDanger,
		events.KindHighBloodPressureDanger,
		events.KindLowBodyTemperatureDanger,
		events.KindHighBodyTemperatureDanger,
		events.KindLowHeartRateDanger,
		events.KindHighHeartRateDanger,
	}
	for _, k := range alarms {
		if !IsAlarm(k) {
			t.Errorf("IsAlarm(%v) = false, want true", k)
		}
	}

	for _, k := range []events.Kind{events.KindWokeUp, events.KindItemConsumed, events.KindDiseaseSpawned} {
		if IsAlarm(k) {
			t.Errorf("IsAlarm(%v) = true, want false", k)
		}
	}
}

func TestCollectorDefaultWindow(t *testing.T) {
	c := NewCollector(0)
	if c.Window() != gametime.Seconds(600) {
		t.Errorf("window = %v, want 600s default", c.Window())
	}
}
