package health

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/disease"
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/injury"
	"github.com/pthm-cable/pulse/medicine"
	"github.com/pthm-cable/pulse/stage"
	"github.com/pthm-cable/pulse/vitals"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func testEngine(opts Options) *Engine {
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(11))
	}
	return NewEngine(opts)
}

func frameAt(now gametime.GameTime, delta time.Duration) *Frame {
	return &Frame{Now: now, Delta: delta}
}

func heatstroke() disease.Definition {
	return disease.NewDefinition("Heatstroke", []disease.StageDescriptor{{
		Level:                 stage.LevelInitial,
		ReachesPeakInHours:    0.1,
		TargetBodyTemperature: 38.6,
		TargetHeartRate:       100,
		TargetFoodDrain:       0.01,
	}}, nil)
}

func swampFever() disease.Definition {
	return disease.NewDefinition("Swamp Fever", []disease.StageDescriptor{{
		Level:                 stage.LevelInitial,
		ReachesPeakInHours:    0.1,
		TargetBodyTemperature: 37.6,
		TargetHeartRate:       120,
		TargetWaterDrain:      0.02,
	}}, nil)
}

func cut() injury.Definition {
	return injury.NewDefinition("Cut", []injury.StageDescriptor{{
		Level:              stage.LevelInitial,
		ReachesPeakInHours: 0.25,
		TargetStaminaDrain: 0.05,
		TargetBloodDrain:   0.02,
	}}, nil)
}

// A stub monitor returning fixed deltas.
type fixedMonitor struct {
	d Deltas
}

func (m *fixedMonitor) OnFrame(f *Frame) Deltas { return m.d }

func drainKinds(e *Engine) []events.Kind {
	var kinds []events.Kind
	e.Outbox().Drain(events.ListenerFunc(func(ev events.Event) {
		kinds = append(kinds, ev.Kind)
	}))
	return kinds
}

func TestConcurrentDiseasesComposeMaxAndSumDrains(t *testing.T) {
	e := testEngine(Options{})
	start := gametime.GameTime{}
	if _, err := e.SpawnDisease(heatstroke(), start); err != nil {
		t.Fatalf("spawn heatstroke: %v", err)
	}
	if _, err := e.SpawnDisease(swampFever(), start); err != nil {
		t.Fatalf("spawn swamp fever: %v", err)
	}

	peak := start.Add(gametime.Minutes(6))
	e.Tick(frameAt(peak, time.Second))
	s := e.Snapshot()

	// Dominant disease wins per absolute field.
	if !approx(s.BodyTemperature, 38.6) {
		t.Errorf("body temperature = %v, want 38.6", s.BodyTemperature)
	}
	if !approx(s.HeartRate, 120) {
		t.Errorf("heart rate = %v, want 120", s.HeartRate)
	}
	if !approx(s.TopPressure, 120) || !approx(s.BottomPressure, 70) {
		t.Errorf("pressures = %v/%v, want untouched 120/70", s.TopPressure, s.BottomPressure)
	}

	// Drains sum across diseases, scaled by the tick delta.
	if !approx(s.FoodLevel, 100-0.01) {
		t.Errorf("food = %v, want %v", s.FoodLevel, 100-0.01)
	}
	if !approx(s.WaterLevel, 100-0.02) {
		t.Errorf("water = %v, want %v", s.WaterLevel, 100-0.02)
	}
}

func TestDrainsScaleWithDeltaAndRegenApplies(t *testing.T) {
	e := testEngine(Options{StaminaRegen: 0.1})
	def := disease.NewDefinition("Wasting", []disease.StageDescriptor{{
		Level:              stage.LevelInitial,
		ReachesPeakInHours: 0.1,
		TargetStaminaDrain: 0.5,
	}}, nil)
	if _, err := e.SpawnDisease(def, gametime.GameTime{}); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	e.Tick(frameAt(gametime.FromDuration(gametime.Minutes(6)), 2*time.Second))
	want := 100 - 0.5*2 + 0.1*2
	if got := e.Snapshot().StaminaLevel; !approx(got, want) {
		t.Fatalf("stamina = %v, want %v", got, want)
	}
}

func TestDeathRollAtFullStageAndChance(t *testing.T) {
	e := testEngine(Options{})
	def := disease.NewDefinition("Gut Rot", []disease.StageDescriptor{{
		Level:              stage.LevelInitial,
		ReachesPeakInHours: 0.1,
		Endless:            true,
		ChanceOfDeath:      100,
	}}, nil)
	if _, err := e.SpawnDisease(def, gametime.GameTime{}); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	// At the peak of an endless stage the progress is 100, so a 100%
	// chance kills within a single tick.
	e.Tick(frameAt(gametime.FromDuration(gametime.Minutes(6)), time.Second))
	if e.IsAlive() {
		t.Fatal("still alive after a certain death roll")
	}
	if got := e.Snapshot(); !got.ApproxEqual(vitals.Healthy()) {
		t.Fatalf("death tick mutated vitals: %+v", got)
	}

	kinds := drainKinds(e)
	want := []events.Kind{events.KindDiseaseSpawned, events.KindDeathFromDisease}
	if len(kinds) != len(want) || kinds[0] != want[0] || kinds[1] != want[1] {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
}

func TestZeroDeathChanceNeverKills(t *testing.T) {
	e := testEngine(Options{})
	def := disease.NewDefinition("Sniffles", []disease.StageDescriptor{{
		Level:              stage.LevelInitial,
		ReachesPeakInHours: 0.1,
		Endless:            true,
	}}, nil)
	if _, err := e.SpawnDisease(def, gametime.GameTime{}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	for m := 1; m <= 50; m++ {
		e.Tick(frameAt(gametime.FromDuration(gametime.Minutes(float64(m))), time.Second))
	}
	if !e.IsAlive() {
		t.Fatal("died with zero death chance")
	}
}

func TestDeathIsAbsorbing(t *testing.T) {
	e := testEngine(Options{})
	def := disease.NewDefinition("Gut Rot", []disease.StageDescriptor{{
		Level:              stage.LevelInitial,
		ReachesPeakInHours: 0.1,
		Endless:            true,
		ChanceOfDeath:      100,
	}}, nil)
	if _, err := e.SpawnDisease(def, gametime.GameTime{}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	at := gametime.FromDuration(gametime.Minutes(6))
	e.Tick(frameAt(at, time.Second))
	if e.IsAlive() {
		t.Fatal("setup: expected death")
	}

	if _, err := e.SpawnDisease(swampFever(), at); !errors.Is(err, ErrCharacterIsDead) {
		t.Fatalf("spawn after death err = %v, want ErrCharacterIsDead", err)
	}
	if _, err := e.SpawnInjury(cut(), body.PartForehead, at); !errors.Is(err, ErrCharacterIsDead) {
		t.Fatalf("injury after death err = %v, want ErrCharacterIsDead", err)
	}
	if err := e.OnConsumed(at, ConsumedItem{Name: "Water"}); !errors.Is(err, ErrCharacterIsDead) {
		t.Fatalf("consume after death err = %v, want ErrCharacterIsDead", err)
	}

	before := e.Snapshot()
	e.Tick(frameAt(at.Add(gametime.Minutes(1)), time.Second))
	if got := e.Snapshot(); !got.ApproxEqual(before) {
		t.Fatal("tick after death mutated vitals")
	}
}

func TestSelfHealInvertsAndExpires(t *testing.T) {
	e := testEngine(Options{HealthyStageDuration: 2 * time.Minute})
	def := disease.NewDefinition("Flu", []disease.StageDescriptor{
		{
			Level:                 stage.LevelInitial,
			ReachesPeakInHours:    0.1,
			SelfHealChance:        100,
			TargetBodyTemperature: 37.6,
		},
		{
			Level:                 stage.LevelProgressing,
			ReachesPeakInHours:    0.1,
			TargetBodyTemperature: 38.8,
		},
	}, nil)
	d, err := e.SpawnDisease(def, gametime.GameTime{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if d.NeedsTreatment() {
		t.Fatal("certain self-heal still needs treatment")
	}

	// Reaching the stage after the marked one triggers the heal.
	at := gametime.FromDuration(gametime.Minutes(6))
	e.Tick(frameAt(at, time.Second))
	if !d.IsHealing() {
		t.Fatal("disease did not invert on the self-heal roll")
	}
	kinds := drainKinds(e)
	want := []events.Kind{
		events.KindDiseaseSpawned,
		events.KindDiseaseSelfHealStarted,
		events.KindDiseaseInverted,
	}
	if len(kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event kinds = %v, want %v", kinds, want)
		}
	}

	// Pivot at the Progressing start mirrors to [0,6], the healing walk
	// lays Initial over [6,12] and the healthy tail over [12,14].
	if end, ok := d.End(); !ok || !end.Equal(gametime.FromDuration(gametime.Minutes(14))) {
		t.Fatalf("healed end = %v, %v, want 14min", end, ok)
	}

	// Past the healthy tail the chain expires out of the registry.
	e.Tick(frameAt(gametime.FromDuration(gametime.Minutes(15)), time.Second))
	if _, err := e.Disease("Flu"); !errors.Is(err, ErrDiseaseNotFound) {
		t.Fatalf("disease lookup after expiry err = %v, want ErrDiseaseNotFound", err)
	}
	kinds = drainKinds(e)
	if len(kinds) != 1 || kinds[0] != events.KindDiseaseExpired {
		t.Fatalf("expiry kinds = %v, want [disease_expired]", kinds)
	}
}

func TestBloodLossIsOrOverBleedingInjuries(t *testing.T) {
	e := testEngine(Options{})
	start := gametime.GameTime{}
	first, err := e.SpawnInjury(cut(), body.PartLeftShoulder, start)
	if err != nil {
		t.Fatalf("spawn first cut: %v", err)
	}
	second, err := e.SpawnInjury(cut(), body.PartForehead, start)
	if err != nil {
		t.Fatalf("spawn second cut: %v", err)
	}

	at := start.Add(gametime.Minutes(1))
	e.Tick(frameAt(at, time.Second))
	if !e.HasBloodLoss() {
		t.Fatal("no blood loss with two bleeding cuts")
	}
	s := e.Snapshot()
	if s.StaminaLevel >= 100 || s.BloodLevel >= 100 {
		t.Fatalf("drains not applied: stamina %v blood %v", s.StaminaLevel, s.BloodLevel)
	}

	// Both cuts drain stamina; the sum is twice one cut's rate.
	oneRate := 0.05 * (1.0 / 15.0)
	if want := 100 - 2*oneRate; !approx(s.StaminaLevel, want) {
		t.Errorf("stamina = %v, want %v", s.StaminaLevel, want)
	}

	first.StopBloodLoss(at)
	e.Tick(frameAt(at.Add(gametime.Seconds(1)), time.Second))
	if !e.HasBloodLoss() {
		t.Fatal("flag cleared while the second cut still bleeds")
	}

	second.StopBloodLoss(at.Add(gametime.Seconds(1)))
	e.Tick(frameAt(at.Add(gametime.Seconds(2)), time.Second))
	if e.HasBloodLoss() {
		t.Fatal("flag still set with all bleeding stopped")
	}
}

func TestAlarmsFireOnBandEntryOnly(t *testing.T) {
	e := testEngine(Options{})
	m := &fixedMonitor{d: Deltas{FoodDrain: 96}}
	e.RegisterSideEffect(m)

	e.Tick(frameAt(gametime.FromSeconds(1), time.Second))
	kinds := drainKinds(e)
	if len(kinds) != 1 || kinds[0] != events.KindFoodDrained {
		t.Fatalf("first tick kinds = %v, want [food_drained]", kinds)
	}

	// Still in band: no repeat.
	e.Tick(frameAt(gametime.FromSeconds(2), time.Second))
	if kinds := drainKinds(e); len(kinds) != 0 {
		t.Fatalf("repeat tick kinds = %v, want none", kinds)
	}

	// Eating lifts food out of the band; leaving is silent.
	m.d = Deltas{}
	if err := e.OnConsumed(gametime.FromSeconds(2), ConsumedItem{Name: "Ration", IsFood: true, FoodGain: 50}); err != nil {
		t.Fatalf("consume: %v", err)
	}
	e.Tick(frameAt(gametime.FromSeconds(3), time.Second))
	if kinds := drainKinds(e); len(kinds) != 0 {
		t.Fatalf("leave kinds = %v, want none", kinds)
	}

	// Re-entering the band fires again.
	m.d = Deltas{FoodDrain: 48}
	e.Tick(frameAt(gametime.FromSeconds(4), time.Second))
	kinds = drainKinds(e)
	if len(kinds) != 1 || kinds[0] != events.KindFoodDrained {
		t.Fatalf("re-entry kinds = %v, want [food_drained]", kinds)
	}
}

func TestExhaustedSuppressesTired(t *testing.T) {
	e := testEngine(Options{})
	m := &fixedMonitor{d: Deltas{Fatigue: 75}}
	e.RegisterSideEffect(m)

	e.Tick(frameAt(gametime.FromSeconds(1), time.Second))
	if kinds := drainKinds(e); len(kinds) != 1 || kinds[0] != events.KindTired {
		t.Fatalf("kinds = %v, want [tired]", kinds)
	}

	m.d = Deltas{Fatigue: 95}
	e.Tick(frameAt(gametime.FromSeconds(2), time.Second))
	if kinds := drainKinds(e); len(kinds) != 1 || kinds[0] != events.KindExhausted {
		t.Fatalf("kinds = %v, want [exhausted]", kinds)
	}

	m.d = Deltas{Fatigue: 75}
	e.Tick(frameAt(gametime.FromSeconds(3), time.Second))
	if kinds := drainKinds(e); len(kinds) != 1 || kinds[0] != events.KindTired {
		t.Fatalf("kinds = %v, want [tired] again", kinds)
	}
}

func TestVitalsDangerAlarms(t *testing.T) {
	e := testEngine(Options{})
	m := &fixedMonitor{d: Deltas{BodyTemperature: 5, HeartRate: 140, TopPressure: 115}}
	e.RegisterSideEffect(m)

	e.Tick(frameAt(gametime.FromSeconds(1), time.Second))
	kinds := drainKinds(e)
	want := map[events.Kind]bool{
		events.KindHighBodyTemperatureDanger: true,
		events.KindHighHeartRateDanger:       true,
		events.KindHighBloodPressureDanger:   true,
	}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want the three high alarms", kinds)
	}
	for _, k := range kinds {
		if !want[k] {
			t.Fatalf("unexpected alarm %v", k)
		}
	}
}

func TestFatigueFrozenWhileSleeping(t *testing.T) {
	e := testEngine(Options{})
	m := &fixedMonitor{d: Deltas{Fatigue: 50}}
	e.RegisterSideEffect(m)

	e.Tick(frameAt(gametime.FromSeconds(1), time.Second))
	if got := e.Snapshot().FatigueLevel; !approx(got, 50) {
		t.Fatalf("awake fatigue = %v, want 50", got)
	}

	m.d = Deltas{Fatigue: 80}
	f := frameAt(gametime.FromSeconds(2), time.Second)
	f.Sleeping = true
	e.Tick(f)
	if got := e.Snapshot().FatigueLevel; !approx(got, 50) {
		t.Fatalf("sleeping fatigue = %v, want frozen 50", got)
	}

	e.Tick(frameAt(gametime.FromSeconds(3), time.Second))
	if got := e.Snapshot().FatigueLevel; !approx(got, 80) {
		t.Fatalf("woken fatigue = %v, want 80", got)
	}
}

func TestRegistryRules(t *testing.T) {
	e := testEngine(Options{})
	start := gametime.GameTime{}

	if _, err := e.SpawnDisease(heatstroke(), start); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, err := e.SpawnDisease(heatstroke(), start); !errors.Is(err, ErrDiseaseAlreadyAdded) {
		t.Fatalf("dup disease err = %v, want ErrDiseaseAlreadyAdded", err)
	}
	if err := e.RemoveDisease("Absent", start); !errors.Is(err, ErrDiseaseNotFound) {
		t.Fatalf("remove missing err = %v, want ErrDiseaseNotFound", err)
	}

	if _, err := e.SpawnInjury(cut(), body.PartLeftShoulder, start); err != nil {
		t.Fatalf("spawn injury: %v", err)
	}
	// Same injury on another part is independent.
	if _, err := e.SpawnInjury(cut(), body.PartForehead, start); err != nil {
		t.Fatalf("second part: %v", err)
	}
	if _, err := e.SpawnInjury(cut(), body.PartForehead, start); !errors.Is(err, ErrInjuryAlreadyAdded) {
		t.Fatalf("dup injury err = %v, want ErrInjuryAlreadyAdded", err)
	}

	id := e.RegisterSideEffect(&fixedMonitor{})
	if err := e.UnregisterSideEffect(id + 100); !errors.Is(err, ErrMonitorNotFound) {
		t.Fatalf("unregister bogus err = %v, want ErrMonitorNotFound", err)
	}
	if err := e.UnregisterSideEffect(id); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if err := e.UnregisterSideEffect(id); !errors.Is(err, ErrMonitorNotFound) {
		t.Fatalf("double unregister err = %v, want ErrMonitorNotFound", err)
	}

	if err := e.RemoveDisease("Heatstroke", start); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := e.Disease("Heatstroke"); !errors.Is(err, ErrDiseaseNotFound) {
		t.Fatalf("lookup removed err = %v, want ErrDiseaseNotFound", err)
	}
}

// A disease monitor that spawns food poisoning on spoiled meals.
type poisonMonitor struct {
	def disease.Definition
}

func (m *poisonMonitor) OnFrame(e *Engine, f *Frame) {}

func (m *poisonMonitor) OnConsumed(e *Engine, now gametime.GameTime, item ConsumedItem) {
	if item.Spoiled {
		e.SpawnDisease(m.def, now)
	}
}

func TestDiseaseMonitorSpawnsOnConsume(t *testing.T) {
	e := testEngine(Options{})
	e.RegisterDiseaseMonitor(&poisonMonitor{def: swampFever()})

	now := gametime.FromSeconds(10)
	if err := e.OnConsumed(now, ConsumedItem{Name: "Old Meat", IsFood: true, FoodGain: 10, Spoiled: true}); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if _, err := e.Disease("Swamp Fever"); err != nil {
		t.Fatalf("poison disease not spawned: %v", err)
	}
	if got := e.Snapshot().FoodLevel; !approx(got, 100) {
		t.Fatalf("food = %v, want clamped 100", got)
	}
}

func TestConsumeGainsApply(t *testing.T) {
	e := testEngine(Options{})
	m := &fixedMonitor{d: Deltas{FoodDrain: 20, WaterDrain: 30}}
	e.RegisterSideEffect(m)
	e.Tick(frameAt(gametime.FromSeconds(1), time.Second))

	if err := e.OnConsumed(gametime.FromSeconds(2), ConsumedItem{Name: "Ration", IsFood: true, FoodGain: 5, WaterGain: 2}); err != nil {
		t.Fatalf("consume: %v", err)
	}
	s := e.Snapshot()
	if !approx(s.FoodLevel, 85) {
		t.Errorf("food = %v, want 85", s.FoodLevel)
	}
	if !approx(s.WaterLevel, 72) {
		t.Errorf("water = %v, want 72", s.WaterLevel)
	}
}

func TestTickEventOrder(t *testing.T) {
	agents := []medicine.Agent{{
		Name:            "Aspirin",
		Curve:           medicine.CurveImmediately,
		DurationMinutes: 30,
		Items:           []string{"Aspirin Pills"},
	}}
	e := testEngine(Options{Agents: agents})
	e.RegisterSideEffect(&fixedMonitor{d: Deltas{StaminaDrain: 95}})

	start := gametime.GameTime{}
	if err := e.OnConsumed(start, ConsumedItem{Name: "Aspirin Pills"}); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if _, err := e.SpawnDisease(heatstroke(), start); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	e.Tick(frameAt(gametime.FromSeconds(1), time.Second))
	kinds := drainKinds(e)
	want := []events.Kind{
		events.KindMedicalAgentDoseReceived,
		events.KindMedicalAgentActivated,
		events.KindDiseaseSpawned,
		events.KindStaminaDrained,
	}
	if len(kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event kinds = %v, want %v", kinds, want)
		}
	}
}

func TestEngineStateRoundTrip(t *testing.T) {
	agents := []medicine.Agent{{
		Name:            "Aspirin",
		Curve:           medicine.CurveImmediately,
		DurationMinutes: 30,
		Items:           []string{"Aspirin Pills"},
	}}
	e := testEngine(Options{Agents: agents, StaminaRegen: 0.1, BloodRegen: 0.005, OxygenRegen: 10})
	e.RegisterSideEffect(&fixedMonitor{d: Deltas{StaminaDrain: 96}})

	if err := e.OnConsumed(gametime.GameTime{}, ConsumedItem{Name: "Aspirin Pills"}); err != nil {
		t.Fatalf("consume: %v", err)
	}
	e.Tick(frameAt(gametime.FromSeconds(1), time.Second))
	drainKinds(e)

	restored := testEngine(Options{Agents: agents})
	if err := restored.Restore(e.State()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored.State().ApproxEqual(e.State()) {
		t.Fatalf("restored state differs:\n got %+v\nwant %+v", restored.State(), e.State())
	}

	// Restored alarm latches stay latched: no duplicate alarm.
	restored.RegisterSideEffect(&fixedMonitor{d: Deltas{StaminaDrain: 96}})
	restored.Tick(frameAt(gametime.FromSeconds(2), time.Second))
	for _, k := range drainKinds(restored) {
		if k == events.KindStaminaDrained {
			t.Fatal("restored engine re-fired a latched alarm")
		}
	}
}
