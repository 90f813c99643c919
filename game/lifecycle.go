package game

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/pulse/character"
	"github.com/pthm-cable/pulse/components"
	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/health"
	"github.com/pthm-cable/pulse/monitors"
	"github.com/pthm-cable/pulse/telemetry"
)

// spawnInitialPopulation creates the starting survivors.
func (g *Game) spawnInitialPopulation() {
	cfg := config.Cfg()
	for i := 0; i < cfg.Demo.Survivors; i++ {
		g.spawnSurvivor(fmt.Sprintf("survivor-%d", i+1))
	}
}

// spawnSurvivor builds one survivor: a health engine wired with the
// standard side-effect monitors and the content pack's agents, a
// controller, the starting kit, and an ECS entity mirroring the vitals.
func (g *Game) spawnSurvivor(name string) *survivor {
	cfg := config.Cfg()

	id := g.nextID
	g.nextID++

	rng := rand.New(rand.NewSource(g.rngSeed + int64(id)))

	engine := health.NewEngine(health.Options{
		RNG:                  rng,
		StaminaRegen:         cfg.Regen.StaminaPerSecond,
		BloodRegen:           cfg.Regen.BloodPerSecond,
		OxygenRegen:          cfg.Regen.OxygenPerSecond,
		HealthyStageDuration: cfg.Derived.HealthyTail,
		Agents:               g.scripts.Agents(),
	})

	engine.RegisterSideEffect(monitors.NewFluctuation(rng))
	engine.RegisterSideEffect(monitors.NewRunning())
	engine.RegisterSideEffect(monitors.NewFatigue())
	engine.RegisterSideEffect(monitors.NewDrains())
	engine.RegisterSideEffect(monitors.NewUnderwater())
	if def, ok := g.scripts.Disease("Food Poisoning"); ok {
		engine.RegisterDiseaseMonitor(monitors.NewPoison(rng, def))
	}

	surv := &survivor{id: id}
	listener := events.ListenerFunc(func(ev events.Event) {
		g.collector.Record(ev)
		g.lifetimeTracker.Observe(name, ev)
		switch ev.Kind {
		case events.KindWokeUp:
			surv.awakeSince = ev.Time
		case events.KindDeathFromDisease, events.KindDeathFromInjury:
			surv.cause = ev.Name
		}
	})

	ctrl := character.New(name, engine, listener)
	surv.ctrl = ctrl

	// Starting kit: every template the pack declares, clothes worn
	// right away.
	now := ctrl.Now()
	for _, it := range g.scripts.Items() {
		ctrl.Inventory().Add(now, it)
	}
	for _, it := range g.scripts.Items() {
		if it.Clothes != nil {
			ctrl.PutOnClothes(it.Name)
		}
	}

	identity := components.Identity{ID: id, Name: name}
	vs := vitalSigns(engine)
	surv.entity = g.survivorMapper.NewEntity(&identity, &vs)

	g.survivors = append(g.survivors, surv)
	g.alive++
	g.lifetimeTracker.Register(name, now)

	return surv
}

// handleDeath finalizes a dead survivor: a run record, a death moment,
// and removal of the ECS entity.
func (g *Game) handleDeath(surv *survivor) {
	surv.dead = true
	g.alive--

	name := surv.ctrl.Name()
	now := surv.ctrl.Now()

	lt := g.lifetimeTracker.Remove(name)
	if lt != nil {
		g.records.Consider(telemetry.RunRecord{
			Name:        name,
			Seed:        g.rngSeed,
			SurvivalSec: lt.SurvivalSec,
			Days:        now.Day(),
			Cause:       lt.Cause,

			DiseasesCaught: lt.DiseasesCaught,
			DiseasesBeaten: lt.DiseasesBeaten,
			InjuriesTaken:  lt.InjuriesTaken,
			DosesTaken:     lt.DosesTaken,
		})
	}

	moment := telemetry.NewDeathMoment(name, surv.cause, now.Seconds(), now.Day())
	if g.logStats {
		moment.LogMoment()
	}
	if g.outputManager != nil {
		g.outputManager.WriteMoment(moment)
	}

	g.survivorMapper.Remove(surv.entity)
}

// vitalSigns mirrors the engine's snapshot into the ECS component.
func vitalSigns(engine *health.Engine) components.VitalSigns {
	s := engine.Snapshot()
	return components.VitalSigns{
		BodyTemperature: s.BodyTemperature,
		HeartRate:       s.HeartRate,
		BloodLevel:      s.BloodLevel,
		FoodLevel:       s.FoodLevel,
		WaterLevel:      s.WaterLevel,
		StaminaLevel:    s.StaminaLevel,
		FatigueLevel:    s.FatigueLevel,
		Alive:           engine.IsAlive(),
	}
}
