package game

import (
	"time"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/config"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/health"
	"github.com/pthm-cable/pulse/inventory"
)

// injuryParts rotates accident locations across the population.
var injuryParts = []body.Part{
	body.PartLeftShoulder,
	body.PartForehead,
	body.PartRightThigh,
	body.PartLeftForearm,
}

// simulationStep runs one frame of the world: scenario decisions, the
// controllers' own frame updates, the ECS mirror and telemetry.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase("scenario")
	for _, surv := range g.survivors {
		if surv.dead {
			continue
		}
		if !surv.ctrl.IsAlive() {
			g.handleDeath(surv)
			continue
		}
		g.directSurvivor(surv)
	}

	g.perfCollector.StartPhase("update")
	for _, surv := range g.survivors {
		if !surv.dead {
			surv.ctrl.Update(FrameDT)
		}
	}

	g.perfCollector.StartPhase("mirror")
	for _, surv := range g.survivors {
		if surv.dead {
			continue
		}
		vs := g.vitalsMap.Get(surv.entity)
		*vs = vitalSigns(surv.ctrl.Engine())
		g.lifetimeTracker.UpdateSurvival(surv.ctrl.Name(), surv.ctrl.Now())
		g.lifetimeTracker.UpdateFatigue(surv.ctrl.Name(), vs.FatigueLevel)
	}

	g.perfCollector.StartPhase("telemetry")
	g.flushTelemetry()

	g.perfCollector.EndTick()

	g.tick++
	g.elapsed += time.Duration(float64(FrameDT) * config.Cfg().Time.Scale)
}

// directSurvivor makes one survivor's decisions for this frame: sleep,
// eat, drink, a daily jog, and the scenario's scripted misfortunes.
func (g *Game) directSurvivor(surv *survivor) {
	cfg := config.Cfg()
	ctrl := surv.ctrl
	now := ctrl.Now()

	if ctrl.Body().IsSleeping() {
		return
	}

	awake := now.Sub(surv.awakeSince)
	if awake >= gametime.Hours(cfg.Demo.SleepAfterHours) {
		ctrl.StartSleeping(cfg.Demo.SleepHours)
		return
	}

	// A jog in the second hour after waking keeps the running monitor
	// and its stamina economy in play.
	running := awake >= gametime.Hours(1) && awake < gametime.Minutes(75)
	ctrl.SetPlayerStatus(health.PlayerStatus{IsRunning: running})

	if now.Sub(surv.lastMeal) >= gametime.Hours(cfg.Demo.MealIntervalHours) {
		surv.lastMeal = now
		g.consumeFirst(surv, func(it *inventory.Item) bool {
			return it.Consumable != nil && it.Consumable.IsFood
		})
	}
	if now.Sub(surv.lastDrink) >= gametime.Hours(cfg.Demo.DrinkIntervalHours) {
		surv.lastDrink = now
		g.consumeFirst(surv, func(it *inventory.Item) bool {
			return it.Consumable != nil && it.Consumable.IsWater
		})
	}

	// Misfortunes are staggered by survivor so deaths and recoveries
	// spread across the run.
	infectAfter := gametime.Minutes(cfg.Demo.InfectAfterMinutes * float64(surv.id+1))
	if !surv.infected && now.Elapsed() >= infectAfter {
		surv.infected = true
		if def, ok := g.scripts.Disease("Flu"); ok {
			ctrl.Engine().SpawnDisease(def, now)
		}
	}
	injureAfter := gametime.Minutes(cfg.Demo.InjureAfterMinutes * float64(surv.id+1))
	if !surv.injured && now.Elapsed() >= injureAfter {
		surv.injured = true
		if def, ok := g.scripts.Injury("Cut"); ok {
			part := injuryParts[int(surv.id)%len(injuryParts)]
			ctrl.Engine().SpawnInjury(def, part, now)
		}
	}

	g.treat(surv, now)
}

// consumeFirst eats or drinks the first carried item the predicate
// accepts. Items with too few units left are skipped.
func (g *Game) consumeFirst(surv *survivor, want func(*inventory.Item) bool) bool {
	for _, it := range surv.ctrl.Inventory().Items() {
		if !want(it) {
			continue
		}
		if err := surv.ctrl.Consume(it.Name); err == nil {
			return true
		}
	}
	return false
}

// treat reaches for medicine when a disease will not pass on its own and
// dresses injuries that are still getting worse. Which item helps which
// ailment is the content pack's decision; the survivor just works
// through the kit.
func (g *Game) treat(surv *survivor, now gametime.GameTime) {
	if now.Before(surv.nextTreat) {
		return
	}
	engine := surv.ctrl.Engine()

	for _, d := range engine.Diseases() {
		if !d.NeedsTreatment() || d.IsHealing() {
			continue
		}
		surv.nextTreat = now.Add(gametime.Minutes(45))
		g.takeMedicine(surv)
		break
	}
	for _, in := range engine.Injuries() {
		if in.IsHealing() {
			continue
		}
		surv.nextTreat = now.Add(gametime.Minutes(45))
		g.dressInjury(surv, in.Part())
	}
}

// takeMedicine swallows the first carried consumable that is neither
// food nor water.
func (g *Game) takeMedicine(surv *survivor) bool {
	return g.consumeFirst(surv, func(it *inventory.Item) bool {
		return it.Consumable != nil && !it.Consumable.IsFood && !it.Consumable.IsWater
	})
}

// dressInjury applies the first carried appliance to the part.
func (g *Game) dressInjury(surv *survivor, part body.Part) bool {
	for _, it := range surv.ctrl.Inventory().Items() {
		if it.Appliance == nil {
			continue
		}
		if err := surv.ctrl.TakeAppliance(it.Name, part); err == nil {
			return true
		}
	}
	return false
}
