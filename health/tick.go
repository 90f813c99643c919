package health

import (
	"math"

	"github.com/pthm-cable/pulse/disease"
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/injury"
	"github.com/pthm-cable/pulse/vitals"
)

// Alarm thresholds. Drained alarms fire at or below the floor; the
// remaining bands mark medically dangerous readings.
const (
	drainedFloor = 5.0

	tiredFatigue     = 70.0
	exhaustedFatigue = 90.0

	lowTopPressure     = 50.0
	lowBottomPressure  = 35.0
	highTopPressure    = 230.0
	highBottomPressure = 130.0

	lowBodyTemperature  = 33.6
	highBodyTemperature = 41.2

	lowHeartRate  = 20.0
	highHeartRate = 200.0
)

// Tick runs one composition pass at the frame's instant. Dead characters
// ignore ticks entirely. Phase order is fixed: disease monitors, agents,
// snapshot seeding, side-effect monitors, chain evaluation with death and
// self-heal rolls, delta application, regen, clamp, blood-loss flag,
// alarms, event delivery.
func (e *Engine) Tick(f *Frame) {
	if !e.alive {
		return
	}
	dt := f.Delta.Seconds()
	f.Vitals = e.snapshot

	for _, id := range e.diseaseMonOrder {
		e.diseaseMonitors[id].OnFrame(e, f)
	}

	e.agents.Advance(f.Now)

	cur := e.snapshot
	next := vitals.Healthy()
	next.BloodLevel = cur.BloodLevel
	next.FoodLevel = cur.FoodLevel
	next.WaterLevel = cur.WaterLevel
	next.StaminaLevel = cur.StaminaLevel
	next.OxygenLevel = cur.OxygenLevel
	if f.Sleeping {
		next.FatigueLevel = cur.FatigueLevel
	} else {
		next.FatigueLevel = 0
	}

	var side Deltas
	for _, id := range e.sideEffectOrder {
		side.Add(e.sideEffects[id].OnFrame(f))
	}
	next.BodyTemperature += side.BodyTemperature
	next.HeartRate += side.HeartRate
	next.TopPressure += side.TopPressure
	next.BottomPressure += side.BottomPressure
	if !f.Sleeping {
		next.FatigueLevel += side.Fatigue
	}

	e.expireChains(f.Now)

	food := side.FoodDrain
	water := side.WaterDrain
	stamina := side.StaminaDrain
	oxygen := side.OxygenDrain
	blood := side.BloodDrain

	var dominant disease.Deltas
	died := false
	for i, name := range e.diseaseOrder {
		d := e.diseases[name]
		del := d.DeltasAt(f.Now)
		if d.DeathRoll(f.Now, e.rng) {
			e.alive = false
			d.Outbox().Push(events.NewNamed(events.KindDeathFromDisease, f.Now, name))
			died = true
			break
		}
		if d.SelfHealDue(f.Now, e.rng) {
			d.Outbox().Push(events.NewNamed(events.KindDiseaseSelfHealStarted, f.Now, name))
			if err := d.Invert(f.Now); err == nil {
				del = d.DeltasAt(f.Now)
			}
		}
		if i == 0 {
			dominant = del
		} else {
			dominant.BodyTemperature = math.Max(dominant.BodyTemperature, del.BodyTemperature)
			dominant.HeartRate = math.Max(dominant.HeartRate, del.HeartRate)
			dominant.TopPressure = math.Max(dominant.TopPressure, del.TopPressure)
			dominant.BottomPressure = math.Max(dominant.BottomPressure, del.BottomPressure)
		}
		food += del.FoodDrain
		water += del.WaterDrain
		stamina += del.StaminaDrain
		oxygen += del.OxygenDrain
		if !f.Sleeping {
			next.FatigueLevel += del.Fatigue
		}
	}

	if !died {
		for _, key := range e.injuryOrder {
			in := e.injuries[key]
			dr := in.DrainsAt(f.Now)
			if in.DeathRoll(f.Now, e.rng) {
				e.alive = false
				in.Outbox().Push(events.NewInjury(events.KindDeathFromInjury, f.Now, key.Name, key.Part))
				died = true
				break
			}
			if in.SelfHealDue(f.Now, e.rng) {
				in.Outbox().Push(events.NewInjury(events.KindInjurySelfHealStarted, f.Now, key.Name, key.Part))
				if err := in.Invert(f.Now); err == nil {
					dr = in.DrainsAt(f.Now)
				}
			}
			stamina += dr.Stamina
			blood += dr.Blood
		}
	}

	var alarms []events.Event
	if !died {
		next.BodyTemperature += dominant.BodyTemperature
		next.HeartRate += dominant.HeartRate
		next.TopPressure += dominant.TopPressure
		next.BottomPressure += dominant.BottomPressure

		next.FoodLevel -= food * dt
		next.WaterLevel -= water * dt
		next.StaminaLevel -= stamina * dt
		next.OxygenLevel -= oxygen * dt
		next.BloodLevel -= blood * dt

		next.StaminaLevel += e.staminaRegen * dt
		next.BloodLevel += e.bloodRegen * dt
		next.OxygenLevel += e.oxygenRegen * dt

		next.ClampScales()
		e.snapshot = next

		loss := false
		for _, key := range e.injuryOrder {
			if e.injuries[key].DrainsBlood(f.Now) {
				loss = true
				break
			}
		}
		e.bloodLoss = loss

		alarms = e.alarmEvents(f.Now)
	}

	e.agents.Outbox().DrainInto(e.outbox)
	for _, name := range e.diseaseOrder {
		e.diseases[name].Outbox().DrainInto(e.outbox)
	}
	for _, key := range e.injuryOrder {
		e.injuries[key].Outbox().DrainInto(e.outbox)
	}
	for _, ev := range alarms {
		e.outbox.Push(ev)
	}
}

// expireChains drops diseases and injuries whose schedules ended before
// the instant, flushing their remaining events first.
func (e *Engine) expireChains(now gametime.GameTime) {
	for _, name := range append([]string(nil), e.diseaseOrder...) {
		d := e.diseases[name]
		if !d.IsOldAt(now) {
			continue
		}
		d.Outbox().DrainInto(e.outbox)
		e.outbox.Push(events.NewNamed(events.KindDiseaseExpired, now, name))
		delete(e.diseases, name)
		e.diseaseOrder = removeName(e.diseaseOrder, name)
	}
	for _, key := range append([]injury.Key(nil), e.injuryOrder...) {
		in := e.injuries[key]
		if !in.IsOldAt(now) {
			continue
		}
		in.Outbox().DrainInto(e.outbox)
		e.outbox.Push(events.NewInjury(events.KindInjuryExpired, now, key.Name, key.Part))
		delete(e.injuries, key)
		e.injuryOrder = removeKey(e.injuryOrder, key)
	}
}

// alarmEvents emits threshold alarms on band entry. The flags latch while
// the reading stays in band so a sustained condition fires once.
func (e *Engine) alarmEvents(now gametime.GameTime) []events.Event {
	s := e.snapshot
	var out []events.Event
	edge := func(active bool, latch *bool, kind events.Kind) {
		if active && !*latch {
			out = append(out, events.New(kind, now))
		}
		*latch = active
	}

	edge(s.StaminaLevel <= drainedFloor, &e.alarms.StaminaDrained, events.KindStaminaDrained)
	edge(s.OxygenLevel <= drainedFloor, &e.alarms.OxygenDrained, events.KindOxygenDrained)
	edge(s.FoodLevel <= drainedFloor, &e.alarms.FoodDrained, events.KindFoodDrained)
	edge(s.WaterLevel <= drainedFloor, &e.alarms.WaterDrained, events.KindWaterDrained)
	edge(s.BloodLevel <= drainedFloor, &e.alarms.BloodDrained, events.KindBloodDrained)

	exhausted := s.FatigueLevel >= exhaustedFatigue
	tired := s.FatigueLevel >= tiredFatigue && !exhausted
	edge(tired, &e.alarms.Tired, events.KindTired)
	edge(exhausted, &e.alarms.Exhausted, events.KindExhausted)

	edge(s.TopPressure <= lowTopPressure || s.BottomPressure <= lowBottomPressure,
		&e.alarms.LowPressure, events.KindLowBloodPressureDanger)
	edge(s.TopPressure >= highTopPressure || s.BottomPressure >= highBottomPressure,
		&e.alarms.HighPressure, events.KindHighBloodPressureDanger)

	edge(s.BodyTemperature <= lowBodyTemperature, &e.alarms.LowTemperature, events.KindLowBodyTemperatureDanger)
	edge(s.BodyTemperature >= highBodyTemperature, &e.alarms.HighTemperature, events.KindHighBodyTemperatureDanger)

	edge(s.HeartRate <= lowHeartRate, &e.alarms.LowHeartRate, events.KindLowHeartRateDanger)
	edge(s.HeartRate >= highHeartRate, &e.alarms.HighHeartRate, events.KindHighHeartRateDanger)

	return out
}
