package disease

import (
	"math/rand"
	"sort"
	"time"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/stage"
)

func sortDescs(descs []StageDescriptor) {
	sort.Slice(descs, func(i, j int) bool { return descs[i].Level < descs[j].Level })
}

// ActiveDisease is one disease instance attached to a character.
type ActiveDisease struct {
	def   Definition
	descs []StageDescriptor
	chain *stage.Chain

	plan      *plan
	last      Deltas
	lastAt    gametime.GameTime
	lastValid bool

	needsTreatment bool
	healthyTail    time.Duration
	outbox         *events.Outbox
}

// Spawn activates a disease at the given game time. Stage timings
// accumulate from the activation instant and the self-heal rolls are made
// once, here. healthyTail is the length of the synthetic healthy stage
// appended when the disease starts healing.
func Spawn(def Definition, at gametime.GameTime, healthyTail time.Duration, rng *rand.Rand) (*ActiveDisease, error) {
	descs, err := validateDefinition(def)
	if err != nil {
		return nil, err
	}
	sortDescs(descs)

	specs := make([]stage.Spec, len(descs))
	for i, d := range descs {
		specs[i] = d.spec()
	}
	chain, err := stage.Build(specs, at, rng)
	if err != nil {
		return nil, err
	}

	return &ActiveDisease{
		def:            def,
		descs:          descs,
		chain:          chain,
		needsTreatment: chain.SelfHealOn() == stage.LevelUndefined,
		healthyTail:    healthyTail,
		outbox:         events.NewOutbox(),
	}, nil
}

// Name returns the disease's name.
func (d *ActiveDisease) Name() string { return d.def.Name() }

// Definition returns the definition the disease was spawned from.
func (d *ActiveDisease) Definition() Definition { return d.def }

// Outbox returns the disease's pending events.
func (d *ActiveDisease) Outbox() *events.Outbox { return d.outbox }

// IsHealing reports whether the chain has been inverted toward recovery.
func (d *ActiveDisease) IsHealing() bool { return d.chain.Inverted() }

// NeedsTreatment reports whether the disease will not start healing on
// its own.
func (d *ActiveDisease) NeedsTreatment() bool { return d.needsTreatment }

// WillSelfHealOn returns the severity level on which the disease starts
// healing by itself, or LevelUndefined.
func (d *ActiveDisease) WillSelfHealOn() stage.Level { return d.chain.SelfHealOn() }

// Activation returns the earliest instant of the chain.
func (d *ActiveDisease) Activation() gametime.GameTime { return d.chain.Activation() }

// End returns the instant the disease runs out, if it ever does.
func (d *ActiveDisease) End() (gametime.GameTime, bool) { return d.chain.End() }

// IsOldAt reports whether the disease has fully run out at the instant.
func (d *ActiveDisease) IsOldAt(t gametime.GameTime) bool { return d.chain.IsOldAt(t) }

// ActiveStage returns the stage active at the instant.
func (d *ActiveDisease) ActiveStage(t gametime.GameTime) (stage.Timing, bool) {
	return d.chain.ActiveAt(t)
}

// PercentAt returns the active stage's progress toward its peak.
func (d *ActiveDisease) PercentAt(t gametime.GameTime) (stage.Timing, float64, bool) {
	return d.chain.PercentAt(t)
}

// Invert flips the disease toward recovery at the instant, rewriting the
// chain and scheduling the healthy tail.
func (d *ActiveDisease) Invert(now gametime.GameTime) error {
	if err := d.chain.Invert(now, d.healthyTail); err != nil {
		return err
	}
	d.plan = nil
	d.outbox.Push(events.NewNamed(events.KindDiseaseInverted, now, d.Name()))
	return nil
}

// InvertBack resumes the disease's severity climb at the instant.
func (d *ActiveDisease) InvertBack(now gametime.GameTime) error {
	if err := d.chain.InvertBack(now); err != nil {
		return err
	}
	d.plan = nil
	d.outbox.Push(events.NewNamed(events.KindDiseaseResumed, now, d.Name()))
	return nil
}

// DeltasAt evaluates the disease's vital contribution at the instant,
// rebuilding the lerp schedule when the chain outgrew or reversed it.
func (d *ActiveDisease) DeltasAt(now gametime.GameTime) Deltas {
	if !d.plan.covers(now, d.chain.Inverted()) {
		anchored := d.lastValid && d.lastAt.Equal(now)
		d.plan = buildPlan(d.descs, d.chain, now, d.last, anchored)
	}
	d.last = d.plan.deltasAt(now)
	d.lastAt = now
	d.lastValid = true
	return d.last
}

// SelfHealDue rolls whether the disease starts healing on its own at the
// instant. The roll succeeds once the chain is past the marked level, or
// while on it when stage progress beats a 50..99 threshold.
func (d *ActiveDisease) SelfHealDue(now gametime.GameTime, rng *rand.Rand) bool {
	on := d.chain.SelfHealOn()
	if on == stage.LevelUndefined || d.chain.Inverted() {
		return false
	}
	tm, pct, ok := d.chain.PercentAt(now)
	if !ok {
		return false
	}
	if tm.Level > on {
		return true
	}
	if tm.Level < on {
		return false
	}
	threshold := 50 + rng.Float64()*49
	return pct > threshold
}

// DeathRoll rolls whether the disease kills at the instant. Both the
// stage progress and the stage's death chance must win their draws; a
// healing disease never rolls.
func (d *ActiveDisease) DeathRoll(now gametime.GameTime, rng *rand.Rand) bool {
	if d.chain.Inverted() {
		return false
	}
	tm, pct, ok := d.chain.PercentAt(now)
	if !ok {
		return false
	}
	chance := 0
	for _, desc := range d.descs {
		if desc.Level == tm.Level {
			chance = desc.ChanceOfDeath
			break
		}
	}
	if chance <= 0 {
		return false
	}
	return rng.Float64()*100 < pct && rng.Float64()*100 < float64(chance)
}

// OnConsumed routes a consumed item to the disease's treatment.
func (d *ActiveDisease) OnConsumed(now gametime.GameTime, item string) error {
	tr := d.def.Treatment()
	if tr == nil {
		return nil
	}
	return tr.OnConsumed(now, item, d)
}

// OnApplianceTaken routes an applied item to the disease's treatment.
func (d *ActiveDisease) OnApplianceTaken(now gametime.GameTime, item string, part body.Part) error {
	tr := d.def.Treatment()
	if tr == nil {
		return nil
	}
	return tr.OnApplianceTaken(now, item, part, d)
}
