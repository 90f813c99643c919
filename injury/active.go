package injury

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/stage"
)

func sortDescs(descs []StageDescriptor) {
	sort.Slice(descs, func(i, j int) bool { return descs[i].Level < descs[j].Level })
}

// ActiveInjury is one injury instance on one body part.
type ActiveInjury struct {
	def   Definition
	part  body.Part
	descs []StageDescriptor
	chain *stage.Chain

	plan      *plan
	last      Drains
	lastAt    gametime.GameTime
	lastValid bool

	needsTreatment bool
	bloodStopped   bool
	outbox         *events.Outbox
}

// Spawn activates an injury on a body part at the given game time. Unlike
// diseases, a healed injury simply runs out; no healthy tail is added.
func Spawn(def Definition, part body.Part, at gametime.GameTime, rng *rand.Rand) (*ActiveInjury, error) {
	descs, err := validateDefinition(def)
	if err != nil {
		return nil, err
	}
	if !part.IsValid() {
		return nil, body.ErrUnknownBodyPart
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

	return &ActiveInjury{
		def:            def,
		part:           part,
		descs:          descs,
		chain:          chain,
		needsTreatment: chain.SelfHealOn() == stage.LevelUndefined,
		outbox:         events.NewOutbox(),
	}, nil
}

// Name returns the injury's name.
func (in *ActiveInjury) Name() string { return in.def.Name() }

// Part returns the body part the injury sits on.
func (in *ActiveInjury) Part() body.Part { return in.part }

// Key returns the injury's registry key.
func (in *ActiveInjury) Key() Key { return Key{Name: in.Name(), Part: in.part} }

// Definition returns the definition the injury was spawned from.
func (in *ActiveInjury) Definition() Definition { return in.def }

// Outbox returns the injury's pending events.
func (in *ActiveInjury) Outbox() *events.Outbox { return in.outbox }

// IsHealing reports whether the chain has been inverted toward recovery.
func (in *ActiveInjury) IsHealing() bool { return in.chain.Inverted() }

// NeedsTreatment reports whether the injury will not heal on its own.
func (in *ActiveInjury) NeedsTreatment() bool { return in.needsTreatment }

// WillSelfHealOn returns the level on which the injury starts healing by
// itself, or LevelUndefined.
func (in *ActiveInjury) WillSelfHealOn() stage.Level { return in.chain.SelfHealOn() }

// Activation returns the earliest instant of the chain.
func (in *ActiveInjury) Activation() gametime.GameTime { return in.chain.Activation() }

// End returns the instant the injury runs out, if it ever does.
func (in *ActiveInjury) End() (gametime.GameTime, bool) { return in.chain.End() }

// IsOldAt reports whether the injury has fully run out at the instant.
func (in *ActiveInjury) IsOldAt(t gametime.GameTime) bool { return in.chain.IsOldAt(t) }

// ActiveStage returns the stage active at the instant.
func (in *ActiveInjury) ActiveStage(t gametime.GameTime) (stage.Timing, bool) {
	return in.chain.ActiveAt(t)
}

// PercentAt returns the active stage's progress toward its peak.
func (in *ActiveInjury) PercentAt(t gametime.GameTime) (stage.Timing, float64, bool) {
	return in.chain.PercentAt(t)
}

// Invert flips the injury toward recovery at the instant.
func (in *ActiveInjury) Invert(now gametime.GameTime) error {
	if err := in.chain.Invert(now, 0); err != nil {
		return err
	}
	in.plan = nil
	in.outbox.Push(events.NewInjury(events.KindInjuryInverted, now, in.Name(), in.part))
	return nil
}

// InvertBack resumes the injury's severity climb at the instant.
func (in *ActiveInjury) InvertBack(now gametime.GameTime) error {
	if err := in.chain.InvertBack(now); err != nil {
		return err
	}
	in.plan = nil
	in.outbox.Push(events.NewInjury(events.KindInjuryResumed, now, in.Name(), in.part))
	return nil
}

// StopBloodLoss staunches the injury's blood drain, keeping the stamina
// drain running. A second call is a no-op.
func (in *ActiveInjury) StopBloodLoss(now gametime.GameTime) {
	if in.bloodStopped {
		return
	}
	in.bloodStopped = true
	in.outbox.Push(events.NewInjury(events.KindBloodLossStopped, now, in.Name(), in.part))
}

// ResumeBloodLoss lets a staunched injury bleed again.
func (in *ActiveInjury) ResumeBloodLoss(now gametime.GameTime) {
	if !in.bloodStopped {
		return
	}
	in.bloodStopped = false
	in.outbox.Push(events.NewInjury(events.KindBloodLossResumed, now, in.Name(), in.part))
}

// BloodLossStopped reports whether the blood drain is staunched.
func (in *ActiveInjury) BloodLossStopped() bool { return in.bloodStopped }

// DrainsAt evaluates the injury's drain rates at the instant. A staunched
// blood drain evaluates to zero without touching the schedule.
func (in *ActiveInjury) DrainsAt(now gametime.GameTime) Drains {
	if !in.plan.covers(now, in.chain.Inverted()) {
		anchored := in.lastValid && in.lastAt.Equal(now)
		in.plan = buildPlan(in.descs, in.chain, now, in.last, anchored)
	}
	in.last = in.plan.drainsAt(now)
	in.lastAt = now
	in.lastValid = true

	out := in.last
	if in.bloodStopped {
		out.Blood = 0
	}
	return out
}

// DrainsBlood reports whether the injury is actively losing blood at the
// instant.
func (in *ActiveInjury) DrainsBlood(now gametime.GameTime) bool {
	if in.bloodStopped {
		return false
	}
	if _, ok := in.chain.ActiveAt(now); !ok {
		return false
	}
	return in.DrainsAt(now).Blood > 0
}

// SelfHealDue rolls whether the injury starts healing on its own at the
// instant.
func (in *ActiveInjury) SelfHealDue(now gametime.GameTime, rng *rand.Rand) bool {
	on := in.chain.SelfHealOn()
	if on == stage.LevelUndefined || in.chain.Inverted() {
		return false
	}
	tm, pct, ok := in.chain.PercentAt(now)
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

// DeathRoll rolls whether the injury kills at the instant.
func (in *ActiveInjury) DeathRoll(now gametime.GameTime, rng *rand.Rand) bool {
	if in.chain.Inverted() {
		return false
	}
	tm, pct, ok := in.chain.PercentAt(now)
	if !ok {
		return false
	}
	chance := 0
	for _, desc := range in.descs {
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

// OnApplianceTaken routes an applied item to the injury's treatment when
// the part matches.
func (in *ActiveInjury) OnApplianceTaken(now gametime.GameTime, item string, part body.Part) error {
	tr := in.def.Treatment()
	if tr == nil {
		return nil
	}
	return tr.OnApplianceTaken(now, item, part, in)
}

// OnConsumed routes a consumed item to the injury's treatment.
func (in *ActiveInjury) OnConsumed(now gametime.GameTime, item string) error {
	tr := in.def.Treatment()
	if tr == nil {
		return nil
	}
	return tr.OnConsumed(now, item, in)
}
