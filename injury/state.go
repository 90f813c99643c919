package injury

import (
	"errors"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/stage"
)

// State is a value capture of an active injury, keyed to its definition
// by name and body part.
type State struct {
	Name           string           `json:"name"`
	Part           body.Part        `json:"part"`
	Chain          stage.ChainState `json:"chain"`
	NeedsTreatment bool             `json:"needs_treatment"`
	BloodStopped   bool             `json:"blood_stopped"`
	LastDrains     Drains           `json:"last_drains"`
	LastAtSeconds  float64          `json:"last_at_seconds"`
	LastValid      bool             `json:"last_valid"`
}

// State captures the injury.
func (in *ActiveInjury) State() State {
	return State{
		Name:           in.Name(),
		Part:           in.part,
		Chain:          in.chain.State(),
		NeedsTreatment: in.needsTreatment,
		BloodStopped:   in.bloodStopped,
		LastDrains:     in.last,
		LastAtSeconds:  in.lastAt.Seconds(),
		LastValid:      in.lastValid,
	}
}

// Restore rebuilds an active injury from a captured state and the
// definition it was spawned from.
func Restore(def Definition, s State) (*ActiveInjury, error) {
	descs, err := validateDefinition(def)
	if err != nil {
		return nil, err
	}
	if def.Name() != s.Name {
		return nil, errors.New("injury: state does not belong to this definition")
	}
	if !s.Part.IsValid() {
		return nil, body.ErrUnknownBodyPart
	}
	sortDescs(descs)

	specs := make([]stage.Spec, len(descs))
	for i, d := range descs {
		specs[i] = d.spec()
	}
	chain, err := stage.RestoreChain(specs, s.Chain)
	if err != nil {
		return nil, err
	}

	return &ActiveInjury{
		def:            def,
		part:           s.Part,
		descs:          descs,
		chain:          chain,
		last:           s.LastDrains,
		lastAt:         gametime.FromSeconds(s.LastAtSeconds),
		lastValid:      s.LastValid,
		needsTreatment: s.NeedsTreatment,
		bloodStopped:   s.BloodStopped,
		outbox:         events.NewOutbox(),
	}, nil
}
