package disease

import (
	"errors"

	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/stage"
)

// State is a value capture of an active disease, keyed to its definition
// by name.
type State struct {
	Name               string           `json:"name"`
	Chain              stage.ChainState `json:"chain"`
	NeedsTreatment     bool             `json:"needs_treatment"`
	HealthyTailSeconds float64          `json:"healthy_tail_seconds"`
	LastDeltas         Deltas           `json:"last_deltas"`
	LastAtSeconds      float64          `json:"last_at_seconds"`
	LastValid          bool             `json:"last_valid"`
}

// State captures the disease. The lerp schedule itself is not captured;
// it is rebuilt lazily from the chain and the last emitted deltas.
func (d *ActiveDisease) State() State {
	return State{
		Name:               d.Name(),
		Chain:              d.chain.State(),
		NeedsTreatment:     d.needsTreatment,
		HealthyTailSeconds: d.healthyTail.Seconds(),
		LastDeltas:         d.last,
		LastAtSeconds:      d.lastAt.Seconds(),
		LastValid:          d.lastValid,
	}
}

// Restore rebuilds an active disease from a captured state and the
// definition it was spawned from.
func Restore(def Definition, s State) (*ActiveDisease, error) {
	descs, err := validateDefinition(def)
	if err != nil {
		return nil, err
	}
	if def.Name() != s.Name {
		return nil, errors.New("disease: state does not belong to this definition")
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

	return &ActiveDisease{
		def:            def,
		descs:          descs,
		chain:          chain,
		last:           s.LastDeltas,
		lastAt:         gametime.FromSeconds(s.LastAtSeconds),
		lastValid:      s.LastValid,
		needsTreatment: s.NeedsTreatment,
		healthyTail:    gametime.Seconds(s.HealthyTailSeconds),
		outbox:         events.NewOutbox(),
	}, nil
}
