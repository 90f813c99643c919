// Package injury implements staged injuries: severity chains bound to one
// body part, with stamina and blood drains that can be staunched.
package injury

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/stage"
)

// StageDescriptor describes one severity stage of an injury. Drains are
// rates per game second reached at the stage's peak; a zero drain leaves
// the rate wherever the previous stage put it.
type StageDescriptor struct {
	Level              stage.Level
	SelfHealChance     int
	ChanceOfDeath      int
	ReachesPeakInHours float64
	Endless            bool

	TargetStaminaDrain float64
	TargetBloodDrain   float64
}

func (d StageDescriptor) spec() stage.Spec {
	return stage.Spec{
		Level:          d.Level,
		Duration:       gametime.Hours(d.ReachesPeakInHours),
		Endless:        d.Endless,
		SelfHealChance: d.SelfHealChance,
	}
}

// Drains is one injury's drain rates at an instant, per game second.
type Drains struct {
	Stamina float64
	Blood   float64
}

// Key identifies an active injury: the same injury may exist on several
// body parts at once.
type Key struct {
	Name string
	Part body.Part
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%s", k.Name, k.Part)
}

// Treatment reacts to applied appliances and consumed items on behalf of
// one injury.
type Treatment interface {
	OnApplianceTaken(now gametime.GameTime, item string, part body.Part, in *ActiveInjury) error
	OnConsumed(now gametime.GameTime, item string, in *ActiveInjury) error
}

// Definition describes an injury that can be spawned on a body part.
type Definition interface {
	Name() string
	Stages() []StageDescriptor
	Treatment() Treatment
}

type staticDefinition struct {
	name      string
	stages    []StageDescriptor
	treatment Treatment
}

// NewDefinition builds a fixed definition from a name, its stages and an
// optional treatment.
func NewDefinition(name string, stages []StageDescriptor, treatment Treatment) Definition {
	return &staticDefinition{
		name:      name,
		stages:    append([]StageDescriptor(nil), stages...),
		treatment: treatment,
	}
}

func (s *staticDefinition) Name() string              { return s.name }
func (s *staticDefinition) Stages() []StageDescriptor { return append([]StageDescriptor(nil), s.stages...) }
func (s *staticDefinition) Treatment() Treatment      { return s.treatment }

func validateDefinition(def Definition) ([]StageDescriptor, error) {
	if def == nil {
		return nil, errors.New("injury: nil definition")
	}
	if def.Name() == "" {
		return nil, errors.New("injury: definition has no name")
	}
	descs := def.Stages()
	if len(descs) == 0 {
		return nil, fmt.Errorf("injury: %s has no stages", def.Name())
	}
	return descs, nil
}
