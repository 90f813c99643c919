// Package disease implements staged diseases: severity chains bound to
// game time, lazily rebuilt vital schedules and treatment hooks.
package disease

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/stage"
)

// StageDescriptor describes one severity stage of a disease. Vital
// targets are absolute values reached at the stage's peak; a zero target
// leaves that vital wherever the previous stage put it. Drains are rates
// per game second and fatigue is an absolute 0..100 contribution.
type StageDescriptor struct {
	Level              stage.Level
	SelfHealChance     int
	ChanceOfDeath      int
	ReachesPeakInHours float64
	Endless            bool

	TargetBodyTemperature float64
	TargetHeartRate       float64
	TargetTopPressure     float64
	TargetBottomPressure  float64

	TargetFoodDrain    float64
	TargetWaterDrain   float64
	TargetStaminaDrain float64
	TargetOxygenDrain  float64

	TargetFatigue float64
}

func (d StageDescriptor) spec() stage.Spec {
	return stage.Spec{
		Level:          d.Level,
		Duration:       gametime.Hours(d.ReachesPeakInHours),
		Endless:        d.Endless,
		SelfHealChance: d.SelfHealChance,
	}
}

// Deltas is one disease's contribution to the vitals at an instant.
// Temperature, heart rate, pressures and fatigue are offsets over the
// healthy baseline; the drains are rates per game second.
type Deltas struct {
	BodyTemperature float64
	HeartRate       float64
	TopPressure     float64
	BottomPressure  float64

	FoodDrain    float64
	WaterDrain   float64
	StaminaDrain float64
	OxygenDrain  float64

	Fatigue float64
}

// Treatment reacts to consumed items and applied appliances on behalf of
// one disease. Implementations decide whether the item helps and flip the
// disease toward healing through the handle they receive.
type Treatment interface {
	OnConsumed(now gametime.GameTime, item string, d *ActiveDisease) error
	OnApplianceTaken(now gametime.GameTime, item string, part body.Part, d *ActiveDisease) error
}

// Definition describes a disease that can be spawned on a character.
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
		return nil, errors.New("disease: nil definition")
	}
	if def.Name() == "" {
		return nil, errors.New("disease: definition has no name")
	}
	descs := def.Stages()
	if len(descs) == 0 {
		return nil, fmt.Errorf("disease: %s has no stages", def.Name())
	}
	return descs, nil
}
