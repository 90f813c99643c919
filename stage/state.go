package stage

import (
	"errors"

	"github.com/pthm-cable/pulse/gametime"
)

// TimingState is the JSON shape of one materialized stage timing.
type TimingState struct {
	Level           int     `json:"level"`
	StartSeconds    float64 `json:"start_seconds"`
	PeakSeconds     float64 `json:"peak_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
	Endless         bool    `json:"endless"`
}

// ChainState is a value capture of a chain.
type ChainState struct {
	Timings           []TimingState `json:"timings"`
	Healthy           *TimingState  `json:"healthy,omitempty"`
	Inverted          bool          `json:"inverted"`
	ActivationSeconds float64       `json:"activation_seconds"`
	WillEnd           bool          `json:"will_end"`
	EndSeconds        float64       `json:"end_seconds"`
	SelfHealOn        int           `json:"self_heal_on"`
}

func timingState(tm Timing) TimingState {
	return TimingState{
		Level:           int(tm.Level),
		StartSeconds:    tm.Start.Seconds(),
		PeakSeconds:     tm.Peak.Seconds(),
		DurationSeconds: tm.Duration.Seconds(),
		Endless:         tm.Endless,
	}
}

func timingFromState(s TimingState) Timing {
	return Timing{
		Level:    Level(s.Level),
		Start:    gametime.FromSeconds(s.StartSeconds),
		Peak:     gametime.FromSeconds(s.PeakSeconds),
		Duration: gametime.Seconds(s.DurationSeconds),
		Endless:  s.Endless,
	}
}

// State captures the chain.
func (c *Chain) State() ChainState {
	s := ChainState{
		Timings:           make([]TimingState, len(c.timings)),
		Inverted:          c.inverted,
		ActivationSeconds: c.activation.Seconds(),
		WillEnd:           c.willEnd,
		EndSeconds:        c.end.Seconds(),
		SelfHealOn:        int(c.selfHealOn),
	}
	for i, tm := range c.timings {
		s.Timings[i] = timingState(tm)
	}
	if c.healthy != nil {
		h := timingState(*c.healthy)
		s.Healthy = &h
	}
	return s
}

// RestoreChain rebuilds a chain from its specs and a captured state. The
// state's timing levels must match the specs.
func RestoreChain(specs []Spec, s ChainState) (*Chain, error) {
	if err := validateSpecs(specs); err != nil {
		return nil, err
	}
	if len(s.Timings) != len(specs) {
		return nil, errors.New("stage: captured timings do not match stage specs")
	}

	c := &Chain{
		specs:      append([]Spec(nil), specs...),
		timings:    make([]Timing, len(s.Timings)),
		inverted:   s.Inverted,
		activation: gametime.FromSeconds(s.ActivationSeconds),
		willEnd:    s.WillEnd,
		end:        gametime.FromSeconds(s.EndSeconds),
		selfHealOn: Level(s.SelfHealOn),
	}
	for i, ts := range s.Timings {
		if Level(ts.Level) != specs[i].Level {
			return nil, errors.New("stage: captured timings do not match stage specs")
		}
		c.timings[i] = timingFromState(ts)
	}
	if s.Healthy != nil {
		h := timingFromState(*s.Healthy)
		c.healthy = &h
	}
	return c, nil
}
