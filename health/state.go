package health

import (
	"math"
	"time"

	"github.com/pthm-cable/pulse/medicine"
	"github.com/pthm-cable/pulse/vitals"
)

// alarmFlags are the latches behind edge-triggered alarms. They are part
// of the capture so a restored character does not re-fire alarms for
// conditions it was already in.
type alarmFlags struct {
	StaminaDrained  bool `json:"stamina_drained"`
	OxygenDrained   bool `json:"oxygen_drained"`
	FoodDrained     bool `json:"food_drained"`
	WaterDrained    bool `json:"water_drained"`
	BloodDrained    bool `json:"blood_drained"`
	Tired           bool `json:"tired"`
	Exhausted       bool `json:"exhausted"`
	LowPressure     bool `json:"low_pressure"`
	HighPressure    bool `json:"high_pressure"`
	LowTemperature  bool `json:"low_temperature"`
	HighTemperature bool `json:"high_temperature"`
	LowHeartRate    bool `json:"low_heart_rate"`
	HighHeartRate   bool `json:"high_heart_rate"`
}

// State is a value capture of the engine. Active diseases and injuries
// are captured separately; the host owns their definitions and restores
// them through RestoreDisease and RestoreInjury.
type State struct {
	Vitals    vitals.Snapshot `json:"vitals"`
	Alive     bool            `json:"alive"`
	BloodLoss bool            `json:"blood_loss"`

	StaminaRegen       float64 `json:"stamina_regen"`
	BloodRegen         float64 `json:"blood_regen"`
	OxygenRegen        float64 `json:"oxygen_regen"`
	HealthyTailSeconds float64 `json:"healthy_tail_seconds"`

	Alarms alarmFlags            `json:"alarms"`
	Agents medicine.MonitorState `json:"agents"`
}

// State captures the engine.
func (e *Engine) State() State {
	return State{
		Vitals:             e.snapshot,
		Alive:              e.alive,
		BloodLoss:          e.bloodLoss,
		StaminaRegen:       e.staminaRegen,
		BloodRegen:         e.bloodRegen,
		OxygenRegen:        e.oxygenRegen,
		HealthyTailSeconds: e.healthyTail.Seconds(),
		Alarms:             e.alarms,
		Agents:             e.agents.State(),
	}
}

// Restore overwrites the engine from a capture. The agent roster must
// match the one the capture was taken with.
func (e *Engine) Restore(s State) error {
	if err := e.agents.Restore(s.Agents); err != nil {
		return err
	}
	e.snapshot = s.Vitals
	e.alive = s.Alive
	e.bloodLoss = s.BloodLoss
	e.staminaRegen = s.StaminaRegen
	e.bloodRegen = s.BloodRegen
	e.oxygenRegen = s.OxygenRegen
	e.healthyTail = time.Duration(s.HealthyTailSeconds * float64(time.Second))
	e.alarms = s.Alarms
	return nil
}

// ApproxEqual reports whether two captures match within the vitals
// epsilon.
func (s State) ApproxEqual(o State) bool {
	if !s.Vitals.ApproxEqual(o.Vitals) {
		return false
	}
	if s.Alive != o.Alive || s.BloodLoss != o.BloodLoss || s.Alarms != o.Alarms {
		return false
	}
	if !feq(s.StaminaRegen, o.StaminaRegen) ||
		!feq(s.BloodRegen, o.BloodRegen) ||
		!feq(s.OxygenRegen, o.OxygenRegen) ||
		!feq(s.HealthyTailSeconds, o.HealthyTailSeconds) {
		return false
	}
	return agentsApproxEqual(s.Agents, o.Agents)
}

func agentsApproxEqual(a, b medicine.MonitorState) bool {
	if len(a.Agents) != len(b.Agents) {
		return false
	}
	for i := range a.Agents {
		x, y := a.Agents[i], b.Agents[i]
		if x.Name != y.Name || x.Active != y.Active || x.EverDosed != y.EverDosed {
			return false
		}
		if !feq(x.Activity, y.Activity) || !feq(x.Presence, y.Presence) ||
			!feq(x.LastDoseEndSeconds, y.LastDoseEndSeconds) {
			return false
		}
		if len(x.Doses) != len(y.Doses) {
			return false
		}
		for j := range x.Doses {
			dx, dy := x.Doses[j], y.Doses[j]
			if dx.Item != dy.Item ||
				!feq(dx.StartSeconds, dy.StartSeconds) ||
				!feq(dx.EndSeconds, dy.EndSeconds) {
				return false
			}
		}
	}
	return true
}

func feq(a, b float64) bool {
	return math.Abs(a-b) <= vitals.Epsilon
}
