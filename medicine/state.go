package medicine

import (
	"fmt"

	"github.com/pthm-cable/pulse/gametime"
)

// DoseState is the JSON shape of one live dose.
type DoseState struct {
	Item         string  `json:"item"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

// AgentState is a value capture of one agent's live doses.
type AgentState struct {
	Name               string      `json:"name"`
	Doses              []DoseState `json:"doses"`
	Active             bool        `json:"active"`
	Activity           float64     `json:"activity"`
	Presence           float64     `json:"presence"`
	LastDoseEndSeconds float64     `json:"last_dose_end_seconds"`
	EverDosed          bool        `json:"ever_dosed"`
}

// MonitorState is a value capture of the whole agent monitor. Dose curves
// are not captured; they are refitted from the agent configuration.
type MonitorState struct {
	Agents []AgentState `json:"agents"`
}

// State captures the monitor.
func (m *Monitor) State() MonitorState {
	s := MonitorState{Agents: make([]AgentState, 0, len(m.agents))}
	for _, a := range m.agents {
		as := AgentState{
			Name:               a.agent.Name,
			Active:             a.active,
			Activity:           a.activity,
			Presence:           a.presence,
			LastDoseEndSeconds: a.lastDoseEnd.Seconds(),
			EverDosed:          a.everDosed,
		}
		for _, d := range a.doses {
			as.Doses = append(as.Doses, DoseState{
				Item:         d.Item,
				StartSeconds: d.Start.Seconds(),
				EndSeconds:   d.End.Seconds(),
			})
		}
		s.Agents = append(s.Agents, as)
	}
	return s
}

// Restore overwrites the monitor's live doses from a capture. Every
// captured agent must still be configured.
func (m *Monitor) Restore(s MonitorState) error {
	for _, as := range s.Agents {
		a, ok := m.byName[as.Name]
		if !ok {
			return fmt.Errorf("medicine: captured agent %q: %w", as.Name, ErrAgentNotFound)
		}
		a.doses = a.doses[:0]
		for _, ds := range as.Doses {
			a.doses = append(a.doses, Dose{
				Item:  ds.Item,
				Start: gametime.FromSeconds(ds.StartSeconds),
				End:   gametime.FromSeconds(ds.EndSeconds),
			})
		}
		a.active = as.Active
		a.activity = as.Activity
		a.presence = as.Presence
		a.lastDoseEnd = gametime.FromSeconds(as.LastDoseEndSeconds)
		a.everDosed = as.EverDosed
	}
	return nil
}
