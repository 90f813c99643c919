package medicine

import (
	"errors"

	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
)

// ErrAgentNotFound is returned when no configured agent carries the
// requested name.
var ErrAgentNotFound = errors.New("medicine: agent not found")

// Agent describes one medical agent: its activation curve, how long a
// single dose lasts in game minutes, and the inventory items that count
// as doses of it.
type Agent struct {
	Name            string
	Curve           CurveKind
	DurationMinutes float64
	Items           []string
}

func (a Agent) matches(item string) bool {
	for _, it := range a.Items {
		if it == item {
			return true
		}
	}
	return false
}

// Dose is one administered dose of an agent.
type Dose struct {
	Item  string
	Start gametime.GameTime
	End   gametime.GameTime
}

func (d Dose) activityAt(k CurveKind, t gametime.GameTime) float64 {
	if t.Before(d.Start) || t.After(d.End) {
		return 0
	}
	span := d.End.Sub(d.Start)
	if span <= 0 {
		return 0
	}
	return k.Activity(float64(t.Sub(d.Start)) / float64(span))
}

// ActiveAgent tracks the live doses of one configured agent.
type ActiveAgent struct {
	agent Agent
	doses []Dose

	active      bool
	activity    float64
	presence    float64
	lastDoseEnd gametime.GameTime
	everDosed   bool
}

func newActiveAgent(a Agent) *ActiveAgent {
	return &ActiveAgent{agent: a}
}

// Name returns the agent's configured name.
func (a *ActiveAgent) Name() string { return a.agent.Name }

// IsActive reports whether any dose currently produces activity.
func (a *ActiveAgent) IsActive() bool { return a.active }

// PercentOfActivity returns the strongest activity among live doses, in
// 0..100.
func (a *ActiveAgent) PercentOfActivity() float64 { return a.activity }

// PercentOfPresence returns how far the clock has moved through the
// combined dose window, in 0..100.
func (a *ActiveAgent) PercentOfPresence() float64 { return a.presence }

// LastDoseEnd returns when the most recently ending dose wears off. ok is
// false before any dose was taken.
func (a *ActiveAgent) LastDoseEnd() (gametime.GameTime, bool) {
	return a.lastDoseEnd, a.everDosed
}

// Doses returns the live doses in intake order.
func (a *ActiveAgent) Doses() []Dose {
	return append([]Dose(nil), a.doses...)
}

func (a *ActiveAgent) addDose(now gametime.GameTime, item string, out *events.Outbox) {
	dose := Dose{
		Item:  item,
		Start: now,
		End:   now.Add(gametime.Minutes(a.agent.DurationMinutes)),
	}
	a.doses = append(a.doses, dose)
	if !a.everDosed || dose.End.After(a.lastDoseEnd) {
		a.lastDoseEnd = dose.End
	}
	a.everDosed = true
	out.Push(events.NewDose(now, a.agent.Name, item))
}

// advance prunes worn-off doses, refreshes the activity and presence
// figures and emits edge events on activation changes.
func (a *ActiveAgent) advance(now gametime.GameTime, out *events.Outbox) {
	live := a.doses[:0]
	for _, d := range a.doses {
		if d.End.Before(now) {
			continue
		}
		live = append(live, d)
	}
	a.doses = live

	a.activity = 0
	for _, d := range a.doses {
		if v := d.activityAt(a.agent.Curve, now); v > a.activity {
			a.activity = v
		}
	}

	a.presence = 0
	if len(a.doses) > 0 {
		earliest, latest := a.doses[0].Start, a.doses[0].End
		for _, d := range a.doses[1:] {
			if d.Start.Before(earliest) {
				earliest = d.Start
			}
			if d.End.After(latest) {
				latest = d.End
			}
		}
		span := latest.Sub(earliest)
		if span > 0 && !now.Before(earliest) && !now.After(latest) {
			a.presence = float64(now.Sub(earliest)) / float64(span) * 100
		}
	}

	wasActive := a.active
	a.active = a.activity > 0
	if a.active && !wasActive {
		out.Push(events.NewNamed(events.KindMedicalAgentActivated, now, a.agent.Name))
	}
	if !a.active && wasActive {
		out.Push(events.NewNamed(events.KindMedicalAgentDeactivated, now, a.agent.Name))
	}
}

// Monitor owns every configured agent and routes intake to the matching
// ones.
type Monitor struct {
	agents []*ActiveAgent
	byName map[string]*ActiveAgent
	outbox *events.Outbox
}

// NewMonitor builds a monitor over the configured agents. Later agents
// with duplicate names are dropped.
func NewMonitor(agents []Agent) *Monitor {
	m := &Monitor{
		byName: make(map[string]*ActiveAgent, len(agents)),
		outbox: events.NewOutbox(),
	}
	for _, a := range agents {
		if _, dup := m.byName[a.Name]; dup {
			continue
		}
		aa := newActiveAgent(a)
		m.agents = append(m.agents, aa)
		m.byName[a.Name] = aa
	}
	return m
}

// Outbox returns the monitor's pending events.
func (m *Monitor) Outbox() *events.Outbox { return m.outbox }

// Agent looks up one agent by name.
func (m *Monitor) Agent(name string) (*ActiveAgent, error) {
	a, ok := m.byName[name]
	if !ok {
		return nil, ErrAgentNotFound
	}
	return a, nil
}

// Agents returns the configured agents in registration order.
func (m *Monitor) Agents() []*ActiveAgent {
	return append([]*ActiveAgent(nil), m.agents...)
}

// OnConsumed registers a dose with every agent the item counts for.
func (m *Monitor) OnConsumed(now gametime.GameTime, item string) {
	for _, a := range m.agents {
		if a.agent.matches(item) {
			a.addDose(now, item, m.outbox)
		}
	}
}

// OnApplianceTaken registers a dose delivered through the body, such as
// an injection.
func (m *Monitor) OnApplianceTaken(now gametime.GameTime, item string) {
	m.OnConsumed(now, item)
}

// Advance refreshes every agent at the instant.
func (m *Monitor) Advance(now gametime.GameTime) {
	for _, a := range m.agents {
		a.advance(now, m.outbox)
	}
}
