package health

import (
	"errors"
	"math/rand"
	"time"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/disease"
	"github.com/pthm-cable/pulse/events"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/injury"
	"github.com/pthm-cable/pulse/medicine"
	"github.com/pthm-cable/pulse/vitals"
)

var (
	ErrCharacterIsDead     = errors.New("health: character is dead")
	ErrDiseaseAlreadyAdded = errors.New("health: disease already added")
	ErrDiseaseNotFound     = errors.New("health: disease not found")
	ErrInjuryAlreadyAdded  = errors.New("health: injury already added")
	ErrInjuryNotFound      = errors.New("health: injury not found")
	ErrMonitorNotFound     = errors.New("health: monitor id not found")
)

// Options configures a new engine. The zero value is usable: a time-seeded
// RNG, no regen, the default healthy-stage length and no agents.
type Options struct {
	RNG *rand.Rand

	// Passive regeneration rates, per game second.
	StaminaRegen float64
	BloodRegen   float64
	OxygenRegen  float64

	// Game-time length of the synthetic healthy stage appended when a
	// disease starts healing. Defaults to 5 minutes.
	HealthyStageDuration time.Duration

	Agents []medicine.Agent
}

// Engine owns the vitals and composes every per-tick influence on them.
// It is the only writer to the snapshot; all methods are for a single
// goroutine.
type Engine struct {
	rng *rand.Rand

	snapshot  vitals.Snapshot
	alive     bool
	bloodLoss bool

	staminaRegen float64
	bloodRegen   float64
	oxygenRegen  float64
	healthyTail  time.Duration

	agents *medicine.Monitor

	diseases     map[string]*disease.ActiveDisease
	diseaseOrder []string
	injuries     map[injury.Key]*injury.ActiveInjury
	injuryOrder  []injury.Key

	sideEffects     map[int]SideEffectMonitor
	sideEffectOrder []int
	diseaseMonitors map[int]DiseaseMonitor
	diseaseMonOrder []int
	nextMonitorID   int

	alarms alarmFlags
	outbox *events.Outbox
}

// NewEngine builds an engine at the healthy snapshot.
func NewEngine(opts Options) *Engine {
	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	tail := opts.HealthyStageDuration
	if tail <= 0 {
		tail = 5 * time.Minute
	}
	return &Engine{
		rng:             rng,
		snapshot:        vitals.Healthy(),
		alive:           true,
		staminaRegen:    opts.StaminaRegen,
		bloodRegen:      opts.BloodRegen,
		oxygenRegen:     opts.OxygenRegen,
		healthyTail:     tail,
		agents:          medicine.NewMonitor(opts.Agents),
		diseases:        make(map[string]*disease.ActiveDisease),
		injuries:        make(map[injury.Key]*injury.ActiveInjury),
		sideEffects:     make(map[int]SideEffectMonitor),
		diseaseMonitors: make(map[int]DiseaseMonitor),
		nextMonitorID:   1,
		outbox:          events.NewOutbox(),
	}
}

// Snapshot returns the current vitals.
func (e *Engine) Snapshot() vitals.Snapshot { return e.snapshot }

// IsAlive reports whether the character lives. Death is terminal.
func (e *Engine) IsAlive() bool { return e.alive }

// HasBloodLoss reports whether any active injury is currently bleeding.
func (e *Engine) HasBloodLoss() bool { return e.bloodLoss }

// Outbox returns the engine's event sink. The host drains it after each
// tick.
func (e *Engine) Outbox() *events.Outbox { return e.outbox }

// Agents returns the medical-agent monitor.
func (e *Engine) Agents() *medicine.Monitor { return e.agents }

// SpawnDisease activates a disease definition at the given time.
func (e *Engine) SpawnDisease(def disease.Definition, at gametime.GameTime) (*disease.ActiveDisease, error) {
	if !e.alive {
		return nil, ErrCharacterIsDead
	}
	if _, exists := e.diseases[def.Name()]; exists {
		return nil, ErrDiseaseAlreadyAdded
	}
	d, err := disease.Spawn(def, at, e.healthyTail, e.rng)
	if err != nil {
		return nil, err
	}
	d.Outbox().Push(events.NewNamed(events.KindDiseaseSpawned, at, d.Name()))
	e.diseases[d.Name()] = d
	e.diseaseOrder = append(e.diseaseOrder, d.Name())
	return d, nil
}

// RemoveDisease detaches a disease by name, flushing its pending events.
func (e *Engine) RemoveDisease(name string, now gametime.GameTime) error {
	d, ok := e.diseases[name]
	if !ok {
		return ErrDiseaseNotFound
	}
	d.Outbox().DrainInto(e.outbox)
	e.outbox.Push(events.NewNamed(events.KindDiseaseRemoved, now, name))
	delete(e.diseases, name)
	e.diseaseOrder = removeName(e.diseaseOrder, name)
	return nil
}

// Disease looks up an active disease by name.
func (e *Engine) Disease(name string) (*disease.ActiveDisease, error) {
	d, ok := e.diseases[name]
	if !ok {
		return nil, ErrDiseaseNotFound
	}
	return d, nil
}

// Diseases returns the active diseases in spawn order.
func (e *Engine) Diseases() []*disease.ActiveDisease {
	out := make([]*disease.ActiveDisease, 0, len(e.diseaseOrder))
	for _, name := range e.diseaseOrder {
		out = append(out, e.diseases[name])
	}
	return out
}

// RestoreDisease re-adds a captured disease; the host supplies the
// definition the capture was taken from.
func (e *Engine) RestoreDisease(def disease.Definition, s disease.State) (*disease.ActiveDisease, error) {
	if _, exists := e.diseases[s.Name]; exists {
		return nil, ErrDiseaseAlreadyAdded
	}
	d, err := disease.Restore(def, s)
	if err != nil {
		return nil, err
	}
	e.diseases[d.Name()] = d
	e.diseaseOrder = append(e.diseaseOrder, d.Name())
	return d, nil
}

// SpawnInjury activates an injury definition on a body part.
func (e *Engine) SpawnInjury(def injury.Definition, part body.Part, at gametime.GameTime) (*injury.ActiveInjury, error) {
	if !e.alive {
		return nil, ErrCharacterIsDead
	}
	key := injury.Key{Name: def.Name(), Part: part}
	if _, exists := e.injuries[key]; exists {
		return nil, ErrInjuryAlreadyAdded
	}
	in, err := injury.Spawn(def, part, at, e.rng)
	if err != nil {
		return nil, err
	}
	in.Outbox().Push(events.NewInjury(events.KindInjurySpawned, at, in.Name(), part))
	e.injuries[key] = in
	e.injuryOrder = append(e.injuryOrder, key)
	return in, nil
}

// RemoveInjury detaches an injury by key, flushing its pending events.
func (e *Engine) RemoveInjury(key injury.Key, now gametime.GameTime) error {
	in, ok := e.injuries[key]
	if !ok {
		return ErrInjuryNotFound
	}
	in.Outbox().DrainInto(e.outbox)
	e.outbox.Push(events.NewInjury(events.KindInjuryRemoved, now, key.Name, key.Part))
	delete(e.injuries, key)
	e.injuryOrder = removeKey(e.injuryOrder, key)
	return nil
}

// Injury looks up an active injury by key.
func (e *Engine) Injury(key injury.Key) (*injury.ActiveInjury, error) {
	in, ok := e.injuries[key]
	if !ok {
		return nil, ErrInjuryNotFound
	}
	return in, nil
}

// Injuries returns the active injuries in spawn order.
func (e *Engine) Injuries() []*injury.ActiveInjury {
	out := make([]*injury.ActiveInjury, 0, len(e.injuryOrder))
	for _, key := range e.injuryOrder {
		out = append(out, e.injuries[key])
	}
	return out
}

// RestoreInjury re-adds a captured injury; the host supplies the
// definition the capture was taken from.
func (e *Engine) RestoreInjury(def injury.Definition, s injury.State) (*injury.ActiveInjury, error) {
	key := injury.Key{Name: s.Name, Part: s.Part}
	if _, exists := e.injuries[key]; exists {
		return nil, ErrInjuryAlreadyAdded
	}
	in, err := injury.Restore(def, s)
	if err != nil {
		return nil, err
	}
	e.injuries[key] = in
	e.injuryOrder = append(e.injuryOrder, key)
	return in, nil
}

// RegisterSideEffect adds a side-effect monitor and returns its id.
func (e *Engine) RegisterSideEffect(m SideEffectMonitor) int {
	id := e.nextMonitorID
	e.nextMonitorID++
	e.sideEffects[id] = m
	e.sideEffectOrder = append(e.sideEffectOrder, id)
	return id
}

// UnregisterSideEffect removes a side-effect monitor by id.
func (e *Engine) UnregisterSideEffect(id int) error {
	if _, ok := e.sideEffects[id]; !ok {
		return ErrMonitorNotFound
	}
	delete(e.sideEffects, id)
	e.sideEffectOrder = removeID(e.sideEffectOrder, id)
	return nil
}

// RegisterDiseaseMonitor adds a disease monitor and returns its id.
func (e *Engine) RegisterDiseaseMonitor(m DiseaseMonitor) int {
	id := e.nextMonitorID
	e.nextMonitorID++
	e.diseaseMonitors[id] = m
	e.diseaseMonOrder = append(e.diseaseMonOrder, id)
	return id
}

// UnregisterDiseaseMonitor removes a disease monitor by id.
func (e *Engine) UnregisterDiseaseMonitor(id int) error {
	if _, ok := e.diseaseMonitors[id]; !ok {
		return ErrMonitorNotFound
	}
	delete(e.diseaseMonitors, id)
	e.diseaseMonOrder = removeID(e.diseaseMonOrder, id)
	return nil
}

// OnConsumed fans a consumed item out to disease monitors, disease and
// injury treatments and the medical agents, then applies the item's food
// and water gains. A treatment error aborts the fan-out.
func (e *Engine) OnConsumed(now gametime.GameTime, item ConsumedItem) error {
	if !e.alive {
		return ErrCharacterIsDead
	}
	for _, id := range e.diseaseMonOrder {
		e.diseaseMonitors[id].OnConsumed(e, now, item)
	}
	for _, name := range e.diseaseOrder {
		if err := e.diseases[name].OnConsumed(now, item.Name); err != nil {
			return err
		}
	}
	for _, key := range e.injuryOrder {
		if err := e.injuries[key].OnConsumed(now, item.Name); err != nil {
			return err
		}
	}
	e.agents.OnConsumed(now, item.Name)

	e.snapshot.FoodLevel += item.FoodGain
	e.snapshot.WaterLevel += item.WaterGain
	e.snapshot.ClampScales()
	return nil
}

// OnApplianceTaken fans an applied item out to disease and injury
// treatments and the medical agents.
func (e *Engine) OnApplianceTaken(now gametime.GameTime, item string, part body.Part) error {
	if !e.alive {
		return ErrCharacterIsDead
	}
	for _, name := range e.diseaseOrder {
		if err := e.diseases[name].OnApplianceTaken(now, item, part); err != nil {
			return err
		}
	}
	for _, key := range e.injuryOrder {
		if err := e.injuries[key].OnApplianceTaken(now, item, part); err != nil {
			return err
		}
	}
	e.agents.OnApplianceTaken(now, item)
	return nil
}

func removeName(s []string, name string) []string {
	out := s[:0]
	for _, v := range s {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}

func removeKey(s []injury.Key, key injury.Key) []injury.Key {
	out := s[:0]
	for _, v := range s {
		if v != key {
			out = append(out, v)
		}
	}
	return out
}

func removeID(s []int, id int) []int {
	out := s[:0]
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
