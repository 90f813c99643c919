// Package scripting loads Lua content packs. Scripts declare diseases,
// injuries, medical agents and inventory items through registration
// globals and may attach treatment hooks deciding how a disease or
// injury reacts to consumed and applied items.
package scripting

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/pthm-cable/pulse/disease"
	"github.com/pthm-cable/pulse/injury"
	"github.com/pthm-cable/pulse/inventory"
	"github.com/pthm-cable/pulse/medicine"
	"github.com/pthm-cable/pulse/stage"
)

// Engine wraps a single gopher-lua VM holding one loaded content pack.
// Single-goroutine access only: treatment hooks call back into the VM
// during the owning character's tick.
type Engine struct {
	vm *lua.LState

	diseases map[string]disease.Definition
	injuries map[string]injury.Definition
	agents   []medicine.Agent
	items    map[string]inventory.Item

	diseaseOrder []string
	injuryOrder  []string
	itemOrder    []string
}

// NewEngine starts a Lua VM, installs the registration globals and runs
// every .lua file in dir in name order.
func NewEngine(dir string) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:       vm,
		diseases: make(map[string]disease.Definition),
		injuries: make(map[string]injury.Definition),
		items:    make(map[string]inventory.Item),
	}
	vm.SetGlobal("register_disease", vm.NewFunction(e.registerDisease))
	vm.SetGlobal("register_injury", vm.NewFunction(e.registerInjury))
	vm.SetGlobal("register_agent", vm.NewFunction(e.registerAgent))
	vm.SetGlobal("register_item", vm.NewFunction(e.registerItem))

	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, err
	}
	return e, nil
}

// Close releases the VM. Definitions handed out earlier keep their
// treatment hooks, so Close only after the owning characters are done.
func (e *Engine) Close() { e.vm.Close() }

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("scripting: load %s: %w", path, err)
		}
		slog.Debug("loaded lua script", "file", path)
	}
	return nil
}

// Disease looks a registered disease up by name.
func (e *Engine) Disease(name string) (disease.Definition, bool) {
	def, ok := e.diseases[name]
	return def, ok
}

// Diseases returns the registered diseases in registration order.
func (e *Engine) Diseases() []disease.Definition {
	out := make([]disease.Definition, 0, len(e.diseaseOrder))
	for _, name := range e.diseaseOrder {
		out = append(out, e.diseases[name])
	}
	return out
}

// Injury looks a registered injury up by name.
func (e *Engine) Injury(name string) (injury.Definition, bool) {
	def, ok := e.injuries[name]
	return def, ok
}

// Injuries returns the registered injuries in registration order.
func (e *Engine) Injuries() []injury.Definition {
	out := make([]injury.Definition, 0, len(e.injuryOrder))
	for _, name := range e.injuryOrder {
		out = append(out, e.injuries[name])
	}
	return out
}

// Agents returns the registered medical agents in registration order.
func (e *Engine) Agents() []medicine.Agent {
	return append([]medicine.Agent(nil), e.agents...)
}

// Item looks a registered item template up by name.
func (e *Engine) Item(name string) (inventory.Item, bool) {
	it, ok := e.items[name]
	return it, ok
}

// Items returns the registered item templates in registration order.
func (e *Engine) Items() []inventory.Item {
	out := make([]inventory.Item, 0, len(e.itemOrder))
	for _, name := range e.itemOrder {
		out = append(out, e.items[name])
	}
	return out
}

func (e *Engine) registerDisease(L *lua.LState) int {
	t := L.CheckTable(1)
	def, err := e.parseDisease(t)
	if err != nil {
		L.RaiseError("register_disease: %v", err)
		return 0
	}
	if _, dup := e.diseases[def.Name()]; dup {
		L.RaiseError("register_disease: %s registered twice", def.Name())
		return 0
	}
	e.diseases[def.Name()] = def
	e.diseaseOrder = append(e.diseaseOrder, def.Name())
	return 0
}

func (e *Engine) registerInjury(L *lua.LState) int {
	t := L.CheckTable(1)
	def, err := e.parseInjury(t)
	if err != nil {
		L.RaiseError("register_injury: %v", err)
		return 0
	}
	if _, dup := e.injuries[def.Name()]; dup {
		L.RaiseError("register_injury: %s registered twice", def.Name())
		return 0
	}
	e.injuries[def.Name()] = def
	e.injuryOrder = append(e.injuryOrder, def.Name())
	return 0
}

func (e *Engine) registerAgent(L *lua.LState) int {
	t := L.CheckTable(1)
	agent, err := parseAgent(t)
	if err != nil {
		L.RaiseError("register_agent: %v", err)
		return 0
	}
	for _, a := range e.agents {
		if a.Name == agent.Name {
			L.RaiseError("register_agent: %s registered twice", agent.Name)
			return 0
		}
	}
	e.agents = append(e.agents, agent)
	return 0
}

func (e *Engine) registerItem(L *lua.LState) int {
	t := L.CheckTable(1)
	it, err := parseItem(t)
	if err != nil {
		L.RaiseError("register_item: %v", err)
		return 0
	}
	if _, dup := e.items[it.Name]; dup {
		L.RaiseError("register_item: %s registered twice", it.Name)
		return 0
	}
	e.items[it.Name] = it
	e.itemOrder = append(e.itemOrder, it.Name)
	return 0
}

func (e *Engine) parseDisease(t *lua.LTable) (disease.Definition, error) {
	name := tableString(t, "name")
	if name == "" {
		return nil, errors.New("missing name")
	}
	stages, ok := tableTable(t, "stages")
	if !ok {
		return nil, fmt.Errorf("%s: missing stages", name)
	}
	descs := make([]disease.StageDescriptor, 0, stages.Len())
	for i := 1; i <= stages.Len(); i++ {
		st, ok := stages.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%s: stage %d is not a table", name, i)
		}
		desc, err := parseDiseaseStage(st)
		if err != nil {
			return nil, fmt.Errorf("%s: stage %d: %w", name, i, err)
		}
		descs = append(descs, desc)
	}
	if len(descs) == 0 {
		return nil, fmt.Errorf("%s: no stages", name)
	}

	var tr disease.Treatment
	if ht, ok := tableTable(t, "treatment"); ok {
		tr = &diseaseTreatment{hooks: e.parseHooks(ht)}
	}
	return disease.NewDefinition(name, descs, tr), nil
}

func (e *Engine) parseInjury(t *lua.LTable) (injury.Definition, error) {
	name := tableString(t, "name")
	if name == "" {
		return nil, errors.New("missing name")
	}
	stages, ok := tableTable(t, "stages")
	if !ok {
		return nil, fmt.Errorf("%s: missing stages", name)
	}
	descs := make([]injury.StageDescriptor, 0, stages.Len())
	for i := 1; i <= stages.Len(); i++ {
		st, ok := stages.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%s: stage %d is not a table", name, i)
		}
		desc, err := parseInjuryStage(st)
		if err != nil {
			return nil, fmt.Errorf("%s: stage %d: %w", name, i, err)
		}
		descs = append(descs, desc)
	}
	if len(descs) == 0 {
		return nil, fmt.Errorf("%s: no stages", name)
	}

	var tr injury.Treatment
	if ht, ok := tableTable(t, "treatment"); ok {
		tr = &injuryTreatment{hooks: e.parseHooks(ht)}
	}
	return injury.NewDefinition(name, descs, tr), nil
}

func parseDiseaseStage(t *lua.LTable) (disease.StageDescriptor, error) {
	levelName := tableString(t, "level")
	level, ok := stage.LevelFromString(levelName)
	if !ok {
		return disease.StageDescriptor{}, fmt.Errorf("unknown level %q", levelName)
	}
	return disease.StageDescriptor{
		Level:              level,
		SelfHealChance:     int(tableFloat(t, "self_heal_chance")),
		ChanceOfDeath:      int(tableFloat(t, "chance_of_death")),
		ReachesPeakInHours: tableFloat(t, "reaches_peak_in_hours"),
		Endless:            tableBool(t, "is_endless"),

		TargetBodyTemperature: tableFloat(t, "body_temperature"),
		TargetHeartRate:       tableFloat(t, "heart_rate"),
		TargetTopPressure:     tableFloat(t, "top_pressure"),
		TargetBottomPressure:  tableFloat(t, "bottom_pressure"),

		TargetFoodDrain:    tableFloat(t, "food_drain"),
		TargetWaterDrain:   tableFloat(t, "water_drain"),
		TargetStaminaDrain: tableFloat(t, "stamina_drain"),
		TargetOxygenDrain:  tableFloat(t, "oxygen_drain"),

		TargetFatigue: tableFloat(t, "fatigue"),
	}, nil
}

func parseInjuryStage(t *lua.LTable) (injury.StageDescriptor, error) {
	levelName := tableString(t, "level")
	level, ok := stage.LevelFromString(levelName)
	if !ok {
		return injury.StageDescriptor{}, fmt.Errorf("unknown level %q", levelName)
	}
	return injury.StageDescriptor{
		Level:              level,
		SelfHealChance:     int(tableFloat(t, "self_heal_chance")),
		ChanceOfDeath:      int(tableFloat(t, "chance_of_death")),
		ReachesPeakInHours: tableFloat(t, "reaches_peak_in_hours"),
		Endless:            tableBool(t, "is_endless"),

		TargetStaminaDrain: tableFloat(t, "stamina_drain"),
		TargetBloodDrain:   tableFloat(t, "blood_drain"),
	}, nil
}

func parseAgent(t *lua.LTable) (medicine.Agent, error) {
	name := tableString(t, "name")
	if name == "" {
		return medicine.Agent{}, errors.New("missing name")
	}
	curveName := tableString(t, "curve")
	curve, ok := medicine.CurveFromString(curveName)
	if !ok {
		return medicine.Agent{}, fmt.Errorf("%s: unknown curve %q", name, curveName)
	}
	duration := tableFloat(t, "duration_minutes")
	if duration <= 0 {
		return medicine.Agent{}, fmt.Errorf("%s: duration_minutes must be positive", name)
	}
	items, ok := tableTable(t, "items")
	if !ok || items.Len() == 0 {
		return medicine.Agent{}, fmt.Errorf("%s: missing items", name)
	}
	names := make([]string, 0, items.Len())
	for i := 1; i <= items.Len(); i++ {
		names = append(names, lua.LVAsString(items.RawGetInt(i)))
	}
	return medicine.Agent{
		Name:            name,
		Curve:           curve,
		DurationMinutes: duration,
		Items:           names,
	}, nil
}

func parseItem(t *lua.LTable) (inventory.Item, error) {
	name := tableString(t, "name")
	if name == "" {
		return inventory.Item{}, errors.New("missing name")
	}
	it := inventory.Item{
		Name:          name,
		Count:         int(tableFloat(t, "count")),
		WeightPerUnit: tableFloat(t, "weight_per_unit"),
		Infinite:      tableBool(t, "infinite"),
	}
	if it.Count <= 0 {
		it.Count = 1
	}
	if ct, ok := tableTable(t, "consumable"); ok {
		it.Consumable = &inventory.Consumable{
			IsFood:              tableBool(ct, "is_food"),
			IsWater:             tableBool(ct, "is_water"),
			FoodGain:            tableFloat(ct, "food_gain"),
			WaterGain:           tableFloat(ct, "water_gain"),
			FreshPoisonChance:   tableFloat(ct, "fresh_poison_chance"),
			SpoiledPoisonChance: tableFloat(ct, "spoiled_poison_chance"),
			SpoilTimeHours:      tableFloat(ct, "spoil_time_hours"),
		}
	}
	if at, ok := tableTable(t, "appliance"); ok {
		it.Appliance = &inventory.Appliance{
			BodyAppliance: tableBool(at, "body_appliance"),
			Injection:     tableBool(at, "injection"),
		}
	}
	if wt, ok := tableTable(t, "clothes"); ok {
		it.Clothes = &inventory.Clothes{
			ColdResistance:  tableFloat(wt, "cold_resistance"),
			WaterResistance: tableFloat(wt, "water_resistance"),
		}
	}
	return it, nil
}

func tableString(t *lua.LTable, key string) string {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return ""
	}
	return lua.LVAsString(v)
}

func tableFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

func tableBool(t *lua.LTable, key string) bool {
	return lua.LVAsBool(t.RawGetString(key))
}

func tableTable(t *lua.LTable, key string) (*lua.LTable, bool) {
	sub, ok := t.RawGetString(key).(*lua.LTable)
	return sub, ok
}
