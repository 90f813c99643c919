package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/pthm-cable/pulse/body"
	"github.com/pthm-cable/pulse/disease"
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/injury"
	"github.com/pthm-cable/pulse/stage"
)

// hooks names the Lua functions a treatment routes to. An empty name
// means the treatment ignores that kind of stimulus.
type hooks struct {
	eng         *Engine
	onConsumed  string
	onAppliance string
}

func (e *Engine) parseHooks(t *lua.LTable) hooks {
	return hooks{
		eng:         e,
		onConsumed:  tableString(t, "on_consumed"),
		onAppliance: tableString(t, "on_appliance_taken"),
	}
}

// verdict is a hook's decision, decoded from the table it returns. A nil
// return means the stimulus did not apply.
type verdict struct {
	invert        bool
	invertBack    bool
	stopBloodLoss bool
}

func (h hooks) call(name string, ctx *lua.LTable) (verdict, error) {
	vm := h.eng.vm
	fn := vm.GetGlobal(name)
	if fn == lua.LNil {
		return verdict{}, fmt.Errorf("scripting: lua function %s not found", name)
	}
	if err := vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		return verdict{}, fmt.Errorf("scripting: %s: %w", name, err)
	}

	ret := vm.Get(-1)
	vm.Pop(1)
	if ret == lua.LNil {
		return verdict{}, nil
	}
	rt, ok := ret.(*lua.LTable)
	if !ok {
		return verdict{}, fmt.Errorf("scripting: %s returned %s, want table or nil", name, ret.Type())
	}
	return verdict{
		invert:        rt.RawGetString("invert") == lua.LTrue,
		invertBack:    rt.RawGetString("invert_back") == lua.LTrue,
		stopBloodLoss: rt.RawGetString("stop_blood_loss") == lua.LTrue,
	}, nil
}

// diseaseTreatment calls a content pack's hooks on behalf of one disease.
type diseaseTreatment struct {
	hooks
}

func (t *diseaseTreatment) OnConsumed(now gametime.GameTime, item string, d *disease.ActiveDisease) error {
	if t.onConsumed == "" {
		return nil
	}
	ctx := t.eng.vm.NewTable()
	ctx.RawSetString("item", lua.LString(item))
	diseaseFields(ctx, now, d)

	v, err := t.call(t.onConsumed, ctx)
	if err != nil {
		return err
	}
	return v.applyDisease(now, d)
}

func (t *diseaseTreatment) OnApplianceTaken(now gametime.GameTime, item string, part body.Part, d *disease.ActiveDisease) error {
	if t.onAppliance == "" {
		return nil
	}
	ctx := t.eng.vm.NewTable()
	ctx.RawSetString("item", lua.LString(item))
	ctx.RawSetString("part", lua.LString(part.String()))
	diseaseFields(ctx, now, d)

	v, err := t.call(t.onAppliance, ctx)
	if err != nil {
		return err
	}
	return v.applyDisease(now, d)
}

// injuryTreatment calls a content pack's hooks on behalf of one injury.
type injuryTreatment struct {
	hooks
}

func (t *injuryTreatment) OnConsumed(now gametime.GameTime, item string, in *injury.ActiveInjury) error {
	if t.onConsumed == "" {
		return nil
	}
	ctx := t.eng.vm.NewTable()
	ctx.RawSetString("item", lua.LString(item))
	injuryFields(ctx, now, in)

	v, err := t.call(t.onConsumed, ctx)
	if err != nil {
		return err
	}
	return v.applyInjury(now, in)
}

func (t *injuryTreatment) OnApplianceTaken(now gametime.GameTime, item string, part body.Part, in *injury.ActiveInjury) error {
	if t.onAppliance == "" {
		return nil
	}
	ctx := t.eng.vm.NewTable()
	ctx.RawSetString("item", lua.LString(item))
	ctx.RawSetString("part", lua.LString(part.String()))
	injuryFields(ctx, now, in)

	v, err := t.call(t.onAppliance, ctx)
	if err != nil {
		return err
	}
	return v.applyInjury(now, in)
}

func diseaseFields(ctx *lua.LTable, now gametime.GameTime, d *disease.ActiveDisease) {
	level := stage.LevelUndefined
	pct := 0.0
	if tm, p, ok := d.PercentAt(now); ok {
		level, pct = tm.Level, p
	}
	ctx.RawSetString("level", lua.LString(level.String()))
	ctx.RawSetString("percent", lua.LNumber(pct))
	ctx.RawSetString("healing", lua.LBool(d.IsHealing()))
}

func injuryFields(ctx *lua.LTable, now gametime.GameTime, in *injury.ActiveInjury) {
	level := stage.LevelUndefined
	pct := 0.0
	if tm, p, ok := in.PercentAt(now); ok {
		level, pct = tm.Level, p
	}
	ctx.RawSetString("injury_part", lua.LString(in.Part().String()))
	ctx.RawSetString("level", lua.LString(level.String()))
	ctx.RawSetString("percent", lua.LNumber(pct))
	ctx.RawSetString("healing", lua.LBool(in.IsHealing()))
	ctx.RawSetString("blood_stopped", lua.LBool(in.BloodLossStopped()))
}

func (v verdict) applyDisease(now gametime.GameTime, d *disease.ActiveDisease) error {
	if v.invert {
		return d.Invert(now)
	}
	if v.invertBack {
		return d.InvertBack(now)
	}
	return nil
}

func (v verdict) applyInjury(now gametime.GameTime, in *injury.ActiveInjury) error {
	if v.stopBloodLoss {
		in.StopBloodLoss(now)
	}
	if v.invert {
		return in.Invert(now)
	}
	if v.invertBack {
		return in.InvertBack(now)
	}
	return nil
}
