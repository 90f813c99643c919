package disease

import (
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/stage"
	"github.com/pthm-cable/pulse/vitals"
)

// segment is one linear piece of a vital's schedule bound to absolute
// game time.
type segment struct {
	start, end gametime.GameTime
	from, to   float64
	endless    bool
}

func (s segment) contains(t gametime.GameTime) bool {
	if t.Before(s.start) {
		return false
	}
	return s.endless || !t.After(s.end)
}

func (s segment) valueAt(t gametime.GameTime) float64 {
	if !t.After(s.start) {
		return s.from
	}
	if !s.endless && !t.Before(s.end) {
		return s.to
	}
	span := s.end.Sub(s.start)
	if span <= 0 {
		return s.to
	}
	p := float64(t.Sub(s.start)) / float64(span)
	if p > 1 {
		return s.to
	}
	return s.from + (s.to-s.from)*p
}

// track is the time-ordered schedule of one vital.
type track []segment

func (tr track) valueAt(t gametime.GameTime) float64 {
	if len(tr) == 0 {
		return 0
	}
	if t.Before(tr[0].start) {
		return tr[0].from
	}
	last := tr[0].from
	for _, s := range tr {
		if s.contains(t) {
			return s.valueAt(t)
		}
		if t.After(s.end) {
			last = s.to
		}
	}
	return last
}

// plan is the full lerp schedule of one disease, rebuilt lazily whenever
// the chain's shape or direction changes.
type plan struct {
	builtAt  gametime.GameTime
	inverted bool
	willEnd  bool
	end      gametime.GameTime

	bodyTemp, heartRate, topPressure, bottomPressure track
	foodDrain, waterDrain, staminaDrain, oxygenDrain track
	fatigue                                          track
}

// covers reports whether the plan can still answer queries at the
// instant for a chain in the given direction.
func (p *plan) covers(t gametime.GameTime, inverted bool) bool {
	if p == nil || p.inverted != inverted {
		return false
	}
	return !p.willEnd || !t.After(p.end)
}

func (p *plan) deltasAt(t gametime.GameTime) Deltas {
	return Deltas{
		BodyTemperature: p.bodyTemp.valueAt(t),
		HeartRate:       p.heartRate.valueAt(t),
		TopPressure:     p.topPressure.valueAt(t),
		BottomPressure:  p.bottomPressure.valueAt(t),
		FoodDrain:       p.foodDrain.valueAt(t),
		WaterDrain:      p.waterDrain.valueAt(t),
		StaminaDrain:    p.staminaDrain.valueAt(t),
		OxygenDrain:     p.oxygenDrain.valueAt(t),
		Fatigue:         p.fatigue.valueAt(t),
	}
}

// target extracts one vital's delta target from a stage descriptor. ok is
// false when the stage leaves the vital untouched.
type target func(d StageDescriptor) (float64, bool)

func planTargets() []target {
	healthy := vitals.Healthy()
	abs := func(get func(StageDescriptor) float64, base float64) target {
		return func(d StageDescriptor) (float64, bool) {
			v := get(d)
			if v == 0 {
				return 0, false
			}
			return v - base, true
		}
	}
	rate := func(get func(StageDescriptor) float64) target {
		return func(d StageDescriptor) (float64, bool) {
			v := get(d)
			return v, v != 0
		}
	}
	return []target{
		abs(func(d StageDescriptor) float64 { return d.TargetBodyTemperature }, healthy.BodyTemperature),
		abs(func(d StageDescriptor) float64 { return d.TargetHeartRate }, healthy.HeartRate),
		abs(func(d StageDescriptor) float64 { return d.TargetTopPressure }, healthy.TopPressure),
		abs(func(d StageDescriptor) float64 { return d.TargetBottomPressure }, healthy.BottomPressure),
		rate(func(d StageDescriptor) float64 { return d.TargetFoodDrain }),
		rate(func(d StageDescriptor) float64 { return d.TargetWaterDrain }),
		rate(func(d StageDescriptor) float64 { return d.TargetStaminaDrain }),
		rate(func(d StageDescriptor) float64 { return d.TargetOxygenDrain }),
		rate(func(d StageDescriptor) float64 { return d.TargetFatigue }),
	}
}

// peakValues resolves the delta each chain position holds at full
// severity, inheriting from the previous stage where a target is unset.
func peakValues(descs []StageDescriptor, tgt target) []float64 {
	vals := make([]float64, len(descs))
	prev := 0.0
	for i, d := range descs {
		if v, ok := tgt(d); ok {
			prev = v
		}
		vals[i] = prev
	}
	return vals
}

// buildPlan lays out the schedule from `now` onward. The stage containing
// `now` is trimmed to start at it; its start value is the delta emitted at
// this very instant when one exists, otherwise the nominal value there, so
// the composed vitals stay continuous across rebuilds and inversions.
func buildPlan(descs []StageDescriptor, chain *stage.Chain, now gametime.GameTime, last Deltas, lastValid bool) *plan {
	inverted := chain.Inverted()
	p := &plan{builtAt: now, inverted: inverted}
	if end, ok := chain.End(); ok {
		p.willEnd = true
		p.end = end
	}

	// positions of upcoming stages in time order; -1 marks the healthy tail
	idxByLevel := make(map[stage.Level]int, len(descs))
	for i, d := range descs {
		idxByLevel[d.Level] = i
	}
	type point struct {
		tm  stage.Timing
		idx int
	}
	var points []point
	for _, tm := range chain.TimeOrdered() {
		if !tm.Endless && tm.Peak.Before(now) {
			continue
		}
		idx := -1
		if tm.Level != stage.LevelHealthy {
			idx = idxByLevel[tm.Level]
		}
		points = append(points, point{tm: tm, idx: idx})
	}

	targets := planTargets()
	lastVals := []float64{
		last.BodyTemperature, last.HeartRate, last.TopPressure, last.BottomPressure,
		last.FoodDrain, last.WaterDrain, last.StaminaDrain, last.OxygenDrain,
		last.Fatigue,
	}
	tracks := []*track{
		&p.bodyTemp, &p.heartRate, &p.topPressure, &p.bottomPressure,
		&p.foodDrain, &p.waterDrain, &p.staminaDrain, &p.oxygenDrain,
		&p.fatigue,
	}

	for ti, tgt := range targets {
		peaks := peakValues(descs, tgt)
		at := func(idx int) float64 {
			if idx < 0 {
				return 0
			}
			return peaks[idx]
		}
		var tr track
		for pi, pt := range points {
			var from, to float64
			if inverted {
				from, to = at(pt.idx), at(pt.idx-1)
			} else {
				from, to = at(pt.idx-1), at(pt.idx)
			}
			start, end := pt.tm.Start, pt.tm.Peak
			if pi == 0 && pt.tm.Contains(now) && now.After(start) {
				nominal := from + (to-from)*pt.tm.PercentAt(now)/100
				if lastValid {
					nominal = lastVals[ti]
				}
				start, from = now, nominal
			}
			tr = append(tr, segment{start: start, end: end, from: from, to: to, endless: pt.tm.Endless})
		}
		*tracks[ti] = tr
	}
	return p
}
