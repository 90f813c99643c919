package injury

import (
	"github.com/pthm-cable/pulse/gametime"
	"github.com/pthm-cable/pulse/stage"
)

// segment is one linear piece of a drain schedule.
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

// plan is the drain schedule of one injury.
type plan struct {
	builtAt  gametime.GameTime
	inverted bool
	willEnd  bool
	end      gametime.GameTime

	stamina track
	blood   track
}

func (p *plan) covers(t gametime.GameTime, inverted bool) bool {
	if p == nil || p.inverted != inverted {
		return false
	}
	return !p.willEnd || !t.After(p.end)
}

func (p *plan) drainsAt(t gametime.GameTime) Drains {
	return Drains{
		Stamina: p.stamina.valueAt(t),
		Blood:   p.blood.valueAt(t),
	}
}

func peakValues(descs []StageDescriptor, get func(StageDescriptor) float64) []float64 {
	vals := make([]float64, len(descs))
	prev := 0.0
	for i, d := range descs {
		if v := get(d); v != 0 {
			prev = v
		}
		vals[i] = prev
	}
	return vals
}

// buildPlan lays out the drain schedule from `now` onward, trimming the
// stage containing `now` so the rates stay continuous across rebuilds.
func buildPlan(descs []StageDescriptor, chain *stage.Chain, now gametime.GameTime, last Drains, lastValid bool) *plan {
	inverted := chain.Inverted()
	p := &plan{builtAt: now, inverted: inverted}
	if end, ok := chain.End(); ok {
		p.willEnd = true
		p.end = end
	}

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

	builds := []struct {
		tr      *track
		peaks   []float64
		lastVal float64
	}{
		{&p.stamina, peakValues(descs, func(d StageDescriptor) float64 { return d.TargetStaminaDrain }), last.Stamina},
		{&p.blood, peakValues(descs, func(d StageDescriptor) float64 { return d.TargetBloodDrain }), last.Blood},
	}
	for _, b := range builds {
		at := func(idx int) float64 {
			if idx < 0 {
				return 0
			}
			return b.peaks[idx]
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
					nominal = b.lastVal
				}
				start, from = now, nominal
			}
			tr = append(tr, segment{start: start, end: end, from: from, to: to, endless: pt.tm.Endless})
		}
		*b.tr = tr
	}
	return p
}
