// Package medicine models dose-based medical agents: named substances
// whose activity in the body follows a fitted curve over each dose's
// lifetime.
package medicine

import (
	"gonum.org/v1/gonum/interp"
)

// CurveKind selects the activation profile a dose follows from intake to
// wear-off.
type CurveKind uint8

const (
	// CurveImmediately spikes early and holds: full activity from a
	// quarter of the way in until near the end.
	CurveImmediately CurveKind = iota
	// CurveMostActiveInSecondHalf stays low for the first half and
	// peaks in the second.
	CurveMostActiveInSecondHalf
	// CurveLinearly ramps to full activity at the midpoint and back.
	CurveLinearly
)

var curveNames = map[CurveKind]string{
	CurveImmediately:            "immediately",
	CurveMostActiveInSecondHalf: "most_active_in_second_half",
	CurveLinearly:               "linearly",
}

func (k CurveKind) String() string {
	if n, ok := curveNames[k]; ok {
		return n
	}
	return "immediately"
}

// CurveFromString resolves a curve kind by name.
func CurveFromString(name string) (CurveKind, bool) {
	for k, n := range curveNames {
		if n == name {
			return k, true
		}
	}
	return CurveImmediately, false
}

func (k CurveKind) keyframes() (xs, ys []float64) {
	switch k {
	case CurveMostActiveInSecondHalf:
		return []float64{0, 0.3, 0.5, 0.65, 0.9, 1}, []float64{0, 15, 15, 100, 100, 0}
	case CurveLinearly:
		return []float64{0, 0.5, 1}, []float64{0, 100, 0}
	default:
		return []float64{0, 0.25, 0.85, 1}, []float64{0, 100, 100, 0}
	}
}

var fittedCurves map[CurveKind]interp.PiecewiseLinear

func init() {
	fittedCurves = make(map[CurveKind]interp.PiecewiseLinear, 3)
	for k := range curveNames {
		var pl interp.PiecewiseLinear
		xs, ys := k.keyframes()
		if err := pl.Fit(xs, ys); err != nil {
			panic(err)
		}
		fittedCurves[k] = pl
	}
}

// Activity evaluates the curve at a dose progress in 0..1. Inputs outside
// that range clamp to the nearest keyframe.
func (k CurveKind) Activity(progress float64) float64 {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return fittedCurves[k].Predict(progress)
}
