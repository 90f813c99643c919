package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeVitalStats(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	mean, p10, p50, p90 := ComputeVitalStats(values)

	// Mean should be 55
	if math.Abs(mean-55) > 0.001 {
		t.Errorf("mean = %v, want 55", mean)
	}

	// P10 should be around 19
	if math.Abs(p10-19) > 0.1 {
		t.Errorf("p10 = %v, want ~19", p10)
	}

	// P50 should be around 55
	if math.Abs(p50-55) > 0.1 {
		t.Errorf("p50 = %v, want ~55", p50)
	}

	// P90 should be around 91
	if math.Abs(p90-91) > 0.1 {
		t.Errorf("p90 = %v, want ~91", p90)
	}
}

func TestComputeVitalStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeVitalStats([]float64{})

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestMeanMax(t *testing.T) {
	mean, max := MeanMax([]float64{36.6, 38.2, 37.0})

	if math.Abs(mean-37.266666) > 0.001 {
		t.Errorf("mean = %v, want ~37.27", mean)
	}
	if max != 38.2 {
		t.Errorf("max = %v, want 38.2", max)
	}

	mean, max = MeanMax(nil)
	if mean != 0 || max != 0 {
		t.Error("empty slice should return zeros")
	}
}
