package monitors

// lerp interpolates between a and b by t.
func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
