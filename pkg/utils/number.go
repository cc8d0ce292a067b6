package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 || math.IsNaN(f) {
		return 0
	}

	return math.Round(f*100) / 100
}

// Clamp limita f ao intervalo [lower, upper]. NaN vira lower.
func Clamp(f, lower, upper float64) float64 {
	switch {
	case math.IsNaN(f), f < lower:
		return lower
	case f > upper:
		return upper
	default:
		return f
	}
}
