// Package utils contains small numeric and byte helpers shared across packages.
package utils

// FloorDiv divides a by b rounding toward negative infinity, unlike Go's truncating division.
// b must not be zero.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// MapRange linearly rescales x from [inMin, inMax] to [outMin, outMax] in integer arithmetic.
// Values outside the input range are extrapolated with the same formula, not rejected.
func MapRange(x, inMin, inMax, outMin, outMax int) int {
	return FloorDiv((x-inMin)*(outMax-outMin), inMax-inMin) + outMin
}

// Clamp returns value bounded to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
