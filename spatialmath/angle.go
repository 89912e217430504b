package spatialmath

import "math"

const twoPi = 2 * math.Pi

// NormalizeAngle wraps angle into (-π, π]. The result is congruent to angle modulo 2π.
func NormalizeAngle(angle float64) float64 {
	wrapped := math.Mod(angle+math.Pi, twoPi)
	if wrapped < 0 {
		wrapped += twoPi
	}
	wrapped -= math.Pi
	if wrapped <= -math.Pi {
		return math.Pi
	}
	return wrapped
}

// NormalizeAngle2Pi wraps angle into [0, 2π).
func NormalizeAngle2Pi(angle float64) float64 {
	wrapped := math.Mod(angle, twoPi)
	if wrapped < 0 {
		wrapped += twoPi
	}
	// a tiny negative input rounds up to exactly 2π
	if wrapped >= twoPi {
		return 0
	}
	return wrapped
}

// ForwardAngleDelta returns how far heading has rotated counter-clockwise from start, wrapping
// once through 2π when the raw difference is negative. Clockwise motion therefore reads as a
// large positive delta.
func ForwardAngleDelta(start, heading float64) float64 {
	if heading >= start {
		return heading - start
	}
	return twoPi + heading - start
}
