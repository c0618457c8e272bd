package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// MoveTowards steps current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// SignOr returns the sign of v, or fallback when v is zero.
func SignOr(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return Sign(v)
}

// Tick decrements a countdown timer, never below zero.
func Tick(timer, dt float64) float64 {
	timer -= dt
	if timer < 0 {
		return 0
	}
	return timer
}
