package series

import "math"

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LinearScore maps a raw deviation onto [0,100] via a fixed calibrated
// range: deviation == -maxDev lands at 0, zero at 50, +maxDev at 100.
func LinearScore(deviation, maxDev float64) float64 {
	if maxDev <= 0 {
		return 50
	}
	return Clamp(50+(deviation/maxDev)*50, 0, 100)
}

// Logistic maps the (-inf, +inf) range onto (0, 1).
func Logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// FearTilt amplifies the distance below the neutral midpoint by the given
// multiplier so deteriorating signals move toward 0 faster than improving
// signals move toward 100. The multiplier is an explicit per-region
// calibration constant; scores at or above 50 pass through unchanged.
func FearTilt(score, multiplier float64) float64 {
	if multiplier <= 1 || score >= 50 {
		return Clamp(score, 0, 100)
	}
	return Clamp(50-(50-score)*multiplier, 0, 100)
}
