package series

import "math"

// TradingDaysPerYear is the annualization base for daily bars.
const TradingDaysPerYear = 252

// SimpleReturns computes r_t = C_t/C_{t-1} - 1. It returns a slice of
// length len(values)-1, or nil if insufficient data.
func SimpleReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, values[i]/prev-1)
	}
	return out
}

// TotalReturn computes last/first - 1 over the whole slice, or 0 when the
// slice is too short or starts at zero.
func TotalReturn(values []float64) float64 {
	if len(values) < 2 || values[0] == 0 {
		return 0
	}
	return values[len(values)-1]/values[0] - 1
}

// MovingAverage returns the mean of the trailing window. It accepts a
// partial window down to minPeriods observations; ok is false below that.
func MovingAverage(values []float64, window, minPeriods int) (float64, bool) {
	if minPeriods <= 0 {
		minPeriods = window
	}
	n := len(values)
	if n < minPeriods || window <= 0 {
		return 0, false
	}
	if n > window {
		values = values[n-window:]
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// RealizedVolatility computes annualized realized volatility over the
// trailing window of returns using the given bars-per-year base.
func RealizedVolatility(returns []float64, window int, barsPerYear float64) float64 {
	if window <= 1 || len(returns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(returns) - window; i < len(returns); i++ {
		r := returns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance * barsPerYear)
}

// RollingVolatility computes the annualized realized volatility at every
// position where a full window is available. Used for percentile ranking a
// current reading against its own trailing distribution.
func RollingVolatility(returns []float64, window int, barsPerYear float64) []float64 {
	if window <= 1 || len(returns) < window {
		return nil
	}
	out := make([]float64, 0, len(returns)-window+1)
	for i := window; i <= len(returns); i++ {
		out = append(out, RealizedVolatility(returns[:i], window, barsPerYear))
	}
	return out
}

// PercentileRank returns the fraction of history strictly below value.
func PercentileRank(history []float64, value float64) float64 {
	if len(history) == 0 {
		return 0
	}
	below := 0
	for _, h := range history {
		if h < value {
			below++
		}
	}
	return float64(below) / float64(len(history))
}

// RSI computes the Wilder relative strength index over the given period.
// ok is false when fewer than period+1 values are supplied.
func RSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period+1 {
		return 0, false
	}
	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, true
		}
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// Max returns the largest value in the slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Min returns the smallest value in the slice.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
