package indicators

import (
	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/services/series"
)

// RSIIndicator averages the Wilder RSI of the benchmark index and any
// constituents with enough history, then remaps the average onto the score
// range with a piecewise curve that compresses the technical oversold and
// overbought zones toward the extremes.
func RSIIndicator(index models.Series, constituents []Constituent, cal Calibration) (models.IndicatorResult, error) {
	var readings []float64

	if r, ok := series.RSI(index.Values(), cal.RSIPeriod); ok {
		readings = append(readings, r)
	}
	for _, c := range constituents {
		if r, ok := series.RSI(c.Close.Values(), cal.RSIPeriod); ok {
			readings = append(readings, r)
		}
	}

	if len(readings) == 0 {
		return models.IndicatorResult{}, repository.Unavailablef(
			"rsi: no series with %d+1 closes", cal.RSIPeriod)
	}

	avg := series.Mean(readings)
	score := series.FearTilt(mapRSI(avg), cal.FearMultiplier)

	return models.IndicatorResult{
		Name:      models.IndicatorRSI,
		Raw:       avg,
		Score:     score,
		Available: true,
	}, nil
}

// mapRSI converts an RSI reading onto the sentiment scale. The technical
// bands map as 0-30 to 0-25, 30-50 to 25-45, 50-70 to 55-75 and 70-100 to
// 75-100, so a move out of the neutral zone jumps past the mid band. An
// exact midpoint reading is pinned to neutral.
func mapRSI(rsi float64) float64 {
	rsi = series.Clamp(rsi, 0, 100)
	switch {
	case rsi == 50:
		return 50
	case rsi <= 30:
		return rsi * (25.0 / 30.0)
	case rsi < 50:
		return 25.0 + (rsi - 30.0)
	case rsi <= 70:
		return 55.0 + (rsi - 50.0)
	default:
		return 75.0 + (rsi-70.0)*(25.0/30.0)
	}
}
