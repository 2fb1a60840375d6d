package indicators

import (
	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/services/series"
)

// Momentum scores the benchmark index close against its long moving average.
// The deviation is scaled by recent realized volatility so that the same
// percentage move above trend reads as more extreme in a choppy market, then
// mapped linearly onto [0,100] around the calibrated maximum deviation.
func Momentum(index models.Series, cal Calibration) (models.IndicatorResult, error) {
	closes := index.Values()
	minPoints := cal.Momentum.MADays / 2
	if minPoints < 2 {
		minPoints = 2
	}
	if len(closes) < minPoints {
		return models.IndicatorResult{}, repository.Unavailablef(
			"momentum: %s has %d closes, need %d", index.Ticker, len(closes), minPoints)
	}

	ma, ok := series.MovingAverage(closes, cal.Momentum.MADays, minPoints)
	if !ok || ma <= 0 {
		return models.IndicatorResult{}, repository.Unavailablef(
			"momentum: no usable moving average for %s", index.Ticker)
	}

	last := closes[len(closes)-1]
	deviation := (last - ma) / ma

	// Scale the effective deviation band by trailing daily volatility. A
	// calm tape keeps the calibrated band, a volatile one tightens it so
	// the same deviation scores further from neutral.
	volAdj := 1.0
	returns := series.SimpleReturns(closes)
	if len(returns) >= cal.Momentum.VolWindow {
		window := returns[len(returns)-cal.Momentum.VolWindow:]
		dailyVol := series.RealizedVolatility(window, cal.Momentum.VolWindow, 1)
		volAdj = 1.0 / (1.0 + dailyVol*momentumVolImpact)
	}

	score := series.LinearScore(deviation, cal.Momentum.MaxDeviation*volAdj)
	score = series.FearTilt(score, cal.FearMultiplier)

	return models.IndicatorResult{
		Name:      models.IndicatorMomentum,
		Raw:       deviation,
		Score:     score,
		Available: true,
	}, nil
}
