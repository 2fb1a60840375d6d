package indicators

import (
	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/services/series"
)

// MarketTrend scores the benchmark index against its long trend moving
// average: each percent above the average is worth five points of greed,
// saturating at ten percent either side.
func MarketTrend(index models.Series, cal Calibration) (models.IndicatorResult, error) {
	closes := index.Values()
	minPoints := cal.Trend.MADays / 2
	if minPoints < 2 {
		minPoints = 2
	}
	if len(closes) < minPoints {
		return models.IndicatorResult{}, repository.Unavailablef(
			"market trend: %s has %d closes, need %d", index.Ticker, len(closes), minPoints)
	}

	ma, ok := series.MovingAverage(closes, cal.Trend.MADays, minPoints)
	if !ok || ma <= 0 {
		return models.IndicatorResult{}, repository.Unavailablef(
			"market trend: no usable moving average for %s", index.Ticker)
	}

	deviation := (closes[len(closes)-1] - ma) / ma
	score := series.LinearScore(deviation, trendScale)
	score = series.FearTilt(score, cal.FearMultiplier)

	return models.IndicatorResult{
		Name:      models.IndicatorMarketTrend,
		Raw:       deviation,
		Score:     score,
		Available: true,
	}, nil
}
