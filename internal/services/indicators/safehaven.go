package indicators

import (
	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/services/series"
)

// SafeHaven compares the benchmark index return with the government bond
// return over the configured window. Equities outperforming bonds is risk
// appetite, bonds outperforming equities is a flight to safety.
func SafeHaven(index, bond models.Series, cal Calibration) (models.IndicatorResult, error) {
	stockRet, err := windowReturn(index, cal.ReturnWindow)
	if err != nil {
		return models.IndicatorResult{}, err
	}
	bondRet, err := windowReturn(bond, cal.ReturnWindow)
	if err != nil {
		return models.IndicatorResult{}, err
	}

	// Differential in percentage points over the window.
	raw := (stockRet - bondRet) * 100.0
	score := series.LinearScore(raw, safeHavenScale)
	score = series.FearTilt(score, cal.FearMultiplier)

	return models.IndicatorResult{
		Name:      models.IndicatorSafeHaven,
		Raw:       raw,
		Score:     score,
		Available: true,
	}, nil
}

// windowReturn is the total return over the trailing window of a series,
// or a wrapped repository.ErrDataUnavailable when the lookback is short.
func windowReturn(s models.Series, window int) (float64, error) {
	closes := s.Values()
	if len(closes) < 2 {
		return 0, repository.Unavailablef("return window: %s has %d closes", s.Ticker, len(closes))
	}
	if len(closes) > window+1 {
		closes = closes[len(closes)-(window+1):]
	}
	return series.TotalReturn(closes), nil
}
