package indicators

import (
	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/services/series"
)

// Volatility scores implied or realized volatility inverted: high volatility
// is fear, low volatility is greed.
//
// With a direct volatility index (cal.Volatility.Direct) the latest reading
// is ranked against its own trailing distribution, nothing else. Without one
// the calculator derives annualized realized volatility from the proxy's
// closes and blends an absolute score against the calibrated low/high band
// (60%) with an inverted percentile rank (40%), so a structurally calm proxy
// is not misread as greedy purely because today is its own calmest day.
func Volatility(vol models.Series, cal Calibration) (models.IndicatorResult, error) {
	if cal.Volatility.Direct {
		return volatilityDirect(vol, cal)
	}
	return volatilityProxy(vol, cal)
}

func volatilityDirect(vol models.Series, cal Calibration) (models.IndicatorResult, error) {
	values := vol.Values()
	if len(values) < cal.Volatility.Window {
		return models.IndicatorResult{}, repository.Unavailablef(
			"volatility: %s has %d readings, need %d", vol.Ticker, len(values), cal.Volatility.Window)
	}

	latest := values[len(values)-1]
	if spread(values) < 1e-12 {
		// A flat history carries no ranking signal.
		return models.IndicatorResult{Name: models.IndicatorVolatility, Raw: latest, Score: 50, Available: true}, nil
	}

	pct := series.PercentileRank(values, latest)
	score := series.FearTilt(series.Clamp((1.0-pct)*100.0, 0, 100), cal.FearMultiplier)

	return models.IndicatorResult{
		Name:      models.IndicatorVolatility,
		Raw:       latest,
		Score:     score,
		Available: true,
	}, nil
}

func volatilityProxy(proxy models.Series, cal Calibration) (models.IndicatorResult, error) {
	returns := series.SimpleReturns(proxy.Values())
	if len(returns) < cal.Volatility.Window+5 {
		return models.IndicatorResult{}, repository.Unavailablef(
			"volatility: %s has %d returns, need %d", proxy.Ticker, len(returns), cal.Volatility.Window+5)
	}

	rolling := series.RollingVolatility(returns, cal.Volatility.Window, series.TradingDaysPerYear)
	if len(rolling) == 0 {
		return models.IndicatorResult{}, repository.Unavailablef(
			"volatility: no rolling window for %s", proxy.Ticker)
	}
	latest := rolling[len(rolling)-1]
	if spread(rolling) < 1e-12 && latest < 1e-12 {
		return models.IndicatorResult{Name: models.IndicatorVolatility, Raw: latest, Score: 50, Available: true}, nil
	}

	pct := series.PercentileRank(rolling, latest)
	pctScore := (1.0 - pct) * 100.0
	absScore := absoluteVolScore(latest, cal.Volatility.LowAnnualized, cal.Volatility.HighAnnualized)

	score := absScore*0.6 + pctScore*0.4
	score = series.FearTilt(series.Clamp(score, 0, 100), cal.FearMultiplier)

	return models.IndicatorResult{
		Name:      models.IndicatorVolatility,
		Raw:       latest,
		Score:     score,
		Available: true,
	}, nil
}

// absoluteVolScore maps a volatility reading linearly onto [0,100] between
// the calibrated thresholds, 100 at or below low and 0 at or above high.
func absoluteVolScore(v, low, high float64) float64 {
	if high <= low {
		return 50
	}
	return series.Clamp(100.0-(v-low)/(high-low)*100.0, 0, 100)
}

func spread(values []float64) float64 {
	return series.Max(values) - series.Min(values)
}
