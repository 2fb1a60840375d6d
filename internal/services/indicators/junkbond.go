package indicators

import (
	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/services/series"
)

// JunkBond proxies credit risk appetite through the return differential of
// high-yield versus investment-grade bond ETFs over the configured window.
// High yield outperforming means spreads are tightening and investors are
// reaching for risk; underperforming means spreads are widening into fear.
func JunkBond(highYield, investGrade models.Series, cal Calibration) (models.IndicatorResult, error) {
	hyRet, err := windowReturn(highYield, cal.ReturnWindow)
	if err != nil {
		return models.IndicatorResult{}, err
	}
	igRet, err := windowReturn(investGrade, cal.ReturnWindow)
	if err != nil {
		return models.IndicatorResult{}, err
	}

	raw := (hyRet - igRet) * 100.0
	score := series.LinearScore(raw, junkSpreadScale)
	score = series.FearTilt(score, cal.FearMultiplier)

	return models.IndicatorResult{
		Name:      models.IndicatorJunkBond,
		Raw:       raw,
		Score:     score,
		Available: true,
	}, nil
}
