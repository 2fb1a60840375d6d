package indicators

import (
	"math"

	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/services/series"
)

// Strength measures how much of the sample trades near its lookback high
// versus near its lookback low, weighted by recent volume so that a heavily
// traded name dominates a thin one. The net reading is softened through tanh
// before the fear tilt, keeping a single crowded side from pinning the score.
func Strength(constituents []Constituent, cal Calibration) (models.IndicatorResult, error) {
	var highVolume, lowVolume, totalVolume float64
	valid := 0

	for _, c := range constituents {
		closes := c.Close.Values()
		if len(closes) < cal.HighLowLookback/4 || len(closes) < 2 {
			continue
		}
		window := closes
		if len(window) > cal.HighLowLookback {
			window = window[len(window)-cal.HighLowLookback:]
		}
		high := series.Max(window)
		low := series.Min(window)
		current := closes[len(closes)-1]
		if high <= 0 {
			continue
		}

		volume := 1.0
		if vols := c.Volume.Values(); len(vols) > 0 {
			if v := series.Mean(vols[maxInt(0, len(vols)-5):]); v > 0 {
				volume = v
			}
		}

		valid++
		totalVolume += volume

		// A degenerate range means the name is pinned at both extremes at
		// once; it contributes to the denominator only.
		if (high-low)/high < 1e-9 {
			continue
		}
		if current >= high*nearHighThreshold {
			highVolume += volume
		} else if current <= low*nearLowThreshold {
			lowVolume += volume
		}
	}

	if valid == 0 || totalVolume <= 0 {
		return models.IndicatorResult{}, repository.Unavailablef(
			"stock strength: no constituents with %d-day history", cal.HighLowLookback)
	}

	net := (highVolume - lowVolume) / totalVolume
	score := 50.0 + net*50.0
	score = 50.0 + math.Tanh((score-50.0)/50.0)*50.0
	score = series.FearTilt(series.Clamp(score, 0, 100), cal.FearMultiplier)

	return models.IndicatorResult{
		Name:      models.IndicatorStrength,
		Raw:       net,
		Score:     score,
		Available: true,
	}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
