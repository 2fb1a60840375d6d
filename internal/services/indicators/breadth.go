package indicators

import (
	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/services/series"
)

// Breadth scores market participation: the volume-weighted balance of
// advancing versus declining constituents over the return window. A broad
// sell-off that is still accelerating gets its declining side amplified
// before the final sigmoid, and the score is kept inside [5,95] so breadth
// alone never reads as a hard extreme.
func Breadth(constituents []Constituent, cal Calibration) (models.IndicatorResult, error) {
	var advVolume, decVolume, totalVolume float64
	var changes []float64
	valid := 0

	for _, c := range constituents {
		closes := c.Close.Values()
		if len(closes) < cal.ReturnWindow+1 {
			continue
		}
		window := closes[len(closes)-(cal.ReturnWindow+1):]
		change := series.TotalReturn(window)

		volume := 1.0
		if vols := c.Volume.Values(); len(vols) > 0 {
			if v := series.Mean(vols[maxInt(0, len(vols)-5):]); v > 0 {
				volume = v
			}
		}

		valid++
		totalVolume += volume
		changes = append(changes, change)

		if change > minPriceChange {
			advVolume += volume
		} else if change < -minPriceChange {
			decVolume += volume
		}
	}

	if valid == 0 || totalVolume <= 0 {
		return models.IndicatorResult{}, repository.Unavailablef(
			"stock breadth: no constituents with %d-day history", cal.ReturnWindow)
	}

	net := (advVolume - decVolume) / totalVolume
	avgChange := series.Mean(changes)
	raw := net

	// Stress amplification: when the tape is broadly lower and still
	// falling on average, lean the reading further into fear.
	if net < breadthStressLevel && avgChange < 0 {
		net = -series.Clamp(-net*breadthStressMultiplier, 0, 1)
	}
	score := 50.0 + net*50.0
	if avgChange > 0.001 || avgChange < -0.001 {
		score += avgChange * 100.0
	}
	score = series.Logistic((score-50.0)/25.0) * 100.0
	score = series.FearTilt(score, cal.FearMultiplier)
	score = series.Clamp(score, breadthFloor, breadthCeil)

	return models.IndicatorResult{
		Name:      models.IndicatorBreadth,
		Raw:       raw,
		Score:     score,
		Available: true,
	}, nil
}
