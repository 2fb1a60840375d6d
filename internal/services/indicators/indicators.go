// Package indicators implements the sentiment indicator calculators.
//
// Every calculator is a pure function of its series inputs and the region
// calibration: no shared state, no dependency on another calculator's
// output. Each one returns a raw domain signal plus a normalized score in
// [0,100], or an error wrapping repository.ErrDataUnavailable when the
// required lookback is missing. Calculators never fabricate a neutral score
// for missing data.
package indicators

import (
	"SentiGauge/internal/domain/models"
	"SentiGauge/pkg/config"
)

// Constituent bundles the close and volume history of one sample ticker.
type Constituent struct {
	Ticker string
	Close  models.Series
	Volume models.Series
}

// Calibration is the per-region calculator configuration.
type Calibration = config.RegionConfig

// Normalization scale constants. These are fixed calibrated ranges, not
// values inferred from data.
const (
	// nearHighThreshold counts a stock as near its high when within 5%.
	nearHighThreshold = 0.95
	// nearLowThreshold counts a stock as near its low when within 5%.
	nearLowThreshold = 1.05

	// minPriceChange is the smallest move counted as advance/decline.
	minPriceChange = 0.0001
	// breadthStressLevel is the net reading below which stress amplification applies.
	breadthStressLevel = -0.25
	// breadthStressMultiplier amplifies the declining side during stress.
	breadthStressMultiplier = 1.25
	// breadthFloor and breadthCeil keep the breadth score off the hard extremes.
	breadthFloor = 5.0
	breadthCeil  = 95.0

	// safeHavenScale maps the equity-minus-bond return differential
	// (percentage points over the window) onto the full score range.
	safeHavenScale = 5.0
	// junkSpreadScale maps the HY-minus-IG return differential onto the
	// full score range. Credit spreads move tighter than equity/bond.
	junkSpreadScale = 2.0

	// momentumVolImpact scales how strongly realized volatility tightens
	// the momentum deviation band.
	momentumVolImpact = 1.5

	// trendScale is the ±deviation from the trend moving average mapped to
	// the full range (10% above MA scores 100).
	trendScale = 0.10
)
