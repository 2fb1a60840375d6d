package models

import "time"

// Label is the five-bucket sentiment classification of a composite score.
type Label string

const (
	LabelExtremeFear  Label = "Extreme Fear"
	LabelFear         Label = "Fear"
	LabelNeutral      Label = "Neutral"
	LabelGreed        Label = "Greed"
	LabelExtremeGreed Label = "Extreme Greed"
)

// Indicator names shared by calculators, configuration, and the API.
const (
	IndicatorMomentum    = "momentum"
	IndicatorStrength    = "stock_strength"
	IndicatorBreadth     = "stock_breadth"
	IndicatorVolatility  = "volatility"
	IndicatorSafeHaven   = "safe_haven"
	IndicatorJunkBond    = "junk_bond"
	IndicatorRSI         = "rsi"
	IndicatorMarketTrend = "market_trend"
)

// IndicatorResult is the output of one calculator. Unavailability is a
// first-class state: an unavailable result carries a reason and contributes
// zero weight, it is never substituted with a neutral score.
type IndicatorResult struct {
	Name      string  `json:"name"`
	Raw       float64 `json:"raw"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
}

// Unavailable builds an unavailable result for an indicator.
func Unavailable(name string, weight float64, reason string) IndicatorResult {
	return IndicatorResult{Name: name, Weight: weight, Available: false, Reason: reason}
}

// CompositeScore is the weighted aggregate of a region's indicator results.
// It is derived state, recomputed on every invocation.
type CompositeScore struct {
	Region     Region            `json:"region"`
	Score      float64           `json:"score"`
	Label      Label             `json:"label"`
	Components []IndicatorResult `json:"components"`
	ComputedAt time.Time         `json:"computed_at"`
}

// RegionInfo summarizes one region's configuration for the dashboard.
type RegionInfo struct {
	Region         Region             `json:"region"`
	IndexTicker    string             `json:"index_ticker"`
	Indicators     []string           `json:"indicators"`
	Weights        map[string]float64 `json:"weights"`
	FearMultiplier float64            `json:"fear_multiplier"`
}

// RegionScores is the all-regions view served to the dashboard. Regions are
// computed independently; a failed region lands in Errors without affecting
// the others.
type RegionScores struct {
	Scores     map[Region]CompositeScore `json:"scores"`
	Errors     map[Region]string         `json:"errors,omitempty"`
	ComputedAt time.Time                 `json:"computed_at"`
}
