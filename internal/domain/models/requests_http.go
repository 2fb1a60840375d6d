package models

// Requests for the dashboard HTTP endpoints. Defined in domain for
// consistency and reuse.

type IndexRequest struct {
	Region string `query:"region" json:"region" validate:"required,oneof=us eu cn"`
}

type IndicatorsRequest struct {
	Region string `query:"region" json:"region" validate:"required,oneof=us eu cn"`
	Name   string `query:"name" json:"name" validate:"omitempty,oneof=momentum stock_strength stock_breadth volatility safe_haven junk_bond rsi market_trend"`
}
