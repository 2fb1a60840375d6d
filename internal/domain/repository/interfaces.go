package repository

import (
	"context"
	"time"

	"SentiGauge/internal/domain/models"
)

// SeriesSource provides historical market data. Implementations must return
// ascending-time series and must report ErrNoData when a ticker/field has no
// observations in the window; an empty series is never a silent success.
type SeriesSource interface {
	FetchSeries(ctx context.Context, ticker string, field models.Field, from, to time.Time) (models.Series, error)
}

// Metrics records operational measurements for the service.
type Metrics interface {
	RecordFetch(ticker string, status string)
	RecordFetchLatency(seconds float64)
	RecordIndicator(region, name string, available bool)
	RecordComposite(region string, score float64)
	RecordComputeLatency(region string, seconds float64)
	RecordCache(outcome string)
}
