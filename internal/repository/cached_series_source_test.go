package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentiGauge/internal/domain/models"
	domrepo "SentiGauge/internal/domain/repository"
	"SentiGauge/pkg/cache"
	"SentiGauge/pkg/logger"
)

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) FetchSeries(ctx context.Context, ticker string, field models.Field, from, to time.Time) (models.Series, error) {
	s.calls++
	if s.err != nil {
		return models.Series{}, s.err
	}
	return models.Series{
		Ticker: ticker,
		Field:  field,
		Points: []models.Point{{Time: from, Value: 100}},
	}, nil
}

type noMetrics struct{}

func (noMetrics) RecordFetch(string, string)           {}
func (noMetrics) RecordFetchLatency(float64)           {}
func (noMetrics) RecordIndicator(string, string, bool) {}
func (noMetrics) RecordComposite(string, float64)      {}
func (noMetrics) RecordComputeLatency(string, float64) {}
func (noMetrics) RecordCache(string)                   {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func TestCachedSeriesSourceReadThrough(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedSeriesSource(src, cache.NewMemoryCache(), testLogger(t), noMetrics{}, time.Hour)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := cached.FetchSeries(context.Background(), "AAPL", models.FieldClose, from, to)
	require.NoError(t, err)
	require.Equal(t, 1, src.calls)

	second, err := cached.FetchSeries(context.Background(), "AAPL", models.FieldClose, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)
}

func TestCachedSeriesSourceKeysByField(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedSeriesSource(src, cache.NewMemoryCache(), testLogger(t), noMetrics{}, time.Hour)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := cached.FetchSeries(context.Background(), "AAPL", models.FieldClose, from, to)
	require.NoError(t, err)
	_, err = cached.FetchSeries(context.Background(), "AAPL", models.FieldVolume, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCachedSeriesSourceDoesNotCacheErrors(t *testing.T) {
	src := &countingSource{err: domrepo.ErrNoData}
	cached := NewCachedSeriesSource(src, cache.NewMemoryCache(), testLogger(t), noMetrics{}, time.Hour)

	from := time.Now().AddDate(0, -6, 0)
	to := time.Now()

	_, err := cached.FetchSeries(context.Background(), "NOPE", models.FieldClose, from, to)
	require.Error(t, err)
	_, err = cached.FetchSeries(context.Background(), "NOPE", models.FieldClose, from, to)
	require.Error(t, err)
	assert.Equal(t, 2, src.calls)
}
