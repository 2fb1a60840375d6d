package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	xhttp "SentiGauge/pkg/http"
	"SentiGauge/pkg/logger"
)

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

func newTestClient(t *testing.T, srv *httptest.Server, opts ...ClientOption) *Client {
	t.Helper()
	return NewClient(srv.URL, "test-key", xhttp.NewClient(), testLogger(t), noMetrics{}, opts...)
}

func TestFetchSeriesParsesBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"AAPL","bars":[
			{"date":"2025-06-03","close":101.5,"volume":2000},
			{"date":"2025-06-02","close":100.0,"volume":1000}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.FetchSeries(context.Background(), "AAPL", models.FieldClose,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	// Bars come back sorted by date even when the provider does not.
	assert.Equal(t, []float64{100.0, 101.5}, got.Values())
}

func TestFetchSeriesVolumeField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"AAPL","bars":[{"date":"2025-06-02","close":100.0,"volume":1234}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.FetchSeries(context.Background(), "AAPL", models.FieldVolume,
		time.Now().AddDate(0, 0, -5), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []float64{1234}, got.Values())
}

func TestFetchSeriesNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"NOPE","bars":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.FetchSeries(context.Background(), "NOPE", models.FieldClose,
		time.Now().AddDate(0, 0, -5), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNoData))
}

func TestFetchSeriesRetriesTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"symbol":"AAPL","bars":[{"date":"2025-06-02","close":100.0,"volume":1000}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, WithRetry(3, 10*time.Millisecond))
	got, err := c.FetchSeries(context.Background(), "AAPL", models.FieldClose,
		time.Now().AddDate(0, 0, -5), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchSeriesGivesUpAfterAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, WithRetry(2, time.Millisecond))
	_, err := c.FetchSeries(context.Background(), "AAPL", models.FieldClose,
		time.Now().AddDate(0, 0, -5), time.Now())
	require.Error(t, err)
	assert.False(t, errors.Is(err, repository.ErrNoData))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchSeriesContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, srv, WithRetry(3, time.Second))
	_, err := c.FetchSeries(ctx, "AAPL", models.FieldClose,
		time.Now().AddDate(0, 0, -5), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetchSeriesSkipsMalformedBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"AAPL","bars":[
			{"date":"not-a-date","close":1.0,"volume":1},
			{"date":"2025-06-02","close":100.0,"volume":1000}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.FetchSeries(context.Background(), "AAPL", models.FieldClose,
		time.Now().AddDate(0, 0, -5), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}
