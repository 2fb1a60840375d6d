package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/usecase"
	"SentiGauge/pkg/config"
	"SentiGauge/pkg/logger"
)

type stubSource struct {
	fail map[string]error
	data map[string][]float64
}

func (s *stubSource) FetchSeries(ctx context.Context, ticker string, field models.Field, from, to time.Time) (models.Series, error) {
	if err, ok := s.fail[ticker]; ok {
		return models.Series{}, err
	}
	values, ok := s.data[ticker]
	if !ok {
		return models.Series{}, repository.ErrNoData
	}
	points := make([]models.Point, 0, len(values))
	cur := from
	for _, v := range values {
		points = append(points, models.Point{Time: cur, Value: v})
		cur = cur.AddDate(0, 0, 1)
	}
	return models.Series{Ticker: ticker, Field: field, Points: points}, nil
}

type noMetrics struct{}

func (noMetrics) RecordFetch(string, string)           {}
func (noMetrics) RecordFetchLatency(float64)           {}
func (noMetrics) RecordIndicator(string, string, bool) {}
func (noMetrics) RecordComposite(string, float64)      {}
func (noMetrics) RecordComputeLatency(string, float64) {}
func (noMetrics) RecordCache(string)                   {}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func handlerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Index.LabelScheme = "strict"
	cfg.Index.MinIndicators = 4

	var rc config.RegionConfig
	rc.IndexTicker = "^IDX"
	rc.SampleTickers = []string{"AAA", "BBB"}
	rc.Momentum.MADays = 20
	rc.Momentum.MaxDeviation = 0.08
	rc.Momentum.VolWindow = 5
	rc.Volatility.Ticker = "^VOL"
	rc.Volatility.Direct = true
	rc.Volatility.Window = 10
	rc.Volatility.LowAnnualized = 0.15
	rc.Volatility.HighAnnualized = 0.30
	rc.Bonds.Government = "GOV"
	rc.Bonds.HighYield = "HY"
	rc.Bonds.InvestmentGrade = "IG"
	rc.Trend.MADays = 20
	rc.RSIPeriod = 14
	rc.HighLowLookback = 30
	rc.ReturnWindow = 5
	rc.FearMultiplier = 1.3
	rc.Weights = map[string]float64{
		models.IndicatorMomentum:   1.0 / 6,
		models.IndicatorStrength:   1.0 / 6,
		models.IndicatorBreadth:    1.0 / 6,
		models.IndicatorVolatility: 1.0 / 6,
		models.IndicatorSafeHaven:  1.0 / 6,
		models.IndicatorJunkBond:   1.0 / 6,
	}
	cfg.Regions = map[string]config.RegionConfig{"us": rc}
	return cfg
}

func newTestEcho(t *testing.T, src *stubSource) *echo.Echo {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	uc := usecase.NewIndexUseCase(src, handlerConfig(), log, noMetrics{})
	h := NewIndexHandler(log, uc)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func healthySource() *stubSource {
	return &stubSource{data: map[string][]float64{
		"^IDX": flat(300, 100),
		"^VOL": flat(300, 20),
		"GOV":  flat(300, 100),
		"HY":   flat(300, 100),
		"IG":   flat(300, 100),
		"AAA":  flat(300, 50),
		"BBB":  flat(300, 75),
	}}
}

func doRequest(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndexEndpoint(t *testing.T) {
	e := newTestEcho(t, healthySource())
	rec := doRequest(e, "/api/index?region=us")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status int                   `json:"status"`
		Data   models.CompositeScore `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, models.RegionUS, resp.Data.Region)
	assert.InDelta(t, 50.0, resp.Data.Score, 1e-6)
	assert.Equal(t, models.LabelNeutral, resp.Data.Label)
	assert.Len(t, resp.Data.Components, 6)
}

func TestIndexEndpointRequiresRegion(t *testing.T) {
	e := newTestEcho(t, healthySource())
	rec := doRequest(e, "/api/index")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestIndexEndpointRejectsUnknownRegion(t *testing.T) {
	e := newTestEcho(t, healthySource())
	rec := doRequest(e, "/api/index?region=mars")
	var resp struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestIndexEndpointInsufficientData(t *testing.T) {
	src := healthySource()
	src.fail = map[string]error{
		"^IDX": repository.ErrNoData,
		"^VOL": repository.ErrNoData,
		"GOV":  repository.ErrNoData,
	}
	e := newTestEcho(t, src)
	rec := doRequest(e, "/api/index?region=us")

	var resp struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
}

func TestIndexAllEndpoint(t *testing.T) {
	e := newTestEcho(t, healthySource())
	rec := doRequest(e, "/api/index/all")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.RegionScores `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Scores, models.RegionUS)
}

func TestIndicatorsEndpoint(t *testing.T) {
	e := newTestEcho(t, healthySource())
	rec := doRequest(e, "/api/indicators?region=us")

	var resp struct {
		Data struct {
			Rows  []models.IndicatorResult `json:"rows"`
			Total int64                    `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Rows, 6)
	assert.Equal(t, int64(6), resp.Data.Total)
}

func TestIndicatorsEndpointFiltersByName(t *testing.T) {
	e := newTestEcho(t, healthySource())
	rec := doRequest(e, "/api/indicators?region=us&name=momentum")

	var resp struct {
		Data struct {
			Rows []models.IndicatorResult `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, models.IndicatorMomentum, resp.Data.Rows[0].Name)
}

func TestIndicatorsEndpointRejectsUnknownName(t *testing.T) {
	e := newTestEcho(t, healthySource())
	rec := doRequest(e, "/api/indicators?region=us&name=bogus")

	var resp struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestRegionsEndpoint(t *testing.T) {
	e := newTestEcho(t, healthySource())
	rec := doRequest(e, "/api/regions")

	var resp struct {
		Data []models.RegionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, models.RegionUS, resp.Data[0].Region)
	assert.Equal(t, "^IDX", resp.Data[0].IndexTicker)
	assert.Len(t, resp.Data[0].Indicators, 6)
	assert.InDelta(t, 1.3, resp.Data[0].FearMultiplier, 1e-9)
}
