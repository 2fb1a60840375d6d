package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/pkg/config"
	"SentiGauge/pkg/logger"
)

type fakeSource struct {
	mu     sync.Mutex
	calls  int
	fail   map[string]error
	series map[string][]float64
}

func (f *fakeSource) FetchSeries(ctx context.Context, ticker string, field models.Field, from, to time.Time) (models.Series, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err, ok := f.fail[ticker]; ok {
		return models.Series{}, err
	}
	values, ok := f.series[ticker+"|"+string(field)]
	if !ok {
		values, ok = f.series[ticker]
	}
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

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type spyMetrics struct {
	mu          sync.Mutex
	cacheHits   int
	unavailable int
}

func (m *spyMetrics) RecordFetch(string, string)           {}
func (m *spyMetrics) RecordFetchLatency(float64)           {}
func (m *spyMetrics) RecordComposite(string, float64)      {}
func (m *spyMetrics) RecordComputeLatency(string, float64) {}
func (m *spyMetrics) RecordIndicator(_, _ string, available bool) {
	if !available {
		m.mu.Lock()
		m.unavailable++
		m.mu.Unlock()
	}
}
func (m *spyMetrics) RecordCache(outcome string) {
	if outcome == "hit" {
		m.mu.Lock()
		m.cacheHits++
		m.mu.Unlock()
	}
}

func flatValues(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func classicWeights() map[string]float64 {
	return map[string]float64{
		models.IndicatorMomentum:   1.0 / 6,
		models.IndicatorStrength:   1.0 / 6,
		models.IndicatorBreadth:    1.0 / 6,
		models.IndicatorVolatility: 1.0 / 6,
		models.IndicatorSafeHaven:  1.0 / 6,
		models.IndicatorJunkBond:   1.0 / 6,
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Index.LabelScheme = LabelSchemeStrict
	cfg.Index.MinIndicators = 4
	cfg.Cache.ScoreTTL = 0

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
	rc.Weights = classicWeights()

	cfg.Regions = map[string]config.RegionConfig{"us": rc}
	return cfg
}

func flatSource() *fakeSource {
	return &fakeSource{series: map[string][]float64{
		"^IDX": flatValues(300, 100),
		"^VOL": flatValues(300, 20),
		"GOV":  flatValues(300, 100),
		"HY":   flatValues(300, 100),
		"IG":   flatValues(300, 100),
		"AAA":  flatValues(300, 50),
		"BBB":  flatValues(300, 75),
	}}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func TestComputeRegionFlatInputsAreNeutral(t *testing.T) {
	uc := NewIndexUseCase(flatSource(), testConfig(), testLogger(t), &spyMetrics{})

	cs, err := uc.ComputeRegion(context.Background(), models.RegionUS)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, cs.Score, 1e-6)
	assert.Equal(t, models.LabelNeutral, cs.Label)
	require.Len(t, cs.Components, 6)
	for _, c := range cs.Components {
		assert.True(t, c.Available, c.Name)
	}
}

func TestComputeRegionRenormalizesOnMissingData(t *testing.T) {
	full := NewIndexUseCase(flatSource(), testConfig(), testLogger(t), &spyMetrics{})
	baseline, err := full.ComputeRegion(context.Background(), models.RegionUS)
	require.NoError(t, err)
	baseScores := map[string]float64{}
	for _, c := range baseline.Components {
		baseScores[c.Name] = c.Score
	}

	src := flatSource()
	src.fail = map[string]error{"^VOL": repository.ErrNoData}
	metrics := &spyMetrics{}
	uc := NewIndexUseCase(src, testConfig(), testLogger(t), metrics)

	cs, err := uc.ComputeRegion(context.Background(), models.RegionUS)
	require.NoError(t, err)
	// Five of six indicators remain, all neutral, so the renormalized
	// composite stays at the same level.
	assert.InDelta(t, 50.0, cs.Score, 1e-6)

	var vol models.IndicatorResult
	for _, c := range cs.Components {
		if c.Name == models.IndicatorVolatility {
			vol = c
			continue
		}
		// Dropping one input must not move any other indicator.
		assert.InDelta(t, baseScores[c.Name], c.Score, 1e-9, c.Name)
	}
	assert.False(t, vol.Available)
	assert.NotEmpty(t, vol.Reason)
	assert.Equal(t, 1, metrics.unavailable)
}

func TestComputeRegionRenormalizedAverage(t *testing.T) {
	// Two equally weighted indicators at 80 and 40 renormalize to 60.
	uc := NewIndexUseCase(flatSource(), testConfig(), testLogger(t), &spyMetrics{})
	uc.cfg.Index.MinIndicators = 2

	results := []models.IndicatorResult{
		{Name: models.IndicatorMomentum, Score: 80, Weight: 0.2, Available: true},
		{Name: models.IndicatorVolatility, Score: 40, Weight: 0.2, Available: true},
		models.Unavailable(models.IndicatorSafeHaven, 0.6, "no data"),
	}
	cal, _ := uc.cfg.Region("us")
	cs, err := uc.aggregate(models.RegionUS, cal, results)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, cs.Score, 1e-9)
}

func TestAggregateMonotonicInSingleIndicator(t *testing.T) {
	uc := NewIndexUseCase(flatSource(), testConfig(), testLogger(t), &spyMetrics{})
	uc.cfg.Index.MinIndicators = 2
	cal, _ := uc.cfg.Region("us")

	compose := func(momentum float64) float64 {
		results := []models.IndicatorResult{
			{Name: models.IndicatorMomentum, Score: momentum, Weight: 0.5, Available: true},
			{Name: models.IndicatorVolatility, Score: 50, Weight: 0.5, Available: true},
		}
		cs, err := uc.aggregate(models.RegionUS, cal, results)
		require.NoError(t, err)
		return cs.Score
	}

	prev := compose(0)
	for _, m := range []float64{20, 40, 60, 80, 100} {
		cur := compose(m)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}

func TestComputeRegionFailsClosed(t *testing.T) {
	src := flatSource()
	src.fail = map[string]error{
		"^IDX": repository.ErrNoData,
		"^VOL": repository.ErrNoData,
		"GOV":  repository.ErrNoData,
	}
	uc := NewIndexUseCase(src, testConfig(), testLogger(t), &spyMetrics{})

	_, err := uc.ComputeRegion(context.Background(), models.RegionUS)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrInsufficientIndicators))
}

func TestComputeRegionDeterministic(t *testing.T) {
	src := flatSource()
	src.fail = map[string]error{"HY": repository.ErrNoData}
	uc := NewIndexUseCase(src, testConfig(), testLogger(t), &spyMetrics{},
		WithClock(func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }))

	first, err := uc.ComputeRegion(context.Background(), models.RegionUS)
	require.NoError(t, err)
	second, err := uc.ComputeRegion(context.Background(), models.RegionUS)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeRegionUnknown(t *testing.T) {
	uc := NewIndexUseCase(flatSource(), testConfig(), testLogger(t), &spyMetrics{})
	_, err := uc.ComputeRegion(context.Background(), models.Region("mars"))
	assert.ErrorIs(t, err, repository.ErrUnknownRegion)
}

func TestRegionsSummary(t *testing.T) {
	uc := NewIndexUseCase(flatSource(), testConfig(), testLogger(t), &spyMetrics{})
	infos := uc.Regions()
	require.Len(t, infos, 1)
	info := infos[0]
	assert.Equal(t, models.RegionUS, info.Region)
	assert.Equal(t, "^IDX", info.IndexTicker)
	assert.Len(t, info.Indicators, len(classicWeights()))
	assert.IsNonDecreasing(t, info.Indicators)
}

func TestComputeRegionMemoizes(t *testing.T) {
	src := flatSource()
	cfg := testConfig()
	cfg.Cache.ScoreTTL = time.Minute
	metrics := &spyMetrics{}
	uc := NewIndexUseCase(src, cfg, testLogger(t), metrics)

	_, err := uc.ComputeRegion(context.Background(), models.RegionUS)
	require.NoError(t, err)
	fetched := src.callCount()

	_, err = uc.ComputeRegion(context.Background(), models.RegionUS)
	require.NoError(t, err)
	assert.Equal(t, fetched, src.callCount())
	assert.Equal(t, 1, metrics.cacheHits)
}

func TestComputeAllIsolatesRegionFailures(t *testing.T) {
	cfg := testConfig()
	bad := cfg.Regions["us"]
	bad.IndexTicker = "^DEAD"
	bad.Volatility.Ticker = "^DEAD"
	bad.Bonds.Government = "^DEAD"
	bad.Bonds.HighYield = "^DEAD"
	bad.Bonds.InvestmentGrade = "^DEAD"
	bad.SampleTickers = []string{"^DEAD"}
	cfg.Regions["eu"] = bad

	uc := NewIndexUseCase(flatSource(), cfg, testLogger(t), &spyMetrics{})
	res := uc.ComputeAll(context.Background())

	require.Contains(t, res.Scores, models.RegionUS)
	require.Contains(t, res.Errors, models.RegionEU)
	assert.NotContains(t, res.Scores, models.RegionEU)
}

func TestIndicatorsIncludeUnavailable(t *testing.T) {
	src := flatSource()
	src.fail = map[string]error{"HY": repository.ErrNoData}
	uc := NewIndexUseCase(src, testConfig(), testLogger(t), &spyMetrics{})

	components, err := uc.Indicators(context.Background(), models.RegionUS)
	require.NoError(t, err)
	require.Len(t, components, 6)

	names := make([]string, 0, len(components))
	for _, c := range components {
		names = append(names, c.Name)
	}
	assert.IsNonDecreasing(t, names)
}

func TestLabelForStrict(t *testing.T) {
	assert.Equal(t, models.LabelExtremeFear, LabelFor(24.999, LabelSchemeStrict))
	assert.Equal(t, models.LabelFear, LabelFor(25, LabelSchemeStrict))
	assert.Equal(t, models.LabelFear, LabelFor(44.999, LabelSchemeStrict))
	assert.Equal(t, models.LabelNeutral, LabelFor(45, LabelSchemeStrict))
	assert.Equal(t, models.LabelNeutral, LabelFor(55, LabelSchemeStrict))
	assert.Equal(t, models.LabelGreed, LabelFor(55.001, LabelSchemeStrict))
	assert.Equal(t, models.LabelGreed, LabelFor(75, LabelSchemeStrict))
	assert.Equal(t, models.LabelExtremeGreed, LabelFor(75.001, LabelSchemeStrict))
}

func TestLabelForInclusive(t *testing.T) {
	assert.Equal(t, models.LabelExtremeFear, LabelFor(25, LabelSchemeInclusive))
	assert.Equal(t, models.LabelFear, LabelFor(45, LabelSchemeInclusive))
	assert.Equal(t, models.LabelNeutral, LabelFor(55, LabelSchemeInclusive))
	assert.Equal(t, models.LabelGreed, LabelFor(75, LabelSchemeInclusive))
	assert.Equal(t, models.LabelExtremeGreed, LabelFor(75.001, LabelSchemeInclusive))
}

func TestLabelForUnknownSchemeFallsBack(t *testing.T) {
	assert.Equal(t, models.LabelFear, LabelFor(25, "bogus"))
}
