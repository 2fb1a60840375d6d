package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/service/cache"
	"SentiGauge/internal/services/indicators"
	"SentiGauge/pkg/config"
	"SentiGauge/pkg/logger"
	"SentiGauge/pkg/util"
)

// IndexUseCase computes regional fear and greed composites. Each region's
// indicator set is defined by the keys of its configured weights, so regions
// can run different component mixes without code changes.
type IndexUseCase struct {
	source  repository.SeriesSource
	cfg     *config.Config
	log     *logger.Logger
	metrics repository.Metrics
	scores  *cache.TTLCache
	timeout time.Duration
	now     func() time.Time
}

// Option configures an IndexUseCase.
type Option func(*IndexUseCase)

// WithTimeout bounds a single region computation.
func WithTimeout(d time.Duration) Option {
	return func(uc *IndexUseCase) { uc.timeout = d }
}

// WithClock overrides the time source. Tests use this to pin windows.
func WithClock(now func() time.Time) Option {
	return func(uc *IndexUseCase) { uc.now = now }
}

func NewIndexUseCase(source repository.SeriesSource, cfg *config.Config, log *logger.Logger, metrics repository.Metrics, opts ...Option) *IndexUseCase {
	uc := &IndexUseCase{
		source:  source,
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		scores:  cache.NewTTLCache(),
		timeout: 30 * time.Second,
		now:     time.Now,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// ComputeRegion produces the composite score for one region. Results are
// memoized for the configured score TTL so dashboard polling does not
// re-fetch upstream data.
func (uc *IndexUseCase) ComputeRegion(ctx context.Context, region models.Region) (models.CompositeScore, error) {
	cal, ok := uc.cfg.Region(string(region))
	if !ok {
		return models.CompositeScore{}, fmt.Errorf("region '%s': %w", region, repository.ErrUnknownRegion)
	}

	if uc.cfg.Cache.ScoreTTL > 0 {
		if v, ok := uc.scores.Get("score:" + string(region)); ok {
			if cs, ok := v.(models.CompositeScore); ok {
				uc.metrics.RecordCache("hit")
				return cs, nil
			}
		}
		uc.metrics.RecordCache("miss")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	started := uc.now()
	bag := uc.fetchInputs(ctx, cal)
	results := uc.runIndicators(region, cal, bag)
	cs, err := uc.aggregate(region, cal, results)
	uc.metrics.RecordComputeLatency(string(region), uc.now().Sub(started).Seconds())
	if err != nil {
		return models.CompositeScore{}, err
	}

	uc.metrics.RecordComposite(string(region), cs.Score)
	uc.log.Info("composite computed",
		logger.String("region", string(region)),
		logger.Float64("score", cs.Score),
		logger.String("label", string(cs.Label)),
		logger.Int("available", countAvailable(cs.Components)),
	)

	if uc.cfg.Cache.ScoreTTL > 0 {
		uc.scores.Set("score:"+string(region), cs, uc.cfg.Cache.ScoreTTL)
	}
	return cs, nil
}

// ComputeAll computes every configured region concurrently. A failed region
// lands in Errors; the others are unaffected.
func (uc *IndexUseCase) ComputeAll(ctx context.Context) models.RegionScores {
	res := models.RegionScores{
		Scores:     map[models.Region]models.CompositeScore{},
		Errors:     map[models.Region]string{},
		ComputedAt: uc.now().UTC(),
	}

	type item struct {
		region models.Region
		score  models.CompositeScore
		err    error
	}
	names := uc.cfg.RegionNames()
	ch := make(chan item, len(names))
	var wg sync.WaitGroup

	for _, name := range names {
		region := models.Region(name)
		wg.Add(1)
		go func() {
			defer wg.Done()
			cs, err := uc.ComputeRegion(ctx, region)
			ch <- item{region, cs, err}
		}()
	}
	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.region] = it.err.Error()
			continue
		}
		res.Scores[it.region] = it.score
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res
}

// Indicators returns the per-component results for one region, including
// unavailable components with their reasons.
func (uc *IndexUseCase) Indicators(ctx context.Context, region models.Region) ([]models.IndicatorResult, error) {
	cs, err := uc.ComputeRegion(ctx, region)
	if err != nil {
		return nil, err
	}
	return cs.Components, nil
}

// RegionNames lists the configured region identifiers.
func (uc *IndexUseCase) RegionNames() []string {
	return uc.cfg.RegionNames()
}

// Regions summarizes each configured region's calibration for the dashboard.
func (uc *IndexUseCase) Regions() []models.RegionInfo {
	names := uc.cfg.RegionNames()
	infos := make([]models.RegionInfo, 0, len(names))
	for _, name := range names {
		cal, ok := uc.cfg.Region(name)
		if !ok {
			continue
		}
		indicators := make([]string, 0, len(cal.Weights))
		for ind := range cal.Weights {
			indicators = append(indicators, ind)
		}
		sort.Strings(indicators)
		infos = append(infos, models.RegionInfo{
			Region:         models.Region(name),
			IndexTicker:    cal.IndexTicker,
			Indicators:     indicators,
			Weights:        cal.Weights,
			FearMultiplier: cal.FearMultiplier,
		})
	}
	return infos
}

// inputBag holds the fetched series for one region computation. A fetch
// failure leaves the zero Series and records the error so every dependent
// indicator reports the same reason.
type inputBag struct {
	index        models.Series
	vol          models.Series
	bondGov      models.Series
	bondHY       models.Series
	bondIG       models.Series
	constituents []indicators.Constituent
	errs         map[string]error
}

func (b *inputBag) fail(name string) error {
	if err, ok := b.errs[name]; ok {
		return err
	}
	return nil
}

func (uc *IndexUseCase) fetchInputs(ctx context.Context, cal config.RegionConfig) *inputBag {
	to := uc.now().UTC()
	from, to := util.AlignDays(to.AddDate(0, 0, -lookbackDays(cal)), to)
	bag := &inputBag{errs: map[string]error{}}

	fetch := func(ticker string, field models.Field) (models.Series, error) {
		s, err := uc.source.FetchSeries(ctx, ticker, field, from, to)
		if err != nil {
			return models.Series{Ticker: ticker, Field: field}, err
		}
		return s, nil
	}

	var err error
	if bag.index, err = fetch(cal.IndexTicker, models.FieldClose); err != nil {
		bag.errs["index"] = fmt.Errorf("fetch %s: %w", cal.IndexTicker, err)
	}
	if ticker := cal.Volatility.Ticker; ticker != "" {
		if bag.vol, err = fetch(ticker, models.FieldClose); err != nil {
			bag.errs["vol"] = fmt.Errorf("fetch %s: %w", ticker, err)
		}
	} else {
		// No dedicated volatility instrument; fall back to the index.
		bag.vol = bag.index
		if e, ok := bag.errs["index"]; ok {
			bag.errs["vol"] = e
		}
	}
	if ticker := cal.Bonds.Government; ticker != "" {
		if bag.bondGov, err = fetch(ticker, models.FieldClose); err != nil {
			bag.errs["bond_gov"] = fmt.Errorf("fetch %s: %w", ticker, err)
		}
	}
	if ticker := cal.Bonds.HighYield; ticker != "" {
		if bag.bondHY, err = fetch(ticker, models.FieldClose); err != nil {
			bag.errs["bond_hy"] = fmt.Errorf("fetch %s: %w", ticker, err)
		}
	}
	if ticker := cal.Bonds.InvestmentGrade; ticker != "" {
		if bag.bondIG, err = fetch(ticker, models.FieldClose); err != nil {
			bag.errs["bond_ig"] = fmt.Errorf("fetch %s: %w", ticker, err)
		}
	}

	for _, ticker := range cal.SampleTickers {
		closes, err := fetch(ticker, models.FieldClose)
		if err != nil {
			// A single missing constituent degrades the sample, it does
			// not fail the indicator.
			uc.log.Debug("constituent fetch failed",
				logger.String("ticker", ticker), logger.Error(err))
			continue
		}
		volumes, err := fetch(ticker, models.FieldVolume)
		if err != nil {
			volumes = models.Series{Ticker: ticker, Field: models.FieldVolume}
		}
		bag.constituents = append(bag.constituents, indicators.Constituent{
			Ticker: ticker,
			Close:  closes,
			Volume: volumes,
		})
	}
	return bag
}

// runIndicators executes the calculators named by the region's weight map.
func (uc *IndexUseCase) runIndicators(region models.Region, cal config.RegionConfig, bag *inputBag) []models.IndicatorResult {
	out := make([]models.IndicatorResult, 0, len(cal.Weights))

	run := func(name string) (models.IndicatorResult, error) {
		switch name {
		case models.IndicatorMomentum:
			if err := bag.fail("index"); err != nil {
				return models.IndicatorResult{}, err
			}
			return indicators.Momentum(bag.index, cal)
		case models.IndicatorStrength:
			return indicators.Strength(bag.constituents, cal)
		case models.IndicatorBreadth:
			return indicators.Breadth(bag.constituents, cal)
		case models.IndicatorVolatility:
			if err := bag.fail("vol"); err != nil {
				return models.IndicatorResult{}, err
			}
			return indicators.Volatility(bag.vol, cal)
		case models.IndicatorSafeHaven:
			if err := firstErr(bag.fail("index"), bag.fail("bond_gov")); err != nil {
				return models.IndicatorResult{}, err
			}
			return indicators.SafeHaven(bag.index, bag.bondGov, cal)
		case models.IndicatorJunkBond:
			if err := firstErr(bag.fail("bond_hy"), bag.fail("bond_ig")); err != nil {
				return models.IndicatorResult{}, err
			}
			return indicators.JunkBond(bag.bondHY, bag.bondIG, cal)
		case models.IndicatorRSI:
			if err := bag.fail("index"); err != nil {
				return models.IndicatorResult{}, err
			}
			return indicators.RSIIndicator(bag.index, bag.constituents, cal)
		case models.IndicatorMarketTrend:
			if err := bag.fail("index"); err != nil {
				return models.IndicatorResult{}, err
			}
			return indicators.MarketTrend(bag.index, cal)
		default:
			return models.IndicatorResult{}, fmt.Errorf("unknown indicator '%s'", name)
		}
	}

	for name, weight := range cal.Weights {
		res, err := run(name)
		if err != nil {
			uc.log.Warn("indicator unavailable",
				logger.String("region", string(region)),
				logger.String("indicator", name),
				logger.Error(err))
			uc.metrics.RecordIndicator(string(region), name, false)
			out = append(out, models.Unavailable(name, weight, err.Error()))
			continue
		}
		res.Weight = weight
		uc.metrics.RecordIndicator(string(region), name, true)
		out = append(out, res)
	}

	sortResults(out)
	return out
}

// aggregate renormalizes the configured weights over the available
// indicators and produces the labeled composite. It fails closed when too
// few indicators are available.
func (uc *IndexUseCase) aggregate(region models.Region, cal config.RegionConfig, results []models.IndicatorResult) (models.CompositeScore, error) {
	var weightSum, weighted float64
	available := 0
	for _, r := range results {
		if !r.Available {
			continue
		}
		available++
		weightSum += r.Weight
		weighted += r.Score * r.Weight
	}

	if available < uc.cfg.Index.MinIndicators || weightSum <= 0 {
		return models.CompositeScore{}, fmt.Errorf(
			"region %s: %d of %d indicators available, need %d: %w",
			region, available, len(results), uc.cfg.Index.MinIndicators,
			repository.ErrInsufficientIndicators)
	}

	score := weighted / weightSum
	return models.CompositeScore{
		Region:     region,
		Score:      score,
		Label:      LabelFor(score, uc.cfg.Index.LabelScheme),
		Components: results,
		ComputedAt: uc.now().UTC(),
	}, nil
}

// lookbackDays converts the longest trading-day requirement of the region's
// calculators to calendar days, with slack for holidays and weekends.
func lookbackDays(cal config.RegionConfig) int {
	need := 2 * indicatorHistoryDays
	for _, d := range []int{cal.Momentum.MADays, cal.Trend.MADays, cal.HighLowLookback, cal.Volatility.Window} {
		if d > need {
			need = d
		}
	}
	// Trading days to calendar days, plus a buffer for market closures.
	return need*7/5 + 15
}

// indicatorHistoryDays is the minimum trading-day history fetched even for
// short-window regions, so percentile ranks see a meaningful distribution.
const indicatorHistoryDays = 126

// sortResults orders components by name so responses are deterministic
// regardless of weight-map iteration order.
func sortResults(results []models.IndicatorResult) {
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func countAvailable(results []models.IndicatorResult) int {
	n := 0
	for _, r := range results {
		if r.Available {
			n++
		}
	}
	return n
}
