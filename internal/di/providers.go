package di

import (
	"fmt"
	"time"

	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/handler/api"
	internalrepo "SentiGauge/internal/repository"
	"SentiGauge/internal/service/marketdata"
	"SentiGauge/internal/usecase"
	"SentiGauge/pkg/cache"
	"SentiGauge/pkg/config"
	xhttp "SentiGauge/pkg/http"
	applogger "SentiGauge/pkg/logger"
	"SentiGauge/pkg/metrics"
	"SentiGauge/pkg/server"
)

// seriesCacheEntries bounds the in-process series cache. A handful of
// tickers per region keeps this small.
const seriesCacheEntries = 256

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheService creates the series cache. With Redis enabled it is a
// two-level memory/Redis cache, otherwise in-process memory only.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(seriesCacheEntries),
			cache.WithMemoryCleanup(time.Minute),
		), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix("sentigauge"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(seriesCacheEntries)), nil
}

// ProvideSeriesSource creates the provider client wrapped with the
// read-through series cache.
func ProvideSeriesSource(cfg *config.Config, log *applogger.Logger, m repository.Metrics, svc cache.Service) repository.SeriesSource {
	httpClient := xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout))
	client := marketdata.NewClient(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		httpClient,
		log,
		m,
		marketdata.WithRetry(cfg.Provider.RetryAttempts, cfg.Provider.RetryBackoff),
		marketdata.WithRateLimit(cfg.Provider.RateCapacity, cfg.Provider.RateRefill),
	)
	if cfg.Cache.SeriesTTL <= 0 {
		return client
	}
	return internalrepo.NewCachedSeriesSource(client, svc, log, m, cfg.Cache.SeriesTTL)
}

// ProvideIndexUseCase creates the composite index use case.
func ProvideIndexUseCase(source repository.SeriesSource, cfg *config.Config, log *applogger.Logger, m repository.Metrics) *usecase.IndexUseCase {
	return usecase.NewIndexUseCase(source, cfg, log, m)
}

// ProvideHandler creates the dashboard HTTP handler.
func ProvideHandler(log *applogger.Logger, uc *usecase.IndexUseCase) xhttp.Handler {
	return api.NewIndexHandler(log, uc)
}

// ProvideApp creates the application.
func ProvideApp(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler) *server.App {
	return server.New(cfg, log, handler)
}
