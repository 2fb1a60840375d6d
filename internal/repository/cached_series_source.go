// Package repository provides data access decorators around the series
// source.
package repository

import (
	"context"
	"errors"
	"time"

	"SentiGauge/internal/domain/models"
	domrepo "SentiGauge/internal/domain/repository"
	"SentiGauge/pkg/cache"
	"SentiGauge/pkg/logger"
)

// CachedSeriesSource is a read-through cache in front of a SeriesSource.
// Hits skip the upstream entirely; misses fetch and populate. Cache failures
// degrade to the upstream, they never fail a fetch.
type CachedSeriesSource struct {
	next    domrepo.SeriesSource
	cache   cache.Service
	log     *logger.Logger
	metrics domrepo.Metrics
	ttl     time.Duration
}

func NewCachedSeriesSource(next domrepo.SeriesSource, svc cache.Service, log *logger.Logger, metrics domrepo.Metrics, ttl time.Duration) *CachedSeriesSource {
	return &CachedSeriesSource{
		next:    next,
		cache:   svc,
		log:     log,
		metrics: metrics,
		ttl:     ttl,
	}
}

func (s *CachedSeriesSource) FetchSeries(ctx context.Context, ticker string, field models.Field, from, to time.Time) (models.Series, error) {
	key := seriesKey(ticker, field, from, to)

	var cached models.Series
	err := s.cache.Get(ctx, key, &cached)
	if err == nil && cached.Len() > 0 {
		s.metrics.RecordCache("hit")
		return cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("series cache read failed",
			logger.String("key", key), logger.Error(err))
	}
	s.metrics.RecordCache("miss")

	series, err := s.next.FetchSeries(ctx, ticker, field, from, to)
	if err != nil {
		return models.Series{}, err
	}

	if err := s.cache.Set(ctx, key, series, s.ttl); err != nil {
		s.log.Warn("series cache write failed",
			logger.String("key", key), logger.Error(err))
	}
	return series, nil
}

// seriesKey buckets the window by day so repeated computations within a day
// share entries.
func seriesKey(ticker string, field models.Field, from, to time.Time) string {
	return cache.GenerateKeyWithParams("series",
		ticker, field, from.Format("2006-01-02"), to.Format("2006-01-02"))
}
