// Package marketdata implements the HTTP series provider client.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"SentiGauge/internal/domain/models"
	"SentiGauge/internal/domain/repository"
	"SentiGauge/internal/service/ratelimit"
	xhttp "SentiGauge/pkg/http"
	"SentiGauge/pkg/logger"
)

const (
	dateLayout = "2006-01-02"

	// rateKey is the limiter bucket shared by all provider requests.
	rateKey = "provider"
)

// Client fetches daily bar series from the upstream market data provider.
// It implements repository.SeriesSource with bounded retries and a token
// bucket on outgoing requests.
type Client struct {
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
	metrics repository.Metrics

	baseURL  string
	apiKey   string
	attempts int
	backoff  time.Duration
	capacity float64
	refill   float64
}

type ClientOption func(*Client)

// WithRetry sets the attempt count and initial backoff for transient
// upstream failures.
func WithRetry(attempts int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// WithRateLimit sets the token bucket for outgoing requests.
func WithRateLimit(capacity, refillPerSec float64) ClientOption {
	return func(c *Client) {
		if capacity > 0 {
			c.capacity = capacity
		}
		if refillPerSec > 0 {
			c.refill = refillPerSec
		}
	}
}

func NewClient(baseURL, apiKey string, httpClient *xhttp.Client, log *logger.Logger, metrics repository.Metrics, opts ...ClientOption) *Client {
	c := &Client{
		http:     httpClient,
		limiter:  ratelimit.New(),
		log:      log,
		metrics:  metrics,
		baseURL:  baseURL,
		apiKey:   apiKey,
		attempts: 3,
		backoff:  2 * time.Second,
		capacity: 5,
		refill:   2,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// barsResponse is the provider's daily bar payload.
type barsResponse struct {
	Symbol string `json:"symbol"`
	Bars   []struct {
		Date   string  `json:"date"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"bars"`
}

// FetchSeries fetches the daily series for one ticker and field. A response
// with no bars maps to repository.ErrNoData; transient failures are retried
// with exponential backoff before giving up.
func (c *Client) FetchSeries(ctx context.Context, ticker string, field models.Field, from, to time.Time) (models.Series, error) {
	started := time.Now()
	resp, err := c.fetchBars(ctx, ticker, from, to)
	c.metrics.RecordFetchLatency(time.Since(started).Seconds())
	if err != nil {
		if errors.Is(err, repository.ErrNoData) {
			c.metrics.RecordFetch(ticker, "no_data")
		} else {
			c.metrics.RecordFetch(ticker, "error")
		}
		return models.Series{}, err
	}
	c.metrics.RecordFetch(ticker, "ok")

	points := make([]models.Point, 0, len(resp.Bars))
	for _, bar := range resp.Bars {
		ts, err := time.Parse(dateLayout, bar.Date)
		if err != nil {
			c.log.Debug("skipping malformed bar",
				logger.String("ticker", ticker), logger.String("date", bar.Date))
			continue
		}
		value := bar.Close
		if field == models.FieldVolume {
			value = bar.Volume
		}
		points = append(points, models.Point{Time: ts, Value: value})
	}
	if len(points) == 0 {
		return models.Series{}, fmt.Errorf("%s: %w", ticker, repository.ErrNoData)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	return models.Series{Ticker: ticker, Field: field, Points: points}, nil
}

func (c *Client) fetchBars(ctx context.Context, ticker string, from, to time.Time) (*barsResponse, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := c.limiter.Wait(ctx, rateKey, c.capacity, c.refill); err != nil {
			return nil, err
		}

		var resp barsResponse
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + "/v1/daily",
			Headers: map[string]string{
				"X-API-Key": c.apiKey,
			},
			QueryParams: map[string][]string{
				"symbol": {ticker},
				"from":   {from.Format(dateLayout)},
				"to":     {to.Format(dateLayout)},
			},
		}, &resp)
		if err == nil {
			if len(resp.Bars) == 0 {
				return nil, fmt.Errorf("%s: %w", ticker, repository.ErrNoData)
			}
			return &resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		c.log.Warn("provider fetch failed",
			logger.String("ticker", ticker),
			logger.Int("attempt", attempt),
			logger.Error(err),
		)
		if attempt < c.attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("fetch %s after %d attempts: %w", ticker, c.attempts, lastErr)
}
