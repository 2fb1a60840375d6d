package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"SentiGauge/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Provider struct {
		BaseURL       string        `yaml:"base_url"`
		APIKey        string        `yaml:"api_key"`
		Timeout       time.Duration `yaml:"timeout"`
		RetryAttempts int           `yaml:"retry_attempts"`
		RetryBackoff  time.Duration `yaml:"retry_backoff"`
		RateCapacity  float64       `yaml:"rate_capacity"`
		RateRefill    float64       `yaml:"rate_refill_per_sec"`
	} `yaml:"provider"`
	Cache struct {
		SeriesTTL time.Duration `yaml:"series_ttl"`
		ScoreTTL  time.Duration `yaml:"score_ttl"`
		Redis     struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Index struct {
		LabelScheme   string `yaml:"label_scheme"` // strict or inclusive
		MinIndicators int    `yaml:"min_indicators"`
	} `yaml:"index"`
	Regions map[string]RegionConfig `yaml:"regions"`
}

// RegionConfig carries one region's ticker set and calibration constants.
// Calibration is explicit configuration so region comparability stays
// auditable; none of these values are inferred from data.
type RegionConfig struct {
	IndexTicker   string   `yaml:"index_ticker"`
	SampleTickers []string `yaml:"sample_tickers"`

	Momentum struct {
		MADays       int     `yaml:"ma_days"`
		MaxDeviation float64 `yaml:"max_deviation"`
		VolWindow    int     `yaml:"vol_window"`
	} `yaml:"momentum"`

	Volatility struct {
		Ticker         string  `yaml:"ticker"`
		Direct         bool    `yaml:"direct"` // true: ticker is a vol index; false: ETF proxy
		Window         int     `yaml:"window"`
		LowAnnualized  float64 `yaml:"low_annualized"`
		HighAnnualized float64 `yaml:"high_annualized"`
	} `yaml:"volatility"`

	Bonds struct {
		Government      string `yaml:"government"`
		HighYield       string `yaml:"high_yield"`
		InvestmentGrade string `yaml:"investment_grade"`
	} `yaml:"bonds"`

	Trend struct {
		MADays int `yaml:"ma_days"`
	} `yaml:"trend"`

	RSIPeriod       int     `yaml:"rsi_period"`
	HighLowLookback int     `yaml:"high_low_lookback"`
	ReturnWindow    int     `yaml:"return_window"`
	FearMultiplier  float64 `yaml:"fear_multiplier"`

	Weights map[string]float64 `yaml:"weights"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := v, 6379
		if i := strings.LastIndex(v, ":"); i > 0 {
			host = v[:i]
			port = util.ParseIntDefault(v[i+1:], 6379)
		}
		c.Cache.Redis.Host = host
		c.Cache.Redis.Port = port
	}
	if v := os.Getenv("LABEL_SCHEME"); v != "" {
		c.Index.LabelScheme = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Index.LabelScheme != "strict" && c.Index.LabelScheme != "inclusive" {
		return fmt.Errorf("index.label_scheme must be 'strict' or 'inclusive', got '%s'", c.Index.LabelScheme)
	}
	if c.Index.MinIndicators < 1 {
		return fmt.Errorf("index.min_indicators must be at least 1")
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("regions cannot be empty")
	}
	for name, rc := range c.Regions {
		if err := rc.validate(); err != nil {
			return fmt.Errorf("region %s: %w", name, err)
		}
	}
	return nil
}

func (rc *RegionConfig) validate() error {
	if rc.IndexTicker == "" {
		return fmt.Errorf("index_ticker is required")
	}
	if rc.FearMultiplier < 1.0 {
		return fmt.Errorf("fear_multiplier must be >= 1.0, got %.2f", rc.FearMultiplier)
	}
	if len(rc.Weights) == 0 {
		return fmt.Errorf("weights cannot be empty")
	}
	sum := 0.0
	for name, w := range rc.Weights {
		if w < 0 {
			return fmt.Errorf("weight for %s must not be negative", name)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("weights must sum to 1.0, got %.6f", sum)
	}
	return nil
}

// Region returns the configuration for a region, with ok=false when the
// region is not configured.
func (c *Config) Region(name string) (RegionConfig, bool) {
	rc, ok := c.Regions[name]
	return rc, ok
}

// RegionNames returns the configured region identifiers in sorted order.
func (c *Config) RegionNames() []string {
	out := make([]string, 0, len(c.Regions))
	for name := range c.Regions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
