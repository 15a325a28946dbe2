// Package config loads service configuration from the environment.
// Thresholds, TTLs and provider cadences are deliberately named
// configuration rather than constants baked into the pipeline.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration.
type Config struct {
	Server       ServerConfig
	Yahoo        YahooConfig
	AlphaVantage AlphaVantageConfig
	News         NewsConfig
	Classifier   ClassifierConfig
	Cache        CacheConfig
	Engine       EngineConfig
	Logging      LoggingConfig
}

// ServerConfig configures the HTTP layer.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// YahooConfig configures the Yahoo Finance adapter.
type YahooConfig struct {
	Enabled              bool          `envconfig:"YAHOO_ENABLED" default:"true"`
	Endpoint             string        `envconfig:"YAHOO_ENDPOINT" default:"https://query1.finance.yahoo.com"`
	MaxRequestsPerMinute int           `envconfig:"YAHOO_MAX_RPM" default:"30"`
	Burst                int           `envconfig:"YAHOO_BURST" default:"5"`
	MinRequestInterval   time.Duration `envconfig:"YAHOO_MIN_INTERVAL" default:"0s"`
	Timeout              time.Duration `envconfig:"YAHOO_TIMEOUT" default:"10s"`
}

// AlphaVantageConfig configures the Alpha Vantage adapter. The adapter
// is skipped entirely when no API key is set.
type AlphaVantageConfig struct {
	APIKey               string        `envconfig:"ALPHA_VANTAGE_API_KEY" required:"false"`
	Endpoint             string        `envconfig:"ALPHA_VANTAGE_ENDPOINT" default:"https://www.alphavantage.co"`
	MaxRequestsPerMinute int           `envconfig:"ALPHA_VANTAGE_MAX_RPM" default:"5"`
	Burst                int           `envconfig:"ALPHA_VANTAGE_BURST" default:"1"`
	Timeout              time.Duration `envconfig:"ALPHA_VANTAGE_TIMEOUT" default:"10s"`
}

// NewsConfig configures news retrieval.
type NewsConfig struct {
	FeedEndpoint         string        `envconfig:"NEWS_FEED_ENDPOINT" default:"https://feeds.finance.yahoo.com/rss/2.0/headline"`
	MaxArticles          int           `envconfig:"NEWS_MAX_ARTICLES" default:"10"`
	Timeout              time.Duration `envconfig:"NEWS_TIMEOUT" default:"10s"`
	MaxRequestsPerMinute int           `envconfig:"NEWS_MAX_RPM" default:"30"`
	Burst                int           `envconfig:"NEWS_BURST" default:"5"`
}

// ClassifierConfig configures the external sentiment classifier. An
// empty endpoint selects the built-in lexicon classifier.
type ClassifierConfig struct {
	Endpoint    string        `envconfig:"CLASSIFIER_ENDPOINT" required:"false"`
	Timeout     time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"5s"`
	Concurrency int           `envconfig:"CLASSIFIER_CONCURRENCY" default:"4"`
}

// CacheConfig sets per-kind TTLs. Prices change faster than profiles,
// so their TTL is much shorter.
type CacheConfig struct {
	PriceTTL   time.Duration `envconfig:"CACHE_PRICE_TTL" default:"5m"`
	ProfileTTL time.Duration `envconfig:"CACHE_PROFILE_TTL" default:"24h"`
	NewsTTL    time.Duration `envconfig:"CACHE_NEWS_TTL" default:"10m"`
	MaxItems   int           `envconfig:"CACHE_MAX_ITEMS" default:"10000"`
}

// EngineConfig holds the pipeline and recommendation tuning knobs.
type EngineConfig struct {
	RangeDays        int           `envconfig:"ENGINE_RANGE_DAYS" default:"30"`
	Threshold        float64       `envconfig:"ENGINE_THRESHOLD" default:"0.15"`
	PriceWeight      float64       `envconfig:"ENGINE_PRICE_WEIGHT" default:"0.4"`
	SentimentWeight  float64       `envconfig:"ENGINE_SENTIMENT_WEIGHT" default:"0.6"`
	MaxPriceSwingPct float64       `envconfig:"ENGINE_MAX_PRICE_SWING_PCT" default:"10"`
	DeferBudget      time.Duration `envconfig:"ENGINE_DEFER_BUDGET" default:"2s"`
	// WaitOnDefer makes the manager sleep out short Deferred decisions
	// instead of skipping to the next provider. Skip is the default to
	// keep interactive latency low.
	WaitOnDefer bool `envconfig:"ENGINE_WAIT_ON_DEFER" default:"false"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
