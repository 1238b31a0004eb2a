// Package yahoo provides a client for the Yahoo Finance v8 chart API.
package yahoo

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultUserAgent is sent with every request; Yahoo throttles the default Go agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds configuration for the Yahoo chart client.
type Config struct {
	BaseURL    string        `envconfig:"YAHOO_BASE_URL" default:"https://query2.finance.yahoo.com"`
	// UserAgent overrides DefaultUserAgent when set.
	UserAgent  string        `envconfig:"YAHOO_USER_AGENT"`
	AutoAdjust bool          `envconfig:"YAHOO_AUTO_ADJUST" default:"true"` // Scale OHLC by adjclose/close
	Timeout    time.Duration `envconfig:"MARKET_TIMEOUT" default:"30s"`     // HTTP request timeout
}

// LoadConfig loads Yahoo configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
