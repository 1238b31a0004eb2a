// Package polygon provides a MarketRepository backed by the Polygon aggregates API.
package polygon

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds configuration for the Polygon client.
type Config struct {
	APIKey  string        `envconfig:"POLYGON_API_KEY"`
	Timeout time.Duration `envconfig:"MARKET_TIMEOUT" default:"30s"`
}

// LoadConfig loads Polygon configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
