// Package config loads process-wide server settings from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Supported market data providers.
const (
	ProviderYahoo   = "yahoo"
	ProviderPolygon = "polygon"
)

// Config holds server settings. Provider specific settings live in each adapter's Config.
type Config struct {
	Port     string `envconfig:"PORT" default:"8000"`
	GinMode  string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Provider string `envconfig:"MARKET_PROVIDER" default:"yahoo"`
	// InsecureSkipVerify はプロバイダーへのTLS証明書検証を無効化します。明示的に有効化した場合のみ。
	InsecureSkipVerify bool `envconfig:"MARKET_INSECURE_SKIP_VERIFY" default:"false"`
	// RateLimit は1分あたりのプロバイダー呼び出し上限です。0は無制限。
	RateLimit int `envconfig:"MARKET_RATE_LIMIT" default:"0"`
}

// Load reads Config from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	switch cfg.Provider {
	case ProviderYahoo, ProviderPolygon:
	default:
		return Config{}, fmt.Errorf("config: unknown MARKET_PROVIDER %q", cfg.Provider)
	}
	if cfg.RateLimit < 0 {
		return Config{}, fmt.Errorf("config: MARKET_RATE_LIMIT must not be negative: %d", cfg.RateLimit)
	}
	return cfg, nil
}
