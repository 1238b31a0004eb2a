// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"stock_relay/internal/feature/history/adapters/polygon"
	"stock_relay/internal/feature/history/adapters/yahoo"
	"stock_relay/internal/feature/history/usecase"
	"stock_relay/internal/platform/config"
	infrahttp "stock_relay/internal/platform/http"
	"stock_relay/internal/platform/metrics"
	"stock_relay/internal/shared/ratelimiter"
)

// NewMarket creates the MarketRepository selected by cfg.Provider with its HTTP client.
// If reg is non-nil, the repository is wrapped with Prometheus instrumentation.
// A positive cfg.RateLimit caps provider calls per minute; time spent waiting is not observed as provider latency.
func NewMarket(cfg config.Config, reg prometheus.Registerer) (usecase.MarketRepository, error) {
	var opts []infrahttp.Option
	if cfg.InsecureSkipVerify {
		opts = append(opts, infrahttp.WithInsecureSkipVerify())
	}

	var market usecase.MarketRepository
	switch cfg.Provider {
	case config.ProviderYahoo:
		ycfg, err := yahoo.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load yahoo config: %w", err)
		}
		market = yahoo.NewYahooMarket(ycfg, infrahttp.NewHTTPClient(ycfg.Timeout, opts...))
	case config.ProviderPolygon:
		pcfg, err := polygon.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load polygon config: %w", err)
		}
		pm, err := polygon.NewPolygonMarket(pcfg, infrahttp.NewHTTPClient(pcfg.Timeout, opts...))
		if err != nil {
			return nil, err
		}
		market = pm
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Provider)
	}

	if reg != nil {
		market = metrics.NewInstrumentedMarket(market, cfg.Provider, reg)
	}
	if cfg.RateLimit > 0 {
		market = &limitedMarket{inner: market, limiter: ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute)}
	}
	return market, nil
}
