// Package metrics provides Prometheus instrumentation for provider calls.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stock_relay/internal/feature/history/domain/entity"
	"stock_relay/internal/feature/history/usecase"
)

// Outcome labels recorded for each provider call.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// InstrumentedMarket decorates a MarketRepository with call counters and a latency histogram.
type InstrumentedMarket struct {
	inner    usecase.MarketRepository
	provider string
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ usecase.MarketRepository = (*InstrumentedMarket)(nil)

// NewInstrumentedMarket registers the provider metrics on reg and wraps inner.
func NewInstrumentedMarket(inner usecase.MarketRepository, provider string, reg prometheus.Registerer) *InstrumentedMarket {
	f := promauto.With(reg)
	return &InstrumentedMarket{
		inner:    inner,
		provider: provider,
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stock_relay",
			Subsystem: "market",
			Name:      "requests_total",
			Help:      "Market data provider calls by outcome.",
		}, []string{"provider", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stock_relay",
			Subsystem: "market",
			Name:      "request_duration_seconds",
			Help:      "Market data provider call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}

// GetDailyBars forwards to the wrapped repository and records the call.
func (m *InstrumentedMarket) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) (bars []entity.PriceBar, err error) {
	defer func(begin time.Time) {
		m.duration.WithLabelValues(m.provider).Observe(time.Since(begin).Seconds())
		m.calls.WithLabelValues(m.provider, outcome(bars, err)).Inc()
	}(time.Now())
	return m.inner.GetDailyBars(ctx, symbol, start, end)
}

func outcome(bars []entity.PriceBar, err error) string {
	switch {
	case errors.Is(err, usecase.ErrSymbolNotFound):
		return OutcomeNotFound
	case err != nil:
		return OutcomeError
	case len(bars) == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
