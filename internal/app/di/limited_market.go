package di

import (
	"context"
	"time"

	"stock_relay/internal/feature/history/domain/entity"
	"stock_relay/internal/feature/history/usecase"
	"stock_relay/internal/shared/ratelimiter"
)

// limitedMarket はプロバイダー呼び出しの前にレートリミッターで待機するMarketRepositoryです。
type limitedMarket struct {
	inner   usecase.MarketRepository
	limiter ratelimiter.Limiter
}

func (m *limitedMarket) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]entity.PriceBar, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return m.inner.GetDailyBars(ctx, symbol, start, end)
}
