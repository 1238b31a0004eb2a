// Package usecase は株価履歴取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stock_relay/internal/feature/history/domain/entity"
)

// dateLayouts は start/end として受け付ける日付フォーマットです（上から順に試行）。
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
}

// MarketRepository は外部マーケットデータプロバイダーへのアクセスを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	// GetDailyBars は [start, end] の日足を時系列昇順で返します。
	// プロバイダーが銘柄を認識しない場合は ErrSymbolNotFound を返します。
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]entity.PriceBar, error)
}

// historyUsecase は株価履歴取得のユースケースを定義します。
type historyUsecase struct {
	market MarketRepository
}

// NewHistoryUsecase はhistoryUsecaseの新しいインスタンスを生成します。
func NewHistoryUsecase(market MarketRepository) *historyUsecase {
	return &historyUsecase{market: market}
}

// GetHistory は指定された銘柄・期間の日足を取得します。
// データが1件もない場合（未知の銘柄を含む）は ErrNoData を返します。
func (hu *historyUsecase) GetHistory(ctx context.Context, ticker, start, end string) ([]entity.PriceBar, error) {
	symbol := NormalizeTicker(ticker)

	from, err := ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	bars, err := hu.market.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			slog.Info("provider does not know symbol", "symbol", symbol)
			return nil, ErrNoData
		}
		return nil, err
	}

	// プロバイダー側の境界の扱いに依存しないよう、取引所ローカル日付で期間外を除外
	out := make([]entity.PriceBar, 0, len(bars))
	for _, b := range bars {
		d := b.Date()
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, b)
	}

	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// NormalizeTicker は前後の空白を除去し大文字に変換します。
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ParseDate は日付文字列を UTC の午前0時として解釈します。
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
