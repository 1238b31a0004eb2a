package polygon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"stock_relay/internal/feature/history/domain/entity"
	"stock_relay/internal/feature/history/usecase"
)

// maxAggs はPolygonの1リクエストあたりの最大件数です。
const maxAggs = 50000

// exchangeTZ は米国株の日足タイムスタンプの基準タイムゾーンです。
const exchangeTZ = "America/New_York"

// ErrMissingAPIKey はAPIキーが設定されていない場合に返されます。
var ErrMissingAPIKey = errors.New("polygon: POLYGON_API_KEY is not set")

// fetchFunc は日足取得パラメータから集計値を返します。テストで差し替えます。
type fetchFunc func(ctx context.Context, params *models.ListAggsParams) ([]models.Agg, error)

// PolygonMarket はPolygon aggregates APIから日足を取得するMarketRepository実装です。
type PolygonMarket struct {
	fetch fetchFunc
	loc   *time.Location
}

var _ usecase.MarketRepository = (*PolygonMarket)(nil)

// NewPolygonMarket は指定された設定とHTTPクライアントでPolygonMarketを生成します。
func NewPolygonMarket(cfg Config, hc *http.Client) (*PolygonMarket, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client := polygonrest.NewWithClient(cfg.APIKey, hc)
	return newPolygonMarket(func(ctx context.Context, params *models.ListAggsParams) ([]models.Agg, error) {
		it := client.ListAggs(ctx, params)
		var out []models.Agg
		for it.Next() {
			out = append(out, it.Item())
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
		return out, nil
	}), nil
}

func newPolygonMarket(fetch fetchFunc) *PolygonMarket {
	loc, err := time.LoadLocation(exchangeTZ)
	if err != nil {
		loc = time.UTC
	}
	return &PolygonMarket{fetch: fetch, loc: loc}
}

// GetDailyBars はPolygonから [start, end] の調整済み日足を昇順で取得します。
// 日足はニューヨーク時間の0時（UTCでは05:00前後）で刻まれるため、To は end の翌日です。
func (p *PolygonMarket) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]entity.PriceBar, error) {
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end.AddDate(0, 0, 1)),
	}.WithAdjusted(true).WithOrder(models.Asc).WithLimit(maxAggs)

	aggs, err := p.fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("polygon: list aggs %s: %w", symbol, err)
	}

	bars := make([]entity.PriceBar, 0, len(aggs))
	for _, a := range aggs {
		bars = append(bars, entity.PriceBar{
			Symbol: symbol,
			Time:   time.Time(a.Timestamp).In(p.loc),
			Open:   a.Open,
			High:   a.High,
			Low:    a.Low,
			Close:  a.Close,
			Volume: int64(a.Volume),
		})
	}
	return bars, nil
}
