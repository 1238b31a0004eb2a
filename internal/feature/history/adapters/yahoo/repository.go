package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"stock_relay/internal/feature/history/adapters/yahoo/dto"
	"stock_relay/internal/feature/history/domain/entity"
	"stock_relay/internal/feature/history/usecase"
)

// notFoundCode はYahooが未知の銘柄に返すエラーコードです。
const notFoundCode = "Not Found"

// YahooMarket はYahoo Finance chart APIから日足を取得するMarketRepository実装です。
type YahooMarket struct {
	cfg    Config
	client *resty.Client
}

// YahooMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
// TLSやタイムアウトの設定は渡されたHTTPクライアントのものがそのまま使われます。
func NewYahooMarket(cfg Config, hc *http.Client) *YahooMarket {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	client := resty.NewWithClient(hc).
		SetBaseURL(cfg.BaseURL).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": ua,
		})
	return &YahooMarket{cfg: cfg, client: client}
}

// GetDailyBars はYahoo chart APIから [start, end] の日足を取得し、
// entity.PriceBarのスライスとして返します。
// 日足はUTCから前後にずれた取引所時間で刻まれるため、period1 は start の前日、period2 は end の翌日です。
// 範囲外の日足はusecase側で除外されます。
func (y *YahooMarket) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]entity.PriceBar, error) {
	var body dto.ChartResponse
	res, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"period1":        strconv.FormatInt(start.AddDate(0, 0, -1).Unix(), 10),
			"period2":        strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10),
			"interval":       "1d",
			"events":         "div|split",
			"includePrePost": "false",
		}).
		SetResult(&body).
		SetError(&body).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, err
	}

	// 未知の銘柄は404とchart.errorの両方で通知される
	if ce := body.Chart.Error; ce != nil {
		if ce.Code == notFoundCode || res.StatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("yahoo: %s: %w", ce.Description, usecase.ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("yahoo: %s: %s", ce.Code, ce.Description)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo http %d: %w", res.StatusCode(), usecase.ErrSymbolNotFound)
	}
	if res.IsError() {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode())
	}

	if len(body.Chart.Result) == 0 {
		slog.Debug("yahoo returned no result", "symbol", symbol)
		return []entity.PriceBar{}, nil
	}
	return toPriceBars(symbol, body.Chart.Result[0], y.cfg.AutoAdjust)
}

// toPriceBars は列指向のchart結果を行に変換します。
// OHLCのいずれかがnullの行（休場日など）はスキップし、出来高のnullは0として扱います。
func toPriceBars(symbol string, r dto.Result, autoAdjust bool) ([]entity.PriceBar, error) {
	if len(r.Timestamp) == 0 {
		return []entity.PriceBar{}, nil
	}
	if len(r.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %d timestamps without quote indicators", len(r.Timestamp))
	}
	q := r.Indicators.Quote[0]

	var adj []*float64
	if autoAdjust && len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	loc := exchangeLocation(r.Meta)
	bars := make([]entity.PriceBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, h, l, c := at(q.Open, i), at(q.High, i), at(q.Low, i), at(q.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue
		}
		var vol int64
		if v := at(q.Volume, i); v != nil {
			vol = *v
		}

		b := entity.PriceBar{
			Symbol: symbol,
			Time:   time.Unix(ts, 0).In(loc),
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *c,
			Volume: vol,
		}
		// 配当・分割を反映した調整後価格に揃える
		if a := at(adj, i); a != nil && b.Close != 0 {
			ratio := *a / b.Close
			b.Open *= ratio
			b.High *= ratio
			b.Low *= ratio
			b.Close = *a
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// exchangeLocation は取引所のタイムゾーンを返します。
// IANA名が読み込めない場合は gmtoffset の固定オフセットにフォールバックします。
func exchangeLocation(m dto.Meta) *time.Location {
	if m.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(m.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	name := m.Timezone
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, m.GMTOffset)
}

func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}
