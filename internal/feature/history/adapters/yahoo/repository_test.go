package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_relay/internal/feature/history/adapters/yahoo/dto"
	"stock_relay/internal/feature/history/usecase"
)

// threeDaysJSON はAAPLの2023-01-03〜05の3営業日分のレスポンスです。
const threeDaysJSON = `{
	"chart": {
		"result": [{
			"meta": {
				"currency": "USD",
				"symbol": "AAPL",
				"exchangeName": "NMS",
				"instrumentType": "EQUITY",
				"gmtoffset": -18000,
				"timezone": "EST",
				"exchangeTimezoneName": "America/New_York",
				"dataGranularity": "1d"
			},
			"timestamp": [1672756200, 1672842600, 1672929000],
			"indicators": {
				"quote": [{
					"open":   [130.28, 126.89, 127.13],
					"high":   [130.90, 128.66, 127.77],
					"low":    [124.17, 125.08, 124.76],
					"close":  [125.07, 126.36, 125.02],
					"volume": [112117500, 89113600, 80962700]
				}],
				"adjclose": [{
					"adjclose": [125.07, 126.36, 125.02]
				}]
			}
		}],
		"error": null
	}
}`

func newTestMarket(t *testing.T, handler http.HandlerFunc, autoAdjust bool) *YahooMarket {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{BaseURL: server.URL, AutoAdjust: autoAdjust}
	return NewYahooMarket(cfg, server.Client())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestYahooMarket_GetDailyBars_Success(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		// Verify request path and parameters
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1672617600", q.Get("period1")) // 2023-01-02T00:00:00Z
		assert.Equal(t, "1672963200", q.Get("period2")) // 2023-01-06T00:00:00Z
		assert.Equal(t, "1d", q.Get("interval"))
		assert.Equal(t, "div|split", q.Get("events"))
		assert.Equal(t, "false", q.Get("includePrePost"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		writeJSON(w, http.StatusOK, threeDaysJSON)
	}, true)

	start := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	bars, err := market.GetDailyBars(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	wantDates := []string{"2023/01/03", "2023/01/04", "2023/01/05"}
	for i, b := range bars {
		assert.Equal(t, wantDates[i], b.Time.Format("2006/01/02"))
		assert.Equal(t, "America/New_York", b.Time.Location().String())
		assert.Equal(t, "AAPL", b.Symbol)
	}
	assert.InDelta(t, 130.28, bars[0].Open, 1e-9)
	assert.InDelta(t, 125.07, bars[0].Close, 1e-9)
	assert.Equal(t, int64(112117500), bars[0].Volume)
}

func TestYahooMarket_GetDailyBars_AutoAdjust(t *testing.T) {
	t.Parallel()

	const body = `{"chart":{"result":[{
		"meta":{"exchangeTimezoneName":"America/New_York"},
		"timestamp":[1672756200],
		"indicators":{
			"quote":[{"open":[110],"high":[120],"low":[90],"close":[100],"volume":[5000]}],
			"adjclose":[{"adjclose":[50]}]
		}
	}],"error":null}}`

	tests := []struct {
		name       string
		autoAdjust bool
		wantOpen   float64
		wantHigh   float64
		wantLow    float64
		wantClose  float64
	}{
		{"adjusted", true, 55, 60, 45, 50},
		{"raw", false, 110, 120, 90, 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			}, tt.autoAdjust)

			day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
			bars, err := market.GetDailyBars(context.Background(), "AAPL", day, day)
			require.NoError(t, err)
			require.Len(t, bars, 1)

			assert.InDelta(t, tt.wantOpen, bars[0].Open, 1e-9)
			assert.InDelta(t, tt.wantHigh, bars[0].High, 1e-9)
			assert.InDelta(t, tt.wantLow, bars[0].Low, 1e-9)
			assert.InDelta(t, tt.wantClose, bars[0].Close, 1e-9)
			assert.Equal(t, int64(5000), bars[0].Volume, "volume is never adjusted")
		})
	}
}

// TestYahooMarket_GetDailyBars_ExchangeAheadOfUTC はUTCより進んだ取引所の開始日の日足が
// period1 の範囲に含まれることを検証します。
func TestYahooMarket_GetDailyBars_ExchangeAheadOfUTC(t *testing.T) {
	t.Parallel()

	// 2023-01-03 10:00 AEDT = 2023-01-02T23:00:00Z
	const ts = 1672700400
	const body = `{"chart":{"result":[{
		"meta":{"gmtoffset":39600,"timezone":"AEDT","exchangeTimezoneName":"Australia/Sydney"},
		"timestamp":[1672700400],
		"indicators":{"quote":[{"open":[7.1],"high":[7.3],"low":[7.0],"close":[7.2],"volume":[1000]}]}
	}],"error":null}}`

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		period1, err := strconv.ParseInt(r.URL.Query().Get("period1"), 10, 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, period1, int64(ts))
		writeJSON(w, http.StatusOK, body)
	}, true)

	day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	bars, err := market.GetDailyBars(context.Background(), "BHP.AX", day, day)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "2023/01/03", bars[0].Time.Format("2006/01/02"))
}

func TestYahooMarket_GetDailyBars_NullRowsSkipped(t *testing.T) {
	t.Parallel()

	const body = `{"chart":{"result":[{
		"meta":{"exchangeTimezoneName":"America/New_York"},
		"timestamp":[1672756200,1672842600,1672929000],
		"indicators":{"quote":[{
			"open":[130.28,null,127.13],
			"high":[130.90,null,127.77],
			"low":[124.17,null,124.76],
			"close":[125.07,null,125.02],
			"volume":[112117500,null,null]
		}]}
	}],"error":null}}`

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}, true)

	bars, err := market.GetDailyBars(context.Background(), "AAPL",
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2023/01/03", bars[0].Time.Format("2006/01/02"))
	assert.Equal(t, "2023/01/05", bars[1].Time.Format("2006/01/02"))
	assert.Equal(t, int64(0), bars[1].Volume)
}

func TestYahooMarket_GetDailyBars_NoTradingDays(t *testing.T) {
	t.Parallel()

	// 週末のみの期間ではtimestampが返らない
	const body = `{"chart":{"result":[{
		"meta":{"symbol":"AAPL","exchangeTimezoneName":"America/New_York"},
		"indicators":{"quote":[{}],"adjclose":[{}]}
	}],"error":null}}`

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}, true)

	bars, err := market.GetDailyBars(context.Background(), "AAPL",
		time.Date(2023, 1, 7, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestYahooMarket_GetDailyBars_SymbolNotFound(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}, true)

	day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	_, err := market.GetDailyBars(context.Background(), "ZZZZINVALID", day, day)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrSymbolNotFound), "got %v", err)
	assert.Contains(t, err.Error(), "symbol may be delisted")
}

func TestYahooMarket_GetDailyBars_ChartError(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input - start date cannot be after end date"}}}`)
	}, true)

	_, err := market.GetDailyBars(context.Background(), "AAPL",
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.False(t, errors.Is(err, usecase.ErrSymbolNotFound))
	assert.Contains(t, err.Error(), "start date cannot be after end date")
}

func TestYahooMarket_GetDailyBars_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		notFound   bool
	}{
		{"bad request", http.StatusBadRequest, false},
		{"unauthorized", http.StatusUnauthorized, false},
		{"not found", http.StatusNotFound, true},
		{"too many requests", http.StatusTooManyRequests, false},
		{"internal server error", http.StatusInternalServerError, false},
		{"service unavailable", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}, true)

			day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
			_, err := market.GetDailyBars(context.Background(), "AAPL", day, day)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), "yahoo http"), "got %v", err)
			assert.Equal(t, tt.notFound, errors.Is(err, usecase.ErrSymbolNotFound))
		})
	}
}

func TestYahooMarket_GetDailyBars_InvalidJSON(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{invalid json`)
	}, true)

	day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	_, err := market.GetDailyBars(context.Background(), "AAPL", day, day)
	assert.Error(t, err)
}

func TestYahooMarket_GetDailyBars_ContextCancellation(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		writeJSON(w, http.StatusOK, threeDaysJSON)
	}, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	_, err := market.GetDailyBars(ctx, "AAPL", day, day)
	assert.Error(t, err)
}

func TestToPriceBars_MissingQuote(t *testing.T) {
	t.Parallel()

	_, err := toPriceBars("AAPL", dto.Result{Timestamp: []int64{1672756200}}, true)
	assert.Error(t, err)
}

func TestExchangeLocation(t *testing.T) {
	t.Parallel()

	loc := exchangeLocation(dto.Meta{ExchangeTimezoneName: "Asia/Tokyo"})
	assert.Equal(t, "Asia/Tokyo", loc.String())

	// IANA名が不正な場合は固定オフセット
	loc = exchangeLocation(dto.Meta{ExchangeTimezoneName: "Not/AZone", Timezone: "JST", GMTOffset: 9 * 60 * 60})
	ts := time.Unix(1672790400, 0).In(loc) // 2023-01-04T00:00:00Z
	assert.Equal(t, "2023/01/04 09:00", ts.Format("2006/01/02 15:04"))

	loc = exchangeLocation(dto.Meta{})
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("YAHOO_BASE_URL", "http://localhost:9999")
	t.Setenv("YAHOO_AUTO_ADJUST", "false")
	t.Setenv("MARKET_TIMEOUT", "5s")
	t.Setenv("YAHOO_USER_AGENT", "")
	require.NoError(t, os.Unsetenv("YAHOO_USER_AGENT"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.False(t, cfg.AutoAdjust)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.UserAgent, "NewYahooMarket falls back to DefaultUserAgent")
}

func TestNewYahooMarket_UserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{"default", "", DefaultUserAgent},
		{"configured", "stock-relay-test/1.0", "stock-relay-test/1.0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.want, r.Header.Get("User-Agent"))
				writeJSON(w, http.StatusOK, `{"chart":{"result":[],"error":null}}`)
			}))
			t.Cleanup(server.Close)

			market := NewYahooMarket(Config{BaseURL: server.URL, UserAgent: tt.configured}, server.Client())
			day := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
			_, err := market.GetDailyBars(context.Background(), "AAPL", day, day)
			require.NoError(t, err)
		})
	}
}
