// Package dto defines data transfer objects for the Yahoo chart API responses.
package dto

// ChartResponse is the top-level container of /v8/finance/chart/{symbol}.
type ChartResponse struct {
	Chart Chart `json:"chart"`
}

// Chart holds either results or an error.
type Chart struct {
	Result []Result   `json:"result"`
	Error  *ChartError `json:"error"`
}

// ChartError is the error object Yahoo returns, e.g. {"code":"Not Found","description":"No data found, symbol may be delisted"}.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result is one symbol's series. Timestamp is absent when the range has no trading days.
type Result struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

// Meta carries the exchange timezone used to derive calendar dates.
type Meta struct {
	Currency             string `json:"currency"`
	Symbol               string `json:"symbol"`
	ExchangeName         string `json:"exchangeName"`
	InstrumentType       string `json:"instrumentType"`
	GMTOffset            int    `json:"gmtoffset"`
	Timezone             string `json:"timezone"`
	ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	DataGranularity      string `json:"dataGranularity"`
}

type Indicators struct {
	Quote    []Quote    `json:"quote"`
	AdjClose []AdjClose `json:"adjclose"`
}

// Quote values are nullable per index.
type Quote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type AdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}
