// Package entity defines the domain models for the history feature.
package entity

import "time"

// PriceBar represents one daily OHLCV (Open, High, Low, Close, Volume) bar
// returned by a market data provider.
type PriceBar struct {
	Symbol string    // Ticker symbol as sent to the provider (e.g., "AAPL")
	Time   time.Time // Bar start, in the exchange's local timezone
	Open   float64   // Opening price
	High   float64   // Highest price during the day
	Low    float64   // Lowest price during the day
	Close  float64   // Closing price
	Volume int64     // Trading volume
}

// Date returns the exchange-local calendar day of the bar at midnight UTC.
func (b PriceBar) Date() time.Time {
	y, m, d := b.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
