package usecase

import "errors"

var (
	// ErrNoData is returned when the provider has no bars for the ticker and range.
	ErrNoData = errors.New("no data found")

	// ErrInvalidDate is returned when start or end cannot be parsed as a date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrSymbolNotFound is returned by a MarketRepository when the provider does not know the ticker.
	ErrSymbolNotFound = errors.New("symbol not found")
)
