package service

import (
	"context"
	"errors"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/domain/repository"
)

// ErrSymbolNotFound marks a symbol the provider has no price history for,
// distinct from insufficient history.
var ErrSymbolNotFound = errors.New("symbol not found")

// MarketDataProvider fetches price history and option-chain sentiment from an
// external source. "No data" and provider errors degrade identically to
// missing data at the call sites.
type MarketDataProvider interface {
	GetDailyCandles(ctx context.Context, symbol string, period repository.Period) ([]models.Candle, error)
	// GetPutCallRatio returns the nearest-expiry put/call volume ratio, or
	// nil when the option chain is unavailable.
	GetPutCallRatio(ctx context.Context, symbol string) (*float64, error)
}
