package repository

import (
	"context"
	"time"

	"TradePulse/internal/domain/models"
)

// MarketStream is a live quote feed, normally a provider WebSocket.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalPublisher pushes computed scan results to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, r *models.ScanResult) error
	PublishBatch(ctx context.Context, rs []*models.ScanResult) error
	Close() error
}

// BarStore persists daily OHLCV bars.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, c *models.Candle) error
	StoreBatch(ctx context.Context, cs []*models.Candle) error
	GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error)
	GetLatestNBars(ctx context.Context, symbol string, n int) ([]models.Candle, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Metrics records operational counters for the signal pipeline.
type Metrics interface {
	RecordSignal(symbol, direction string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
