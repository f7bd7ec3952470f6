package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradePulse/internal/domain/models"
	drepo "TradePulse/internal/domain/repository"
)

// QuoteProcessor keeps the latest observed price per symbol and exposes it to
// the scan usecase, so scan results carry a live price instead of the last
// daily close.
type QuoteProcessor struct {
	metrics drepo.Metrics

	mu     sync.RWMutex
	latest map[string]*models.Quote
}

// NewQuoteProcessor creates a new QuoteProcessor instance.
func NewQuoteProcessor(metrics drepo.Metrics) *QuoteProcessor {
	return &QuoteProcessor{
		metrics: metrics,
		latest:  make(map[string]*models.Quote),
	}
}

// Process records a single quote.
func (p *QuoteProcessor) Process(ctx context.Context, q *models.Quote) error {
	if q == nil {
		return fmt.Errorf("quote is nil")
	}

	start := time.Now()
	p.mu.Lock()
	prev := p.latest[q.Symbol]
	if prev == nil || q.Timestamp >= prev.Timestamp {
		p.latest[q.Symbol] = q
	}
	p.mu.Unlock()

	p.metrics.RecordLastPrice(q.Symbol, q.Price)
	p.metrics.RecordLatency("quote_process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch records multiple quotes.
func (p *QuoteProcessor) ProcessBatch(ctx context.Context, qs []*models.Quote) error {
	for _, q := range qs {
		if q == nil {
			continue
		}
		if err := p.Process(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// LatestPrice returns the most recent streamed price for a symbol.
func (p *QuoteProcessor) LatestPrice(symbol string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	q, ok := p.latest[symbol]
	if !ok {
		return 0, false
	}
	return q.Price, true
}

// Close releases resources. The processor holds none beyond the map.
func (p *QuoteProcessor) Close() {}
