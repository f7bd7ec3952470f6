package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	domsvc "TradePulse/internal/domain/service"
	"TradePulse/internal/services/features"
	"TradePulse/internal/signals/composite"
	"TradePulse/internal/signals/elliott"
	"TradePulse/internal/signals/risk"
	pkgcache "TradePulse/pkg/cache"
	xhttp "TradePulse/pkg/http"
	applogger "TradePulse/pkg/logger"
)

const (
	volWindowBars = 60

	historyTTL = 5 * time.Minute
)

// SignalsUseCase runs the composite signal pipeline for live requests:
// indicator scoring, Elliott analysis, risk context, signal publication.
type SignalsUseCase struct {
	provider  domsvc.MarketDataProvider
	quotes    *QuoteProcessor
	publisher domrepo.SignalPublisher
	metrics   domrepo.Metrics
	portfolio float64
	history   pkgcache.Service
	l         *applogger.Logger
}

func NewSignalsUseCase(
	provider domsvc.MarketDataProvider,
	quotes *QuoteProcessor,
	publisher domrepo.SignalPublisher,
	metrics domrepo.Metrics,
	portfolio float64,
) *SignalsUseCase {
	return &SignalsUseCase{
		provider:  provider,
		quotes:    quotes,
		publisher: publisher,
		metrics:   metrics,
		portfolio: portfolio,
	}
}

// SetLogger injects a structured logger.
func (uc *SignalsUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// SetHistoryCache enables short-lived caching of provider candle history,
// so a batch scan hits the provider once per symbol and period.
func (uc *SignalsUseCase) SetHistoryCache(c pkgcache.Service) { uc.history = c }

// Candle history is cached as a JSON string because both cache backends
// round-trip strings verbatim, while raw values only survive in memory.
func (uc *SignalsUseCase) fetchCandles(ctx context.Context, symbol string, period domrepo.Period) ([]models.Candle, error) {
	key := "history:" + symbol + ":" + string(period)
	if uc.history != nil {
		var raw string
		if err := uc.history.Get(ctx, key, &raw); err == nil && raw != "" {
			var cached []models.Candle
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	candles, err := uc.provider.GetDailyCandles(ctx, symbol, period)
	if err != nil {
		if errors.Is(err, domsvc.ErrSymbolNotFound) {
			return nil, xhttp.NotFoundErrorf("no price history for %s", symbol)
		}
		uc.metrics.RecordError("provider_history")
		return nil, fmt.Errorf("fetch candles %s: %w", symbol, err)
	}
	if uc.history != nil {
		if buf, err := json.Marshal(candles); err == nil {
			if err := uc.history.Set(ctx, key, string(buf), historyTTL); err != nil && uc.l != nil {
				uc.l.Warn("history cache set failed", applogger.Error(err))
			}
		}
	}
	return candles, nil
}

// Scan produces the full per-symbol signal: composite score, Elliott score,
// realized volatility and risk context.
func (uc *SignalsUseCase) Scan(ctx context.Context, symbol string, period domrepo.Period) (*models.ScanResult, error) {
	start := time.Now()
	candles, err := uc.fetchCandles(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	// Option-chain sentiment is best-effort: nil ratio degrades to weight
	// redistribution inside the composite.
	pcRatio, _ := uc.provider.GetPutCallRatio(ctx, symbol)

	sig := composite.Compute(symbol, candles, pcRatio)

	price := candles[len(candles)-1].Close
	if uc.quotes != nil {
		if live, ok := uc.quotes.LatestPrice(symbol); ok {
			price = live
		}
	}

	result := &models.ScanResult{
		Symbol:         symbol,
		CurrentPrice:   round2(price),
		Direction:      sig.Direction,
		Conviction:     sig.Conviction,
		CompositeScore: sig.CompositeScore,
		Confidence:     sig.Confidence,
		Signals:        sig.Signals,
		ElliottScore:   elliott.Score(candles),
		AnnualizedVol:  round4(features.AnnualizedVol(candles, volWindowBars)),
	}
	if rc := risk.Compute(candles, sig.Direction, sig.CompositeScore, uc.portfolio); rc != nil {
		result.Risk = *rc
	}

	uc.metrics.RecordSignal(symbol, sig.Direction)
	uc.metrics.RecordLatency("scan", time.Since(start).Seconds())

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, result); err != nil {
			uc.metrics.RecordError("signal_publish")
			if uc.l != nil {
				uc.l.Warn("signal publish failed", applogger.String("symbol", symbol), applogger.Error(err))
			}
		}
	}
	return result, nil
}

// Waves returns the detected Elliott wave structure.
func (uc *SignalsUseCase) Waves(ctx context.Context, symbol string, period domrepo.Period) (*models.WaveStructure, error) {
	candles, err := uc.fetchCandles(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	w := elliott.DetectWaves(candles)
	return &w, nil
}

// ElliottScore returns the standalone wave score in [-1, 1].
func (uc *SignalsUseCase) ElliottScore(ctx context.Context, symbol string, period domrepo.Period) (float64, error) {
	candles, err := uc.fetchCandles(ctx, symbol, period)
	if err != nil {
		return 0, err
	}
	return elliott.Score(candles), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
