package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	pkgcache "TradePulse/pkg/cache"
)

type fakeMetrics struct {
	mu      sync.Mutex
	signals map[string]string
	errors  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{signals: map[string]string{}, errors: map[string]int{}}
}

func (m *fakeMetrics) RecordSignal(symbol, direction string) {
	m.mu.Lock()
	m.signals[symbol] = direction
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLastPrice(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64)   {}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.ScanResult
}

func (p *fakePublisher) Publish(_ context.Context, r *models.ScanResult) error {
	p.mu.Lock()
	p.published = append(p.published, r)
	p.mu.Unlock()
	return nil
}

func (p *fakePublisher) PublishBatch(ctx context.Context, rs []*models.ScanResult) error {
	for _, r := range rs {
		if err := p.Publish(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestScanProducesFullResult(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(260)}
	metrics := newFakeMetrics()
	pub := &fakePublisher{}
	uc := NewSignalsUseCase(provider, nil, pub, metrics, 100_000)

	res, err := uc.Scan(context.Background(), "AAPL", domrepo.P1Y)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.Symbol != "AAPL" {
		t.Fatalf("symbol = %q", res.Symbol)
	}
	if res.CompositeScore < -1 || res.CompositeScore > 1 {
		t.Fatalf("composite score out of range: %v", res.CompositeScore)
	}
	if res.ElliottScore < -1 || res.ElliottScore > 1 {
		t.Fatalf("elliott score out of range: %v", res.ElliottScore)
	}
	if res.AnnualizedVol <= 0 {
		t.Fatalf("annualized vol = %v", res.AnnualizedVol)
	}
	if res.CurrentPrice <= 0 {
		t.Fatalf("current price = %v", res.CurrentPrice)
	}
	if res.Direction == models.DirectionHold {
		if res.Risk.StopLoss != nil || res.Risk.PositionPct != 0 {
			t.Fatalf("hold must not carry a risk context: %+v", res.Risk)
		}
	} else if res.Risk.StopLoss == nil || res.Risk.PositionPct <= 0 {
		t.Fatalf("risk context missing: %+v", res.Risk)
	}
	if metrics.signals["AAPL"] != res.Direction {
		t.Fatalf("metrics direction = %q, want %q", metrics.signals["AAPL"], res.Direction)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d results", len(pub.published))
	}
}

func TestScanUsesLivePrice(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(260)}
	quotes := NewQuoteProcessor(newFakeMetrics())
	if err := quotes.Process(context.Background(), &models.Quote{
		Symbol: "AAPL", Timestamp: 1, Price: 123.45, Volume: 10,
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	uc := NewSignalsUseCase(provider, quotes, nil, newFakeMetrics(), 100_000)

	res, err := uc.Scan(context.Background(), "AAPL", domrepo.P1Y)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.CurrentPrice != 123.45 {
		t.Fatalf("current price = %v, want live quote", res.CurrentPrice)
	}
}

func TestScanHoldHasNoRisk(t *testing.T) {
	flat := make([]models.Candle, 260)
	day := time.Now().UTC().AddDate(0, 0, -260)
	for i := range flat {
		flat[i] = models.Candle{Date: day, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1e6}
		day = day.AddDate(0, 0, 1)
	}
	provider := &fakeProvider{candles: flat}
	uc := NewSignalsUseCase(provider, nil, nil, newFakeMetrics(), 100_000)

	res, err := uc.Scan(context.Background(), "FLAT", domrepo.P1Y)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.Direction != models.DirectionHold {
		t.Fatalf("flat series scored %q", res.Direction)
	}
	if res.Risk.StopLoss != nil || res.Risk.TargetPrice != nil || res.Risk.PositionSize != 0 {
		t.Fatalf("hold carried a risk context: %+v", res.Risk)
	}
}

func TestScanReusesCachedHistory(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(260)}
	uc := NewSignalsUseCase(provider, nil, nil, newFakeMetrics(), 100_000)
	uc.SetHistoryCache(pkgcache.NewMemoryCache())

	for i := 0; i < 3; i++ {
		if _, err := uc.Scan(context.Background(), "AAPL", domrepo.P1Y); err != nil {
			t.Fatalf("Scan %d: %v", i, err)
		}
	}
	provider.mu.Lock()
	calls := provider.calls
	provider.mu.Unlock()
	if calls != 1 {
		t.Fatalf("provider called %d times, want 1", calls)
	}
}

// jsonCache round-trips every value through JSON the way a networked cache
// does, so nothing type-asserted in memory can sneak through it.
type jsonCache struct {
	pkgcache.Service
}

func (c jsonCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Service.Set(ctx, key, string(buf), ttl)
}

func (c jsonCache) Get(ctx context.Context, key string, dest interface{}) error {
	var raw string
	if err := c.Service.Get(ctx, key, &raw); err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

func TestScanHistoryCacheSurvivesSerialization(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(260)}
	uc := NewSignalsUseCase(provider, nil, nil, newFakeMetrics(), 100_000)
	uc.SetHistoryCache(jsonCache{pkgcache.NewMemoryCache()})

	first, err := uc.Scan(context.Background(), "AAPL", domrepo.P1Y)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	second, err := uc.Scan(context.Background(), "AAPL", domrepo.P1Y)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	provider.mu.Lock()
	calls := provider.calls
	provider.mu.Unlock()
	if calls != 1 {
		t.Fatalf("provider called %d times, want 1", calls)
	}
	if first.CompositeScore != second.CompositeScore {
		t.Fatalf("cached scan diverged: %v vs %v", first.CompositeScore, second.CompositeScore)
	}
}

func TestWaves(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(260)}
	uc := NewSignalsUseCase(provider, nil, nil, newFakeMetrics(), 100_000)

	w, err := uc.Waves(context.Background(), "AAPL", domrepo.P1Y)
	if err != nil {
		t.Fatalf("Waves: %v", err)
	}
	if w.Pattern == "" {
		t.Fatal("empty pattern")
	}
}

func TestBatchScanCollectsPerSymbolErrors(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(260)}
	signals := NewSignalsUseCase(provider, nil, nil, newFakeMetrics(), 100_000)
	uc := NewBatchScanUseCase(signals)

	res, err := uc.Scan(context.Background(), []string{"AAPL", "MSFT", "GOOG"}, domrepo.P1Y)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("results = %d", len(res.Results))
	}
	if res.Errors != nil {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestBatchScanRequiresSymbols(t *testing.T) {
	signals := NewSignalsUseCase(&fakeProvider{}, nil, nil, newFakeMetrics(), 100_000)
	uc := NewBatchScanUseCase(signals)
	if _, err := uc.Scan(context.Background(), nil, domrepo.P1Y); err == nil {
		t.Fatal("expected error for empty symbol list")
	}
}
