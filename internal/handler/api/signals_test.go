package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	icache "TradePulse/internal/service/cache"
	"TradePulse/internal/usecase"
	applogger "TradePulse/pkg/logger"
)

type stubProvider struct {
	candles []models.Candle
}

func (s *stubProvider) GetDailyCandles(context.Context, string, domrepo.Period) ([]models.Candle, error) {
	return s.candles, nil
}

func (s *stubProvider) GetPutCallRatio(context.Context, string) (*float64, error) {
	return nil, nil
}

type stubMetrics struct{}

func (stubMetrics) RecordSignal(string, string)     {}
func (stubMetrics) RecordError(string)              {}
func (stubMetrics) RecordLastPrice(string, float64) {}
func (stubMetrics) RecordLatency(string, float64)   {}

func trendCandles(n int) []models.Candle {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		c := 100 + 0.2*float64(i) + 3*math.Sin(float64(i)/7)
		candles[i] = models.Candle{
			Date:   end.AddDate(0, 0, i-n+1),
			Open:   c - 0.3,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return candles
}

func newTestSignals() *usecase.SignalsUseCase {
	return usecase.NewSignalsUseCase(&stubProvider{candles: trendCandles(260)}, nil, nil, stubMetrics{}, 100_000)
}

func TestHandlerScanMissingSymbol(t *testing.T) {
	h := NewSignalsHandler(newTestSignals())
	rec := httptest.NewRecorder()
	h.Scan()(rec, httptest.NewRequest(http.MethodGet, "/signals/scan", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerScan(t *testing.T) {
	h := NewSignalsHandler(newTestSignals())
	rec := httptest.NewRecorder()
	h.Scan()(rec, httptest.NewRequest(http.MethodGet, "/signals/scan?symbol=AAPL&period=1y", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res models.ScanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Symbol != "AAPL" || res.Direction == "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestHandlerScanCacheHit(t *testing.T) {
	h := NewSignalsHandler(newTestSignals())
	h.SetCache(icache.NewTTLCache())

	first := httptest.NewRecorder()
	h.Scan()(first, httptest.NewRequest(http.MethodGet, "/signals/scan?symbol=AAPL", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	second := httptest.NewRecorder()
	h.Scan()(second, httptest.NewRequest(http.MethodGet, "/signals/scan?symbol=AAPL", nil))
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d", second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached response differs from computed one")
	}
}

func TestHandlerWaves(t *testing.T) {
	h := NewSignalsHandler(newTestSignals())
	rec := httptest.NewRecorder()
	h.Waves()(rec, httptest.NewRequest(http.MethodGet, "/signals/waves?symbol=AAPL", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var w models.WaveStructure
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Pattern == "" {
		t.Fatal("empty pattern")
	}
}

func newEchoHandler(t *testing.T) (*SignalsEchoHandler, *echo.Echo) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	signals := newTestSignals()
	h := NewSignalsEchoHandler(l,
		signals,
		usecase.NewBatchScanUseCase(signals),
		usecase.NewBacktestUseCase(&stubProvider{candles: trendCandles(400)}, 730),
		usecase.NewCandlesUseCase(nil),
	)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func TestEchoScanRoute(t *testing.T) {
	_, e := newEchoHandler(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signals/scan?symbol=AAPL&period=6mo", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data models.ScanResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Symbol != "AAPL" {
		t.Fatalf("symbol = %q", envelope.Data.Symbol)
	}
}

func TestEchoScanRouteRejectsBadPeriod(t *testing.T) {
	_, e := newEchoHandler(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signals/scan?symbol=AAPL&period=9y", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEchoBacktestRouteRejectsBadDates(t *testing.T) {
	_, e := newEchoHandler(t)
	body := `{"symbol":"AAPL","start_date":"2024-06-01","end_date":"2024-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/backtest/run", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}
