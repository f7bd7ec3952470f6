package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	domsvc "TradePulse/internal/domain/service"
	icache "TradePulse/internal/service/cache"
	xhttp "TradePulse/pkg/http"
)

type fakeProvider struct {
	mu      sync.Mutex
	candles []models.Candle
	err     error
	period  domrepo.Period
	calls   int
}

func (f *fakeProvider) GetDailyCandles(_ context.Context, _ string, period domrepo.Period) ([]models.Candle, error) {
	f.mu.Lock()
	f.period = period
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.candles, nil
}

func (f *fakeProvider) lastPeriod() domrepo.Period {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.period
}

func (f *fakeProvider) GetPutCallRatio(context.Context, string) (*float64, error) {
	return nil, nil
}

// dailyCandles builds n days of trending bars ending today.
func dailyCandles(n int) []models.Candle {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		date := end.AddDate(0, 0, i-n+1)
		c := 100 + 0.2*float64(i) + 3*math.Sin(float64(i)/7)
		candles[i] = models.Candle{
			Date:   date,
			Open:   c - 0.3,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_000_000 + 10_000*float64(i%13),
		}
	}
	return candles
}

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
}

func TestBacktestRejectsInvertedRange(t *testing.T) {
	uc := NewBacktestUseCase(&fakeProvider{}, 730)
	_, err := uc.Run(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: day(-5), EndDate: day(-10),
	})
	assertBadRequest(t, err)
}

func TestBacktestRejectsFutureEnd(t *testing.T) {
	uc := NewBacktestUseCase(&fakeProvider{}, 730)
	_, err := uc.Run(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: day(-10), EndDate: day(3),
	})
	assertBadRequest(t, err)
}

func TestBacktestRejectsOversizedRange(t *testing.T) {
	uc := NewBacktestUseCase(&fakeProvider{}, 730)
	_, err := uc.Run(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: day(-800), EndDate: day(-1),
	})
	assertBadRequest(t, err)
}

func TestBacktestRejectsMalformedDate(t *testing.T) {
	uc := NewBacktestUseCase(&fakeProvider{}, 730)
	_, err := uc.Run(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: "03/05/2024", EndDate: day(-1),
	})
	assertBadRequest(t, err)
}

func TestBacktestUnknownSymbol(t *testing.T) {
	uc := NewBacktestUseCase(&fakeProvider{err: domsvc.ErrSymbolNotFound}, 730)
	_, err := uc.Run(context.Background(), models.BacktestRequest{
		Symbol: "NOPE", StartDate: day(-30), EndDate: day(-1),
	})
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("want 404 AppError, got %v", err)
	}
}

func TestBacktestRun(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(220)}
	uc := NewBacktestUseCase(provider, 730)

	result, err := uc.Run(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: day(-60), EndDate: day(-1),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Symbol != "AAPL" {
		t.Fatalf("symbol = %q", result.Symbol)
	}
	if result.TotalTradingDays == 0 {
		t.Fatal("expected graded days inside the window")
	}
	for _, d := range result.DailySignals {
		if d.Date < day(-60) || d.Date > day(-1) {
			t.Fatalf("day %s outside requested window", d.Date)
		}
	}
}

func TestBacktestPeriodCoversWarmup(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(900)}
	uc := NewBacktestUseCase(provider, 730)

	if _, err := uc.Run(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: day(-20), EndDate: day(-1),
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 20 days back plus warmup needs more than a year of history.
	if provider.lastPeriod() != domrepo.P2Y {
		t.Fatalf("period = %s, want %s", provider.lastPeriod(), domrepo.P2Y)
	}

	if _, err := uc.Run(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: day(-600), EndDate: day(-1),
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if provider.lastPeriod() != domrepo.P5Y {
		t.Fatalf("period = %s, want %s", provider.lastPeriod(), domrepo.P5Y)
	}
}

type fakeQueue struct {
	job *BacktestRunner

	types    []string
	payloads []interface{}
	err      error
}

func (q *fakeQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	if q.err != nil {
		return q.err
	}
	q.types = append(q.types, msgType)
	q.payloads = append(q.payloads, payload)
	if q.job != nil {
		return q.job.Handle(ctx, payload)
	}
	return nil
}

func TestBacktestAsyncLifecycle(t *testing.T) {
	provider := &fakeProvider{candles: dailyCandles(220)}
	uc := NewBacktestUseCase(provider, 730)
	q := &fakeQueue{job: NewBacktestRunner(uc, nil)}
	uc.SetQueue(q, icache.NewTTLCache(), time.Minute)

	job, err := uc.RunAsync(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: day(-60), EndDate: day(-1),
	})
	if err != nil {
		t.Fatalf("RunAsync: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a job id")
	}
	if len(q.types) != 1 || q.types[0] != BacktestJobType {
		t.Fatalf("published types = %v", q.types)
	}

	// The fake queue ran the job inline, so the stored state is terminal.
	got, err := uc.Job(job.ID)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if got.Status != models.JobDone {
		t.Fatalf("status = %s (error %q)", got.Status, got.Error)
	}
	if got.Result == nil || got.Result.Symbol != "AAPL" {
		t.Fatalf("result = %+v", got.Result)
	}
}

func TestBacktestAsyncValidatesBeforeEnqueue(t *testing.T) {
	uc := NewBacktestUseCase(&fakeProvider{}, 730)
	q := &fakeQueue{}
	uc.SetQueue(q, icache.NewTTLCache(), time.Minute)

	_, err := uc.RunAsync(context.Background(), models.BacktestRequest{
		Symbol: "AAPL", StartDate: day(-5), EndDate: day(-10),
	})
	assertBadRequest(t, err)
	if len(q.types) != 0 {
		t.Fatalf("invalid request was enqueued: %v", q.types)
	}
}

func TestBacktestRunnerPersistsFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	uc := NewBacktestUseCase(provider, 730)
	uc.SetQueue(&fakeQueue{}, icache.NewTTLCache(), time.Minute)

	req := models.BacktestRequest{Symbol: "AAPL", StartDate: day(-30), EndDate: day(-1)}
	job := &models.BacktestJob{ID: "abc123", Status: models.JobQueued,
		Symbol: req.Symbol, StartDate: req.StartDate, EndDate: req.EndDate}
	if err := uc.saveJob(job); err != nil {
		t.Fatalf("saveJob: %v", err)
	}

	runner := NewBacktestRunner(uc, nil)
	payload := map[string]interface{}{
		"id": "abc123",
		"request": map[string]interface{}{
			"symbol": req.Symbol, "start_date": req.StartDate, "end_date": req.EndDate,
		},
	}
	if err := runner.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	got, err := uc.Job("abc123")
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if got.Status != models.JobFailed || got.Error == "" {
		t.Fatalf("job = %+v", got)
	}
}

func TestBacktestJobNotFound(t *testing.T) {
	uc := NewBacktestUseCase(&fakeProvider{}, 730)
	uc.SetQueue(&fakeQueue{}, icache.NewTTLCache(), time.Minute)

	_, err := uc.Job("missing")
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("want 404 AppError, got %v", err)
	}
}

func assertBadRequest(t *testing.T, err error) {
	t.Helper()
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) || appErr.Status != 400 {
		t.Fatalf("want 400 AppError, got %v", err)
	}
}
