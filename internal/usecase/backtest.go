package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	domsvc "TradePulse/internal/domain/service"
	icache "TradePulse/internal/service/cache"
	"TradePulse/internal/signals/backtest"
	xhttp "TradePulse/pkg/http"
	applogger "TradePulse/pkg/logger"
	"TradePulse/pkg/queue"
	xutil "TradePulse/pkg/util"
)

// Warmup of history fetched before the requested start so the first graded
// day already has a year of indicator context.
const warmupCalendarDays = 400

const jobKeyPrefix = "backtest:job:"

// BacktestUseCase validates backtest requests, fetches history and replays
// the composite signal over the range. It also fronts the async job queue.
type BacktestUseCase struct {
	provider     domsvc.MarketDataProvider
	maxRangeDays int
	queue        queue.QueueService
	jobs         icache.BytesCache
	jobTTL       time.Duration
	l            *applogger.Logger
}

func NewBacktestUseCase(provider domsvc.MarketDataProvider, maxRangeDays int) *BacktestUseCase {
	if maxRangeDays <= 0 {
		maxRangeDays = 730
	}
	return &BacktestUseCase{provider: provider, maxRangeDays: maxRangeDays, jobTTL: time.Hour}
}

// SetLogger injects a structured logger.
func (uc *BacktestUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// SetQueue wires the async job queue and its status store.
func (uc *BacktestUseCase) SetQueue(q queue.QueueService, jobs icache.BytesCache, ttl time.Duration) {
	uc.queue = q
	uc.jobs = jobs
	if ttl > 0 {
		uc.jobTTL = ttl
	}
}

// validateRange parses and checks the requested window.
func (uc *BacktestUseCase) validateRange(req models.BacktestRequest) (start, end time.Time, err error) {
	start, ok := xutil.ParseDate(req.StartDate)
	if !ok {
		return start, end, xhttp.BadRequestErrorf("invalid start_date %q", req.StartDate)
	}
	end, ok = xutil.ParseDate(req.EndDate)
	if !ok {
		return start, end, xhttp.BadRequestErrorf("invalid end_date %q", req.EndDate)
	}
	if end.Before(start) {
		return start, end, xhttp.BadRequestError("end_date must not be before start_date")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if end.After(today) {
		return start, end, xhttp.BadRequestError("end_date must not be in the future")
	}
	if int(end.Sub(start).Hours()/24) > uc.maxRangeDays {
		return start, end, xhttp.BadRequestErrorf("date range exceeds %d days", uc.maxRangeDays)
	}
	return start, end, nil
}

// periodFor picks the smallest fetch period covering the window plus warmup.
func periodFor(start time.Time) domrepo.Period {
	needed := int(time.Since(start).Hours()/24) + warmupCalendarDays
	switch {
	case needed <= 91:
		return domrepo.P3Mo
	case needed <= 182:
		return domrepo.P6Mo
	case needed <= 365:
		return domrepo.P1Y
	case needed <= 730:
		return domrepo.P2Y
	default:
		return domrepo.P5Y
	}
}

// Run executes a backtest synchronously.
func (uc *BacktestUseCase) Run(ctx context.Context, req models.BacktestRequest) (*models.BacktestResult, error) {
	start, end, err := uc.validateRange(req)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	candles, err := uc.provider.GetDailyCandles(ctx, req.Symbol, periodFor(start))
	if err != nil {
		if errors.Is(err, domsvc.ErrSymbolNotFound) {
			return nil, xhttp.NotFoundErrorf("no price history for %s", req.Symbol)
		}
		return nil, fmt.Errorf("fetch candles %s: %w", req.Symbol, err)
	}

	result := backtest.Run(req.Symbol, candles, start, end)
	if uc.l != nil {
		uc.l.Info("backtest complete",
			applogger.String("symbol", req.Symbol),
			applogger.Int("trading_days", result.TotalTradingDays),
			applogger.Duration("duration_ms", time.Since(began)),
		)
	}
	return &result, nil
}

// RunAsync enqueues a backtest and returns a queued job handle.
func (uc *BacktestUseCase) RunAsync(ctx context.Context, req models.BacktestRequest) (*models.BacktestJob, error) {
	if uc.queue == nil || uc.jobs == nil {
		return nil, xhttp.BadRequestError("async backtests are not enabled")
	}
	if _, _, err := uc.validateRange(req); err != nil {
		return nil, err
	}

	job := &models.BacktestJob{
		ID:        newJobID(),
		Status:    models.JobQueued,
		Symbol:    req.Symbol,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := uc.saveJob(job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	payload := backtestJobPayload{ID: job.ID, Request: req}
	if err := uc.queue.PublishMessage(ctx, BacktestJobType, payload); err != nil {
		job.Status = models.JobFailed
		job.Error = err.Error()
		_ = uc.saveJob(job)
		return nil, fmt.Errorf("enqueue backtest: %w", err)
	}
	return job, nil
}

// Job returns the state of an async backtest.
func (uc *BacktestUseCase) Job(id string) (*models.BacktestJob, error) {
	if uc.jobs == nil {
		return nil, xhttp.BadRequestError("async backtests are not enabled")
	}
	b, ok, err := uc.jobs.GetBytes(jobKeyPrefix + id)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if !ok {
		return nil, xhttp.NotFoundErrorf("job %s not found", id)
	}
	var job models.BacktestJob
	if err := json.Unmarshal(b, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

func (uc *BacktestUseCase) saveJob(job *models.BacktestJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return uc.jobs.SetBytes(jobKeyPrefix+job.ID, b, uc.jobTTL)
}

func newJobID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
