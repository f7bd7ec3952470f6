package usecase

import (
	"context"

	"TradePulse/internal/domain/models"
	applogger "TradePulse/pkg/logger"
	"TradePulse/pkg/queue"
)

// BacktestJobType is the queue message type for async backtests.
const BacktestJobType = "backtest.run"

type backtestJobPayload struct {
	ID      string                 `json:"id"`
	Request models.BacktestRequest `json:"request"`
}

// BacktestRunner consumes queued backtest jobs and stores their results.
type BacktestRunner struct {
	uc *BacktestUseCase
	l  *applogger.Logger
}

func NewBacktestRunner(uc *BacktestUseCase, l *applogger.Logger) *BacktestRunner {
	return &BacktestRunner{uc: uc, l: l}
}

func (j *BacktestRunner) Name() string { return "backtest-runner" }

func (j *BacktestRunner) Type() string { return BacktestJobType }

func (j *BacktestRunner) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[backtestJobPayload](payload)
	if err != nil {
		return err
	}

	job, err := j.uc.Job(p.ID)
	if err != nil {
		// Expired or missing job record: run anyway so the message is not
		// retried forever, but there is nowhere to store the outcome.
		if j.l != nil {
			j.l.Warn("backtest job record missing", applogger.String("job_id", p.ID), applogger.Error(err))
		}
		job = &models.BacktestJob{ID: p.ID, Symbol: p.Request.Symbol,
			StartDate: p.Request.StartDate, EndDate: p.Request.EndDate}
	}

	job.Status = models.JobRunning
	_ = j.uc.saveJob(job)

	result, err := j.uc.Run(ctx, p.Request)
	if err != nil {
		job.Status = models.JobFailed
		job.Error = err.Error()
		if saveErr := j.uc.saveJob(job); saveErr != nil {
			return saveErr
		}
		if j.l != nil {
			j.l.Error("backtest job failed", applogger.String("job_id", p.ID),
				applogger.String("symbol", p.Request.Symbol), applogger.Error(err))
		}
		return nil // persisted failure, do not retry
	}

	job.Status = models.JobDone
	job.Error = ""
	job.Result = result
	return j.uc.saveJob(job)
}

var _ queue.Job = (*BacktestRunner)(nil)
