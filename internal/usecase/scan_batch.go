package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
)

// BatchScanUseCase fans a scan out over several symbols with bounded
// concurrency and collects per-symbol failures without failing the batch.
type BatchScanUseCase struct {
	signals     *SignalsUseCase
	timeout     time.Duration
	concurrency int
}

func NewBatchScanUseCase(signals *SignalsUseCase) *BatchScanUseCase {
	return &BatchScanUseCase{signals: signals, timeout: 30 * time.Second, concurrency: 4}
}

// BatchScanResult carries the successful scans plus any per-symbol errors.
type BatchScanResult struct {
	Results []*models.ScanResult `json:"results"`
	Errors  map[string]string    `json:"errors,omitempty"`
}

func (uc *BatchScanUseCase) Scan(ctx context.Context, symbols []string, period domrepo.Period) (*BatchScanResult, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols required")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	type item struct {
		symbol string
		res    *models.ScanResult
		err    error
	}
	ch := make(chan item, len(symbols))
	sem := make(chan struct{}, uc.concurrency)
	var wg sync.WaitGroup

	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := uc.signals.Scan(ctx, sym, period)
			ch <- item{sym, res, err}
		}(sym)
	}

	go func() { wg.Wait(); close(ch) }()

	out := &BatchScanResult{Errors: map[string]string{}}
	for it := range ch {
		if it.err != nil {
			out.Errors[it.symbol] = it.err.Error()
			continue
		}
		out.Results = append(out.Results, it.res)
	}
	if len(out.Errors) == 0 {
		out.Errors = nil
	}
	return out, nil
}
