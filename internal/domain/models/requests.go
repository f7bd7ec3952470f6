package models

// ScanRequest asks for a full composite-signal scan of one symbol.
type ScanRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Period string `query:"period" json:"period" default:"1y" validate:"omitempty,oneof=3mo 6mo 1y 2y 5y"`
}

// BatchScanRequest scans several symbols in one call.
type BatchScanRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=50,dive,min=1,max=12"`
	Period  string   `json:"period" default:"1y" validate:"omitempty,oneof=3mo 6mo 1y 2y 5y"`
}

// WavesRequest asks for the Elliott wave structure of one symbol.
type WavesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Period string `query:"period" json:"period" default:"1y" validate:"omitempty,oneof=3mo 6mo 1y 2y 5y"`
}

// BacktestRequest runs the signal replay over a date range. Dates are
// calendar dates in YYYY-MM-DD form.
type BacktestRequest struct {
	Symbol    string `json:"symbol" validate:"required,min=1,max=12"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Async     bool   `json:"async"`
}

// CandlesRequest fetches stored daily bars.
type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	From   string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit  int    `query:"limit" json:"limit" default:"5000" validate:"omitempty,gt=0,lte=50000"`
}

// BacktestJob tracks an asynchronously queued backtest run.
type BacktestJob struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Symbol    string          `json:"symbol"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Error     string          `json:"error,omitempty"`
	Result    *BacktestResult `json:"result,omitempty"`
}

// Backtest job states.
const (
	JobQueued  = "queued"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)
