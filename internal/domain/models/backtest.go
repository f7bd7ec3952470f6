package models

// DailySignal is the replayed composite signal for one trading day plus the
// realized forward returns used to grade it. Forward returns are nil when the
// horizon runs past the end of available data.
type DailySignal struct {
	Date           string   `json:"date"`
	CompositeScore float64  `json:"composite_score"`
	Direction      string   `json:"direction"`
	Conviction     string   `json:"conviction"`
	Confidence     int      `json:"confidence"`
	Forward1d      *float64 `json:"forward_1d"`
	Forward5d      *float64 `json:"forward_5d"`
	Forward21d     *float64 `json:"forward_21d"`
	SignalReturn1d *float64 `json:"signal_return_1d"`
	SignalReturn5d *float64 `json:"signal_return_5d"`
	SignalReturn21d *float64 `json:"signal_return_21d"`
}

// HorizonMetrics aggregates signal accuracy for one forward horizon.
// ProfitFactor is nil when no losing signal-returns exist.
type HorizonMetrics struct {
	HitRate         float64  `json:"hit_rate"`
	AvgSignalReturn float64  `json:"avg_signal_return"`
	ProfitFactor    *float64 `json:"profit_factor"`
	TotalSignals    int      `json:"total_signals"`
	Wins            int      `json:"wins"`
	Losses          int      `json:"losses"`
}

// ConvictionBreakdown recomputes hit rates and average signal returns within
// one conviction bucket. Empty buckets report all-zero metrics.
type ConvictionBreakdown struct {
	Conviction  string  `json:"conviction"`
	Count       int     `json:"count"`
	HitRate1d   float64 `json:"hit_rate_1d"`
	HitRate5d   float64 `json:"hit_rate_5d"`
	HitRate21d  float64 `json:"hit_rate_21d"`
	AvgReturn1d float64 `json:"avg_return_1d"`
	AvgReturn5d float64 `json:"avg_return_5d"`
	AvgReturn21d float64 `json:"avg_return_21d"`
}

// EquityPoint is one day of the cumulative signal-return curves.
type EquityPoint struct {
	Date   string  `json:"date"`
	Cum1d  float64 `json:"cum_1d"`
	Cum5d  float64 `json:"cum_5d"`
	Cum21d float64 `json:"cum_21d"`
}

// BacktestResult is the immutable outcome of one backtest run.
type BacktestResult struct {
	Symbol              string                `json:"symbol"`
	StartDate           string                `json:"start_date"`
	EndDate             string                `json:"end_date"`
	TotalTradingDays    int                   `json:"total_trading_days"`
	Horizon1d           HorizonMetrics        `json:"horizon_1d"`
	Horizon5d           HorizonMetrics        `json:"horizon_5d"`
	Horizon21d          HorizonMetrics        `json:"horizon_21d"`
	ConvictionBreakdown []ConvictionBreakdown `json:"conviction_breakdown"`
	DailySignals        []DailySignal         `json:"daily_signals"`
	EquityCurve         []EquityPoint         `json:"equity_curve"`
	MaxDrawdown1d       float64               `json:"max_drawdown_1d"`
	MaxDrawdown5d       float64               `json:"max_drawdown_5d"`
	MaxDrawdown21d      float64               `json:"max_drawdown_21d"`
}
