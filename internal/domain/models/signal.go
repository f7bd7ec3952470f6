package models

// Direction labels for a composite signal.
const (
	DirectionBuy  = "buy"
	DirectionSell = "sell"
	DirectionHold = "hold"
)

// Conviction buckets for a composite signal.
const (
	ConvictionLow    = "low"
	ConvictionMedium = "medium"
	ConvictionHigh   = "high"
)

// SignalScore is one strategy's normalized reading in [-1, +1] together with
// its effective weight in the composite.
type SignalScore struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// CompositeSignal is the weighted combination of every strategy score,
// the unit of output for both live scanning and each backtest day.
type CompositeSignal struct {
	Symbol         string        `json:"symbol"`
	Direction      string        `json:"direction"`
	Conviction     string        `json:"conviction"`
	CompositeScore float64       `json:"composite_score"`
	Confidence     int           `json:"confidence"`
	Signals        []SignalScore `json:"signals"`
}

// RiskContext holds stop-loss, target and sizing derived for one signal.
// A nil StopLoss means there was not enough history to place a stop and the
// whole context is the zero context.
type RiskContext struct {
	StopLoss     *float64 `json:"stop_loss"`
	TargetPrice  *float64 `json:"target_price"`
	RiskReward   *float64 `json:"risk_reward"`
	PositionSize float64  `json:"position_size"`
	PositionPct  float64  `json:"position_pct"`
}

// ScanResult is the full per-symbol output of a live signal scan.
type ScanResult struct {
	Symbol         string        `json:"symbol"`
	CurrentPrice   float64       `json:"current_price"`
	Direction      string        `json:"direction"`
	Conviction     string        `json:"conviction"`
	CompositeScore float64       `json:"composite_score"`
	Confidence     int           `json:"confidence"`
	Signals        []SignalScore `json:"signals"`
	ElliottScore   float64       `json:"elliott_score"`
	AnnualizedVol  float64       `json:"annualized_vol"`
	Risk           RiskContext   `json:"risk"`
}
