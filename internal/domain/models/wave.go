package models

// Wave pattern labels.
const (
	PatternImpulseUp      = "impulse_up"
	PatternImpulseDown    = "impulse_down"
	PatternCorrectiveUp   = "corrective_up"
	PatternCorrectiveDown = "corrective_down"
	PatternUnclear        = "unclear"
)

// PivotKind marks a confirmed swing extreme as a high or a low.
type PivotKind string

const (
	PivotHigh PivotKind = "high"
	PivotLow  PivotKind = "low"
)

// Pivot is a confirmed local price extreme surviving the zigzag noise filter.
// Index is the bar position within the series the detector ran on.
type Pivot struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Kind  PivotKind `json:"type"`
}

// WavePivot is a pivot annotated with its Elliott wave label ("1".."5",
// "start", "A".."C").
type WavePivot struct {
	Pivot
	WaveLabel string `json:"wave_label"`
}

// FibLevel is one projected Fibonacci support/resistance price level.
type FibLevel struct {
	Level float64 `json:"level"`
	Ratio string  `json:"ratio"`
	Label string  `json:"label"`
}

// WaveStructure describes the best Elliott wave match over a candle series.
// It is recomputed fresh on every call; nothing is persisted between calls.
type WaveStructure struct {
	Pattern     string     `json:"pattern"`
	CurrentWave string     `json:"current_wave"`
	Pivots      []WavePivot `json:"wave_pivots"`
	Confidence  float64    `json:"confidence"`
	FibLevels   []FibLevel `json:"fib_levels"`
}
