// Package composite combines the individual strategy scores into a single
// recommendation with direction, conviction and confidence.
package composite

import (
	"math"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/signals/scoring"
)

// Weights is the fixed per-strategy weight table. It sums to exactly 1.0.
var Weights = map[string]float64{
	"ma_crossover":   0.10,
	"rsi":            0.10,
	"macd":           0.10,
	"bollinger":      0.07,
	"mean_reversion": 0.07,
	"trend":          0.12,
	"volume":         0.08,
	"adx":            0.10,
	"stochastic":     0.08,
	"ad_line":        0.06,
	"cmf":            0.07,
	"put_call_ratio": 0.05,
}

// Evaluator binds one strategy name and description to its scoring function
// over a candle series.
type Evaluator struct {
	Name        string
	Description string
	Eval        func(candles []models.Candle) float64
}

// Evaluators is the dispatch table for every OHLCV-driven strategy, in the
// order scores are reported. The put/call ratio strategy is appended
// separately because its input does not come from the candle series.
func Evaluators() []Evaluator {
	return []Evaluator{
		{"ma_crossover", "SMA 20/50 crossover", func(c []models.Candle) float64 {
			return scoring.ScoreMACrossover(models.Closes(c))
		}},
		{"rsi", "RSI (14) overbought/oversold", func(c []models.Candle) float64 {
			return scoring.ScoreRSI(models.Closes(c))
		}},
		{"macd", "MACD histogram momentum", func(c []models.Candle) float64 {
			return scoring.ScoreMACD(models.Closes(c))
		}},
		{"bollinger", "Bollinger Band %B position", func(c []models.Candle) float64 {
			return scoring.ScoreBollinger(models.Closes(c))
		}},
		{"mean_reversion", "Z-score mean reversion", func(c []models.Candle) float64 {
			return scoring.ScoreMeanReversion(models.Closes(c))
		}},
		{"trend", "EMA 20/50/200 alignment", func(c []models.Candle) float64 {
			return scoring.ScoreTrend(models.Closes(c))
		}},
		{"volume", "OBV trend confirmation", func(c []models.Candle) float64 {
			return scoring.ScoreVolumeTrend(models.Closes(c), models.Volumes(c))
		}},
		{"adx", "ADX trend strength", func(c []models.Candle) float64 {
			return scoring.ScoreADX(models.Highs(c), models.Lows(c), models.Closes(c))
		}},
		{"stochastic", "Stochastic %K/%D oscillator", func(c []models.Candle) float64 {
			return scoring.ScoreStochastic(models.Highs(c), models.Lows(c), models.Closes(c))
		}},
		{"ad_line", "A/D line vs price trend", func(c []models.Candle) float64 {
			return scoring.ScoreADLine(models.Highs(c), models.Lows(c), models.Closes(c), models.Volumes(c))
		}},
		{"cmf", "Chaikin Money Flow pressure", func(c []models.Candle) float64 {
			return scoring.ScoreCMF(models.Highs(c), models.Lows(c), models.Closes(c), models.Volumes(c))
		}},
	}
}

// Compute evaluates every strategy over the candle series and aggregates the
// weighted composite signal. putCallRatio may be nil; its weight is then
// redistributed proportionally across the remaining strategies. A panic
// inside one scorer downgrades that strategy to neutral instead of failing
// the whole computation.
func Compute(symbol string, candles []models.Candle, putCallRatio *float64) models.CompositeSignal {
	pcScore := scoring.ScorePutCallRatio(putCallRatio)

	results := make([]models.SignalScore, 0, len(Weights))
	for _, ev := range Evaluators() {
		results = append(results, models.SignalScore{
			Name:        ev.Name,
			Score:       round4(safeEval(ev.Eval, candles)),
			Weight:      Weights[ev.Name],
			Description: ev.Description,
		})
	}
	results = append(results, models.SignalScore{
		Name:        "put_call_ratio",
		Score:       round4(pcScore),
		Weight:      Weights["put_call_ratio"],
		Description: "Put/call ratio contrarian sentiment",
	})

	if putCallRatio == nil {
		redistributeSentimentWeight(results)
	}

	compositeScore := 0.0
	for _, s := range results {
		compositeScore += s.Score * s.Weight
	}
	compositeScore = scoring.Clamp(compositeScore)

	return models.CompositeSignal{
		Symbol:         symbol,
		Direction:      direction(compositeScore),
		Conviction:     conviction(compositeScore),
		CompositeScore: round4(compositeScore),
		Confidence:     confidence(results),
		Signals:        results,
	}
}

// redistributeSentimentWeight zeroes the put/call weight and rescales the
// remaining weights so the effective table still sums to 1.0.
func redistributeSentimentWeight(results []models.SignalScore) {
	otherSum := 0.0
	for _, s := range results {
		if s.Name != "put_call_ratio" {
			otherSum += s.Weight
		}
	}
	if otherSum <= 0 {
		return
	}
	scale := 1.0 / otherSum
	for i := range results {
		if results[i].Name == "put_call_ratio" {
			results[i].Weight = 0
		} else {
			results[i].Weight *= scale
		}
	}
}

func direction(score float64) string {
	switch {
	case score >= 0.2:
		return models.DirectionBuy
	case score <= -0.2:
		return models.DirectionSell
	}
	return models.DirectionHold
}

func conviction(score float64) string {
	mag := math.Abs(score)
	switch {
	case mag >= 0.6:
		return models.ConvictionHigh
	case mag >= 0.3:
		return models.ConvictionMedium
	}
	return models.ConvictionLow
}

// confidence measures cross-strategy agreement independent of score
// magnitude: each non-neutral strategy (outside a +-0.1 dead-zone) votes a
// direction, and agreement among voters dominates the blend.
func confidence(results []models.SignalScore) int {
	if len(results) == 0 {
		return 0
	}
	sum := 0
	nonNeutral := 0
	for _, s := range results {
		switch {
		case s.Score > 0.1:
			sum++
			nonNeutral++
		case s.Score < -0.1:
			sum--
			nonNeutral++
		}
	}
	if nonNeutral == 0 {
		return 20
	}
	agreement := math.Abs(float64(sum)) / float64(nonNeutral)
	dataQuality := float64(nonNeutral) / float64(len(results))
	return int(math.Min(100, math.Round(agreement*70+dataQuality*30)))
}

func safeEval(fn func([]models.Candle) float64, candles []models.Candle) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
		}
	}()
	return fn(candles)
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }
