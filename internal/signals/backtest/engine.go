// Package backtest replays the composite signal day by day over historical
// candles and grades it against realized forward returns.
package backtest

import (
	"math"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/signals/composite"
)

const (
	// Minimum bars of history before a day's signal counts.
	minHistoryBars = 50

	dateLayout = "2006-01-02"
)

// Run replays the composite aggregator over every trading day of candles that
// falls inside [start, end]. Each day sees only the candles up to and
// including itself; forward returns are read from the full series afterwards.
func Run(symbol string, candles []models.Candle, start, end time.Time) models.BacktestResult {
	var daily []models.DailySignal

	for i, c := range candles {
		if c.Date.Before(start) || c.Date.After(end) {
			continue
		}
		history := candles[:i+1]
		if len(history) < minHistoryBars {
			continue
		}

		sig := composite.Compute(symbol, history, nil)
		ds := models.DailySignal{
			Date:           c.Date.Format(dateLayout),
			CompositeScore: sig.CompositeScore,
			Direction:      sig.Direction,
			Conviction:     sig.Conviction,
			Confidence:     sig.Confidence,
		}
		ds.Forward1d, ds.SignalReturn1d = forwardReturn(candles, i, 1, sig.CompositeScore)
		ds.Forward5d, ds.SignalReturn5d = forwardReturn(candles, i, 5, sig.CompositeScore)
		ds.Forward21d, ds.SignalReturn21d = forwardReturn(candles, i, 21, sig.CompositeScore)
		daily = append(daily, ds)
	}

	result := models.BacktestResult{
		Symbol:           symbol,
		StartDate:        start.Format(dateLayout),
		EndDate:          end.Format(dateLayout),
		TotalTradingDays: len(daily),
		DailySignals:     daily,
	}
	result.Horizon1d = horizonMetrics(daily, pick1d)
	result.Horizon5d = horizonMetrics(daily, pick5d)
	result.Horizon21d = horizonMetrics(daily, pick21d)
	result.ConvictionBreakdown = convictionBreakdown(daily)
	result.EquityCurve = equityCurve(daily)
	result.MaxDrawdown1d = maxDrawdown(result.EquityCurve, func(p models.EquityPoint) float64 { return p.Cum1d })
	result.MaxDrawdown5d = maxDrawdown(result.EquityCurve, func(p models.EquityPoint) float64 { return p.Cum5d })
	result.MaxDrawdown21d = maxDrawdown(result.EquityCurve, func(p models.EquityPoint) float64 { return p.Cum21d })
	return result
}

// forwardReturn computes the percent move from day i to day i+horizon and the
// score-weighted signal return. Both are nil past the end of the series.
func forwardReturn(candles []models.Candle, i, horizon int, score float64) (*float64, *float64) {
	j := i + horizon
	if j >= len(candles) {
		return nil, nil
	}
	base := candles[i].Close
	if base == 0 {
		return nil, nil
	}
	fwd := round4((candles[j].Close - base) / base * 100)
	sr := round4(score * fwd)
	return &fwd, &sr
}

// horizonPick selects one horizon's forward and signal return from a day.
type horizonPick func(models.DailySignal) (fwd, sr *float64)

func pick1d(d models.DailySignal) (*float64, *float64)  { return d.Forward1d, d.SignalReturn1d }
func pick5d(d models.DailySignal) (*float64, *float64)  { return d.Forward5d, d.SignalReturn5d }
func pick21d(d models.DailySignal) (*float64, *float64) { return d.Forward21d, d.SignalReturn21d }

// horizonMetrics rolls the daily records up for one horizon. A hit requires
// score and forward return to share a strict sign; a zero on either side is
// neither a win nor a loss.
func horizonMetrics(daily []models.DailySignal, pick horizonPick) models.HorizonMetrics {
	var m models.HorizonMetrics
	var sumSR, posSR, negSR float64
	var defined int

	for _, d := range daily {
		fwd, sr := pick(d)
		if fwd == nil || sr == nil {
			continue
		}
		defined++
		sumSR += *sr
		if *sr > 0 {
			posSR += *sr
		} else if *sr < 0 {
			negSR += *sr
		}
		switch {
		case d.CompositeScore > 0 && *fwd > 0, d.CompositeScore < 0 && *fwd < 0:
			m.Wins++
		case d.CompositeScore > 0 && *fwd < 0, d.CompositeScore < 0 && *fwd > 0:
			m.Losses++
		}
	}

	m.TotalSignals = defined
	if graded := m.Wins + m.Losses; graded > 0 {
		m.HitRate = round3(float64(m.Wins) / float64(graded) * 100)
	}
	if defined > 0 {
		m.AvgSignalReturn = round4(sumSR / float64(defined))
	}
	if negSR < 0 {
		pf := round3(posSR / -negSR)
		m.ProfitFactor = &pf
	}
	return m
}

// convictionBreakdown regroups the daily records by conviction bucket and
// recomputes per-horizon hit rates and average signal returns within each.
// Every bucket is reported, empty ones with zero metrics.
func convictionBreakdown(daily []models.DailySignal) []models.ConvictionBreakdown {
	buckets := []string{models.ConvictionLow, models.ConvictionMedium, models.ConvictionHigh}
	out := make([]models.ConvictionBreakdown, 0, len(buckets))
	for _, bucket := range buckets {
		var group []models.DailySignal
		for _, d := range daily {
			if d.Conviction == bucket {
				group = append(group, d)
			}
		}
		h1 := horizonMetrics(group, pick1d)
		h5 := horizonMetrics(group, pick5d)
		h21 := horizonMetrics(group, pick21d)
		out = append(out, models.ConvictionBreakdown{
			Conviction:   bucket,
			Count:        len(group),
			HitRate1d:    h1.HitRate,
			HitRate5d:    h5.HitRate,
			HitRate21d:   h21.HitRate,
			AvgReturn1d:  h1.AvgSignalReturn,
			AvgReturn5d:  h5.AvgSignalReturn,
			AvgReturn21d: h21.AvgSignalReturn,
		})
	}
	return out
}

// equityCurve is the running cumulative sum of signal returns per horizon.
// Days with an undefined forward return contribute nothing to that horizon.
func equityCurve(daily []models.DailySignal) []models.EquityPoint {
	curve := make([]models.EquityPoint, 0, len(daily))
	var c1, c5, c21 float64
	for _, d := range daily {
		if d.SignalReturn1d != nil {
			c1 += *d.SignalReturn1d
		}
		if d.SignalReturn5d != nil {
			c5 += *d.SignalReturn5d
		}
		if d.SignalReturn21d != nil {
			c21 += *d.SignalReturn21d
		}
		curve = append(curve, models.EquityPoint{
			Date:   d.Date,
			Cum1d:  round4(c1),
			Cum5d:  round4(c5),
			Cum21d: round4(c21),
		})
	}
	return curve
}

// maxDrawdown is the largest peak-to-current drop in a cumulative series.
func maxDrawdown(curve []models.EquityPoint, value func(models.EquityPoint) float64) float64 {
	var peak, worst float64
	first := true
	for _, p := range curve {
		v := value(p)
		if first || v > peak {
			peak = v
			first = false
		}
		if dd := peak - v; dd > worst {
			worst = dd
		}
	}
	return round4(worst)
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
