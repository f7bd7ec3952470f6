package backtest

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/signals/composite"
)

func syntheticCandles(n int, start, end float64, seed int64) []models.Candle {
	rng := rand.New(rand.NewSource(seed))
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		base := start + step*float64(i)
		noise := rng.Float64()*2 - 1
		c := base + noise
		out[i] = models.Candle{
			Date: day, Open: c - 0.2, High: c + 1, Low: c - 1, Close: c,
			Volume: 1e6 + rng.Float64()*1e5,
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func span(candles []models.Candle) (time.Time, time.Time) {
	return candles[0].Date, candles[len(candles)-1].Date
}

func TestRunSkipsShortHistory(t *testing.T) {
	candles := syntheticCandles(120, 100, 120, 1)
	start, end := span(candles)
	result := Run("TEST", candles, start, end)
	// the first 49 days lack the 50-bar minimum
	if want := 120 - 49; result.TotalTradingDays != want {
		t.Fatalf("trading days = %d, want %d", result.TotalTradingDays, want)
	}
	if result.DailySignals[0].Date != candles[49].Date.Format("2006-01-02") {
		t.Fatalf("first graded day = %s", result.DailySignals[0].Date)
	}
}

func TestRunForwardReturnsNilAtSeriesEnd(t *testing.T) {
	candles := syntheticCandles(120, 100, 120, 2)
	start, end := span(candles)
	result := Run("TEST", candles, start, end)
	last := result.DailySignals[len(result.DailySignals)-1]
	if last.Forward1d != nil || last.Forward5d != nil || last.Forward21d != nil {
		t.Fatalf("last day should have no forward returns: %+v", last)
	}
	first := result.DailySignals[0]
	if first.Forward21d == nil {
		t.Fatal("first graded day should have a 21d forward return")
	}
}

func TestRunNoLookahead(t *testing.T) {
	candles := syntheticCandles(160, 100, 130, 3)
	cut := 120
	day := candles[cut-1].Date
	full := Run("TEST", candles, day, day)
	trimmed := Run("TEST", candles[:cut], day, day)
	if len(full.DailySignals) != 1 || len(trimmed.DailySignals) != 1 {
		t.Fatalf("expected one graded day each, got %d/%d",
			len(full.DailySignals), len(trimmed.DailySignals))
	}
	a, b := full.DailySignals[0], trimmed.DailySignals[0]
	if a.CompositeScore != b.CompositeScore || a.Direction != b.Direction ||
		a.Conviction != b.Conviction || a.Confidence != b.Confidence {
		t.Fatalf("deleting future bars changed the signal: %+v vs %+v", a, b)
	}
}

func TestRunIdempotent(t *testing.T) {
	candles := syntheticCandles(200, 100, 150, 4)
	start, end := span(candles)
	a := Run("TEST", candles, start, end)
	b := Run("TEST", candles, start, end)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical runs produced different results")
	}
}

func TestRunSignalsMatchComposite(t *testing.T) {
	candles := syntheticCandles(100, 100, 115, 5)
	start, end := span(candles)
	result := Run("TEST", candles, start, end)
	d0 := result.DailySignals[0]
	want := composite.Compute("TEST", candles[:50], nil)
	if d0.CompositeScore != want.CompositeScore || d0.Direction != want.Direction {
		t.Fatalf("day 0 signal %+v, composite says %+v", d0, want)
	}
}

func TestHorizonMetricsSignGrading(t *testing.T) {
	p := func(v float64) *float64 { return &v }
	daily := []models.DailySignal{
		{CompositeScore: 0.5, Forward1d: p(2), SignalReturn1d: p(1.0)},    // win
		{CompositeScore: 0.5, Forward1d: p(-2), SignalReturn1d: p(-1.0)},  // loss
		{CompositeScore: -0.5, Forward1d: p(-2), SignalReturn1d: p(1.0)},  // win
		{CompositeScore: 0, Forward1d: p(2), SignalReturn1d: p(0)},        // ungraded
		{CompositeScore: 0.5, Forward1d: p(0), SignalReturn1d: p(0)},      // ungraded
		{CompositeScore: 0.5},                                             // undefined forward
	}
	m := horizonMetrics(daily, pick1d)
	if m.Wins != 2 || m.Losses != 1 {
		t.Fatalf("wins/losses = %d/%d, want 2/1", m.Wins, m.Losses)
	}
	if m.TotalSignals != 5 {
		t.Fatalf("total signals = %d, want 5", m.TotalSignals)
	}
	if m.HitRate != 66.667 {
		t.Fatalf("hit rate = %v, want 66.667", m.HitRate)
	}
	if m.ProfitFactor == nil || *m.ProfitFactor != 2 {
		t.Fatalf("profit factor = %v, want 2", m.ProfitFactor)
	}
}

func TestHorizonMetricsNoLossesUndefinedProfitFactor(t *testing.T) {
	p := func(v float64) *float64 { return &v }
	daily := []models.DailySignal{
		{CompositeScore: 0.5, Forward1d: p(2), SignalReturn1d: p(1.0)},
		{CompositeScore: 0.5, Forward1d: p(1), SignalReturn1d: p(0.5)},
	}
	m := horizonMetrics(daily, pick1d)
	if m.ProfitFactor != nil {
		t.Fatalf("profit factor should be undefined with no losses, got %v", *m.ProfitFactor)
	}
	if m.HitRate != 100 {
		t.Fatalf("hit rate = %v, want 100", m.HitRate)
	}
}

func TestConvictionBreakdownReportsAllBuckets(t *testing.T) {
	candles := syntheticCandles(150, 100, 130, 6)
	start, end := span(candles)
	result := Run("TEST", candles, start, end)
	if len(result.ConvictionBreakdown) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(result.ConvictionBreakdown))
	}
	order := []string{models.ConvictionLow, models.ConvictionMedium, models.ConvictionHigh}
	total := 0
	for i, b := range result.ConvictionBreakdown {
		if b.Conviction != order[i] {
			t.Fatalf("bucket %d = %s, want %s", i, b.Conviction, order[i])
		}
		if b.Count == 0 && (b.HitRate1d != 0 || b.AvgReturn21d != 0) {
			t.Fatalf("empty bucket %s has nonzero metrics: %+v", b.Conviction, b)
		}
		total += b.Count
	}
	if total != result.TotalTradingDays {
		t.Fatalf("bucket counts sum to %d, want %d", total, result.TotalTradingDays)
	}
}

func TestEquityCurveAndDrawdown(t *testing.T) {
	candles := syntheticCandles(200, 100, 150, 7)
	start, end := span(candles)
	result := Run("TEST", candles, start, end)
	if len(result.EquityCurve) != len(result.DailySignals) {
		t.Fatalf("equity curve length %d, daily %d",
			len(result.EquityCurve), len(result.DailySignals))
	}
	if result.MaxDrawdown1d < 0 || result.MaxDrawdown5d < 0 || result.MaxDrawdown21d < 0 {
		t.Fatal("drawdowns must be non-negative")
	}
}

func TestRunWindowFiltersDates(t *testing.T) {
	candles := syntheticCandles(150, 100, 120, 8)
	start := candles[60].Date
	end := candles[99].Date
	result := Run("TEST", candles, start, end)
	if result.TotalTradingDays != 40 {
		t.Fatalf("trading days = %d, want 40", result.TotalTradingDays)
	}
	for _, d := range result.DailySignals {
		if d.Date < start.Format("2006-01-02") || d.Date > end.Format("2006-01-02") {
			t.Fatalf("day %s outside window", d.Date)
		}
	}
}
