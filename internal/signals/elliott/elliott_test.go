package elliott

import (
	"math"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

// legs builds a piecewise-linear candle path with +-0.5 bar ranges.
func legs(start float64, segments ...struct {
	bars int
	step float64
}) []models.Candle {
	var out []models.Candle
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	price := start
	push := func(p float64) {
		out = append(out, models.Candle{
			Date: day, Open: p, High: p + 0.5, Low: p - 0.5, Close: p, Volume: 1e6,
		})
		day = day.AddDate(0, 0, 1)
	}
	push(price)
	for _, seg := range segments {
		for i := 0; i < seg.bars; i++ {
			price += seg.step
			push(price)
		}
	}
	return out
}

type leg = struct {
	bars int
	step float64
}

func impulseCandles() []models.Candle {
	// 1: +20, 2: -10 (50%), 3: +32 (1.6x), 4: -10 (31% of 3), 5: +18 (0.9x)
	return legs(100,
		leg{20, 1.0},
		leg{10, -1.0},
		leg{16, 2.0},
		leg{10, -1.0},
		leg{12, 1.5},
	)
}

func TestZigzagTooShort(t *testing.T) {
	c := impulseCandles()[:19]
	if p := ZigzagPivots(models.Highs(c), models.Lows(c), models.Closes(c)); p != nil {
		t.Fatalf("expected no pivots on short series, got %d", len(p))
	}
}

func TestZigzagAlternatesKinds(t *testing.T) {
	c := impulseCandles()
	pivots := ZigzagPivots(models.Highs(c), models.Lows(c), models.Closes(c))
	if len(pivots) < 2 {
		t.Fatalf("expected pivots, got %d", len(pivots))
	}
	for i := 1; i < len(pivots); i++ {
		if pivots[i].Kind == pivots[i-1].Kind {
			t.Fatalf("adjacent pivots %d,%d share kind %s", i-1, i, pivots[i].Kind)
		}
		if pivots[i].Index <= pivots[i-1].Index {
			t.Fatalf("pivot indexes not increasing at %d", i)
		}
	}
}

func TestValidateFibonacciExactRatios(t *testing.T) {
	pivots := []models.Pivot{
		{Index: 0, Price: 100, Kind: models.PivotLow},
		{Index: 10, Price: 120, Kind: models.PivotHigh},  // wave 1 = 20
		{Index: 20, Price: 110, Kind: models.PivotLow},   // retrace 10 (50%)
		{Index: 30, Price: 142, Kind: models.PivotHigh},  // wave 3 = 32 (1.6x)
		{Index: 40, Price: 132, Kind: models.PivotLow},   // retrace 10 (31%)
		{Index: 50, Price: 150, Kind: models.PivotHigh},  // wave 5 = 18 (0.9x)
	}
	confidence, details := ValidateFibonacci(pivots)
	if confidence <= 0.5 {
		t.Fatalf("confidence = %v, want > 0.5", confidence)
	}
	if len(details) != 4 {
		t.Fatalf("expected 4 ratio checks, got %d", len(details))
	}
	for name, rc := range details {
		if rc.Score != 1.0 {
			t.Fatalf("%s score = %v, want 1.0", name, rc.Score)
		}
	}
}

func TestValidateFibonacciTooFewPivots(t *testing.T) {
	pivots := []models.Pivot{
		{Index: 0, Price: 100, Kind: models.PivotLow},
		{Index: 5, Price: 120, Kind: models.PivotHigh},
	}
	confidence, details := ValidateFibonacci(pivots)
	if confidence != 0 {
		t.Fatalf("confidence = %v, want 0", confidence)
	}
	if len(details) != 0 {
		t.Fatalf("details should be empty, got %v", details)
	}
}

func TestRatioScoreDecay(t *testing.T) {
	if s := ratioScore(0.5, 0.382, 0.618); s != 1.0 {
		t.Fatalf("in-band score = %v", s)
	}
	// a miss of one band-width decays to zero
	width := 0.618 - 0.382
	if s := ratioScore(0.618+width, 0.382, 0.618); s != 0 {
		t.Fatalf("full-miss score = %v", s)
	}
	if s := ratioScore(0.618+width/2, 0.382, 0.618); math.Abs(s-0.5) > 1e-9 {
		t.Fatalf("half-miss score = %v", s)
	}
}

func TestDetectWavesImpulseUp(t *testing.T) {
	c := impulseCandles()
	w := DetectWaves(c)
	if w.Pattern != models.PatternImpulseUp {
		t.Fatalf("pattern = %s", w.Pattern)
	}
	if w.CurrentWave != "5" {
		t.Fatalf("current wave = %s, want 5 for a complete impulse", w.CurrentWave)
	}
	if w.Confidence <= 0.5 || w.Confidence > 1 {
		t.Fatalf("confidence = %v", w.Confidence)
	}
	if len(w.Pivots) != 6 {
		t.Fatalf("expected 6 labeled pivots, got %d", len(w.Pivots))
	}
	if w.Pivots[0].WaveLabel != "1" || w.Pivots[4].WaveLabel != "5" {
		t.Fatalf("unexpected wave labels %v", w.Pivots)
	}
	if len(w.FibLevels) != 7 {
		t.Fatalf("expected 7 fib levels, got %d", len(w.FibLevels))
	}
}

func TestDetectWavesShortSeriesUnclear(t *testing.T) {
	c := impulseCandles()[:40]
	w := DetectWaves(c)
	if w.Pattern != models.PatternUnclear {
		t.Fatalf("pattern = %s, want unclear", w.Pattern)
	}
	if w.Confidence != 0 || len(w.Pivots) != 0 {
		t.Fatalf("unclear structure should be empty: %+v", w)
	}
}

func TestDetectWavesCorrective(t *testing.T) {
	c := legs(100,
		leg{25, 1.0},
		leg{12, -1.0},
		leg{20, 1.0},
	)
	w := DetectWaves(c)
	if w.Pattern != models.PatternCorrectiveUp {
		t.Fatalf("pattern = %s, want corrective_up", w.Pattern)
	}
	if w.Confidence != correctiveConfidence {
		t.Fatalf("confidence = %v, want %v", w.Confidence, correctiveConfidence)
	}
	if w.CurrentWave != "C" {
		t.Fatalf("current wave = %s, want C", w.CurrentWave)
	}
}

func TestScoreCompletedImpulseIsWeak(t *testing.T) {
	s := Score(impulseCandles())
	if s <= 0 {
		t.Fatalf("impulse up should score positive, got %v", s)
	}
	// wave 5 of a complete impulse is a fading signal, capped at 0.2*conf
	if s > 0.2 {
		t.Fatalf("wave-5 score = %v, want <= 0.2", s)
	}
}

func TestScoreUnclearNeutral(t *testing.T) {
	if s := Score(impulseCandles()[:30]); s != 0 {
		t.Fatalf("short series should score 0, got %v", s)
	}
}

func TestDetectWavesDeterministic(t *testing.T) {
	c := impulseCandles()
	a := DetectWaves(c)
	b := DetectWaves(c)
	if a.Pattern != b.Pattern || a.Confidence != b.Confidence || len(a.Pivots) != len(b.Pivots) {
		t.Fatalf("detect not deterministic")
	}
}
