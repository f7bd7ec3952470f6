package scoring

import (
	"math"
	"testing"
)

func rampCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestScoresBounded(t *testing.T) {
	n := 260
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + 20*math.Sin(float64(i)/9) + 0.1*float64(i)
		closes[i] = base
		highs[i] = base + 1.5
		lows[i] = base - 1.5
		volumes[i] = 1e6 + 1e5*math.Sin(float64(i)/4)
	}

	scores := []float64{
		ScoreMACrossover(closes),
		ScoreRSI(closes),
		ScoreMACD(closes),
		ScoreBollinger(closes),
		ScoreMeanReversion(closes),
		ScoreTrend(closes),
		ScoreVolumeTrend(closes, volumes),
		ScoreADX(highs, lows, closes),
		ScoreStochastic(highs, lows, closes),
		ScoreADLine(highs, lows, closes, volumes),
		ScoreCMF(highs, lows, closes, volumes),
	}
	for i, s := range scores {
		if s < -1 || s > 1 {
			t.Fatalf("score %d = %v out of [-1,1]", i, s)
		}
	}
}

func TestScoreMACrossoverGapScaling(t *testing.T) {
	// flat history ending with fast MA 1% above slow MA scores about +0.5
	closes := rampCloses(50, 100, 0)
	for i := 30; i < 50; i++ {
		closes[i] = 102.5
	}
	s := ScoreMACrossover(closes)
	if s <= 0 {
		t.Fatalf("expected positive crossover score, got %v", s)
	}
	if s > 1 {
		t.Fatalf("score %v above clamp", s)
	}
}

func TestScoreRSINeutralMidband(t *testing.T) {
	// alternating gains and losses keep RSI near 50
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%2)
	}
	if s := ScoreRSI(closes); s != 0 {
		t.Fatalf("expected neutral rsi score, got %v", s)
	}
}

func TestScoreTrendUptrendFullAlignment(t *testing.T) {
	closes := rampCloses(250, 100, 0.5)
	s := ScoreTrend(closes)
	if !almost(s, 1.0) {
		t.Fatalf("expected 1.0 for full alignment, got %v", s)
	}
	down := rampCloses(250, 250, -0.5)
	if s := ScoreTrend(down); !almost(s, -1.0) {
		t.Fatalf("expected -1.0 for inverse alignment, got %v", s)
	}
}

func TestScoreInsufficientHistoryNeutral(t *testing.T) {
	short := rampCloses(10, 100, 1)
	if s := ScoreMACrossover(short); s != 0 {
		t.Fatalf("ma crossover on short history = %v", s)
	}
	if s := ScoreRSI(short); s != 0 {
		t.Fatalf("rsi on short history = %v", s)
	}
	if s := ScoreBollinger(short); s != 0 {
		t.Fatalf("bollinger on short history = %v", s)
	}
	if s := ScoreVolumeTrend(short, rampCloses(10, 1000, 0)); s != 0 {
		t.Fatalf("volume trend on short history = %v", s)
	}
}

func TestScorePutCallRatio(t *testing.T) {
	fear := 1.5
	if s := ScorePutCallRatio(&fear); s <= 0 {
		t.Fatalf("ratio 1.5 should score positive, got %v", s)
	}
	complacent := 0.2
	if s := ScorePutCallRatio(&complacent); s >= 0 {
		t.Fatalf("ratio 0.2 should score negative, got %v", s)
	}
	neutral := 0.8
	if s := ScorePutCallRatio(&neutral); s != 0 {
		t.Fatalf("ratio 0.8 should score 0, got %v", s)
	}
	if s := ScorePutCallRatio(nil); s != 0 {
		t.Fatalf("nil ratio should score 0, got %v", s)
	}
}

func TestScoreADLineDivergence(t *testing.T) {
	// price drifts down while closes sit near the highs of each bar, so the
	// A/D line accumulates: bullish divergence scores +0.7
	n := 60
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i := 0; i < n; i++ {
		mid := 100 - 0.3*float64(i)
		lows[i] = mid - 2
		highs[i] = mid + 0.1
		closes[i] = mid
		volumes[i] = 1e6
	}
	s := ScoreADLine(highs, lows, closes, volumes)
	if s != 0.7 {
		t.Fatalf("expected bullish divergence 0.7, got %v", s)
	}
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
