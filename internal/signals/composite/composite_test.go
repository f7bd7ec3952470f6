package composite

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func syntheticCandles(n int, start, end float64, noise float64, seed int64) []models.Candle {
	rng := rand.New(rand.NewSource(seed))
	out := make([]models.Candle, n)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	step := (end - start) / float64(n-1)
	for i := 0; i < n; i++ {
		c := start + step*float64(i) + noise*(rng.Float64()-0.5)
		out[i] = models.Candle{
			Date:   day,
			Open:   c - 0.2,
			High:   c + 0.8,
			Low:    c - 0.8,
			Close:  c,
			Volume: 1e6 + 1e5*rng.Float64(),
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func TestWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range Weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-10 {
		t.Fatalf("weights sum = %v", sum)
	}
}

func TestCompositeScoreBounded(t *testing.T) {
	candles := syntheticCandles(250, 100, 150, 2, 1)
	ratio := 1.8
	sig := Compute("TEST", candles, &ratio)
	if sig.CompositeScore < -1 || sig.CompositeScore > 1 {
		t.Fatalf("composite score %v out of range", sig.CompositeScore)
	}
	if sig.Confidence < 0 || sig.Confidence > 100 {
		t.Fatalf("confidence %v out of range", sig.Confidence)
	}
	for _, s := range sig.Signals {
		if s.Score < -1 || s.Score > 1 {
			t.Fatalf("signal %s score %v out of range", s.Name, s.Score)
		}
	}
}

func TestUptrendNeverSell(t *testing.T) {
	candles := syntheticCandles(250, 100, 150, 1, 7)
	sig := Compute("UP", candles, nil)
	if sig.Direction == models.DirectionSell {
		t.Fatalf("uptrend scored sell: score=%v", sig.CompositeScore)
	}
}

func TestDowntrendNeverBuy(t *testing.T) {
	candles := syntheticCandles(250, 150, 100, 1, 7)
	sig := Compute("DOWN", candles, nil)
	if sig.Direction == models.DirectionBuy {
		t.Fatalf("downtrend scored buy: score=%v", sig.CompositeScore)
	}
}

func TestWeightRedistributionWithoutSentiment(t *testing.T) {
	candles := syntheticCandles(250, 100, 120, 1, 3)
	sig := Compute("TEST", candles, nil)

	var pcWeight, otherSum float64
	for _, s := range sig.Signals {
		if s.Name == "put_call_ratio" {
			pcWeight = s.Weight
			if s.Score != 0 {
				t.Fatalf("missing ratio should score 0, got %v", s.Score)
			}
		} else {
			otherSum += s.Weight
		}
	}
	if pcWeight != 0 {
		t.Fatalf("sentiment weight should be exactly 0, got %v", pcWeight)
	}
	if math.Abs(otherSum-1.0) > 1e-9 {
		t.Fatalf("redistributed weights sum = %v", otherSum)
	}
}

func TestSentimentPresentKeepsTableWeights(t *testing.T) {
	candles := syntheticCandles(250, 100, 120, 1, 3)
	ratio := 0.9
	sig := Compute("TEST", candles, &ratio)
	sum := 0.0
	for _, s := range sig.Signals {
		sum += s.Weight
	}
	if math.Abs(sum-1.0) > 1e-10 {
		t.Fatalf("weights sum = %v", sum)
	}
}

func TestAllNeutralConfidenceIsTwenty(t *testing.T) {
	// with no history at all every strategy scores neutral
	sig := Compute("FLAT", nil, nil)
	if sig.Confidence != 20 {
		t.Fatalf("expected confidence 20 for all-neutral, got %d", sig.Confidence)
	}
	if sig.Direction != models.DirectionHold {
		t.Fatalf("expected hold, got %s", sig.Direction)
	}
}

func TestComputeDeterministic(t *testing.T) {
	candles := syntheticCandles(250, 100, 140, 2, 11)
	a := Compute("TEST", candles, nil)
	b := Compute("TEST", candles, nil)
	if a.CompositeScore != b.CompositeScore || a.Confidence != b.Confidence {
		t.Fatalf("compute not deterministic: %v vs %v", a, b)
	}
}
