package features

import (
	"math"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func candlesFromCloses(closes []float64) []models.Candle {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{Date: day, Close: c, High: c, Low: c, Open: c, Volume: 1}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func TestComputeLogReturns(t *testing.T) {
	rets := ComputeLogReturns(candlesFromCloses([]float64{100, 110, 99}))
	if len(rets) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(rets))
	}
	if math.Abs(rets[0]-math.Log(1.1)) > 1e-12 {
		t.Fatalf("first return = %v", rets[0])
	}
	if ComputeLogReturns(candlesFromCloses([]float64{100})) != nil {
		t.Fatal("single candle should yield nil returns")
	}
}

func TestRealizedVolatilityConstantSeries(t *testing.T) {
	rets := make([]float64, 40)
	if v := RealizedVolatility(rets, 20); v != 0 {
		t.Fatalf("flat series vol = %v, want 0", v)
	}
}

func TestAnnualizedVolPositiveOnNoise(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%2) // alternate 100/101
	}
	v := AnnualizedVol(candlesFromCloses(closes), 20)
	if v <= 0 {
		t.Fatalf("alternating series vol = %v, want > 0", v)
	}
}
