package risk

import (
	"math"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func flatCandles(n int, price float64) []models.Candle {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Date: day, Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 1e6,
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func TestPositionSizeFromRisk(t *testing.T) {
	got := PositionSizeFromRisk(100000, 100, 95, 0.02)
	if math.Abs(got-400.0) > 0.01 {
		t.Fatalf("position size = %v, want 400", got)
	}
}

func TestPositionSizeZeroDistance(t *testing.T) {
	if got := PositionSizeFromRisk(100000, 100, 100, 0.02); got != 0 {
		t.Fatalf("position size with stop on entry = %v, want 0", got)
	}
}

func TestRiskRewardRatio(t *testing.T) {
	rr, ok := RiskRewardRatio(100, 95, 115)
	if !ok || math.Abs(rr-3.0) > 1e-9 {
		t.Fatalf("risk/reward = %v ok=%v, want 3.0", rr, ok)
	}
}

func TestRiskRewardUndefined(t *testing.T) {
	if _, ok := RiskRewardRatio(100, 100, 110); ok {
		t.Fatal("risk/reward with zero risk distance should be undefined")
	}
}

func TestRiskPctBounds(t *testing.T) {
	if got := RiskPct(0); got != 0.005 {
		t.Fatalf("neutral risk pct = %v", got)
	}
	if got := RiskPct(1); math.Abs(got-0.02) > 1e-12 {
		t.Fatalf("max risk pct = %v", got)
	}
	if got := RiskPct(-1); math.Abs(got-0.02) > 1e-12 {
		t.Fatalf("risk pct should use score magnitude, got %v", got)
	}
}

func TestATRStopLossSides(t *testing.T) {
	c := flatCandles(30, 100)
	stop, ok := ATRStopLoss(c, true)
	if !ok {
		t.Fatal("expected a stop with 30 bars of history")
	}
	// flat bars with a 2-point range have ATR 2, so the stop sits 4 below
	if math.Abs(stop-96) > 1e-9 {
		t.Fatalf("long stop = %v, want 96", stop)
	}
	stop, ok = ATRStopLoss(c, false)
	if !ok || math.Abs(stop-104) > 1e-9 {
		t.Fatalf("short stop = %v ok=%v, want 104", stop, ok)
	}
}

func TestATRStopLossInsufficientHistory(t *testing.T) {
	if _, ok := ATRStopLoss(flatCandles(5, 100), true); ok {
		t.Fatal("expected no stop with 5 bars")
	}
}

func TestKellyFraction(t *testing.T) {
	f, ok := KellyFraction(0.6, 2.0)
	if !ok || math.Abs(f-0.4) > 1e-9 {
		t.Fatalf("kelly = %v ok=%v, want 0.4", f, ok)
	}
	if f, _ := KellyFraction(0.2, 1.0); f != 0 {
		t.Fatalf("losing edge should floor at 0, got %v", f)
	}
	if _, ok := KellyFraction(0.6, 0); ok {
		t.Fatal("zero payoff should be undefined")
	}
}

func TestComputeLongContext(t *testing.T) {
	c := flatCandles(30, 100)
	ctx := Compute(c, models.DirectionBuy, 0.5, 100000)
	if ctx == nil {
		t.Fatal("expected a risk context")
	}
	if ctx.StopLoss == nil || *ctx.StopLoss != 96 {
		t.Fatalf("stop = %v", ctx.StopLoss)
	}
	if ctx.TargetPrice == nil || *ctx.TargetPrice != 108 {
		t.Fatalf("target = %v", ctx.TargetPrice)
	}
	if ctx.RiskReward == nil || *ctx.RiskReward != 2 {
		t.Fatalf("risk/reward = %v", ctx.RiskReward)
	}
	if math.Abs(ctx.PositionSize-312.5) > 0.01 {
		t.Fatalf("position size = %v, want 312.5", ctx.PositionSize)
	}
	// 312.5 shares at 100 is 31250 of a 100k portfolio
	if math.Abs(ctx.PositionPct-31.25) > 1e-9 {
		t.Fatalf("position pct = %v, want 31.25", ctx.PositionPct)
	}
}

func TestComputePositionPctIsPortfolioShare(t *testing.T) {
	ctx := Compute(flatCandles(30, 100), models.DirectionBuy, 1.0, 100000)
	if ctx == nil {
		t.Fatal("expected a risk context")
	}
	// full-conviction risk pct 0.02 over a 4-point stop sizes 500 shares,
	// which is half the portfolio at 100 a share
	if math.Abs(ctx.PositionSize-500) > 0.01 {
		t.Fatalf("position size = %v, want 500", ctx.PositionSize)
	}
	if math.Abs(ctx.PositionPct-50) > 1e-9 {
		t.Fatalf("position pct = %v, want 50", ctx.PositionPct)
	}
}

func TestComputeShortContext(t *testing.T) {
	ctx := Compute(flatCandles(30, 100), models.DirectionSell, -0.5, 100000)
	if ctx == nil || ctx.StopLoss == nil || ctx.TargetPrice == nil {
		t.Fatal("expected a full short context")
	}
	if *ctx.StopLoss != 104 || *ctx.TargetPrice != 92 {
		t.Fatalf("short stop/target = %v/%v", *ctx.StopLoss, *ctx.TargetPrice)
	}
}

func TestComputeHoldHasNoContext(t *testing.T) {
	if ctx := Compute(flatCandles(30, 100), models.DirectionHold, 0.1, 100000); ctx != nil {
		t.Fatalf("hold signal should carry no risk context, got %+v", ctx)
	}
}

func TestComputeInsufficientHistory(t *testing.T) {
	if ctx := Compute(flatCandles(5, 100), models.DirectionBuy, 0.5, 100000); ctx != nil {
		t.Fatalf("expected nil context, got %+v", ctx)
	}
}
