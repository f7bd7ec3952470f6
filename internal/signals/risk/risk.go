// Package risk derives stop-loss, target and position sizing for a signal
// from recent volatility.
package risk

import (
	"math"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/signals/indicators"
)

const (
	atrPeriod      = 14
	atrStopMult    = 2.0
	rewardRiskMult = 2.0

	// Risk budget per trade scales with signal strength between these bounds.
	baseRiskPct = 0.005
	riskPctSpan = 0.015
)

// ATRStopLoss places a stop two ATRs away from the close, below for longs and
// above for shorts. Returns false when there is not enough history for ATR.
func ATRStopLoss(candles []models.Candle, long bool) (float64, bool) {
	atr := indicators.ATR(models.Highs(candles), models.Lows(candles), models.Closes(candles), atrPeriod)
	a, ok := atr.Last()
	if !ok || len(candles) == 0 {
		return 0, false
	}
	close := candles[len(candles)-1].Close
	if long {
		return close - atrStopMult*a, true
	}
	return close + atrStopMult*a, true
}

// PositionSizeFromRisk converts a per-trade risk budget into a share count:
// the number of shares whose loss at the stop equals portfolio * riskPct.
// Returns 0 when the stop sits on the entry.
func PositionSizeFromRisk(portfolio, entry, stop, riskPct float64) float64 {
	perShare := math.Abs(entry - stop)
	if perShare == 0 {
		return 0
	}
	return portfolio * riskPct / perShare
}

// RiskRewardRatio is the reward distance divided by the risk distance.
// Undefined when entry and stop coincide.
func RiskRewardRatio(entry, stop, target float64) (float64, bool) {
	riskDist := math.Abs(entry - stop)
	if riskDist == 0 {
		return 0, false
	}
	return math.Abs(target-entry) / riskDist, true
}

// RiskPct maps a composite score in [-1, 1] to a fraction of the portfolio
// risked on the trade. A neutral signal still risks the base amount.
func RiskPct(score float64) float64 {
	return baseRiskPct + math.Abs(score)*riskPctSpan
}

// KellyFraction is the classic Kelly bet size for a given hit rate and
// payoff ratio, floored at zero. Undefined for a non-positive payoff.
func KellyFraction(winRate, payoffRatio float64) (float64, bool) {
	if payoffRatio <= 0 {
		return 0, false
	}
	f := winRate - (1-winRate)/payoffRatio
	if f < 0 {
		f = 0
	}
	return f, true
}

// Compute builds the full risk context for a signal: ATR stop, a target at
// twice the risk distance, and sizing from the score-scaled risk budget.
// Returns nil when ATR is undefined for the series or the direction is not
// actionable (a hold carries no stop to size against).
func Compute(candles []models.Candle, direction string, score, portfolio float64) *models.RiskContext {
	if direction != models.DirectionBuy && direction != models.DirectionSell {
		return nil
	}
	long := direction == models.DirectionBuy
	stop, ok := ATRStopLoss(candles, long)
	if !ok {
		return nil
	}
	entry := candles[len(candles)-1].Close
	riskDist := math.Abs(entry - stop)

	target := entry + rewardRiskMult*riskDist
	if !long {
		target = entry - rewardRiskMult*riskDist
	}

	pct := RiskPct(score)
	shares := PositionSizeFromRisk(portfolio, entry, stop, pct)
	positionPct := 0.0
	if portfolio != 0 {
		positionPct = shares * entry / portfolio * 100
	}

	ctx := &models.RiskContext{
		PositionSize: round2(shares),
		PositionPct:  round2(positionPct),
	}
	stopR, targetR := round2(stop), round2(target)
	ctx.StopLoss = &stopR
	ctx.TargetPrice = &targetR
	if rr, ok := RiskRewardRatio(entry, stop, target); ok {
		r := round3(rr)
		ctx.RiskReward = &r
	}
	return ctx
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
