// Package scoring normalizes indicator readings into strategy scores.
//
// Every scorer reads the latest bar of one or more indicator series and maps
// it onto a common [-1, +1] scale: -1 strong sell, 0 neutral, +1 strong buy.
// Scorers are stateless; undefined indicator readings score a neutral 0.
package scoring

import (
	"math"

	"TradePulse/internal/signals/indicators"
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Clamp bounds a score to [-1, +1].
func Clamp(v float64) float64 { return clamp(v, -1, 1) }

// ScoreMACrossover scores the SMA 20/50 gap: a 2% gap saturates the score.
func ScoreMACrossover(closes []float64) float64 {
	fastMA, okF := indicators.SMA(closes, 20).Last()
	slowMA, okS := indicators.SMA(closes, 50).Last()
	if !okF || !okS || slowMA == 0 {
		return 0
	}
	gapPct := (fastMA - slowMA) / slowMA
	return Clamp(gapPct / 0.02)
}

// ScoreRSI scores oversold (<30) as a buy and overbought (>70) as a sell,
// scaled linearly over a 20-point band.
func ScoreRSI(closes []float64) float64 {
	v, ok := indicators.RSI(closes, 14).Last()
	if !ok {
		return 0
	}
	switch {
	case v <= 30:
		return Clamp((30 - v) / 20)
	case v >= 70:
		return Clamp(-(v - 70) / 20)
	}
	return 0
}

// ScoreMACD scores the MACD histogram normalized by the standard deviation of
// the trailing 26 closes.
func ScoreMACD(closes []float64) float64 {
	_, _, hist := indicators.MACD(closes, 12, 26, 9)
	h, ok := hist.Last()
	if !ok {
		return 0
	}
	tail := closes
	if len(tail) > 26 {
		tail = tail[len(tail)-26:]
	}
	recentRange, ok := indicators.SampleStdDev(tail)
	if !ok || recentRange == 0 {
		return 0
	}
	return Clamp(h / recentRange)
}

// ScoreBollinger scores %B position: the lower band scores +1 (buy), the
// upper band -1 (sell), the midline 0.
func ScoreBollinger(closes []float64) float64 {
	v, ok := indicators.BollingerPctB(closes, 20, 2).Last()
	if !ok {
		return 0
	}
	return Clamp(-(v - 0.5) * 2)
}

// ScoreMeanReversion scores the z-score of price against its 20-bar SMA;
// two standard deviations saturate the score.
func ScoreMeanReversion(closes []float64) float64 {
	ma, okM := indicators.SMA(closes, 20).Last()
	std, okS := indicators.StdDev(closes, 20).Last()
	if !okM || !okS || std == 0 {
		return 0
	}
	z := (closes[len(closes)-1] - ma) / std
	return Clamp(-z / 2)
}

// ScoreTrend scores EMA 20/50/200 alignment with three roughly equal checks.
func ScoreTrend(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	e20, _ := indicators.EMA(closes, 20).Last()
	e50, _ := indicators.EMA(closes, 50).Last()
	e200, ok := indicators.EMA(closes, 200).Last()
	if !ok {
		return 0
	}
	score := 0.0
	if e20 > e50 {
		score += 0.33
	} else {
		score -= 0.33
	}
	if e50 > e200 {
		score += 0.33
	} else {
		score -= 0.33
	}
	if closes[len(closes)-1] > e200 {
		score += 0.34
	} else {
		score -= 0.34
	}
	return Clamp(score)
}

// ScoreVolumeTrend scores OBV deviation from its own 20-bar SMA, signed by
// the price-vs-SMA direction; OBV disagreeing with price scores 0.
func ScoreVolumeTrend(closes, volumes []float64) float64 {
	obv := indicators.OBV(closes, volumes)
	if len(obv) < 20 {
		return 0
	}
	obvLast, _ := obv.Last()
	obvMA, ok := obvSMA(obv, 20)
	if !ok || obvMA == 0 {
		return 0
	}
	deviation := (obvLast - obvMA) / math.Abs(obvMA)
	priceMA, ok := indicators.SMA(closes, 20).Last()
	if !ok {
		return 0
	}
	priceDirection := -1.0
	if closes[len(closes)-1] > priceMA {
		priceDirection = 1.0
	}
	if (deviation > 0 && priceDirection > 0) || (deviation < 0 && priceDirection < 0) {
		return Clamp(priceDirection * math.Min(math.Abs(deviation), 1.0))
	}
	return 0
}

func obvSMA(obv indicators.Series, window int) (float64, bool) {
	if len(obv) < window {
		return 0, false
	}
	sum := 0.0
	for i := len(obv) - window; i < len(obv); i++ {
		v, ok := obv.At(i)
		if !ok {
			return 0, false
		}
		sum += v
	}
	return sum / float64(window), true
}

// ScoreADX scores trend strength signed by directional movement: ADX below 20
// is no trend, ADX 50 saturates, and the larger of +DI/-DI sets the sign.
func ScoreADX(highs, lows, closes []float64) float64 {
	adx, plusDI, minusDI := indicators.ADX(highs, lows, closes, 14)
	a, ok := adx.Last()
	if !ok {
		return 0
	}
	if a < 20 {
		return 0
	}
	strength := clamp((a-20)/30, 0, 1)*0.5 + 0.5
	p, _ := plusDI.Last()
	m, _ := minusDI.Last()
	if p > m {
		return Clamp(strength)
	}
	return Clamp(-strength)
}

// ScoreStochastic scores %K past the 20/80 thresholds like the RSI scorer,
// with a +-0.3 bonus when %K crosses %D between the last two bars.
func ScoreStochastic(highs, lows, closes []float64) float64 {
	pctK, pctD := indicators.Stochastic(highs, lows, closes, 14, 3)
	k, okK := pctK.Last()
	d, okD := pctD.Last()
	if !okK || !okD {
		return 0
	}

	score := 0.0
	switch {
	case k <= 20:
		score = Clamp((20 - k) / 20)
	case k >= 80:
		score = Clamp(-(k - 80) / 20)
	}

	n := len(pctK)
	prevK, okPK := pctK.At(n - 2)
	prevD, okPD := pctD.At(n - 2)
	if okPK && okPD {
		if prevK <= prevD && k > d {
			score = Clamp(score + 0.3)
		} else if prevK >= prevD && k < d {
			score = Clamp(score - 0.3)
		}
	}
	return score
}

// ScoreADLine classifies A/D line trend against price trend: agreement is
// continuation (+-0.5), disagreement is a divergence reversal (+-0.7).
func ScoreADLine(highs, lows, closes, volumes []float64) float64 {
	ad := indicators.AccumulationDistribution(highs, lows, closes, volumes)
	if len(ad) < 20 {
		return 0
	}
	adLast, okLast := ad.Last()
	adMA, okMA := obvSMA(ad, 20)
	priceMA, okP := indicators.SMA(closes, 20).Last()
	if !okLast || !okMA || !okP {
		return 0
	}
	adRising := adLast > adMA
	priceRising := closes[len(closes)-1] > priceMA
	switch {
	case adRising && priceRising:
		return 0.5
	case !adRising && !priceRising:
		return -0.5
	case adRising && !priceRising:
		return 0.7 // accumulation despite falling price
	default:
		return -0.7 // distribution despite rising price
	}
}

// ScoreCMF scales the Chaikin Money Flow reading, already near [-1, +1],
// by two.
func ScoreCMF(highs, lows, closes, volumes []float64) float64 {
	v, ok := indicators.ChaikinMoneyFlow(highs, lows, closes, volumes, 20).Last()
	if !ok {
		return 0
	}
	return Clamp(v * 2)
}

// ScorePutCallRatio scores options sentiment contrarily: heavy put volume is
// fear (buy), heavy call volume is complacency (sell). A nil ratio scores 0.
func ScorePutCallRatio(ratio *float64) float64 {
	if ratio == nil || math.IsNaN(*ratio) {
		return 0
	}
	r := *ratio
	switch {
	case r > 1.2:
		return Clamp((r - 1.2) / 0.8)
	case r < 0.5:
		return Clamp(-(0.5 - r) / 0.5)
	}
	return 0
}
