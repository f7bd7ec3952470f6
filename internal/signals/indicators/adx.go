package indicators

import "math"

// ADX returns the average directional index alongside the +DI and -DI lines.
// Directional movement is smoothed with a rolling mean over the window, DI is
// the smoothed movement over ATR on a 0-100 scale, DX measures DI spread and
// ADX is the rolling mean of DX.
func ADX(highs, lows, closes []float64, period int) (adx, plusDI, minusDI Series) {
	n := len(closes)
	adx = make(Series, n)
	plusDI = make(Series, n)
	minusDI = make(Series, n)
	if period <= 0 || n < 2 {
		return adx, plusDI, minusDI
	}

	plusDM := make(Series, n)
	minusDM := make(Series, n)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		var pdm, mdm float64
		if up > down && up > 0 {
			pdm = up
		}
		if down > up && down > 0 {
			mdm = down
		}
		plusDM[i] = defined(pdm)
		minusDM[i] = defined(mdm)
	}

	atr := ATR(highs, lows, closes, period)
	smoothPlus := rollingMean(plusDM, period)
	smoothMinus := rollingMean(minusDM, period)

	dx := make(Series, n)
	for i := 0; i < n; i++ {
		a, okA := atr.At(i)
		p, okP := smoothPlus.At(i)
		m, okM := smoothMinus.At(i)
		if !okA || !okP || !okM || a == 0 {
			continue
		}
		pdi := 100 * p / a
		mdi := 100 * m / a
		plusDI[i] = defined(pdi)
		minusDI[i] = defined(mdi)
		if pdi+mdi == 0 {
			continue
		}
		dx[i] = defined(100 * math.Abs(pdi-mdi) / (pdi + mdi))
	}

	adx = rollingMean(dx, period)
	return adx, plusDI, minusDI
}
