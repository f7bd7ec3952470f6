package indicators

import "math"

// TrueRange returns the per-bar true range: the largest of high-low,
// |high-prevClose| and |low-prevClose|. The first bar has no previous close
// and falls back to high-low.
func TrueRange(highs, lows, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		hl := highs[i] - lows[i]
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// ATR is the rolling mean of the true range over a trailing window.
func ATR(highs, lows, closes []float64, period int) Series {
	if len(closes) == 0 || len(highs) != len(closes) || len(lows) != len(closes) {
		return make(Series, len(closes))
	}
	return SMA(TrueRange(highs, lows, closes), period)
}
