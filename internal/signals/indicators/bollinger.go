package indicators

// BollingerBands returns the upper, middle and lower bands: SMA plus/minus
// numStd rolling sample standard deviations.
func BollingerBands(closes []float64, window int, numStd float64) (upper, middle, lower Series) {
	middle = SMA(closes, window)
	std := StdDev(closes, window)
	upper = make(Series, len(closes))
	lower = make(Series, len(closes))
	for i := range closes {
		m, okM := middle.At(i)
		s, okS := std.At(i)
		if okM && okS {
			upper[i] = defined(m + numStd*s)
			lower[i] = defined(m - numStd*s)
		}
	}
	return upper, middle, lower
}

// BollingerPctB maps price position within the bands to [0,1]: 0 at the lower
// band, 1 at the upper. Undefined when the bands collapse (zero width).
func BollingerPctB(closes []float64, window int, numStd float64) Series {
	upper, _, lower := BollingerBands(closes, window, numStd)
	out := make(Series, len(closes))
	for i := range closes {
		u, okU := upper.At(i)
		l, okL := lower.At(i)
		if !okU || !okL || u == l {
			continue
		}
		out[i] = defined((closes[i] - l) / (u - l))
	}
	return out
}
