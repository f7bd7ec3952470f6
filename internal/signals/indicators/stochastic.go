package indicators

// Stochastic returns the %K and %D oscillator lines. %K positions the close
// within the trailing high-low range on a 0-100 scale; %D is a 3-bar SMA of
// %K. A flat range leaves %K undefined.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (pctK, pctD Series) {
	n := len(closes)
	pctK = make(Series, n)
	if kPeriod <= 0 || n < kPeriod {
		pctD = make(Series, n)
		return pctK, pctD
	}
	for i := kPeriod - 1; i < n; i++ {
		hh := highs[i]
		ll := lows[i]
		for j := i - kPeriod + 1; j <= i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		if hh == ll {
			continue
		}
		pctK[i] = defined(100 * (closes[i] - ll) / (hh - ll))
	}
	pctD = rollingMean(pctK, dPeriod)
	return pctK, pctD
}
