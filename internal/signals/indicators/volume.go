package indicators

// OBV is on-balance volume: the running sum of volume signed by the close-to-
// close direction, starting at zero.
func OBV(closes, volumes []float64) Series {
	out := make(Series, len(closes))
	if len(closes) == 0 {
		return out
	}
	sum := 0.0
	out[0] = defined(0)
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			sum += volumes[i]
		case closes[i] < closes[i-1]:
			sum -= volumes[i]
		}
		out[i] = defined(sum)
	}
	return out
}

// moneyFlowVolume returns the per-bar money-flow volume. Flat bars (high ==
// low) have an undefined multiplier and yield an undefined sample.
func moneyFlowVolume(highs, lows, closes, volumes []float64) Series {
	out := make(Series, len(closes))
	for i := range closes {
		r := highs[i] - lows[i]
		if r == 0 {
			continue
		}
		mfm := ((closes[i] - lows[i]) - (highs[i] - closes[i])) / r
		out[i] = defined(mfm * volumes[i])
	}
	return out
}

// AccumulationDistribution is the cumulative money-flow volume. A flat bar's
// position is undefined; the accumulation resumes past it without its
// contribution.
func AccumulationDistribution(highs, lows, closes, volumes []float64) Series {
	mfv := moneyFlowVolume(highs, lows, closes, volumes)
	out := make(Series, len(closes))
	sum := 0.0
	for i, v := range mfv {
		if !v.Valid {
			continue
		}
		sum += v.V
		out[i] = defined(sum)
	}
	return out
}

// ChaikinMoneyFlow is the rolling ratio of summed money-flow volume to summed
// volume. Windows containing a flat bar, or with zero total volume, are
// undefined.
func ChaikinMoneyFlow(highs, lows, closes, volumes []float64, window int) Series {
	mfvSum := rollingSum(moneyFlowVolume(highs, lows, closes, volumes), window)
	volSum := rollingSum(fromValues(volumes), window)
	out := make(Series, len(closes))
	for i := range closes {
		m, okM := mfvSum.At(i)
		v, okV := volSum.At(i)
		if !okM || !okV || v == 0 {
			continue
		}
		out[i] = defined(m / v)
	}
	return out
}

// VWAP is the cumulative volume-weighted average of the typical price.
func VWAP(highs, lows, closes, volumes []float64) Series {
	out := make(Series, len(closes))
	var cumTPV, cumVol float64
	for i := range closes {
		tp := (highs[i] + lows[i] + closes[i]) / 3
		cumTPV += tp * volumes[i]
		cumVol += volumes[i]
		if cumVol == 0 {
			continue
		}
		out[i] = defined(cumTPV / cumVol)
	}
	return out
}
