package indicators

// RateOfChange is the percentage price change over a trailing period.
func RateOfChange(closes []float64, period int) Series {
	out := make(Series, len(closes))
	if period <= 0 {
		return out
	}
	for i := period; i < len(closes); i++ {
		base := closes[i-period]
		if base == 0 {
			continue
		}
		out[i] = defined((closes[i] - base) / base * 100)
	}
	return out
}
