package indicators

// RSI is the Relative Strength Index on a 0-100 scale: average gain over
// average loss across a trailing window of close-to-close moves. A window
// with zero average loss is undefined rather than pinned at 100.
func RSI(closes []float64, period int) Series {
	out := make(Series, len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	for i := period; i < len(closes); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		if lossSum == 0 {
			continue
		}
		rs := gainSum / lossSum
		out[i] = defined(100 - 100/(1+rs))
	}
	return out
}
