package indicators

// MACD returns the MACD line (EMA fast minus EMA slow), its signal line
// (EMA of the MACD line) and the histogram (line minus signal).
func MACD(closes []float64, fast, slow, signalSpan int) (line, signal, histogram Series) {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	lineVals := make([]float64, len(closes))
	line = make(Series, len(closes))
	for i := range closes {
		f, okF := fastEMA.At(i)
		s, okS := slowEMA.At(i)
		if okF && okS {
			lineVals[i] = f - s
			line[i] = defined(lineVals[i])
		}
	}

	signal = EMA(lineVals, signalSpan)
	histogram = make(Series, len(closes))
	for i := range closes {
		l, okL := line.At(i)
		s, okS := signal.At(i)
		if okL && okS {
			histogram[i] = defined(l - s)
		}
	}
	return line, signal, histogram
}
