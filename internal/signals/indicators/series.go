// Package indicators computes technical indicators over daily OHLCV columns.
//
// Every function is pure and returns a derived series of the same length as
// its input. Leading positions stay undefined until enough history has
// accumulated, and degenerate arithmetic (zero denominators) yields an
// undefined sample instead of NaN or a panic. Consumers branch on Valid
// explicitly.
package indicators

// Value is one sample of a derived series.
type Value struct {
	V     float64
	Valid bool
}

// Series is a derived indicator series aligned to the input bars.
type Series []Value

// At returns the sample at position i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) {
		return 0, false
	}
	return s[i].V, s[i].Valid
}

// Last returns the most recent sample and whether it is defined.
func (s Series) Last() (float64, bool) {
	return s.At(len(s) - 1)
}

// Values returns the defined samples only, in order.
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v.Valid {
			out = append(out, v.V)
		}
	}
	return out
}

func defined(v float64) Value { return Value{V: v, Valid: true} }

// rollingMean computes a simple rolling mean over a series, defined only at
// positions where the entire trailing window is defined.
func rollingMean(s Series, window int) Series {
	out := make(Series, len(s))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(s); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !s[j].Valid {
				ok = false
				break
			}
			sum += s[j].V
		}
		if ok {
			out[i] = defined(sum / float64(window))
		}
	}
	return out
}

// rollingSum computes a rolling sum over a series, defined only at positions
// where the entire trailing window is defined.
func rollingSum(s Series, window int) Series {
	out := make(Series, len(s))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(s); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !s[j].Valid {
				ok = false
				break
			}
			sum += s[j].V
		}
		if ok {
			out[i] = defined(sum)
		}
	}
	return out
}

func fromValues(values []float64) Series {
	out := make(Series, len(values))
	for i, v := range values {
		out[i] = defined(v)
	}
	return out
}
