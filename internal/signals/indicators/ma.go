package indicators

import "math"

// SMA is the simple moving average over a trailing window.
func SMA(values []float64, window int) Series {
	return rollingMean(fromValues(values), window)
}

// EMA is the exponential moving average with smoothing factor 2/(span+1),
// seeded by the first value rather than a simple-average warm-up, so it is
// defined from the first bar on.
func EMA(values []float64, span int) Series {
	out := make(Series, len(values))
	if span <= 0 || len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	ema := values[0]
	out[0] = defined(ema)
	for i := 1; i < len(values); i++ {
		ema = alpha*values[i] + (1-alpha)*ema
		out[i] = defined(ema)
	}
	return out
}

// StdDev is the rolling sample standard deviation (n-1 denominator) over a
// trailing window. Windows of size 1 are undefined.
func StdDev(values []float64, window int) Series {
	out := make(Series, len(values))
	if window <= 1 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			ss += d * d
		}
		out[i] = defined(math.Sqrt(ss / float64(window-1)))
	}
	return out
}

// SampleStdDev is the sample standard deviation of an entire slice, used to
// normalize indicator magnitudes against recent price moves.
func SampleStdDev(values []float64) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1)), true
}
