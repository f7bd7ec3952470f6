package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestSMAWarmup(t *testing.T) {
	s := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if _, ok := s.At(1); ok {
		t.Fatalf("expected undefined before warmup")
	}
	v, ok := s.At(2)
	if !ok || !almostEqual(v, 2, 1e-12) {
		t.Fatalf("sma[2] = %v %v", v, ok)
	}
	v, _ = s.Last()
	if !almostEqual(v, 4, 1e-12) {
		t.Fatalf("sma last = %v", v)
	}
}

func TestEMASeededByFirstValue(t *testing.T) {
	s := EMA([]float64{10, 20}, 9)
	v, ok := s.At(0)
	if !ok || v != 10 {
		t.Fatalf("ema[0] = %v %v", v, ok)
	}
	alpha := 2.0 / 10.0
	want := alpha*20 + (1-alpha)*10
	v, _ = s.At(1)
	if !almostEqual(v, want, 1e-12) {
		t.Fatalf("ema[1] = %v want %v", v, want)
	}
}

func TestRSIRisingSeriesNeverBelowFifty(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.7
	}
	// alternate small dips so losses are nonzero and RSI stays defined
	for i := 5; i < 60; i += 7 {
		closes[i] -= 0.2
	}
	r := RSI(closes, 14)
	for i := 15; i < 60; i++ {
		if v, ok := r.At(i); ok && v < 50 {
			t.Fatalf("rsi[%d] = %v below 50 on rising series", i, v)
		}
	}
}

func TestRSIFallingSeriesNeverAboveFifty(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 200 - float64(i)*0.7
	}
	for i := 5; i < 60; i += 7 {
		closes[i] += 0.2
	}
	r := RSI(closes, 14)
	for i := 15; i < 60; i++ {
		if v, ok := r.At(i); ok && v > 50 {
			t.Fatalf("rsi[%d] = %v above 50 on falling series", i, v)
		}
	}
}

func TestRSIZeroLossUndefined(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	r := RSI(closes, 14)
	if _, ok := r.Last(); ok {
		t.Fatalf("expected undefined rsi with zero average loss")
	}
}

func TestMACDHistogramIsLineMinusSignal(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 50 + 10*math.Sin(float64(i)/6)
	}
	line, signal, hist := MACD(closes, 12, 26, 9)
	l, _ := line.Last()
	s, _ := signal.Last()
	h, ok := hist.Last()
	if !ok || !almostEqual(h, l-s, 1e-12) {
		t.Fatalf("histogram %v != line-signal %v", h, l-s)
	}
}

func TestBollingerPctBFlatWindowUndefined(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 42
	}
	b := BollingerPctB(closes, 20, 2)
	if _, ok := b.Last(); ok {
		t.Fatalf("expected undefined %%B when bands collapse")
	}
}

func TestATRFirstBarUsesHighLow(t *testing.T) {
	highs := []float64{12, 13, 14}
	lows := []float64{10, 11, 12}
	closes := []float64{11, 12, 13}
	tr := TrueRange(highs, lows, closes)
	if tr[0] != 2 {
		t.Fatalf("tr[0] = %v", tr[0])
	}
	a := ATR(highs, lows, closes, 3)
	v, ok := a.At(2)
	if !ok || !almostEqual(v, 2, 1e-12) {
		t.Fatalf("atr = %v %v", v, ok)
	}
}

func TestStochasticBounds(t *testing.T) {
	n := 40
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + 5*math.Sin(float64(i)/3)
		highs[i] = base + 1
		lows[i] = base - 1
		closes[i] = base + 0.5*math.Cos(float64(i))
	}
	k, d := Stochastic(highs, lows, closes, 14, 3)
	for i := 0; i < n; i++ {
		if v, ok := k.At(i); ok && (v < 0 || v > 100) {
			t.Fatalf("%%K[%d] = %v out of range", i, v)
		}
		if v, ok := d.At(i); ok && (v < 0 || v > 100) {
			t.Fatalf("%%D[%d] = %v out of range", i, v)
		}
	}
}

func TestOBVCumulative(t *testing.T) {
	closes := []float64{10, 11, 10.5, 10.5, 12}
	volumes := []float64{100, 200, 150, 50, 300}
	o := OBV(closes, volumes)
	want := []float64{0, 200, 50, 50, 350}
	for i, w := range want {
		v, ok := o.At(i)
		if !ok || !almostEqual(v, w, 1e-12) {
			t.Fatalf("obv[%d] = %v want %v", i, v, w)
		}
	}
}

func TestChaikinMoneyFlowFlatBarPoisonsWindow(t *testing.T) {
	n := 25
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 11
		lows[i] = 9
		closes[i] = 10.5
		volumes[i] = 100
	}
	// flat bar inside the trailing window
	highs[n-3] = 10
	lows[n-3] = 10
	cmf := ChaikinMoneyFlow(highs, lows, closes, volumes, 20)
	if _, ok := cmf.Last(); ok {
		t.Fatalf("expected undefined cmf when window contains a flat bar")
	}
	if _, ok := cmf.At(n - 4); !ok {
		t.Fatalf("expected defined cmf before the flat bar")
	}
}

func TestADXUptrendFavorsPlusDI(t *testing.T) {
	n := 60
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 100 + 2*float64(i) + 1
		lows[i] = 100 + 2*float64(i) - 1
		closes[i] = 100 + 2*float64(i)
	}
	adx, plusDI, minusDI := ADX(highs, lows, closes, 14)
	a, ok := adx.Last()
	if !ok {
		t.Fatalf("expected defined adx after warmup")
	}
	if a < 20 {
		t.Fatalf("adx = %v, expected strong trend", a)
	}
	p, _ := plusDI.Last()
	m, _ := minusDI.Last()
	if p <= m {
		t.Fatalf("+DI %v <= -DI %v in uptrend", p, m)
	}
}

func TestVWAPBetweenLowAndHigh(t *testing.T) {
	highs := []float64{12, 13}
	lows := []float64{10, 11}
	closes := []float64{11, 12}
	volumes := []float64{100, 200}
	v, ok := VWAP(highs, lows, closes, volumes).Last()
	if !ok || v < 10 || v > 13 {
		t.Fatalf("vwap = %v %v", v, ok)
	}
}
