package repository

import "testing"

func TestNormalizePeriod(t *testing.T) {
	if got := NormalizePeriod(""); got != P1Y {
		t.Fatalf("empty period = %s, want 1y", got)
	}
	if got := NormalizePeriod("6mo"); got != P6Mo {
		t.Fatalf("6mo normalized to %s", got)
	}
	if got := NormalizePeriod("7d"); got != P1Y {
		t.Fatalf("unknown period = %s, want default", got)
	}
}

func TestTradingDays(t *testing.T) {
	if d := P1Y.TradingDays(); d != 252 {
		t.Fatalf("1y = %d trading days", d)
	}
	if d := P3Mo.TradingDays(); d != 63 {
		t.Fatalf("3mo = %d trading days", d)
	}
}
