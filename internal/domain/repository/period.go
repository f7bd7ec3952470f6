package repository

// Period represents a lookback window of daily bars.
type Period string

const (
	P3Mo Period = "3mo"
	P6Mo Period = "6mo"
	P1Y  Period = "1y"
	P2Y  Period = "2y"
	P5Y  Period = "5y"
)

// IsValidPeriod returns true if p is a supported lookback period.
func IsValidPeriod(p Period) bool {
	switch p {
	case P3Mo, P6Mo, P1Y, P2Y, P5Y:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the default lookback period.
func DefaultPeriod() Period { return P1Y }

// NormalizePeriod converts a raw string to a valid period (or the default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}

// TradingDays returns the approximate number of daily bars in a period.
func (p Period) TradingDays() int {
	switch p {
	case P3Mo:
		return 63
	case P6Mo:
		return 126
	case P1Y:
		return 252
	case P2Y:
		return 504
	case P5Y:
		return 1260
	default:
		return 252
	}
}
