package elliott

import (
	"math"

	"TradePulse/internal/domain/models"
)

// fibBand is a target ratio range for one wave relationship.
type fibBand struct {
	lo, hi float64
}

var fibBands = map[string]fibBand{
	"wave2_retrace":   {0.382, 0.618}, // wave 2 retraces 38.2-61.8% of wave 1
	"wave3_extension": {1.272, 2.618}, // wave 3 is 1.272-2.618x wave 1
	"wave4_retrace":   {0.236, 0.500}, // wave 4 retraces 23.6-50% of wave 3
	"wave5_extension": {0.618, 1.618}, // wave 5 is 0.618-1.618x wave 1
}

// RatioCheck reports one measured wave ratio and how well it fits its band.
type RatioCheck struct {
	Actual float64 `json:"actual"`
	Score  float64 `json:"score"`
}

// ratioScore is 1.0 inside [lo, hi] and decays linearly to 0 as the ratio
// misses by one band-width.
func ratioScore(actual, lo, hi float64) float64 {
	if lo <= actual && actual <= hi {
		return 1.0
	}
	width := hi - lo
	if width == 0 {
		return 0
	}
	var miss float64
	if actual < lo {
		miss = (lo - actual) / width
	} else {
		miss = (actual - hi) / width
	}
	return math.Max(0, 1.0-miss)
}

// ValidateFibonacci checks the four retracement/extension ratios of a six-
// pivot impulse candidate. Overall confidence is the mean of the per-ratio
// scores; fewer than six pivots yields zero confidence and no details.
func ValidateFibonacci(pivots []models.Pivot) (float64, map[string]RatioCheck) {
	details := map[string]RatioCheck{}
	if len(pivots) < 6 {
		return 0, details
	}

	p := make([]float64, 6)
	for i := 0; i < 6; i++ {
		p[i] = pivots[i].Price
	}
	wave1 := math.Abs(p[1] - p[0])
	wave2Retrace := math.Abs(p[2] - p[1])
	wave3 := math.Abs(p[3] - p[2])
	wave4Retrace := math.Abs(p[4] - p[3])
	wave5 := math.Abs(p[5] - p[4])

	var scores []float64
	check := func(name string, actual float64) {
		b := fibBands[name]
		s := ratioScore(actual, b.lo, b.hi)
		details[name] = RatioCheck{Actual: round3(actual), Score: round3(s)}
		scores = append(scores, s)
	}

	if wave1 != 0 {
		check("wave2_retrace", wave2Retrace/wave1)
		check("wave3_extension", wave3/wave1)
	}
	if wave3 != 0 {
		check("wave4_retrace", wave4Retrace/wave3)
	}
	if wave1 != 0 {
		check("wave5_extension", wave5/wave1)
	}

	if len(scores) == 0 {
		return 0, details
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return round3(sum / float64(len(scores))), details
}

// fibProjectionRatios are the seven projection levels, in order.
var fibProjectionRatios = []struct {
	ratio float64
	label string
}{
	{0.236, "0.236"},
	{0.382, "0.382"},
	{0.500, "0.500"},
	{0.618, "0.618"},
	{0.786, "0.786"},
	{1.000, "1.000"},
	{1.618, "1.618"},
}

// projectFibLevels computes labeled retracement/extension price levels from
// the matched structure's swing range, oriented by pattern direction.
func projectFibLevels(pivots []models.Pivot, pattern string) []models.FibLevel {
	if len(pivots) < 2 {
		return nil
	}
	swingLow, swingHigh := pivots[0].Price, pivots[0].Price
	for _, pv := range pivots[1:] {
		if pv.Price < swingLow {
			swingLow = pv.Price
		}
		if pv.Price > swingHigh {
			swingHigh = pv.Price
		}
	}
	swingRange := swingHigh - swingLow
	if swingRange == 0 {
		return nil
	}

	up := pattern == models.PatternImpulseUp || pattern == models.PatternCorrectiveUp
	levels := make([]models.FibLevel, 0, len(fibProjectionRatios))
	for _, fr := range fibProjectionRatios {
		var level float64
		label := "Retracement " + fr.label
		if up {
			level = swingHigh - fr.ratio*swingRange
			if fr.ratio > 1.0 {
				level = swingHigh + (fr.ratio-1.0)*swingRange
				label = "Extension " + fr.label
			}
		} else {
			level = swingLow + fr.ratio*swingRange
			if fr.ratio > 1.0 {
				level = swingLow - (fr.ratio-1.0)*swingRange
				label = "Extension " + fr.label
			}
		}
		levels = append(levels, models.FibLevel{Level: round2(level), Ratio: fr.label, Label: label})
	}
	return levels
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
