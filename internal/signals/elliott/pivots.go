// Package elliott detects Elliott Wave structure in daily price series:
// ATR-filtered zigzag pivots, impulse and corrective pattern matching with
// Fibonacci ratio validation, and a standalone wave score.
package elliott

import (
	"sort"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/signals/indicators"
)

// Swing confirmation threshold in median-ATR multiples.
const atrThreshold = 1.5

// Minimum bars before pivot extraction is attempted.
const minPivotBars = 20

// trackState is the zigzag automaton state.
type trackState int

const (
	seekingDirection trackState = iota
	trackingUp
	trackingDown
)

// ZigzagPivots extracts confirmed swing highs and lows. A swing is confirmed
// once price retraces at least median(ATR-14)*1.5 from the most extreme point
// seen since the last confirmed pivot; the extreme then becomes a pivot and
// tracking direction flips. Pivots alternate kind by construction.
func ZigzagPivots(highs, lows, closes []float64) []models.Pivot {
	n := len(closes)
	if n < minPivotBars {
		return nil
	}

	atrValues := indicators.ATR(highs, lows, closes, 14).Values()
	if len(atrValues) == 0 {
		return nil
	}
	minSwing := median(atrValues) * atrThreshold

	var pivots []models.Pivot
	state := seekingDirection
	lastHighIdx, lastHighVal := 0, highs[0]
	lastLowIdx, lastLowVal := 0, lows[0]

	for i := 1; i < n; i++ {
		h, l := highs[i], lows[i]

		switch state {
		case seekingDirection:
			switch {
			case h-lastLowVal >= minSwing:
				// initial swing up: the low becomes the first pivot
				pivots = append(pivots, models.Pivot{Index: lastLowIdx, Price: lastLowVal, Kind: models.PivotLow})
				state = trackingUp
				lastHighIdx, lastHighVal = i, h
			case lastHighVal-l >= minSwing:
				pivots = append(pivots, models.Pivot{Index: lastHighIdx, Price: lastHighVal, Kind: models.PivotHigh})
				state = trackingDown
				lastLowIdx, lastLowVal = i, l
			default:
				if h > lastHighVal {
					lastHighIdx, lastHighVal = i, h
				}
				if l < lastLowVal {
					lastLowIdx, lastLowVal = i, l
				}
			}

		case trackingUp:
			if h > lastHighVal {
				lastHighIdx, lastHighVal = i, h
			} else if lastHighVal-l >= minSwing {
				// reversal confirmed: the running high becomes a pivot
				pivots = append(pivots, models.Pivot{Index: lastHighIdx, Price: lastHighVal, Kind: models.PivotHigh})
				state = trackingDown
				lastLowIdx, lastLowVal = i, l
			}

		case trackingDown:
			if l < lastLowVal {
				lastLowIdx, lastLowVal = i, l
			} else if h-lastLowVal >= minSwing {
				pivots = append(pivots, models.Pivot{Index: lastLowIdx, Price: lastLowVal, Kind: models.PivotLow})
				state = trackingUp
				lastHighIdx, lastHighVal = i, h
			}
		}
	}

	// close out the swing in progress
	switch state {
	case trackingUp:
		pivots = append(pivots, models.Pivot{Index: lastHighIdx, Price: lastHighVal, Kind: models.PivotHigh})
	case trackingDown:
		pivots = append(pivots, models.Pivot{Index: lastLowIdx, Price: lastLowVal, Kind: models.PivotLow})
	}

	return pivots
}

func median(values []float64) float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
