package elliott

import "TradePulse/internal/domain/models"

func kindsMatch(pivots []models.Pivot, expected []models.PivotKind) bool {
	if len(pivots) < len(expected) {
		return false
	}
	for i, k := range expected {
		if pivots[i].Kind != k {
			return false
		}
	}
	return true
}

// isImpulseUp checks six pivots for an upward 5-wave impulse: alternating
// low/high starting from a low, wave 3 not the shortest of 1/3/5, and wave 4
// staying out of wave 1's price territory.
func isImpulseUp(pivots []models.Pivot) bool {
	if !kindsMatch(pivots, []models.PivotKind{
		models.PivotLow, models.PivotHigh, models.PivotLow,
		models.PivotHigh, models.PivotLow, models.PivotHigh,
	}) {
		return false
	}
	w1 := pivots[1].Price - pivots[0].Price
	w3 := pivots[3].Price - pivots[2].Price
	w5 := pivots[5].Price - pivots[4].Price
	if w3 < w1 && w3 < w5 {
		return false
	}
	return pivots[4].Price >= pivots[1].Price
}

func isImpulseDown(pivots []models.Pivot) bool {
	if !kindsMatch(pivots, []models.PivotKind{
		models.PivotHigh, models.PivotLow, models.PivotHigh,
		models.PivotLow, models.PivotHigh, models.PivotLow,
	}) {
		return false
	}
	w1 := pivots[0].Price - pivots[1].Price
	w3 := pivots[2].Price - pivots[3].Price
	w5 := pivots[4].Price - pivots[5].Price
	if w3 < w1 && w3 < w5 {
		return false
	}
	return pivots[4].Price <= pivots[1].Price
}

// isCorrectiveUp checks four pivots for an upward A-B-C shape.
func isCorrectiveUp(pivots []models.Pivot) bool {
	return kindsMatch(pivots, []models.PivotKind{
		models.PivotLow, models.PivotHigh, models.PivotLow, models.PivotHigh,
	})
}

func isCorrectiveDown(pivots []models.Pivot) bool {
	return kindsMatch(pivots, []models.PivotKind{
		models.PivotHigh, models.PivotLow, models.PivotHigh, models.PivotLow,
	})
}
