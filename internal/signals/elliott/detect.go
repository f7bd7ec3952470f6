package elliott

import (
	"strconv"

	"TradePulse/internal/domain/models"
)

// Lookback window of bars the detector considers.
const lookbackBars = 200

// Minimum bars before wave detection is attempted.
const minDetectBars = 50

// Corrective matches carry a fixed base confidence, intentionally below a
// clean impulse match so they never override one.
const correctiveConfidence = 0.4

var impulseLabels = []string{"1", "2", "3", "4", "5"}
var correctiveLabels = []string{"start", "A", "B", "C"}

func unclearStructure() models.WaveStructure {
	return models.WaveStructure{
		Pattern:     models.PatternUnclear,
		CurrentWave: "1",
		Pivots:      []models.WavePivot{},
		Confidence:  0,
		FibLevels:   []models.FibLevel{},
	}
}

// DetectWaves matches Elliott wave patterns over the most recent bars of a
// candle series. Candidate six-pivot impulse windows and four-pivot
// corrective windows are scored and the highest-confidence match wins;
// candidates are visited in ascending offset order so ties resolve to the
// earliest window.
func DetectWaves(candles []models.Candle) models.WaveStructure {
	n := len(candles)
	if n < minDetectBars {
		return unclearStructure()
	}

	start := n - lookbackBars
	if start < 0 {
		start = 0
	}
	window := candles[start:]
	pivots := ZigzagPivots(models.Highs(window), models.Lows(window), models.Closes(window))
	if len(pivots) < 4 {
		return unclearStructure()
	}

	bestPattern := models.PatternUnclear
	bestConfidence := 0.0
	var bestPivots []models.Pivot

	// impulse candidates: six-pivot windows ending near the last pivot
	for offset := intMax(0, len(pivots)-8); offset < intMax(0, len(pivots)-5); offset++ {
		if offset+6 > len(pivots) {
			continue
		}
		segment := pivots[offset : offset+6]
		var pattern string
		switch {
		case isImpulseUp(segment):
			pattern = models.PatternImpulseUp
		case isImpulseDown(segment):
			pattern = models.PatternImpulseDown
		default:
			continue
		}
		confidence, _ := ValidateFibonacci(segment)
		if confidence > bestConfidence {
			bestConfidence = confidence
			bestPattern = pattern
			bestPivots = segment
		}
	}

	// corrective candidates: four-pivot A-B-C windows
	for offset := intMax(0, len(pivots)-6); offset < intMax(0, len(pivots)-3); offset++ {
		if offset+4 > len(pivots) {
			continue
		}
		segment := pivots[offset : offset+4]
		var pattern string
		switch {
		case isCorrectiveUp(segment):
			pattern = models.PatternCorrectiveUp
		case isCorrectiveDown(segment):
			pattern = models.PatternCorrectiveDown
		default:
			continue
		}
		if correctiveConfidence > bestConfidence {
			bestConfidence = correctiveConfidence
			bestPattern = pattern
			bestPivots = segment
		}
	}

	labeled := labelPivots(bestPivots, bestPattern, start)
	if bestConfidence > 1 {
		bestConfidence = 1
	}

	return models.WaveStructure{
		Pattern:     bestPattern,
		CurrentWave: currentWave(bestPivots, bestPattern),
		Pivots:      labeled,
		Confidence:  bestConfidence,
		FibLevels:   projectFibLevels(bestPivots, bestPattern),
	}
}

// labelPivots annotates matched pivots with wave names and rebases their
// indexes onto the full series.
func labelPivots(pivots []models.Pivot, pattern string, start int) []models.WavePivot {
	labeled := []models.WavePivot{}
	var labels []string
	var limit int
	switch {
	case pattern == models.PatternImpulseUp || pattern == models.PatternImpulseDown:
		labels, limit = impulseLabels, 6
	case pattern == models.PatternCorrectiveUp || pattern == models.PatternCorrectiveDown:
		labels, limit = correctiveLabels, 4
	default:
		return labeled
	}
	for i, pv := range pivots {
		if i >= limit {
			break
		}
		label := strconv.Itoa(i)
		if i < len(labels) {
			label = labels[i]
		}
		labeled = append(labeled, models.WavePivot{
			Pivot:     models.Pivot{Index: pv.Index + start, Price: pv.Price, Kind: pv.Kind},
			WaveLabel: label,
		})
	}
	return labeled
}

// currentWave derives the wave label purely from how many pivots matched. A
// structurally complete six-pivot impulse is always labeled wave "5", no
// matter how much price action has happened since the last pivot.
func currentWave(pivots []models.Pivot, pattern string) string {
	if len(pivots) == 0 {
		return "1"
	}
	switch pattern {
	case models.PatternImpulseUp, models.PatternImpulseDown:
		n := intMin(len(pivots), 6)
		waves := map[int]string{1: "1", 2: "2", 3: "3", 4: "4", 5: "5", 6: "5"}
		if w, ok := waves[n]; ok {
			return w
		}
	case models.PatternCorrectiveUp, models.PatternCorrectiveDown:
		n := intMin(len(pivots), 4)
		waves := map[int]string{1: "A", 2: "B", 3: "C", 4: "C"}
		if w, ok := waves[n]; ok {
			return w
		}
		return "A"
	}
	return "1"
}

func intMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func intMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}
