package elliott

import (
	"TradePulse/internal/domain/models"
	"TradePulse/internal/signals/scoring"
)

// Wave matches below this confidence score neutral.
const minScoreConfidence = 0.15

// Score turns the detected wave structure into a standalone [-1, +1] signal:
// early impulse waves carry the strongest signal, wave 5 is a fading one,
// corrective waves a mild continuation, and unclear or low-confidence
// structure is neutral. The sign follows the pattern direction.
func Score(candles []models.Candle) float64 {
	if len(candles) < minDetectBars {
		return 0
	}

	wave := DetectWaves(candles)
	if wave.Pattern == models.PatternUnclear || wave.Confidence < minScoreConfidence {
		return 0
	}

	var magnitude float64
	switch wave.Pattern {
	case models.PatternImpulseUp, models.PatternImpulseDown:
		switch wave.CurrentWave {
		case "1", "3":
			magnitude = 0.5 + 0.5*wave.Confidence
		case "5":
			magnitude = 0.2 * wave.Confidence
		case "2", "4":
			magnitude = 0.3 * wave.Confidence
		default:
			return 0
		}
	case models.PatternCorrectiveUp, models.PatternCorrectiveDown:
		magnitude = 0.3 * wave.Confidence
	default:
		return 0
	}

	if wave.Pattern == models.PatternImpulseDown || wave.Pattern == models.PatternCorrectiveDown {
		magnitude = -magnitude
	}
	return scoring.Clamp(magnitude)
}
