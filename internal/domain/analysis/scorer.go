package analysis

import (
	"interviewly-voice-go/internal/domain/sentiment"
	"interviewly-voice-go/internal/domain/voicequality"
)

// Scoring weights. The score starts from a neutral base and each dimension
// contributes a bounded adjustment, clamped to [0,100] at the end.
const (
	scoreBase = 70

	sentimentStrongPositive = 0.3
	sentimentStrongNegative = -0.3

	fillerExcellentBelow  = 2.0
	fillerAcceptableBelow = 5.0
	fillerPoorBelow       = 10.0
)

// Score combines the four analysis dimensions into a 0-100 confidence
// estimate. It is a pure function: same inputs, same score.
func Score(s sentiment.Scores, fillers FillerReport, pace PaceMetrics, voice voicequality.Metrics) int {
	score := scoreBase

	switch {
	case s.Compound > sentimentStrongPositive:
		score += 10
	case s.Compound > 0:
		score += 5
	case s.Compound < sentimentStrongNegative:
		score -= 10
	case s.Compound < 0:
		score -= 5
	}

	switch {
	case fillers.Percentage < fillerExcellentBelow:
		score += 5
	case fillers.Percentage < fillerAcceptableBelow:
		// no adjustment
	case fillers.Percentage < fillerPoorBelow:
		score -= 5
	default:
		score -= 15
	}

	switch pace.Rating {
	case PaceNormal:
		score += 5
	case PaceSlow, PaceVeryFast:
		score -= 5
	}

	if voice.PitchVariation > 50 {
		score += 5
	}
	if voice.EnergyLevel > 5 {
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
