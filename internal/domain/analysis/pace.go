package analysis

import (
	"math"
	"strings"

	"interviewly-voice-go/internal/domain/transcribe"
)

// Pace thresholds in words per minute. Boundaries belong to the upper
// bucket: exactly 100 is normal, exactly 160 is fast, exactly 200 is
// very fast.
const (
	paceSlowBelow    = 100.0
	paceNormalBelow  = 160.0
	paceVeryFastFrom = 200.0
)

// MeasurePace computes speaking rate over the voiced span of the clip: the
// word total divided by the time between the first segment's start and the
// last segment's end. Only an empty segment sequence rates unknown; a
// degenerate zero-length span counts as 0 wpm and buckets like any other
// rate.
func MeasurePace(segments []transcribe.Segment) PaceMetrics {
	if len(segments) == 0 {
		return PaceMetrics{Rating: PaceUnknown}
	}

	totalWords := 0
	for _, seg := range segments {
		totalWords += len(strings.Fields(seg.Text))
	}

	var wpm float64
	if span := segments[len(segments)-1].End - segments[0].Start; span > 0 {
		wpm = float64(totalWords) / span * 60
	}
	wpm = math.Round(wpm*10) / 10

	var rating PaceRating
	switch {
	case wpm < paceSlowBelow:
		rating = PaceSlow
	case wpm < paceNormalBelow:
		rating = PaceNormal
	case wpm < paceVeryFastFrom:
		rating = PaceFast
	default:
		rating = PaceVeryFast
	}

	return PaceMetrics{WordsPerMinute: wpm, Rating: rating}
}
