package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"interviewly-voice-go/internal/domain/sentiment"
	"interviewly-voice-go/internal/domain/voicequality"
)

func TestScore_NeutralBaseline(t *testing.T) {
	// Zero sentiment, 3% fillers, unknown pace, flat voice: only the base.
	got := Score(sentiment.Scores{}, FillerReport{Percentage: 3}, PaceMetrics{Rating: PaceUnknown}, voicequality.Metrics{})
	assert.Equal(t, 70, got)
}

func TestScore_BestCase(t *testing.T) {
	got := Score(
		sentiment.Scores{Compound: 0.8},
		FillerReport{Percentage: 1.0},
		PaceMetrics{Rating: PaceNormal},
		voicequality.Metrics{PitchVariation: 60, EnergyLevel: 8},
	)
	assert.Equal(t, 100, got) // 70+10+5+5+5+5
}

func TestScore_WorstCase(t *testing.T) {
	got := Score(
		sentiment.Scores{Compound: -0.9},
		FillerReport{Percentage: 25},
		PaceMetrics{Rating: PaceVeryFast},
		voicequality.Metrics{},
	)
	assert.Equal(t, 40, got) // 70-10-15-5
}

func TestScore_SentimentBands(t *testing.T) {
	base := func(c float64) int {
		return Score(sentiment.Scores{Compound: c}, FillerReport{Percentage: 3}, PaceMetrics{Rating: PaceUnknown}, voicequality.Metrics{})
	}
	assert.Equal(t, 80, base(0.5))
	assert.Equal(t, 75, base(0.2))
	assert.Equal(t, 70, base(0))
	assert.Equal(t, 65, base(-0.2))
	assert.Equal(t, 60, base(-0.5))
	// Band edges: 0.3 and -0.3 fall in the weaker band.
	assert.Equal(t, 75, base(0.3))
	assert.Equal(t, 65, base(-0.3))
}

func TestScore_FillerBands(t *testing.T) {
	at := func(pct float64) int {
		return Score(sentiment.Scores{}, FillerReport{Percentage: pct}, PaceMetrics{Rating: PaceUnknown}, voicequality.Metrics{})
	}
	assert.Equal(t, 75, at(0))
	assert.Equal(t, 75, at(1.99))
	assert.Equal(t, 70, at(2))
	assert.Equal(t, 70, at(4.99))
	assert.Equal(t, 65, at(5))
	assert.Equal(t, 65, at(9.99))
	assert.Equal(t, 55, at(10))
}

func TestScore_PaceAdjustments(t *testing.T) {
	at := func(r PaceRating) int {
		return Score(sentiment.Scores{}, FillerReport{Percentage: 3}, PaceMetrics{Rating: r}, voicequality.Metrics{})
	}
	assert.Equal(t, 75, at(PaceNormal))
	assert.Equal(t, 65, at(PaceSlow))
	assert.Equal(t, 70, at(PaceFast))
	assert.Equal(t, 65, at(PaceVeryFast))
	assert.Equal(t, 70, at(PaceUnknown))
}

func TestScore_VoiceBonuses(t *testing.T) {
	at := func(pitch, energy float64) int {
		return Score(sentiment.Scores{}, FillerReport{Percentage: 3}, PaceMetrics{Rating: PaceUnknown},
			voicequality.Metrics{PitchVariation: pitch, EnergyLevel: energy})
	}
	assert.Equal(t, 70, at(50, 5)) // thresholds are exclusive
	assert.Equal(t, 75, at(50.1, 5))
	assert.Equal(t, 75, at(50, 5.1))
	assert.Equal(t, 80, at(51, 6))
}

func TestScore_Deterministic(t *testing.T) {
	in := sentiment.Scores{Compound: 0.4}
	f := FillerReport{Percentage: 6.5}
	p := PaceMetrics{Rating: PaceFast}
	v := voicequality.Metrics{PitchVariation: 70, EnergyLevel: 2}
	first := Score(in, f, p, v)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(in, f, p, v))
	}
}
