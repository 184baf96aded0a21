// Package voicequality derives prosodic metrics from a decoded waveform:
// pitch variability, average energy, and a spectral clarity proxy. The
// metrics feed the confidence scorer; they are advisory, so any extraction
// failure degrades to zero values instead of failing the analysis.
package voicequality

import (
	"fmt"

	"interviewly-voice-go/internal/domain/audio"
	"interviewly-voice-go/internal/platform/logging"
)

const tagDSP = "DSP"

// Metrics are the three prosodic features, rounded to two decimals.
type Metrics struct {
	PitchVariation float64 `json:"pitch_variation"`
	EnergyLevel    float64 `json:"energy_level"`
	ClarityScore   float64 `json:"clarity_score"`
}

// Extractor computes Metrics from mono samples.
type Extractor interface {
	Extract(samples []float64, sampleRate int) (Metrics, error)
}

// Analyzer runs an Extractor with a degradation guard.
type Analyzer struct {
	extractor Extractor
	logger    *logging.Logger
}

func NewAnalyzer(logger *logging.Logger) *Analyzer {
	return &Analyzer{extractor: &stftExtractor{}, logger: logger}
}

// NewAnalyzerWith uses a custom extractor, mainly for tests.
func NewAnalyzerWith(extractor Extractor, logger *logging.Logger) *Analyzer {
	return &Analyzer{extractor: extractor, logger: logger}
}

// Analyze never fails: extraction errors (and panics from malformed input)
// are logged and reported as all-zero metrics.
func (a *Analyzer) Analyze(clip *audio.Clip) (m Metrics) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.WarnTag(tagDSP, "feature extraction panicked: %v", r)
			}
			m = Metrics{}
		}
	}()

	if clip == nil || len(clip.Samples) == 0 || clip.SampleRate <= 0 {
		return Metrics{}
	}

	metrics, err := a.extractor.Extract(clip.Samples, clip.SampleRate)
	if err != nil {
		if a.logger != nil {
			a.logger.WarnTag(tagDSP, "feature extraction degraded: %v", err)
		}
		return Metrics{}
	}
	return metrics
}

func validateInput(samples []float64, sampleRate int) error {
	if len(samples) == 0 {
		return fmt.Errorf("empty waveform")
	}
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	return nil
}
