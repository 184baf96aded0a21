package analysis

import (
	"encoding/json"

	"interviewly-voice-go/internal/domain/sentiment"
	"interviewly-voice-go/internal/domain/voicequality"
)

// PaceRating buckets words-per-minute into a coarse label.
type PaceRating string

const (
	PaceSlow     PaceRating = "slow"
	PaceNormal   PaceRating = "normal"
	PaceFast     PaceRating = "fast"
	PaceVeryFast PaceRating = "very_fast"
	PaceUnknown  PaceRating = "unknown"
)

// FillerReport is the outcome of filler detection over one transcript.
type FillerReport struct {
	Count           int            `json:"count"`
	Percentage      float64        `json:"percentage"`
	Found           map[string]int `json:"found"`
	CleanTranscript string         `json:"-"`
}

// PaceMetrics is the speaking-rate measurement.
type PaceMetrics struct {
	WordsPerMinute float64    `json:"words_per_minute"`
	Rating         PaceRating `json:"pace_rating"`
}

// Details groups the four analysis dimensions in the result payload.
type Details struct {
	FillerWords  FillerReport         `json:"filler_words"`
	Sentiment    sentiment.Scores     `json:"sentiment"`
	SpeechPace   PaceMetrics          `json:"speech_pace"`
	VoiceQuality voicequality.Metrics `json:"voice_quality"`
}

// Result is one finished analysis. A failed run carries Success=false plus
// Error and serializes to just those two fields; a successful run always
// serializes the full payload, including a zero confidence score.
type Result struct {
	Success         bool     `json:"success"`
	AnalysisID      string   `json:"analysis_id,omitempty"`
	Transcript      string   `json:"transcript"`
	CleanTranscript string   `json:"clean_transcript"`
	ConfidenceScore int      `json:"confidence_score"`
	Analysis        *Details `json:"analysis"`
	Error           string   `json:"-"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, r.Error})
	}
	type success Result
	return json.Marshal(success(r))
}

func (r *Result) UnmarshalJSON(data []byte) error {
	type plain struct {
		Success         bool     `json:"success"`
		AnalysisID      string   `json:"analysis_id"`
		Transcript      string   `json:"transcript"`
		CleanTranscript string   `json:"clean_transcript"`
		ConfidenceScore int      `json:"confidence_score"`
		Analysis        *Details `json:"analysis"`
		Error           string   `json:"error"`
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Result{
		Success:         p.Success,
		AnalysisID:      p.AnalysisID,
		Transcript:      p.Transcript,
		CleanTranscript: p.CleanTranscript,
		ConfidenceScore: p.ConfidenceScore,
		Analysis:        p.Analysis,
		Error:           p.Error,
	}
	return nil
}
