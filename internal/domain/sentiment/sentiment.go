// Package sentiment scores transcript text with a VADER lexicon model.
package sentiment

import (
	"sync"

	"github.com/jonreiter/govader"

	"interviewly-voice-go/internal/platform/logging"
)

const tagSentiment = "SENTIMENT"

// Scores is the four-channel VADER output. Compound is the normalized
// overall polarity in [-1,1]; the other three sum to roughly 1.
type Scores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
	Compound float64 `json:"compound"`
}

// Analyzer wraps the lexicon model behind lazy one-time construction.
type Analyzer struct {
	once   sync.Once
	mu     sync.RWMutex
	sia    *govader.SentimentIntensityAnalyzer
	logger *logging.Logger
}

func NewAnalyzer(logger *logging.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Loaded reports whether the lexicon has been built. Safe to call while a
// first Score is constructing it.
func (a *Analyzer) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sia != nil
}

// Score analyzes text. Empty input scores all zeros, which the confidence
// scorer treats as neutral.
func (a *Analyzer) Score(text string) Scores {
	if text == "" {
		return Scores{}
	}

	a.once.Do(func() {
		sia := govader.NewSentimentIntensityAnalyzer()
		a.mu.Lock()
		a.sia = sia
		a.mu.Unlock()
		if a.logger != nil {
			a.logger.InfoTag(tagSentiment, "sentiment lexicon loaded")
		}
	})

	a.mu.RLock()
	sia := a.sia
	a.mu.RUnlock()

	s := sia.PolarityScores(text)
	return Scores{
		Positive: s.Positive,
		Neutral:  s.Neutral,
		Negative: s.Negative,
		Compound: s.Compound,
	}
}
