package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"interviewly-voice-go/internal/platform/config"
)

func defaultDetector() *FillerDetector {
	return NewFillerDetector(config.DefaultFillerWords, config.DefaultFillerPhrases)
}

func TestDetect_WordsAndCleanup(t *testing.T) {
	d := defaultDetector()
	report := d.Detect("Um, I have experience with, like, React and Node")

	assert.Equal(t, 2, report.Count)
	assert.Equal(t, map[string]int{"um": 1, "like": 1}, report.Found)
	assert.InDelta(t, 22.22, report.Percentage, 0.01)
	assert.Equal(t, "I have experience with, React and Node", report.CleanTranscript)
}

func TestDetect_Phrases(t *testing.T) {
	d := defaultDetector()
	report := d.Detect("You know, it was sort of hard, you know")

	// "you know" twice, "sort of" once.
	assert.Equal(t, 2, report.Found["you know"])
	assert.Equal(t, 1, report.Found["sort of"])
	assert.Equal(t, 3, report.Count)
}

func TestDetect_PunctuationAttachedTokens(t *testing.T) {
	d := defaultDetector()
	report := d.Detect("Well... um! That was (like) fine.")
	assert.Equal(t, 1, report.Found["well"])
	assert.Equal(t, 1, report.Found["um"])
	assert.Equal(t, 1, report.Found["like"])
}

func TestDetect_EmptyTranscript(t *testing.T) {
	d := defaultDetector()
	report := d.Detect("")
	assert.Zero(t, report.Count)
	assert.Zero(t, report.Percentage)
	assert.Empty(t, report.Found)
	assert.Empty(t, report.CleanTranscript)
}

func TestDetect_NoFillers(t *testing.T) {
	d := defaultDetector()
	text := "I designed the system and shipped it on time"
	report := d.Detect(text)
	assert.Zero(t, report.Count)
	assert.Equal(t, text, report.CleanTranscript)
}

func TestDetect_CleaningIsIdempotent(t *testing.T) {
	d := defaultDetector()
	first := d.Detect("Um, so I was like, you know, basically working on the backend, okay")
	second := d.Detect(first.CleanTranscript)

	assert.Zero(t, second.Count, "clean transcript must contain no fillers")
	assert.Equal(t, first.CleanTranscript, second.CleanTranscript)
}

func TestDetect_CaseInsensitive(t *testing.T) {
	d := defaultDetector()
	report := d.Detect("UM Like BASICALLY")
	assert.Equal(t, 3, report.Count)
	assert.InDelta(t, 100.0, report.Percentage, 0.01)
}

func TestDetect_SubstringWordsAreNotMatched(t *testing.T) {
	d := defaultDetector()
	// "umbrella" contains "um" but is a distinct token.
	report := d.Detect("The umbrella is unlikely to help")
	assert.Zero(t, report.Count)
}

func TestSetVocabulary_HotSwap(t *testing.T) {
	d := NewFillerDetector([]string{"um"}, nil)
	assert.Equal(t, 1, d.Detect("um right").Count)

	d.SetVocabulary([]string{"right"}, []string{"in fact"})
	report := d.Detect("um right, in fact twice in fact")
	assert.Equal(t, 1, report.Found["right"])
	assert.Equal(t, 2, report.Found["in fact"])
	assert.Zero(t, report.Found["um"])
}

func TestDetect_AllFillerTranscript(t *testing.T) {
	d := defaultDetector()
	report := d.Detect("um um um")
	assert.Equal(t, 3, report.Count)
	assert.InDelta(t, 100.0, report.Percentage, 0.01)
	assert.Empty(t, report.CleanTranscript)
}
