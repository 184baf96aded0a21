package analysis

import (
	"math"
	"regexp"
	"strings"
	"sync"
)

var (
	tokenPunct = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
	wsCollapse = regexp.MustCompile(`\s+`)
)

// FillerDetector counts filler vocabulary in a transcript and produces a
// cleaned copy with the found fillers removed. The vocabulary is split into
// single words, matched per token after lowercasing and punctuation
// stripping, and multi-word phrases, matched as substrings of the lowercased
// transcript. Vocabulary swaps are safe under concurrent Detect calls.
type FillerDetector struct {
	mu      sync.RWMutex
	words   map[string]struct{}
	phrases []string
}

func NewFillerDetector(words, phrases []string) *FillerDetector {
	d := &FillerDetector{}
	d.SetVocabulary(words, phrases)
	return d
}

// SetVocabulary atomically replaces the filler vocabulary.
func (d *FillerDetector) SetVocabulary(words, phrases []string) {
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			wordSet[w] = struct{}{}
		}
	}
	phraseList := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			phraseList = append(phraseList, p)
		}
	}

	d.mu.Lock()
	d.words = wordSet
	d.phrases = phraseList
	d.mu.Unlock()
}

// Vocabulary returns copies of the current word and phrase lists.
func (d *FillerDetector) Vocabulary() (words, phrases []string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	words = make([]string, 0, len(d.words))
	for w := range d.words {
		words = append(words, w)
	}
	phrases = append(phrases, d.phrases...)
	return words, phrases
}

// Detect analyzes the transcript. Percentage is fillers per hundred tokens;
// an empty transcript reports zero, not NaN. CleanTranscript has every found
// filler removed with trailing punctuation consumed and whitespace
// renormalized, so cleaning is idempotent: detecting on the clean output
// finds nothing.
func (d *FillerDetector) Detect(transcript string) FillerReport {
	d.mu.RLock()
	words := d.words
	phrases := d.phrases
	d.mu.RUnlock()

	lower := strings.ToLower(transcript)
	tokens := strings.Fields(lower)

	found := make(map[string]int)
	count := 0

	for _, tok := range tokens {
		clean := tokenPunct.ReplaceAllString(tok, "")
		if clean == "" {
			continue
		}
		if _, ok := words[clean]; ok {
			found[clean]++
			count++
		}
	}

	for _, phrase := range phrases {
		if n := strings.Count(lower, phrase); n > 0 {
			found[phrase] = n
			count += n
		}
	}

	percentage := 0.0
	if len(tokens) > 0 {
		percentage = math.Round(float64(count)/float64(len(tokens))*100*100) / 100
	}

	cleaned := transcript
	for filler := range found {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(filler) + `\b[,.!?;:]*`)
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(wsCollapse.ReplaceAllString(cleaned, " "))

	return FillerReport{
		Count:           count,
		Percentage:      percentage,
		Found:           found,
		CleanTranscript: cleaned,
	}
}
