package analysis

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"filler_words:\n  - um\n  - er\nfiller_phrases:\n  - you know\n"), 0o644))

	words, phrases, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"um", "er"}, words)
	assert.Equal(t, []string{"you know"}, phrases)
}

func TestLoadVocabulary_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filler_words: {broken"), 0o644))
	_, _, err := LoadVocabulary(path)
	assert.Error(t, err)
}

func TestVocabularyWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filler_words:\n  - um\n"), 0o644))

	detector := NewFillerDetector([]string{"um"}, nil)
	watcher, err := NewVocabularyWatcher(path, detector, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("filler_words:\n  - gosh\n"), 0o644))

	assert.Eventually(t, func() bool {
		return detector.Detect("gosh um").Found["gosh"] == 1 &&
			detector.Detect("gosh um").Found["um"] == 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestVocabularyWatcher_BadUpdateKeepsCurrentLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filler_words:\n  - um\n"), 0o644))

	detector := NewFillerDetector([]string{"um"}, nil)
	watcher, err := NewVocabularyWatcher(path, detector, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("filler_words: {nope"), 0o644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 1, detector.Detect("um").Count)
}
