package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"interviewly-voice-go/internal/platform/logging"
)

// vocabularyFile is the on-disk shape of a filler vocabulary override.
type vocabularyFile struct {
	FillerWords   []string `yaml:"filler_words"`
	FillerPhrases []string `yaml:"filler_phrases"`
}

// LoadVocabulary reads a vocabulary yaml file into word and phrase lists.
func LoadVocabulary(path string) (words, phrases []string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var vf vocabularyFile
	if err := yaml.Unmarshal(raw, &vf); err != nil {
		return nil, nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return vf.FillerWords, vf.FillerPhrases, nil
}

// VocabularyWatcher hot-reloads the detector vocabulary when the file
// changes, so deployments can tune the filler lists without a restart.
type VocabularyWatcher struct {
	path     string
	detector *FillerDetector
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	done     chan struct{}
}

func NewVocabularyWatcher(path string, detector *FillerDetector, logger *logging.Logger) (*VocabularyWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files on save, which would drop
	// a watch placed on the file itself.
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		w.Close()
		return nil, err
	}

	vw := &VocabularyWatcher{
		path:     absPath,
		detector: detector,
		watcher:  w,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go vw.loop()
	return vw, nil
}

func (vw *VocabularyWatcher) loop() {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-vw.done:
			return
		case event, ok := <-vw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(vw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, vw.reload)
		case err, ok := <-vw.watcher.Errors:
			if !ok {
				return
			}
			if vw.logger != nil {
				vw.logger.WarnTag("ANALYSIS", "vocabulary watcher error: %v", err)
			}
		}
	}
}

func (vw *VocabularyWatcher) reload() {
	words, phrases, err := LoadVocabulary(vw.path)
	if err != nil {
		if vw.logger != nil {
			vw.logger.WarnTag("ANALYSIS", "vocabulary reload failed, keeping current lists: %v", err)
		}
		return
	}
	vw.detector.SetVocabulary(words, phrases)
	if vw.logger != nil {
		vw.logger.InfoTag("ANALYSIS", "vocabulary reloaded: %d words, %d phrases", len(words), len(phrases))
	}
}

func (vw *VocabularyWatcher) Stop() error {
	close(vw.done)
	return vw.watcher.Close()
}
