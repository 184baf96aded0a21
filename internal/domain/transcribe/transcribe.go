package transcribe

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"interviewly-voice-go/internal/platform/config"
	"interviewly-voice-go/internal/platform/logging"
)

// Segment is one timed span of recognized speech. Start and End are seconds
// from the beginning of the clip; engines return segments in time order.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Request carries everything an engine needs for one transcription call.
type Request struct {
	AudioPath string
	Language  string
	BeamSize  int
	VAD       config.VADConfig
}

// Provider is a transcription engine adapter. Transcribe blocks until the
// engine returns and honors ctx cancellation.
type Provider interface {
	Transcribe(ctx context.Context, req Request) ([]Segment, error)
	Close() error
}

// Factory builds a Provider from its config entry.
type Factory func(cfg config.ASRConfig, logger *logging.Logger) (Provider, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a provider factory available under the given type name.
// Adapter packages call this from init.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// Create instantiates the provider registered under cfg.Type.
func Create(cfg config.ASRConfig, logger *logging.Logger) (Provider, error) {
	factoriesMu.RLock()
	factory, ok := factories[cfg.Type]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown transcription provider: %s", cfg.Type)
	}
	return factory(cfg, logger)
}

// Registered lists the available provider type names.
func Registered() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
