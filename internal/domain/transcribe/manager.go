package transcribe

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"interviewly-voice-go/internal/platform/config"
	perrors "interviewly-voice-go/internal/platform/errors"
	"interviewly-voice-go/internal/platform/logging"
	"interviewly-voice-go/internal/utils"
)

const tagASR = "ASR"

// Manager owns the configured transcription provider. The provider is
// expensive to construct, so it is built once, lazily, on first use;
// concurrent first callers share a single construction via singleflight.
type Manager struct {
	cfg    config.ASRConfig
	logger *logging.Logger

	group singleflight.Group

	mu       sync.RWMutex
	provider Provider
}

func NewManager(cfg config.ASRConfig, logger *logging.Logger) *Manager {
	return &Manager{cfg: cfg, logger: logger}
}

// Loaded reports whether the underlying provider has been constructed yet.
func (m *Manager) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.provider != nil
}

func (m *Manager) getProvider() (Provider, error) {
	m.mu.RLock()
	p := m.provider
	m.mu.RUnlock()
	if p != nil {
		return p, nil
	}

	v, err, _ := m.group.Do("provider", func() (interface{}, error) {
		m.mu.RLock()
		existing := m.provider
		m.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		if m.logger != nil {
			m.logger.InfoTag(tagASR, "initializing %s provider (model=%s)", m.cfg.Type, m.cfg.Model)
		}
		created, err := Create(m.cfg, m.logger)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.provider = created
		m.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, perrors.Wrap(perrors.KindTranscribe, "transcribe.getProvider", "init provider", err)
	}
	return v.(Provider), nil
}

// Transcribe runs the configured engine against the audio file and
// normalizes the output: segment text is stripped of control characters,
// empty segments are dropped, and zero usable segments is a no-speech
// failure rather than an empty success.
func (m *Manager) Transcribe(ctx context.Context, req Request) ([]Segment, error) {
	if req.Language == "" {
		req.Language = m.cfg.Language
	}
	if req.BeamSize <= 0 {
		req.BeamSize = m.cfg.BeamSize
	}
	if !req.VAD.Enabled && m.cfg.VAD.Enabled {
		req.VAD = m.cfg.VAD
	}

	provider, err := m.getProvider()
	if err != nil {
		return nil, err
	}

	raw, err := provider.Transcribe(ctx, req)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindTranscribe, "transcribe.Transcribe", "engine call", err)
	}

	segments := make([]Segment, 0, len(raw))
	for _, seg := range raw {
		seg.Text = strings.TrimSpace(utils.RemoveControlCharacters(seg.Text))
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil, perrors.Wrap(perrors.KindTranscribe, "transcribe.Transcribe", "no usable segments",
			perrors.ErrNoSpeech)
	}

	if m.logger != nil {
		m.logger.DebugTag(tagASR, "transcribed %d segments (%.2fs speech)", len(segments),
			segments[len(segments)-1].End-segments[0].Start)
	}
	return segments, nil
}

// Close releases the provider if it was ever constructed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.provider == nil {
		return nil
	}
	err := m.provider.Close()
	m.provider = nil
	return err
}

// Transcript joins segment texts with single spaces.
func Transcript(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}
