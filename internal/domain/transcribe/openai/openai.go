// Package openai adapts the hosted Whisper API as a transcription provider.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"interviewly-voice-go/internal/domain/transcribe"
	"interviewly-voice-go/internal/platform/config"
	perrors "interviewly-voice-go/internal/platform/errors"
	"interviewly-voice-go/internal/platform/logging"
)

func init() {
	transcribe.Register("openai", NewProvider)
}

type Provider struct {
	client *goopenai.Client
	model  string
	logger *logging.Logger
}

func NewProvider(cfg config.ASRConfig, logger *logging.Logger) (transcribe.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.URL != "" {
		clientCfg.BaseURL = cfg.URL
	}

	model := cfg.Model
	if model == "" {
		model = goopenai.Whisper1
	}

	return &Provider{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}, nil
}

// Transcribe requests verbose JSON so the response carries per-segment
// timestamps rather than a flat text blob.
func (p *Provider) Transcribe(ctx context.Context, req transcribe.Request) ([]transcribe.Segment, error) {
	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    p.model,
		FilePath: req.AudioPath,
		Language: req.Language,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", perrors.ErrEngine, err)
	}

	segments := make([]transcribe.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, transcribe.Segment{
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
	}
	return segments, nil
}

func (p *Provider) Close() error {
	return nil
}
