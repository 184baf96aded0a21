// Package whisperserver talks to a self-hosted faster-whisper HTTP sidecar.
// The sidecar exposes POST /transcribe taking a multipart audio file plus
// decoding parameters and returns timed segments as JSON.
package whisperserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"interviewly-voice-go/internal/domain/transcribe"
	"interviewly-voice-go/internal/platform/config"
	perrors "interviewly-voice-go/internal/platform/errors"
	"interviewly-voice-go/internal/platform/logging"
)

func init() {
	transcribe.Register("whisper-server", NewProvider)
}

type serverSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type serverResponse struct {
	Segments []serverSegment `json:"segments"`
	Language string          `json:"language"`
}

type Provider struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *logging.Logger
}

func NewProvider(cfg config.ASRConfig, logger *logging.Logger) (transcribe.Provider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("whisper-server: url is required")
	}
	return &Provider{
		baseURL: cfg.URL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}, nil
}

func (p *Provider) Transcribe(ctx context.Context, req transcribe.Request) ([]transcribe.Segment, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", perrors.ErrEngine, err)
	}
	defer fd.Close()
	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"model":    p.model,
		"language": req.Language,
	}
	if req.BeamSize > 0 {
		fields["beam_size"] = strconv.Itoa(req.BeamSize)
	}
	if req.VAD.Enabled {
		fields["vad_filter"] = "true"
		fields["min_silence_duration_ms"] = strconv.Itoa(req.VAD.MinSilenceMs)
		fields["speech_pad_ms"] = strconv.Itoa(req.VAD.SpeechPadMs)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transcribe", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", perrors.ErrEngine, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s: %s", perrors.ErrEngine, resp.Status, string(raw))
	}

	var out serverResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", perrors.ErrEngine, err)
	}

	segments := make([]transcribe.Segment, 0, len(out.Segments))
	for _, seg := range out.Segments {
		segments = append(segments, transcribe.Segment{
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
	}
	return segments, nil
}

func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
