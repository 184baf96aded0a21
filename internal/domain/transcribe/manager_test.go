package transcribe

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewly-voice-go/internal/platform/config"
	perrors "interviewly-voice-go/internal/platform/errors"
	"interviewly-voice-go/internal/platform/logging"
)

type fakeProvider struct {
	segments []Segment
	err      error
	calls    int32
}

func (f *fakeProvider) Transcribe(ctx context.Context, req Request) ([]Segment, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.segments, f.err
}

func (f *fakeProvider) Close() error { return nil }

func registerFake(t *testing.T, name string, p *fakeProvider, constructed *int32) {
	t.Helper()
	Register(name, func(cfg config.ASRConfig, logger *logging.Logger) (Provider, error) {
		if constructed != nil {
			atomic.AddInt32(constructed, 1)
		}
		return p, nil
	})
}

func TestManager_LazySingleConstruction(t *testing.T) {
	var constructed int32
	fake := &fakeProvider{segments: []Segment{{Text: "hello", Start: 0, End: 1}}}
	registerFake(t, "fake-lazy", fake, &constructed)

	m := NewManager(config.ASRConfig{Type: "fake-lazy"}, nil)
	assert.False(t, m.Loaded())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Transcribe(context.Background(), Request{AudioPath: "x.wav"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&constructed))
	assert.True(t, m.Loaded())
}

func TestManager_NoSpeech(t *testing.T) {
	fake := &fakeProvider{segments: []Segment{{Text: "   "}, {Text: ""}}}
	registerFake(t, "fake-silent", fake, nil)

	m := NewManager(config.ASRConfig{Type: "fake-silent"}, nil)
	_, err := m.Transcribe(context.Background(), Request{AudioPath: "x.wav"})
	require.Error(t, err)
	assert.ErrorIs(t, err, perrors.ErrNoSpeech)
}

func TestManager_SanitizesSegments(t *testing.T) {
	fake := &fakeProvider{segments: []Segment{
		{Text: "  first\npart ", Start: 0, End: 1.5},
		{Text: "\x00", Start: 1.5, End: 2},
		{Text: "second", Start: 2, End: 3},
	}}
	registerFake(t, "fake-dirty", fake, nil)

	m := NewManager(config.ASRConfig{Type: "fake-dirty"}, nil)
	segs, err := m.Transcribe(context.Background(), Request{AudioPath: "x.wav"})
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "first part", segs[0].Text)
	assert.Equal(t, "second", segs[1].Text)
	assert.Equal(t, "first part second", Transcript(segs))
}

func TestManager_UnknownProvider(t *testing.T) {
	m := NewManager(config.ASRConfig{Type: "no-such-provider"}, nil)
	_, err := m.Transcribe(context.Background(), Request{AudioPath: "x.wav"})
	require.Error(t, err)
	assert.True(t, perrors.IsKind(err, perrors.KindTranscribe))
}

func TestManager_DefaultsFromConfig(t *testing.T) {
	var got Request
	Register("fake-capture", func(cfg config.ASRConfig, logger *logging.Logger) (Provider, error) {
		return providerFunc(func(ctx context.Context, req Request) ([]Segment, error) {
			got = req
			return []Segment{{Text: "ok", End: 1}}, nil
		}), nil
	})

	cfg := config.ASRConfig{
		Type:     "fake-capture",
		Language: "en",
		BeamSize: 3,
		VAD:      config.VADConfig{Enabled: true, MinSilenceMs: 500, SpeechPadMs: 400},
	}
	m := NewManager(cfg, nil)
	_, err := m.Transcribe(context.Background(), Request{AudioPath: "x.wav"})
	require.NoError(t, err)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, 3, got.BeamSize)
	assert.True(t, got.VAD.Enabled)
	assert.Equal(t, 500, got.VAD.MinSilenceMs)
}

type providerFunc func(ctx context.Context, req Request) ([]Segment, error)

func (f providerFunc) Transcribe(ctx context.Context, req Request) ([]Segment, error) {
	return f(ctx, req)
}

func (f providerFunc) Close() error { return nil }
