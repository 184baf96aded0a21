package audio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewly-voice-go/internal/platform/config"
	perrors "interviewly-voice-go/internal/platform/errors"
)

func writeTestWAV(t *testing.T, path string, sampleRate int, seconds float64, freq float64) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	n := int(float64(sampleRate) * seconds)
	data := make([]int, n)
	for i := 0; i < n; i++ {
		data[i] = int(0.5 * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestIngestor_WAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.wav")
	writeTestWAV(t, path, 16000, 0.5, 440)

	ing := NewIngestor(config.AudioConfig{TempDir: dir}, nil)
	clip, release, err := ing.Ingest(context.Background(), path)
	require.NoError(t, err)
	defer release()

	assert.Equal(t, 16000, clip.SampleRate)
	assert.Equal(t, path, clip.Path)
	assert.InDelta(t, 0.5, clip.Duration(), 0.01)
	assert.NotEmpty(t, clip.Samples)
}

func TestIngestor_MissingFile(t *testing.T) {
	ing := NewIngestor(config.AudioConfig{}, nil)
	_, _, err := ing.Ingest(context.Background(), "/nonexistent/audio.wav")
	require.Error(t, err)
	assert.ErrorIs(t, err, perrors.ErrInputNotFound)
	assert.True(t, perrors.IsKind(err, perrors.KindIngest))
}

func TestIngestor_CorruptWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a riff header"), 0o644))

	ing := NewIngestor(config.AudioConfig{TempDir: dir}, nil)
	_, _, err := ing.Ingest(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, perrors.ErrDecode)
}

func TestIngestor_ReleaseIdempotent(t *testing.T) {
	// Release for in-place decodes is a no-op and must tolerate double calls.
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.wav")
	writeTestWAV(t, path, 8000, 0.2, 220)

	ing := NewIngestor(config.AudioConfig{TempDir: dir}, nil)
	_, release, err := ing.Ingest(context.Background(), path)
	require.NoError(t, err)
	release()
	release()

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "source file must survive release")
}
