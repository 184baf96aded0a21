package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-audio/wav"
	"github.com/google/uuid"
	gomp3 "github.com/hajimehoshi/go-mp3"

	"interviewly-voice-go/internal/platform/config"
	perrors "interviewly-voice-go/internal/platform/errors"
	"interviewly-voice-go/internal/platform/logging"
)

const tagIngest = "INGEST"

// transcodeSampleRate is the rate unrecognized containers are resampled to.
// 16 kHz mono is what the transcription engines expect.
const transcodeSampleRate = 16000

// Ingestor validates and decodes uploaded audio into a Clip. WAV and MP3 are
// decoded in-process; everything else is handed to ffmpeg and transcoded into
// a temp WAV that the returned release func cleans up.
type Ingestor struct {
	ffmpegPath string
	tempDir    string
	keepTemp   bool
	logger     *logging.Logger
}

func NewIngestor(cfg config.AudioConfig, logger *logging.Logger) *Ingestor {
	ffmpeg := cfg.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Ingestor{
		ffmpegPath: ffmpeg,
		tempDir:    tempDir,
		keepTemp:   cfg.KeepTemp,
		logger:     logger,
	}
}

// Ingest loads the file at path into a Clip. The release func must be called
// once the clip (and its Path) is no longer needed; it deletes any temp file
// the ingest produced and is safe to call more than once.
func (ing *Ingestor) Ingest(ctx context.Context, path string) (*Clip, func(), error) {
	noop := func() {}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, noop, perrors.Wrap(perrors.KindIngest, "audio.Ingest", "stat input",
			fmt.Errorf("%w: %s", perrors.ErrInputNotFound, path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		clip, err := decodeWAV(path)
		if err != nil {
			return nil, noop, err
		}
		return clip, noop, nil
	case ".mp3":
		clip, err := decodeMP3(path)
		if err != nil {
			return nil, noop, err
		}
		return clip, noop, nil
	default:
		return ing.transcode(ctx, path)
	}
}

// transcode shells out to ffmpeg to produce a mono 16 kHz WAV copy, then
// decodes that. The temp copy carries a uuid name so concurrent ingests of
// the same upload never collide.
func (ing *Ingestor) transcode(ctx context.Context, path string) (*Clip, func(), error) {
	noop := func() {}

	tempPath := filepath.Join(ing.tempDir, uuid.NewString()+".wav")
	if err := os.MkdirAll(ing.tempDir, 0o755); err != nil {
		return nil, noop, perrors.Wrap(perrors.KindIngest, "audio.transcode", "create temp dir", err)
	}

	cmd := exec.CommandContext(ctx, ing.ffmpegPath,
		"-y", "-i", path,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", transcodeSampleRate),
		tempPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tempPath)
		if ing.logger != nil {
			ing.logger.WarnTag(tagIngest, "ffmpeg transcode failed for %s: %v", filepath.Base(path), err)
		}
		return nil, noop, perrors.Wrap(perrors.KindIngest, "audio.transcode", "ffmpeg",
			fmt.Errorf("%w: %s: %s", perrors.ErrDecode, err, firstLine(out)))
	}

	clip, err := decodeWAV(tempPath)
	if err != nil {
		os.Remove(tempPath)
		return nil, noop, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if ing.keepTemp {
				return
			}
			os.Remove(tempPath)
		})
	}
	if ing.logger != nil {
		ing.logger.DebugTag(tagIngest, "transcoded %s -> %s (%.2fs)", filepath.Base(path), filepath.Base(tempPath), clip.Duration())
	}
	return clip, release, nil
}

func decodeWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindIngest, "audio.decodeWAV", "open",
			fmt.Errorf("%w: %s", perrors.ErrInputNotFound, path))
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, perrors.Wrap(perrors.KindIngest, "audio.decodeWAV", "validate",
			fmt.Errorf("%w: not a valid wav container", perrors.ErrDecode))
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, perrors.Wrap(perrors.KindIngest, "audio.decodeWAV", "read pcm",
			fmt.Errorf("%w: %v", perrors.ErrDecode, err))
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, perrors.Wrap(perrors.KindIngest, "audio.decodeWAV", "read pcm",
			fmt.Errorf("%w: empty pcm payload", perrors.ErrDecode))
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var acc float64
		for ch := 0; ch < channels; ch++ {
			acc += float64(buf.Data[i*channels+ch]) / scale
		}
		samples[i] = acc / float64(channels)
	}

	return &Clip{
		Path:       path,
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
		Channels:   channels,
	}, nil
}

func decodeMP3(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindIngest, "audio.decodeMP3", "open",
			fmt.Errorf("%w: %s", perrors.ErrInputNotFound, path))
	}
	defer f.Close()

	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindIngest, "audio.decodeMP3", "decode",
			fmt.Errorf("%w: %v", perrors.ErrDecode, err))
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindIngest, "audio.decodeMP3", "read pcm",
			fmt.Errorf("%w: %v", perrors.ErrDecode, err))
	}

	// go-mp3 always emits 16-bit little-endian stereo frames.
	const channels = 2
	frames := len(raw) / (2 * channels)
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		l := int16(uint16(raw[i*4]) | uint16(raw[i*4+1])<<8)
		r := int16(uint16(raw[i*4+2]) | uint16(raw[i*4+3])<<8)
		samples[i] = (float64(l) + float64(r)) / 2 / 32768.0
	}

	return &Clip{
		Path:       path,
		Samples:    samples,
		SampleRate: dec.SampleRate(),
		Channels:   channels,
	}, nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
