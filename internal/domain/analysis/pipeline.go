package analysis

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"interviewly-voice-go/internal/domain/audio"
	"interviewly-voice-go/internal/domain/eventbus"
	"interviewly-voice-go/internal/domain/sentiment"
	"interviewly-voice-go/internal/domain/transcribe"
	"interviewly-voice-go/internal/domain/voicequality"
	perrors "interviewly-voice-go/internal/platform/errors"
	"interviewly-voice-go/internal/platform/logging"
	"interviewly-voice-go/internal/platform/observability"
	"interviewly-voice-go/internal/utils"
)

const tagAnalysis = "ANALYSIS"

// Transcriber is the slice of the transcription manager the pipeline needs.
type Transcriber interface {
	Transcribe(ctx context.Context, req transcribe.Request) ([]transcribe.Segment, error)
}

// Ingestor is the slice of the audio ingestor the pipeline needs.
type Ingestor interface {
	Ingest(ctx context.Context, path string) (*audio.Clip, func(), error)
}

// VoiceAnalyzer extracts prosodic metrics without ever failing the run.
type VoiceAnalyzer interface {
	Analyze(clip *audio.Clip) voicequality.Metrics
}

// SentimentScorer scores transcript polarity.
type SentimentScorer interface {
	Score(text string) sentiment.Scores
}

// Pipeline runs one audio file through ingest, transcription, the three
// feature extractors, and confidence scoring. It is safe for concurrent use;
// each Run is independent.
type Pipeline struct {
	ingestor   Ingestor
	transcribe Transcriber
	fillers    *FillerDetector
	sentiment  SentimentScorer
	voice      VoiceAnalyzer
	logger     *logging.Logger
}

func NewPipeline(
	ingestor Ingestor,
	transcriber Transcriber,
	fillers *FillerDetector,
	sentimentScorer SentimentScorer,
	voice VoiceAnalyzer,
	logger *logging.Logger,
) *Pipeline {
	return &Pipeline{
		ingestor:   ingestor,
		transcribe: transcriber,
		fillers:    fillers,
		sentiment:  sentimentScorer,
		voice:      voice,
		logger:     logger,
	}
}

// Run analyzes the audio file at path and always returns a Result: failures
// come back as Success=false with a stable error message instead of a Go
// error, so callers can hand the value straight to serialization.
func (p *Pipeline) Run(ctx context.Context, path string) *Result {
	analysisID := uuid.NewString()
	started := time.Now()

	ctx, endSpan := observability.StartSpan(ctx, "analysis", "run",
		slog.String("analysis_id", analysisID),
		slog.String("source", filepath.Base(path)),
	)

	eventbus.PublishAsync(eventbus.EventAnalysisStarted, eventbus.AnalysisEventData{
		AnalysisID: analysisID,
		Source:     path,
		Timestamp:  started,
	})

	result, err := p.analyze(ctx, analysisID, path)
	endSpan(err)

	if err != nil {
		msg := failureMessage(err)
		if p.logger != nil {
			p.logger.ErrorTag(tagAnalysis, "analysis %s failed: %v", analysisID, err)
		}
		eventbus.PublishAsync(eventbus.EventAnalysisFailed, eventbus.AnalysisEventData{
			AnalysisID: analysisID,
			Source:     path,
			Timestamp:  time.Now(),
			Error:      msg,
		})
		return &Result{Success: false, AnalysisID: analysisID, Error: msg}
	}

	observability.RecordMetric(ctx, "analysis_duration_seconds", time.Since(started).Seconds(), nil)
	observability.RecordMetric(ctx, "confidence_score", float64(result.ConfidenceScore), nil)

	eventbus.PublishAsync(eventbus.EventAnalysisCompleted, eventbus.AnalysisEventData{
		AnalysisID: analysisID,
		Source:     path,
		Timestamp:  time.Now(),
		Result:     result,
	})
	return result
}

func (p *Pipeline) analyze(ctx context.Context, analysisID, path string) (*Result, error) {
	clip, release, err := p.ingestor.Ingest(ctx, path)
	if err != nil {
		return nil, err
	}
	defer release()

	segments, err := p.transcribe.Transcribe(ctx, transcribe.Request{AudioPath: clip.Path})
	if err != nil {
		return nil, err
	}

	transcript := transcribe.Transcript(segments)
	if p.logger != nil {
		p.logger.DebugTag(tagAnalysis, "analysis %s transcript: %s", analysisID,
			utils.TruncateForLog(transcript, 120))
	}

	// The four feature extractors are independent of each other; run them
	// concurrently. Voice quality degrades internally and never errors.
	var (
		fillerReport FillerReport
		scores       sentiment.Scores
		paceMetrics  PaceMetrics
		voiceMetrics voicequality.Metrics
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		fillerReport = p.fillers.Detect(transcript)
		return nil
	})
	g.Go(func() error {
		scores = p.sentiment.Score(transcript)
		return nil
	})
	g.Go(func() error {
		paceMetrics = MeasurePace(segments)
		return nil
	})
	g.Go(func() error {
		voiceMetrics = p.voice.Analyze(clip)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, perrors.Wrap(perrors.KindAnalysis, "analysis.Run", "feature extraction", err)
	}

	score := Score(scores, fillerReport, paceMetrics, voiceMetrics)

	return &Result{
		Success:         true,
		AnalysisID:      analysisID,
		Transcript:      transcript,
		CleanTranscript: fillerReport.CleanTranscript,
		ConfidenceScore: score,
		Analysis: &Details{
			FillerWords:  fillerReport,
			Sentiment:    scores,
			SpeechPace:   paceMetrics,
			VoiceQuality: voiceMetrics,
		},
	}, nil
}

// failureMessage maps pipeline errors onto the stable messages surfaced to
// callers. Unknown causes keep their own text.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, perrors.ErrNoSpeech):
		return perrors.ErrNoSpeech.Error()
	case errors.Is(err, perrors.ErrInputNotFound):
		return perrors.ErrInputNotFound.Error()
	case errors.Is(err, perrors.ErrDecode):
		return perrors.ErrDecode.Error()
	case errors.Is(err, perrors.ErrEngine):
		return perrors.ErrEngine.Error()
	default:
		return err.Error()
	}
}
