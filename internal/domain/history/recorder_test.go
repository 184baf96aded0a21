package history

import (
	"context"
	"testing"
	"time"

	"interviewly-voice-go/internal/domain/analysis"
	"interviewly-voice-go/internal/domain/eventbus"
)

func TestRecorderPersistsCompletedAnalyses(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(Config{})
	t.Cleanup(func() { _ = store.Close(ctx) })

	rec := NewRecorder(store, nil)

	result := sampleRecord("evt-1", 82).Result
	rec.onCompleted(eventbus.AnalysisEventData{
		AnalysisID: "evt-1",
		Source:     "upload.wav",
		Timestamp:  time.Now(),
		Result:     &result,
	})

	got, err := store.Get(ctx, "evt-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Source != "upload.wav" || got.Result.ConfidenceScore != 82 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRecorderIgnoresFailuresAndForeignPayloads(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(Config{})
	t.Cleanup(func() { _ = store.Close(ctx) })

	rec := NewRecorder(store, nil)

	rec.onCompleted(eventbus.AnalysisEventData{AnalysisID: "evt-2", Result: "not a result"})
	failed := &analysis.Result{Success: false, Error: "No speech detected"}
	rec.onCompleted(eventbus.AnalysisEventData{AnalysisID: "evt-3", Result: failed})

	list, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected nothing recorded, got %+v", list)
	}
}
