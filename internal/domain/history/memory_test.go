package history

import (
	"context"
	"testing"
	"time"

	"interviewly-voice-go/internal/domain/analysis"
)

func sampleRecord(id string, score int) Record {
	return Record{
		AnalysisID: id,
		Source:     "interview.wav",
		Result: analysis.Result{
			Success:         true,
			AnalysisID:      id,
			Transcript:      "I have experience with React and Node",
			CleanTranscript: "I have experience with React and Node",
			ConfidenceScore: score,
			Analysis: &analysis.Details{
				SpeechPace: analysis.PaceMetrics{WordsPerMinute: 130, Rating: analysis.PaceNormal},
			},
		},
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(Config{TTL: time.Minute})
	t.Cleanup(func() { _ = store.Close(ctx) })

	if err := store.Save(ctx, sampleRecord("mem-1", 85)); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Get(ctx, "mem-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Result.ConfidenceScore != 85 {
		t.Fatalf("unexpected record: %+v", got)
	}

	list, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || list[0].AnalysisID != "mem-1" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := store.Remove(ctx, "mem-1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := store.Get(ctx, "mem-1"); err == nil {
		t.Fatalf("expected not-found after remove")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(Config{TTL: 10 * time.Millisecond})
	t.Cleanup(func() { _ = store.Close(ctx) })

	if err := store.Save(ctx, sampleRecord("mem-exp", 70)); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, err := store.Get(ctx, "mem-exp"); err == nil {
		t.Fatalf("expected expired record to be rejected")
	}
	if err := store.CleanupExpired(ctx); err != nil {
		t.Fatalf("CleanupExpired error: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats["total"].(int) != 0 {
		t.Fatalf("expected empty store, got %+v", stats)
	}
}

func TestMemoryStoreListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(Config{})
	t.Cleanup(func() { _ = store.Close(ctx) })

	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		rec := sampleRecord(id, 70+i)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	list, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || list[0].AnalysisID != "c" || list[1].AnalysisID != "b" {
		t.Fatalf("expected newest first with limit, got %+v", list)
	}
}

func TestMemoryStoreRequiresID(t *testing.T) {
	store := NewMemory(Config{})
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	if err := store.Save(context.Background(), Record{}); err == nil {
		t.Fatalf("expected error for missing analysis id")
	}
}
