package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	items       map[string]Record
	mutex       sync.RWMutex
	ttl         time.Duration
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory history store.
func NewMemory(cfg Config) Store {
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	s := &memoryStore{
		items:       make(map[string]Record),
		ttl:         cfg.TTL,
		cleanupFreq: cleanup,
		stop:        make(chan struct{}),
	}
	go s.gcLoop()
	return s
}

func (s *memoryStore) gcLoop() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = s.CleanupExpired(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *memoryStore) Save(_ context.Context, rec Record) error {
	if rec.AnalysisID == "" {
		return fmt.Errorf("analysis id required")
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.ExpiresAt == nil && s.ttl > 0 {
		exp := now.Add(s.ttl)
		rec.ExpiresAt = &exp
	}

	s.mutex.Lock()
	s.items[rec.AnalysisID] = rec
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Get(_ context.Context, analysisID string) (Record, error) {
	s.mutex.RLock()
	rec, ok := s.items[analysisID]
	s.mutex.RUnlock()
	if !ok {
		return Record{}, fmt.Errorf("analysis not found: %s", analysisID)
	}
	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		return Record{}, fmt.Errorf("analysis expired: %s", analysisID)
	}
	return rec, nil
}

func (s *memoryStore) List(_ context.Context, limit int) ([]Summary, error) {
	now := time.Now()
	s.mutex.RLock()
	summaries := make([]Summary, 0, len(s.items))
	for _, rec := range s.items {
		if rec.ExpiresAt != nil && now.After(*rec.ExpiresAt) {
			continue
		}
		summaries = append(summaries, Summary{
			AnalysisID:      rec.AnalysisID,
			Source:          rec.Source,
			ConfidenceScore: rec.Result.ConfidenceScore,
			CreatedAt:       rec.CreatedAt,
		})
	}
	s.mutex.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (s *memoryStore) Remove(_ context.Context, analysisID string) error {
	s.mutex.Lock()
	delete(s.items, analysisID)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) CleanupExpired(_ context.Context) error {
	now := time.Now()
	s.mutex.Lock()
	for id, rec := range s.items {
		if rec.ExpiresAt != nil && now.After(*rec.ExpiresAt) {
			delete(s.items, id)
		}
	}
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Stats(_ context.Context) (map[string]any, error) {
	now := time.Now()
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := len(s.items)
	active := 0
	for _, rec := range s.items {
		if rec.ExpiresAt == nil || now.Before(*rec.ExpiresAt) {
			active++
		}
	}
	return map[string]any{
		"type":        "memory",
		"total":       total,
		"active":      active,
		"ttl_seconds": int(s.ttl.Seconds()),
	}, nil
}

func (s *memoryStore) Close(_ context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return nil
}
