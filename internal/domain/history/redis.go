package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis constructs a redis-backed history store.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "history:analysis:"
	}

	return &redisStore{
		client: client,
		ttl:    cfg.TTL,
		prefix: prefix,
	}, nil
}

func (s *redisStore) key(id string) string {
	return s.prefix + id
}

func (s *redisStore) Save(ctx context.Context, rec Record) error {
	if rec.AnalysisID == "" {
		return fmt.Errorf("analysis id required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	expiry := s.ttl
	if rec.ExpiresAt != nil {
		expiry = time.Until(*rec.ExpiresAt)
	}
	return s.client.Set(ctx, s.key(rec.AnalysisID), data, expiry).Err()
}

func (s *redisStore) Get(ctx context.Context, analysisID string) (Record, error) {
	raw, err := s.client.Get(ctx, s.key(analysisID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Record{}, fmt.Errorf("analysis not found: %s", analysisID)
		}
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *redisStore) List(ctx context.Context, limit int) ([]Summary, error) {
	var cursor uint64
	pattern := s.prefix + "*"
	summaries := make([]Summary, 0)
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			rec, err := s.Get(ctx, strings.TrimPrefix(key, s.prefix))
			if err != nil {
				continue
			}
			summaries = append(summaries, Summary{
				AnalysisID:      rec.AnalysisID,
				Source:          rec.Source,
				ConfidenceScore: rec.Result.ConfidenceScore,
				CreatedAt:       rec.CreatedAt,
			})
		}
		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (s *redisStore) Remove(ctx context.Context, analysisID string) error {
	return s.client.Del(ctx, s.key(analysisID)).Err()
}

func (s *redisStore) CleanupExpired(context.Context) error {
	// Redis handles expiration via TTL.
	return nil
}

func (s *redisStore) Stats(ctx context.Context) (map[string]any, error) {
	var cursor uint64
	total := 0
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		total += len(keys)
		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}
	return map[string]any{
		"type":        "redis",
		"total":       total,
		"ttl_seconds": int(s.ttl.Seconds()),
	}, nil
}

func (s *redisStore) Close(context.Context) error {
	return s.client.Close()
}
