// Package history persists finished analyses so clients can fetch them
// later. The pipeline itself stays storage-free; history subscribes to the
// completion events it publishes.
package history

import (
	"context"
	"time"

	"interviewly-voice-go/internal/domain/analysis"
)

// Record is one stored analysis.
type Record struct {
	AnalysisID string          `json:"analysis_id"`
	Source     string          `json:"source"`
	Result     analysis.Result `json:"result"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

// Summary is the listing projection of a Record.
type Summary struct {
	AnalysisID      string    `json:"analysis_id"`
	Source          string    `json:"source"`
	ConfidenceScore int       `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store defines the behaviour required by the history service.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, analysisID string) (Record, error)
	List(ctx context.Context, limit int) ([]Summary, error)
	Remove(ctx context.Context, analysisID string) error
	CleanupExpired(ctx context.Context) error
	Stats(ctx context.Context) (map[string]any, error)
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	TTL    time.Duration
	Redis  *RedisConfig
	SQLite *SQLiteConfig
	Memory *MemoryConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// SQLiteConfig provides the database dependency.
type SQLiteConfig struct {
	DSN string
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
