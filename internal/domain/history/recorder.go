package history

import (
	"context"
	"time"

	"interviewly-voice-go/internal/domain/analysis"
	"interviewly-voice-go/internal/domain/eventbus"
	"interviewly-voice-go/internal/platform/config"
	"interviewly-voice-go/internal/platform/logging"
)

const tagHistory = "HISTORY"

// FromConfig maps the yaml store section onto the factory config.
func FromConfig(cfg config.StoreConfig) Config {
	out := Config{
		Driver: cfg.Type,
		TTL:    cfg.TTL,
	}
	if cfg.Redis.Addr != "" {
		out.Redis = &RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		}
	}
	if cfg.SQLite.DSN != "" {
		out.SQLite = &SQLiteConfig{DSN: cfg.SQLite.DSN}
	}
	if cfg.Memory.Cleanup > 0 {
		out.Memory = &MemoryConfig{GCInterval: cfg.Memory.Cleanup}
	}
	return out
}

// Recorder saves completed analyses as they happen. It subscribes to the
// completion topic so recording rides the event bus rather than the
// pipeline's hot path.
type Recorder struct {
	store  Store
	logger *logging.Logger
}

func NewRecorder(store Store, logger *logging.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Start subscribes to analysis completion events.
func (r *Recorder) Start() error {
	return eventbus.SubscribeAsync(eventbus.EventAnalysisCompleted, r.onCompleted)
}

func (r *Recorder) onCompleted(data eventbus.AnalysisEventData) {
	result, ok := data.Result.(*analysis.Result)
	if !ok || result == nil || !result.Success {
		return
	}

	rec := Record{
		AnalysisID: data.AnalysisID,
		Source:     data.Source,
		Result:     *result,
		CreatedAt:  data.Timestamp,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.store.Save(ctx, rec); err != nil {
		if r.logger != nil {
			r.logger.ErrorTag(tagHistory, "failed to record analysis %s: %v", data.AnalysisID, err)
		}
		return
	}
	if r.logger != nil {
		r.logger.DebugTag(tagHistory, "recorded analysis %s (score=%d)", data.AnalysisID, result.ConfidenceScore)
	}
}
