package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"interviewly-voice-go/internal/domain/analysis"
	"interviewly-voice-go/internal/platform/storage"
)

type sqliteStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSQLite builds a SQLite-backed history store.
func NewSQLite(db *gorm.DB, cfg Config) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	return &sqliteStore{db: db, ttl: cfg.TTL}, nil
}

func (s *sqliteStore) Save(ctx context.Context, rec Record) error {
	if rec.AnalysisID == "" {
		return fmt.Errorf("analysis id required")
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.ExpiresAt == nil && s.ttl > 0 {
		exp := rec.CreatedAt.Add(s.ttl)
		rec.ExpiresAt = &exp
	}

	var details []byte
	if rec.Result.Analysis != nil {
		var err error
		details, err = json.Marshal(rec.Result.Analysis)
		if err != nil {
			return err
		}
	} else {
		details = []byte("{}")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("analysis_id = ?", rec.AnalysisID).Delete(&storage.AnalysisRecord{}).Error; err != nil {
			return err
		}
		row := &storage.AnalysisRecord{
			AnalysisID:      rec.AnalysisID,
			Source:          rec.Source,
			Transcript:      rec.Result.Transcript,
			CleanTranscript: rec.Result.CleanTranscript,
			ConfidenceScore: rec.Result.ConfidenceScore,
			Analysis:        details,
			CreatedAt:       rec.CreatedAt,
			ExpiresAt:       rec.ExpiresAt,
		}
		return tx.Create(row).Error
	})
}

func (s *sqliteStore) Get(ctx context.Context, analysisID string) (Record, error) {
	var row storage.AnalysisRecord
	err := s.db.WithContext(ctx).Where("analysis_id = ?", analysisID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, fmt.Errorf("analysis not found: %s", analysisID)
	}
	if err != nil {
		return Record{}, err
	}
	if row.ExpiresAt != nil && time.Now().After(*row.ExpiresAt) {
		return Record{}, fmt.Errorf("analysis expired: %s", analysisID)
	}

	rec := Record{
		AnalysisID: row.AnalysisID,
		Source:     row.Source,
		CreatedAt:  row.CreatedAt,
		ExpiresAt:  row.ExpiresAt,
		Result: analysis.Result{
			Success:         true,
			AnalysisID:      row.AnalysisID,
			Transcript:      row.Transcript,
			CleanTranscript: row.CleanTranscript,
			ConfidenceScore: row.ConfidenceScore,
		},
	}
	if len(row.Analysis) > 0 {
		var details analysis.Details
		if err := json.Unmarshal(row.Analysis, &details); err == nil {
			rec.Result.Analysis = &details
		}
	}
	return rec, nil
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]Summary, error) {
	query := s.db.WithContext(ctx).
		Model(&storage.AnalysisRecord{}).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []storage.AnalysisRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, Summary{
			AnalysisID:      row.AnalysisID,
			Source:          row.Source,
			ConfidenceScore: row.ConfidenceScore,
			CreatedAt:       row.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *sqliteStore) Remove(ctx context.Context, analysisID string) error {
	return s.db.WithContext(ctx).Where("analysis_id = ?", analysisID).Delete(&storage.AnalysisRecord{}).Error
}

func (s *sqliteStore) CleanupExpired(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&storage.AnalysisRecord{}).
		Error
}

func (s *sqliteStore) Stats(ctx context.Context) (map[string]any, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&storage.AnalysisRecord{}).Count(&total).Error; err != nil {
		return nil, err
	}
	return map[string]any{
		"type":        "sqlite",
		"total":       total,
		"ttl_seconds": int(s.ttl.Seconds()),
	}, nil
}

func (s *sqliteStore) Close(context.Context) error {
	return nil
}
