package storage

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisRecord is the persisted form of one completed analysis. The full
// analysis block (filler/sentiment/pace/voice-quality) is stored as JSON so
// the result shape can evolve without schema churn.
type AnalysisRecord struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AnalysisID      string         `gorm:"uniqueIndex;not null" json:"analysis_id"`
	Source          string         `gorm:"index" json:"source"`
	Transcript      string         `gorm:"type:text" json:"transcript"`
	CleanTranscript string         `gorm:"type:text" json:"clean_transcript"`
	ConfidenceScore int            `gorm:"not null" json:"confidence_score"`
	Analysis        datatypes.JSON `gorm:"not null" json:"analysis"`
	CreatedAt       time.Time      `json:"created_at"`
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at,omitempty"`
}

func (AnalysisRecord) TableName() string {
	return "analysis_records"
}
