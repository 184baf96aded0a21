package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	platformerrors "interviewly-voice-go/internal/platform/errors"
)

// Open opens (or creates) the sqlite database at dsn and applies migrations.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "data/voice.db"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage,
			"storage.open", "failed to open sqlite database", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema. AutoMigrate is sufficient for the small table
// set this service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&AnalysisRecord{}); err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage,
			"storage.migrate", "failed to migrate analysis tables", err)
	}
	return nil
}
