package database

import (
	"context"
	"fmt"

	"coin-dashboard-go/internal/coingecko"
	"coin-dashboard-go/internal/config"
	"coin-dashboard-go/internal/dashboard"
	"coin-dashboard-go/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection and performs auto-migration.
func NewDatabase(cfg *config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the journal tables. Existing rows are kept.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.FetchFailure{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Journal records fetch failures so they can be inspected after the fact.
// It implements dashboard.Recorder.
type Journal struct {
	db *gorm.DB
}

// NewJournal wraps an open, migrated database.
func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// RecordFailure stores f.
func (j *Journal) RecordFailure(ctx context.Context, f dashboard.Failure) error {
	row := models.FetchFailure{
		RequestID: f.RequestID,
		Resource:  f.Resource,
		Kind:      coingecko.Kind(f.Err),
		Status:    coingecko.Status(f.Err),
		Message:   coingecko.Message(f.Err),
		Params:    f.Params.String(),
		Timestamp: f.At.UnixMilli(),
	}
	// The request context may be cancelled once the fetch is over.
	if err := j.db.WithContext(context.WithoutCancel(ctx)).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record %s failure: %w", f.Resource, err)
	}
	return nil
}

// Recent returns up to limit failures, newest first, optionally only
// those of one resource.
func (j *Journal) Recent(ctx context.Context, resource string, limit int) ([]models.FetchFailure, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.FetchFailure
	q := j.db.WithContext(ctx).Order("timestamp desc").Order("id desc").Limit(limit)
	if resource != "" {
		q = q.Where("resource = ?", resource)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list fetch failures: %w", err)
	}
	return rows, nil
}

// Count returns the number of journaled failures per resource.
func (j *Journal) Count(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Resource string
		Total    int64
	}
	err := j.db.WithContext(ctx).Model(&models.FetchFailure{}).
		Select("resource, count(*) as total").
		Group("resource").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count fetch failures: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Resource] = r.Total
	}
	return out, nil
}
