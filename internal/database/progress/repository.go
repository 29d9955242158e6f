// Package progress persists the singleton import progress record.
//
// A single row survives across sessions so a later run can inspect the
// last outcome and resume from the stored cursor.
package progress

import (
	"time"

	"gorm.io/gorm"

	"github.com/quotescroll/quotescroll/internal/entities"
)

// Repository handles import progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stored progress record, or nil when no import ever ran.
func (r *Repository) Get() (*entities.ImportProgress, error) {
	var progress entities.ImportProgress
	err := r.db.First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Set overwrites the singleton progress record.
func (r *Repository) Set(progress entities.ImportProgress) error {
	var existing entities.ImportProgress
	result := r.db.First(&existing)

	progress.UpdatedAt = time.Now()
	if result.Error == gorm.ErrRecordNotFound {
		progress.ID = 1
		return r.db.Create(&progress).Error
	}
	if result.Error != nil {
		return result.Error
	}

	progress.ID = existing.ID
	return r.db.Save(&progress).Error
}
