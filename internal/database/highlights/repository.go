// Package highlights provides database operations for imported highlights.
//
// Highlights are keyed by the remote id. SaveHighlights overwrites rows
// wholesale; preserving the locally-owned is_favorite flag is the merge
// layer's job (normalize.MergeHighlights), not this package's.
package highlights

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quotescroll/quotescroll/internal/entities"
)

// Repository handles all highlight database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new highlights repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveHighlights bulk-upserts merged highlights keyed by id.
func (r *Repository) SaveHighlights(highlights []entities.Highlight) error {
	if len(highlights) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&highlights).Error
}

// GetHighlight returns one highlight by id, or nil if absent.
func (r *Repository) GetHighlight(id int) (*entities.Highlight, error) {
	var highlight entities.Highlight
	err := r.db.First(&highlight, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &highlight, nil
}

// GetAllHighlights returns the full local highlight set, soft-deleted
// rows included. The importer merges every incoming page against this.
func (r *Repository) GetAllHighlights() ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Find(&highlights).Error
	return highlights, err
}

// GetHighlightsByBook returns all highlights owned by one book.
func (r *Repository) GetHighlightsByBook(userBookID int) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Where("user_book_id = ?", userBookID).Find(&highlights).Error
	return highlights, err
}

// GetFavouriteHighlights returns all favourited highlights.
func (r *Repository) GetFavouriteHighlights() ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Where("is_favorite = ?", true).Find(&highlights).Error
	return highlights, err
}

// SetFavourite updates the locally-owned favourite flag of one highlight.
// This runs independently of imports; the merge rule keeps the value
// across later re-syncs.
func (r *Repository) SetFavourite(id int, isFavourite bool) error {
	result := r.db.Model(&entities.Highlight{}).
		Where("id = ?", id).
		Update("is_favorite", isFavourite)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ToggleFavourite flips the favourite flag and returns the new value.
func (r *Repository) ToggleFavourite(id int) (bool, error) {
	var highlight entities.Highlight
	if err := r.db.First(&highlight, "id = ?", id).Error; err != nil {
		return false, err
	}
	newValue := !highlight.IsFavorite
	err := r.db.Model(&entities.Highlight{}).
		Where("id = ?", id).
		Update("is_favorite", newValue).Error
	return newValue, err
}

// Count returns the size of the full local highlight set.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Highlight{}).Count(&count).Error
	return count, err
}
