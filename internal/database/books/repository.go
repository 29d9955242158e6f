// Package books provides database operations for imported books.
//
// Books are keyed by the remote user_book_id and overwritten wholesale on
// every import page that includes them; there are no locally-owned book
// fields and no deletion path (stale books are simply never refreshed).
package books

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quotescroll/quotescroll/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveBooks bulk-upserts a page of books keyed by user_book_id.
func (r *Repository) SaveBooks(books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_book_id"}},
		UpdateAll: true,
	}).Create(&books).Error
}

// GetBook returns a book by its remote id, or nil if not imported.
func (r *Repository) GetBook(userBookID int) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, "user_book_id = ?", userBookID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks returns every imported book, most recently updated first.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("updated DESC").Find(&books).Error
	return books, err
}

// GetBooksByCategory returns books of one category (articles, books, ...).
func (r *Repository) GetBooksByCategory(category string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("category = ?", category).Order("updated DESC").Find(&books).Error
	return books, err
}

// Count returns the number of distinct imported books.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
