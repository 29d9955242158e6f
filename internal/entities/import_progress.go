package entities

import (
	"time"
)

// ImportProgress is a singleton record describing the last import run.
// It is reset when a run starts, updated after every page and finalized
// to success or error, so a later session can inspect the outcome and
// resume from the stored cursor.
type ImportProgress struct {
	ID              uint         `gorm:"primaryKey" json:"-"`
	Status          ImportStatus `gorm:"size:20" json:"status"`
	CurrentPage     int          `json:"current_page"`
	TotalHighlights int          `json:"total_highlights"`
	TotalBooks      int          `json:"total_books"`
	Error           string       `gorm:"type:text" json:"error,omitempty"`
	NextPageCursor  *string      `gorm:"size:512" json:"next_page_cursor"`
	LastSyncAt      *time.Time   `json:"last_sync_at,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (ImportProgress) TableName() string {
	return "import_progress"
}
