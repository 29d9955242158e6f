package entities

import (
	"time"
)

type ImportStatus string

const (
	ImportStatusIdle    ImportStatus = "idle"
	ImportStatusLoading ImportStatus = "loading"
	ImportStatusSuccess ImportStatus = "success"
	ImportStatusError   ImportStatus = "error"
)

// Book is a source document (book, article, podcast) that owns highlights.
// The primary key is the remote-assigned user_book_id, which is stable
// across syncs, so re-importing a book overwrites the same row.
//
// A book is only ever persisted when at least one highlight was observed
// for it; the normalizer drops shell books with empty highlight lists.
type Book struct {
	UserBookID    int        `gorm:"primaryKey" json:"user_book_id"`
	Title         string     `gorm:"index;size:512" json:"title"`
	Author        string     `gorm:"size:256" json:"author,omitempty"`
	Category      string     `gorm:"index;size:50" json:"category"`
	Source        string     `gorm:"size:100" json:"source"`
	NumHighlights int        `json:"num_highlights"`
	LastHighlight *time.Time `json:"last_highlight_at"`
	Updated       time.Time  `gorm:"index" json:"updated"`
	CoverImageURL string     `gorm:"size:2048" json:"cover_image_url,omitempty"`
	HighlightsURL string     `gorm:"size:2048" json:"highlights_url,omitempty"`
	SourceURL     string     `gorm:"size:2048" json:"source_url,omitempty"`
	ASIN          string     `gorm:"size:20" json:"asin,omitempty"`
	Tags          []string   `gorm:"serializer:json" json:"tags"`
	DocumentNote  string     `gorm:"type:text" json:"document_note,omitempty"`
	Summary       string     `gorm:"type:text" json:"summary,omitempty"`
	ReadwiseURL   string     `gorm:"size:2048" json:"readwise_url,omitempty"`
}

// Highlight is a single excerpted passage. The primary key is the
// remote-assigned id (globally unique, always positive for real data;
// negative ids are reserved for transient sample content that never
// touches the database).
//
// IsFavorite is the one locally-owned field: re-imports overwrite every
// other field with the remote version but must preserve it.
type Highlight struct {
	ID            int        `gorm:"primaryKey" json:"id"`
	UserBookID    int        `gorm:"index" json:"user_book_id"`
	Text          string     `gorm:"type:text" json:"text"`
	Note          string     `gorm:"type:text" json:"note,omitempty"`
	Location      int        `json:"location"`
	LocationType  string     `gorm:"size:20" json:"location_type"`
	HighlightedAt *time.Time `gorm:"index" json:"highlighted_at"`
	CreatedAt     time.Time  `json:"created_at"`
	Updated       time.Time  `json:"updated"`
	URL           string     `gorm:"size:2048" json:"url,omitempty"`
	Color         string     `gorm:"size:20" json:"color,omitempty"`
	Tags          []string   `gorm:"serializer:json" json:"tags"`
	IsFavorite    bool       `gorm:"index" json:"is_favorite"`
	IsDeleted     bool       `gorm:"index" json:"is_deleted"`
	ReadwiseURL   string     `gorm:"size:2048" json:"readwise_url,omitempty"`
}

// SortTime is the presentation recency key: highlighted_at when the
// remote supplied one, created_at otherwise.
func (h Highlight) SortTime() time.Time {
	if h.HighlightedAt != nil {
		return *h.HighlightedAt
	}
	return h.CreatedAt
}

func (Book) TableName() string {
	return "books"
}

func (Highlight) TableName() string {
	return "highlights"
}
