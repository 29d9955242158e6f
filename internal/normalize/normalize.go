// Package normalize converts raw Readwise export pages into the local
// schema and reconciles incoming batches against stored highlights.
//
// Everything here is pure: no I/O, no errors for sparse-but-well-typed
// input. Missing optional fields degrade to zero values.
package normalize

import (
	"github.com/quotescroll/quotescroll/internal/entities"
	"github.com/quotescroll/quotescroll/internal/readwise"
)

// NormalizedPage holds the flattened output of one export page.
type NormalizedPage struct {
	Books      []entities.Book
	Highlights []entities.Highlight
}

// NormalizeBook maps a remote book record onto the local schema.
func NormalizeBook(result readwise.BookResult) entities.Book {
	return entities.Book{
		UserBookID:    result.UserBookID,
		Title:         result.Title,
		Author:        result.Author,
		Category:      result.Category,
		Source:        result.Source,
		NumHighlights: result.NumHighlights,
		LastHighlight: result.LastHighlight,
		Updated:       result.Updated,
		CoverImageURL: result.CoverImageURL,
		HighlightsURL: result.HighlightsURL,
		SourceURL:     result.SourceURL,
		ASIN:          result.ASIN,
		Tags:          tagNames(result.Tags),
		DocumentNote:  result.DocumentNote,
		Summary:       result.Summary,
		ReadwiseURL:   result.ReadwiseURL,
	}
}

// NormalizeHighlight maps a remote highlight onto the local schema,
// stamped with the owning book's id. created_at is computed, not copied:
// the highlight's own timestamp when present, the remote updated time
// otherwise.
func NormalizeHighlight(result readwise.HighlightResult, userBookID int) entities.Highlight {
	createdAt := result.Updated
	if result.HighlightedAt != nil {
		createdAt = *result.HighlightedAt
	}

	return entities.Highlight{
		ID:            result.ID,
		UserBookID:    userBookID,
		Text:          result.Text,
		Note:          result.Note,
		Location:      result.Location,
		LocationType:  result.LocationType,
		HighlightedAt: result.HighlightedAt,
		CreatedAt:     createdAt,
		Updated:       result.Updated,
		URL:           result.URL,
		Color:         result.Color,
		Tags:          tagNames(result.Tags),
		IsFavorite:    result.IsFavorite,
		IsDeleted:     result.IsDiscard,
		ReadwiseURL:   result.ReadwiseURL,
	}
}

// NormalizeExport flattens one export page into books and highlights.
// Books whose nested highlight list is empty or absent are dropped
// entirely: the export API returns shell books for sources the user
// never highlighted, and persisting them pollutes the book listing.
func NormalizeExport(response *readwise.ExportResponse) NormalizedPage {
	page := NormalizedPage{}

	for _, result := range response.Results {
		if len(result.Highlights) == 0 {
			continue
		}

		page.Books = append(page.Books, NormalizeBook(result))
		for _, h := range result.Highlights {
			page.Highlights = append(page.Highlights, NormalizeHighlight(h, result.UserBookID))
		}
	}

	return page
}

func tagNames(tags []readwise.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
