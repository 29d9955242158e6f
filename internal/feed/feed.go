// Package feed computes the presentation sequence for the highlight
// feed: optional sample augmentation, filter predicates, deterministic
// recency ordering and optional random permutation.
//
// Everything is pure and reentrant; callers pass the full highlight set
// and get back a fresh slice of items.
package feed

import (
	"strings"

	"github.com/quotescroll/quotescroll/internal/entities"
	"github.com/quotescroll/quotescroll/internal/samples"
)

// Options are the presentation filters applied to the highlight set.
type Options struct {
	BookID            int    `form:"book_id" json:"book_id,omitempty"`
	SearchQuery       string `form:"q" json:"q,omitempty"`
	ShowDeleted       bool   `form:"show_deleted" json:"show_deleted,omitempty"`
	ShowFavoritesOnly bool   `form:"favorites_only" json:"favorites_only,omitempty"`
	Randomize         bool   `form:"randomize" json:"randomize,omitempty"`
}

// ItemKind discriminates real highlights from synthetic filler.
type ItemKind string

const (
	ItemHighlight ItemKind = "highlight"
	ItemSample    ItemKind = "sample"
)

// Item is one feed entry. Kind makes the real-vs-sample distinction
// explicit so consumers never have to test id signs themselves.
type Item struct {
	Kind ItemKind `json:"kind"`
	entities.Highlight
}

// Compute builds the feed from the full local highlight set.
//
// Pipeline order is fixed: augment, filter by book, filter deleted,
// filter favourites, filter by search, sort by recency, then shuffle if
// requested. The filters preserve order; the shuffle, when applied,
// replaces the sorted order with an independent uniform permutation.
//
// augment mixes in sample quotes when the set holds fewer than target
// highlights; real highlights are never displaced to make room. Samples
// carry negative book ids, so any positive book filter excludes them.
func Compute(all []entities.Highlight, opts Options, augment bool, target int) []Item {
	pool := make([]entities.Highlight, len(all))
	copy(pool, all)

	if augment {
		pool = append(pool, samples.Generate(all, target)...)
	}

	if opts.BookID > 0 {
		pool = filter(pool, func(h entities.Highlight) bool {
			return h.UserBookID == opts.BookID
		})
	}

	if !opts.ShowDeleted {
		pool = filter(pool, func(h entities.Highlight) bool {
			return !h.IsDeleted
		})
	}

	if opts.ShowFavoritesOnly {
		pool = filter(pool, func(h entities.Highlight) bool {
			return h.IsFavorite
		})
	}

	if opts.SearchQuery != "" {
		query := strings.ToLower(opts.SearchQuery)
		pool = filter(pool, func(h entities.Highlight) bool {
			return strings.Contains(strings.ToLower(h.Text), query) ||
				strings.Contains(strings.ToLower(h.Note), query)
		})
	}

	pool = Sort(pool, opts.Randomize)

	items := make([]Item, 0, len(pool))
	for _, h := range pool {
		kind := ItemHighlight
		if samples.IsSample(h) {
			kind = ItemSample
		}
		items = append(items, Item{Kind: kind, Highlight: h})
	}
	return items
}

func filter(highlights []entities.Highlight, keep func(entities.Highlight) bool) []entities.Highlight {
	filtered := highlights[:0]
	for _, h := range highlights {
		if keep(h) {
			filtered = append(filtered, h)
		}
	}
	return filtered
}
