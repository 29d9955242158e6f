package normalize

import (
	"github.com/quotescroll/quotescroll/internal/entities"
)

// MergeHighlights reconciles an incoming batch against the stored set,
// keyed by id. Remote content is authoritative for every field except
// is_favorite, which is user-owned and keeps its local value across
// re-syncs. Ids present in only one input pass through unchanged, so the
// result is the union of both id sets and the operation is idempotent.
//
// Any future locally-owned field must be folded into the same exception,
// next to is_favorite below.
func MergeHighlights(existing, incoming []entities.Highlight) []entities.Highlight {
	merged := make(map[int]entities.Highlight, len(existing)+len(incoming))
	order := make([]int, 0, len(existing)+len(incoming))

	for _, h := range existing {
		merged[h.ID] = h
		order = append(order, h.ID)
	}

	for _, h := range incoming {
		if local, ok := merged[h.ID]; ok {
			h.IsFavorite = local.IsFavorite
		} else {
			order = append(order, h.ID)
		}
		merged[h.ID] = h
	}

	result := make([]entities.Highlight, 0, len(merged))
	for _, id := range order {
		result = append(result, merged[id])
	}
	return result
}
