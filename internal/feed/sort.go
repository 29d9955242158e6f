package feed

import (
	"math/rand"
	"sort"

	"github.com/quotescroll/quotescroll/internal/entities"
)

// Sort returns highlights ordered newest-first by highlighted_at
// (falling back to created_at when absent) with numeric id descending as
// the tie-break. The comparison is total: two highlights never compare
// equal, so the order is deterministic even when timestamps collide or
// are missing entirely.
//
// With randomize, the sorted sequence is replaced by a uniform random
// permutation; the two presentation modes share the same filtered set
// but are otherwise independent.
func Sort(highlights []entities.Highlight, randomize bool) []entities.Highlight {
	sorted := make([]entities.Highlight, len(highlights))
	copy(sorted, highlights)

	sort.Slice(sorted, func(i, j int) bool {
		ti, tj := sorted[i].SortTime(), sorted[j].SortTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return sorted[i].ID > sorted[j].ID
	})

	if randomize {
		rand.Shuffle(len(sorted), func(i, j int) {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		})
	}

	return sorted
}
