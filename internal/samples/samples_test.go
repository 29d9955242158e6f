package samples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotescroll/quotescroll/internal/entities"
)

func TestGenerate_NoopWhenFeedIsFull(t *testing.T) {
	existing := make([]entities.Highlight, DefaultTarget)
	for i := range existing {
		existing[i] = entities.Highlight{ID: i + 1}
	}

	assert.Nil(t, Generate(existing, DefaultTarget))
	assert.Nil(t, Generate(existing, 10))
}

func TestGenerate_TopsUpTowardsTarget(t *testing.T) {
	existing := []entities.Highlight{{ID: 1}, {ID: 2}, {ID: 3}}

	generated := Generate(existing, 5)

	assert.Len(t, generated, 2)
}

func TestGenerate_CappedByPoolSize(t *testing.T) {
	generated := Generate(nil, DefaultTarget)

	assert.Len(t, generated, PoolSize())
}

func TestGenerate_NegativeIDs(t *testing.T) {
	generated := Generate(nil, 5)

	require.Len(t, generated, 5)
	seen := make(map[int]bool)
	for i, h := range generated {
		assert.Equal(t, -(i + 1), h.ID)
		assert.Equal(t, -(i + 1), h.UserBookID)
		assert.False(t, seen[h.ID], "sample ids must be unique")
		seen[h.ID] = true
	}
}

func TestGenerate_SampleShape(t *testing.T) {
	generated := Generate(nil, 1)

	require.Len(t, generated, 1)
	h := generated[0]
	assert.NotEmpty(t, h.Text)
	assert.Contains(t, h.Note, "This is not your highlight")
	assert.Equal(t, []string{"sample", "inspiration"}, h.Tags)
	assert.NotNil(t, h.HighlightedAt)
	assert.False(t, h.CreatedAt.IsZero())
}

func TestGenerate_ZeroTargetUsesDefault(t *testing.T) {
	generated := Generate(nil, 0)

	assert.Len(t, generated, PoolSize())
}

func TestIsSample(t *testing.T) {
	assert.True(t, IsSample(entities.Highlight{ID: -1}))
	assert.False(t, IsSample(entities.Highlight{ID: 1}))
	assert.False(t, IsSample(entities.Highlight{ID: 0}))
}
