package highlights

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quotescroll/quotescroll/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_highlights_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Highlight{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_SaveHighlights(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SaveHighlights([]entities.Highlight{
		{ID: 1, UserBookID: 10, Text: "first"},
		{ID: 2, UserBookID: 10, Text: "second"},
	})
	require.NoError(t, err)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_SaveHighlights_UpsertsByID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SaveHighlights([]entities.Highlight{{ID: 1, Text: "original"}})
	require.NoError(t, err)

	err = repo.SaveHighlights([]entities.Highlight{{ID: 1, Text: "rewritten"}})
	require.NoError(t, err)

	h, err := repo.GetHighlight(1)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "rewritten", h.Text)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetHighlight_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	h, err := repo.GetHighlight(999)
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestRepository_GetAllHighlights_IncludesDeleted(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SaveHighlights([]entities.Highlight{
		{ID: 1, Text: "kept"},
		{ID: 2, Text: "discarded", IsDeleted: true},
	})
	require.NoError(t, err)

	all, err := repo.GetAllHighlights()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_GetHighlightsByBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SaveHighlights([]entities.Highlight{
		{ID: 1, UserBookID: 10},
		{ID: 2, UserBookID: 20},
		{ID: 3, UserBookID: 10},
	})
	require.NoError(t, err)

	byBook, err := repo.GetHighlightsByBook(10)
	require.NoError(t, err)
	assert.Len(t, byBook, 2)
}

func TestRepository_SetFavourite(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SaveHighlights([]entities.Highlight{{ID: 1, Text: "quote"}})
	require.NoError(t, err)

	err = repo.SetFavourite(1, true)
	require.NoError(t, err)

	h, err := repo.GetHighlight(1)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.True(t, h.IsFavorite)

	err = repo.SetFavourite(1, false)
	require.NoError(t, err)

	h, err = repo.GetHighlight(1)
	require.NoError(t, err)
	assert.False(t, h.IsFavorite)
}

func TestRepository_SetFavourite_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetFavourite(999, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_ToggleFavourite(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SaveHighlights([]entities.Highlight{{ID: 1}})
	require.NoError(t, err)

	value, err := repo.ToggleFavourite(1)
	require.NoError(t, err)
	assert.True(t, value)

	value, err = repo.ToggleFavourite(1)
	require.NoError(t, err)
	assert.False(t, value)
}

func TestRepository_GetFavouriteHighlights(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SaveHighlights([]entities.Highlight{
		{ID: 1, IsFavorite: true},
		{ID: 2},
		{ID: 3, IsFavorite: true},
	})
	require.NoError(t, err)

	favourites, err := repo.GetFavouriteHighlights()
	require.NoError(t, err)
	assert.Len(t, favourites, 2)
}

func TestRepository_FavouriteSurvivesUpsert(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SaveHighlights([]entities.Highlight{{ID: 1, Text: "old", IsFavorite: true}})
	require.NoError(t, err)

	// Re-saving the merged row (favourite already folded in) keeps the flag
	err = repo.SaveHighlights([]entities.Highlight{{ID: 1, Text: "new", IsFavorite: true}})
	require.NoError(t, err)

	h, err := repo.GetHighlight(1)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "new", h.Text)
	assert.True(t, h.IsFavorite)
}
