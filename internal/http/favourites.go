package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quotescroll/quotescroll/internal/entities"
)

// FavouritesStore defines database operations for favourites management.
type FavouritesStore interface {
	SetFavourite(id int, isFavourite bool) error
	ToggleFavourite(id int) (bool, error)
	GetFavouriteHighlights() ([]entities.Highlight, error)
}

type FavouritesController struct {
	store FavouritesStore
}

func NewFavouritesController(store FavouritesStore) *FavouritesController {
	return &FavouritesController{store: store}
}

// AddFavourite marks a highlight as favourite.
// POST /api/highlights/:id/favourite
func (fc *FavouritesController) AddFavourite(c *gin.Context) {
	fc.setFavourite(c, true)
}

// RemoveFavourite removes a highlight from favourites.
// DELETE /api/highlights/:id/favourite
func (fc *FavouritesController) RemoveFavourite(c *gin.Context) {
	fc.setFavourite(c, false)
}

func (fc *FavouritesController) setFavourite(c *gin.Context, value bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := fc.store.SetFavourite(id, value); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "highlight not found"})
			return
		}
		respondInternalError(c, err, "update favourite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_favorite": value})
}

// ToggleFavourite flips the favourite flag.
// POST /api/highlights/:id/favourite/toggle
func (fc *FavouritesController) ToggleFavourite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	newValue, err := fc.store.ToggleFavourite(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "highlight not found"})
			return
		}
		respondInternalError(c, err, "toggle favourite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_favorite": newValue})
}

// ListFavourites returns all favourite highlights.
// GET /api/highlights/favourites
func (fc *FavouritesController) ListFavourites(c *gin.Context) {
	highlights, err := fc.store.GetFavouriteHighlights()
	if err != nil {
		respondInternalError(c, err, "list favourites")
		return
	}

	c.JSON(http.StatusOK, gin.H{"highlights": highlights, "total": len(highlights)})
}
