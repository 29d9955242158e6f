package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotescroll/quotescroll/internal/entities"
	"github.com/quotescroll/quotescroll/internal/feed"
)

// HighlightReader defines the read operations the feed needs.
type HighlightReader interface {
	GetAllHighlights() ([]entities.Highlight, error)
}

type FeedController struct {
	highlights  HighlightReader
	sampleQuota int
}

func NewFeedController(highlights HighlightReader, sampleQuota int) *FeedController {
	return &FeedController{highlights: highlights, sampleQuota: sampleQuota}
}

// GetFeed returns the filtered, ordered feed.
// GET /api/feed?book_id=&q=&show_deleted=&favorites_only=&randomize=&samples=
func (fc *FeedController) GetFeed(c *gin.Context) {
	var opts feed.Options
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feed filters"})
		return
	}
	augment := c.Query("samples") == "true"

	all, err := fc.highlights.GetAllHighlights()
	if err != nil {
		respondInternalError(c, err, "load highlights")
		return
	}

	items := feed.Compute(all, opts, augment, fc.sampleQuota)

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}
