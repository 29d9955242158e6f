// Package http provides the thin JSON surface over the local store and
// the import pipeline. No rendering happens here; clients own the UI.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/quotescroll/quotescroll/internal/importer"
	"github.com/quotescroll/quotescroll/internal/tasks"
)

// RouterConfig carries the dependencies for all controllers.
type RouterConfig struct {
	Highlights interface {
		HighlightReader
		BookHighlightReader
		FavouritesStore
	}
	Books       BookStore
	DataStore   DataStore
	TokenStore  TokenStore
	Validator   TokenValidator
	Manager     *importer.Manager
	TaskClient  *tasks.Client
	Tokens      tasks.TokenReader
	SampleQuota int
	Version     string
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	health := NewHealthController(cfg.Version)
	feed := NewFeedController(cfg.Highlights, cfg.SampleQuota)
	books := NewBooksController(cfg.Books, cfg.Highlights)
	favourites := NewFavouritesController(cfg.Highlights)
	imports := NewImportController(cfg.Manager, cfg.TaskClient, cfg.Tokens)
	token := NewTokenController(cfg.TokenStore, cfg.Validator)
	data := NewDataController(cfg.DataStore, cfg.Manager)

	router.GET("/health", health.Health)

	api := router.Group("/api")
	{
		api.GET("/feed", feed.GetFeed)

		api.GET("/books", books.ListBooks)
		api.GET("/books/:id", books.GetBook)
		api.GET("/books/:id/highlights", books.GetBookHighlights)

		api.GET("/highlights/favourites", favourites.ListFavourites)
		api.POST("/highlights/:id/favourite", favourites.AddFavourite)
		api.DELETE("/highlights/:id/favourite", favourites.RemoveFavourite)
		api.POST("/highlights/:id/favourite/toggle", favourites.ToggleFavourite)

		api.POST("/import", imports.StartImport)
		api.POST("/import/resume", imports.ResumeImport)
		api.GET("/import/progress", imports.GetProgress)

		api.GET("/token", token.GetTokenStatus)
		api.POST("/token", token.SetToken)
		api.POST("/token/validate", token.ValidateToken)
		api.DELETE("/token", token.ClearToken)

		api.DELETE("/data", data.ClearData)
	}

	return router
}
