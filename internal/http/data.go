package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotescroll/quotescroll/internal/importer"
)

// DataStore wipes all locally imported data.
type DataStore interface {
	ClearAll() error
}

type DataController struct {
	store   DataStore
	manager *importer.Manager
}

func NewDataController(store DataStore, manager *importer.Manager) *DataController {
	return &DataController{store: store, manager: manager}
}

// ClearData deletes all books, highlights and import progress. Refused
// while an import is writing.
// DELETE /api/data
func (dc *DataController) ClearData(c *gin.Context) {
	if dc.manager.IsRunning() {
		c.JSON(http.StatusConflict, gin.H{"error": importer.ErrImportRunning.Error()})
		return
	}

	if err := dc.store.ClearAll(); err != nil {
		respondInternalError(c, err, "clear data")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all data cleared"})
}
