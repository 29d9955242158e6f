package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotescroll/quotescroll/internal/entities"
	"github.com/quotescroll/quotescroll/internal/importer"
	"github.com/quotescroll/quotescroll/internal/tasks"
)

// ImportController triggers import runs and exposes their progress.
// Imports run on the background task queue; the endpoint returns as
// soon as the task is enqueued and clients poll the progress endpoint.
// With the task queue disabled, imports run inline in a goroutine.
type ImportController struct {
	manager    *importer.Manager
	taskClient *tasks.Client
	tokens     tasks.TokenReader
}

func NewImportController(manager *importer.Manager, taskClient *tasks.Client, tokens tasks.TokenReader) *ImportController {
	return &ImportController{manager: manager, taskClient: taskClient, tokens: tokens}
}

type importRequest struct {
	IncludeDeleted bool   `json:"include_deleted"`
	UpdatedAfter   string `json:"updated_after"` // RFC3339
}

// StartImport enqueues a new import run.
// POST /api/import
func (ic *ImportController) StartImport(c *gin.Context) {
	if ic.manager.IsRunning() {
		c.JSON(http.StatusConflict, gin.H{"error": importer.ErrImportRunning.Error()})
		return
	}

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import request"})
		return
	}

	task := tasks.ImportTask{
		IncludeDeleted: req.IncludeDeleted,
		UpdatedAfter:   req.UpdatedAfter,
	}
	if err := ic.dispatch(c, task); err != nil {
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "import started"})
}

// ResumeImport enqueues a run continuing from the stored cursor.
// POST /api/import/resume
func (ic *ImportController) ResumeImport(c *gin.Context) {
	if ic.manager.IsRunning() {
		c.JSON(http.StatusConflict, gin.H{"error": importer.ErrImportRunning.Error()})
		return
	}

	stored, err := ic.manager.Progress()
	if err != nil {
		respondInternalError(c, err, "load import progress")
		return
	}
	if stored == nil || stored.NextPageCursor == nil || *stored.NextPageCursor == "" {
		c.JSON(http.StatusConflict, gin.H{"error": importer.ErrNothingToResume.Error()})
		return
	}

	if err := ic.dispatch(c, tasks.ImportTask{Resume: true}); err != nil {
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "import resumed"})
}

// dispatch hands the task to the queue, or runs it inline when no task
// queue is configured. Writes the error response itself on failure.
func (ic *ImportController) dispatch(c *gin.Context, task tasks.ImportTask) error {
	if ic.taskClient != nil {
		if _, err := ic.taskClient.Add(task).Save(); err != nil {
			respondInternalError(c, err, "enqueue import")
			return err
		}
		return nil
	}

	token, err := ic.tokens.Get()
	if err != nil {
		respondInternalError(c, err, "load token")
		return err
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": tasks.ErrNoToken.Error()})
		return tasks.ErrNoToken
	}

	go func() {
		if err := tasks.ImportProcessor(ic.manager, ic.tokens)(context.Background(), task); err != nil {
			log.Printf("Import: background run failed: %v", err)
		}
	}()
	return nil
}

// GetProgress returns the last recorded import progress.
// GET /api/import/progress
func (ic *ImportController) GetProgress(c *gin.Context) {
	stored, err := ic.manager.Progress()
	if err != nil {
		respondInternalError(c, err, "load import progress")
		return
	}
	if stored == nil {
		c.JSON(http.StatusOK, entities.ImportProgress{Status: entities.ImportStatusIdle})
		return
	}

	c.JSON(http.StatusOK, stored)
}
