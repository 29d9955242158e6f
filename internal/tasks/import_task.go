package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/quotescroll/quotescroll/internal/importer"
)

// ImportTask runs one import in the background. The token is read from
// the token store at execution time, never serialized into the queue.
type ImportTask struct {
	IncludeDeleted bool   `json:"include_deleted"`
	UpdatedAfter   string `json:"updated_after,omitempty"` // RFC3339
	Resume         bool   `json:"resume"`
}

// Config returns the queue configuration for import tasks. One attempt
// only: the importer performs no internal retries and a re-run is always
// safe to trigger manually because the merge is idempotent.
func (t ImportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// TokenReader supplies the stored API token.
type TokenReader interface {
	Get() (string, error)
}

// ErrNoToken is returned when an import task runs with no stored token.
var ErrNoToken = errors.New("no API token configured")

// ImportProcessor creates the processor function for ImportTask.
func ImportProcessor(manager *importer.Manager, tokens TokenReader) backlite.QueueProcessor[ImportTask] {
	return func(ctx context.Context, task ImportTask) error {
		token, err := tokens.Get()
		if err != nil {
			return err
		}
		if token == "" {
			return ErrNoToken
		}

		opts := importer.Options{IncludeDeleted: task.IncludeDeleted}
		if task.UpdatedAfter != "" {
			if t, err := time.Parse(time.RFC3339, task.UpdatedAfter); err == nil {
				opts.UpdatedAfter = &t
			}
		}

		if task.Resume {
			return manager.Resume(ctx, token, opts)
		}
		return manager.Run(ctx, token, opts)
	}
}

// NewImportQueue creates the backlite queue for import tasks.
func NewImportQueue(manager *importer.Manager, tokens TokenReader) backlite.Queue {
	return backlite.NewQueue(ImportProcessor(manager, tokens))
}
