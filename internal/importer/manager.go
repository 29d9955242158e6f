// Package importer drives the paginated fetch-normalize-merge-persist
// cycle against the Readwise export API.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/quotescroll/quotescroll/internal/database/books"
	"github.com/quotescroll/quotescroll/internal/database/highlights"
	"github.com/quotescroll/quotescroll/internal/database/progress"
	"github.com/quotescroll/quotescroll/internal/entities"
	"github.com/quotescroll/quotescroll/internal/normalize"
	"github.com/quotescroll/quotescroll/internal/readwise"
)

// DefaultPageDelay is the courtesy pause between page fetches.
const DefaultPageDelay = 500 * time.Millisecond

// ErrImportRunning is returned when an import is started while another
// run is still active. Overlapping runs would read-modify-write the same
// highlight set and lose updates, so the second caller must back off.
var ErrImportRunning = errors.New("import already in progress")

// ErrNothingToResume is returned by Resume when no interrupted run left
// a cursor behind.
var ErrNothingToResume = errors.New("no import to resume")

// Exporter is the remote export service contract the manager depends on.
type Exporter interface {
	Export(ctx context.Context, token string, opts readwise.ExportOptions) (*readwise.ExportResponse, error)
}

// Options control one import run.
type Options struct {
	IncludeDeleted bool
	UpdatedAfter   *time.Time
	StartCursor    string // resume point; empty means page 1
}

// Manager orchestrates import runs. At most one run is active per
// manager; progress is persisted after every page and mirrored to
// subscribers as events.
type Manager struct {
	db        *gorm.DB
	exporter  Exporter
	pageDelay time.Duration

	mu          sync.Mutex
	running     bool
	subscribers map[int]chan Event
	nextSubID   int
}

// NewManager creates an import manager. pageDelay <= 0 selects the
// default pacing.
func NewManager(db *gorm.DB, exporter Exporter, pageDelay time.Duration) *Manager {
	if pageDelay <= 0 {
		pageDelay = DefaultPageDelay
	}
	return &Manager{
		db:          db,
		exporter:    exporter,
		pageDelay:   pageDelay,
		subscribers: make(map[int]chan Event),
	}
}

// IsRunning reports whether an import run is active.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Progress returns the stored progress record, or nil when no import
// ever ran.
func (m *Manager) Progress() (*entities.ImportProgress, error) {
	return progress.NewRepository(m.db).Get()
}

// Run performs a full import: pages are fetched sequentially, each page
// is normalized, merged against the complete stored highlight set and
// persisted in one transaction, and a progress update is emitted. The
// ready event fires exactly once, after the first page, so a consumer
// can start presenting content before pagination completes.
//
// Any failure aborts the run, records a terminal error progress and
// returns; no retry is attempted here. The running flag is always
// cleared, so a failed run never blocks the next attempt.
func (m *Manager) Run(ctx context.Context, token string, opts Options) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrImportRunning
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	progressRepo := progress.NewRepository(m.db)
	highlightRepo := highlights.NewRepository(m.db)

	cursor := opts.StartCursor
	pageCount := 0
	totalHighlights := 0
	totalBooks := 0
	seenBooks := make(map[int]struct{})
	readySignalled := false

	for {
		pageCount++

		resp, err := m.exporter.Export(ctx, token, readwise.ExportOptions{
			PageCursor:     cursor,
			UpdatedAfter:   opts.UpdatedAfter,
			IncludeDeleted: opts.IncludeDeleted,
		})
		if err != nil {
			return m.fail(progressRepo, err)
		}

		page := normalize.NormalizeExport(resp)

		existing, err := highlightRepo.GetAllHighlights()
		if err != nil {
			return m.fail(progressRepo, err)
		}
		merged := normalize.MergeHighlights(existing, page.Highlights)

		// Books and merged highlights for a page are one unit of work.
		err = m.db.Transaction(func(tx *gorm.DB) error {
			if err := books.NewRepository(tx).SaveBooks(page.Books); err != nil {
				return err
			}
			return highlights.NewRepository(tx).SaveHighlights(merged)
		})
		if err != nil {
			return m.fail(progressRepo, err)
		}

		totalHighlights = len(merged)
		for _, b := range page.Books {
			if _, seen := seenBooks[b.UserBookID]; !seen {
				seenBooks[b.UserBookID] = struct{}{}
				totalBooks++
			}
		}

		now := time.Now()
		update := entities.ImportProgress{
			Status:          entities.ImportStatusLoading,
			CurrentPage:     pageCount,
			TotalHighlights: totalHighlights,
			TotalBooks:      totalBooks,
			NextPageCursor:  resp.NextPageCursor,
			LastSyncAt:      &now,
		}
		if err := progressRepo.Set(update); err != nil {
			return m.fail(progressRepo, err)
		}
		m.emit(Event{Kind: EventProgress, Progress: update})

		if !readySignalled {
			readySignalled = true
			m.emit(Event{Kind: EventReady, Progress: update})
		}

		if resp.NextPageCursor == nil || *resp.NextPageCursor == "" {
			break
		}
		cursor = *resp.NextPageCursor

		if err := m.pause(ctx); err != nil {
			return m.fail(progressRepo, err)
		}
	}

	now := time.Now()
	final := entities.ImportProgress{
		Status:          entities.ImportStatusSuccess,
		CurrentPage:     pageCount,
		TotalHighlights: totalHighlights,
		TotalBooks:      totalBooks,
		NextPageCursor:  nil,
		LastSyncAt:      &now,
	}
	if err := progressRepo.Set(final); err != nil {
		return m.fail(progressRepo, err)
	}
	m.emit(Event{Kind: EventProgress, Progress: final})

	log.Printf("Import: finished after %d pages (%d highlights, %d books)",
		pageCount, totalHighlights, totalBooks)
	return nil
}

// Resume continues an interrupted run from the stored cursor.
func (m *Manager) Resume(ctx context.Context, token string, opts Options) error {
	stored, err := m.Progress()
	if err != nil {
		return err
	}
	if stored == nil || stored.NextPageCursor == nil || *stored.NextPageCursor == "" {
		return ErrNothingToResume
	}

	opts.StartCursor = *stored.NextPageCursor
	return m.Run(ctx, token, opts)
}

// fail records a terminal error progress and forwards the classified
// message to subscribers. Totals are zeroed: a failed run makes no claim
// about how much data is present.
func (m *Manager) fail(progressRepo *progress.Repository, cause error) error {
	message := classifyError(cause)
	log.Printf("Import: failed: %s", message)

	update := entities.ImportProgress{
		Status:         entities.ImportStatusError,
		Error:          message,
		NextPageCursor: nil,
	}
	if err := progressRepo.Set(update); err != nil {
		log.Printf("Import: could not record error progress: %v", err)
	}
	m.emit(Event{Kind: EventProgress, Progress: update})
	m.emit(Event{Kind: EventError, Progress: update, Err: message})

	return cause
}

// classifyError maps a failure to the user-facing message. Rate limits
// get a distinct message naming the wait; everything else surfaces the
// upstream message when one exists.
func classifyError(err error) string {
	var rateLimit *readwise.RateLimitError
	if errors.As(err, &rateLimit) {
		return fmt.Sprintf("Rate limited. Please wait %d seconds and try again.", rateLimit.RetryAfter)
	}

	var apiErr *readwise.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Import failed"
}

// pause waits out the inter-page delay, aborting early on cancellation.
func (m *Manager) pause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.pageDelay):
		return nil
	}
}
