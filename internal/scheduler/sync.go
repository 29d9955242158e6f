// Package scheduler triggers periodic incremental imports on a cron
// schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/quotescroll/quotescroll/internal/entities"
	"github.com/quotescroll/quotescroll/internal/importer"
)

// TokenReader supplies the stored API token.
type TokenReader interface {
	Get() (string, error)
}

// SyncScheduler runs imports on a fixed schedule, passing the last
// successful sync time as the updatedAfter filter so only changed data
// is fetched.
type SyncScheduler struct {
	manager  *importer.Manager
	tokens   TokenReader
	schedule string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewSyncScheduler creates a scheduler instance.
func NewSyncScheduler(manager *importer.Manager, tokens TokenReader, schedule string) *SyncScheduler {
	return &SyncScheduler{
		manager:  manager,
		tokens:   tokens,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Sync scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false

	log.Printf("Sync scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *SyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sync will occur.
func (s *SyncScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *SyncScheduler) runSync(ctx context.Context) {
	token, err := s.tokens.Get()
	if err != nil {
		log.Printf("Sync: skipped (token store error: %v)", err)
		return
	}
	if token == "" {
		log.Printf("Sync: skipped (token not configured)")
		return
	}

	opts := importer.Options{}
	if stored, err := s.manager.Progress(); err == nil && stored != nil {
		if stored.Status == entities.ImportStatusSuccess && stored.LastSyncAt != nil {
			opts.UpdatedAfter = stored.LastSyncAt
			log.Printf("Sync: incremental sync from %s", stored.LastSyncAt.Format(time.RFC3339))
		}
	}

	if err := s.manager.Run(ctx, token, opts); err != nil {
		if errors.Is(err, importer.ErrImportRunning) {
			log.Printf("Sync: skipped (import already running)")
			return
		}
		log.Printf("Sync: failed: %v", err)
	}
}
