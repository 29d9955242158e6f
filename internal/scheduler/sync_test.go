package scheduler

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quotescroll/quotescroll/internal/database/progress"
	"github.com/quotescroll/quotescroll/internal/entities"
	"github.com/quotescroll/quotescroll/internal/importer"
	"github.com/quotescroll/quotescroll/internal/readwise"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_scheduler_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.Highlight{}, &entities.ImportProgress{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

type staticTokens struct {
	token string
}

func (s *staticTokens) Get() (string, error) { return s.token, nil }

// countingExporter records every export call's options.
type countingExporter struct {
	mu    sync.Mutex
	calls []readwise.ExportOptions
}

func (c *countingExporter) Export(_ context.Context, _ string, opts readwise.ExportOptions) (*readwise.ExportResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, opts)
	return &readwise.ExportResponse{}, nil
}

func (c *countingExporter) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func TestSyncScheduler_StartStop(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	manager := importer.NewManager(db, &countingExporter{}, time.Millisecond)
	s := NewSyncScheduler(manager, &staticTokens{token: "secret"}, "0 */6 * * *")

	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())

	err := s.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.NextRunTime())
	assert.True(t, s.NextRunTime().After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestSyncScheduler_Start_InvalidSchedule(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	manager := importer.NewManager(db, &countingExporter{}, time.Millisecond)
	s := NewSyncScheduler(manager, &staticTokens{token: "secret"}, "not a schedule")

	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestSyncScheduler_StopViaContext(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	manager := importer.NewManager(db, &countingExporter{}, time.Millisecond)
	s := NewSyncScheduler(manager, &staticTokens{token: "secret"}, "0 */6 * * *")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()

	require.Eventually(t, func() bool {
		return !s.IsRunning()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSyncScheduler_RunSync(t *testing.T) {
	t.Run("skips without a token", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		exporter := &countingExporter{}
		manager := importer.NewManager(db, exporter, time.Millisecond)
		s := NewSyncScheduler(manager, &staticTokens{}, "0 */6 * * *")

		s.runSync(context.Background())

		assert.Zero(t, exporter.callCount())
	})

	t.Run("runs a full import when no previous sync", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		exporter := &countingExporter{}
		manager := importer.NewManager(db, exporter, time.Millisecond)
		s := NewSyncScheduler(manager, &staticTokens{token: "secret"}, "0 */6 * * *")

		s.runSync(context.Background())

		require.Equal(t, 1, exporter.callCount())
		assert.Nil(t, exporter.calls[0].UpdatedAfter)
	})

	t.Run("incremental sync after a successful run", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		lastSync := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
		err := progress.NewRepository(db).Set(entities.ImportProgress{
			Status:     entities.ImportStatusSuccess,
			LastSyncAt: &lastSync,
		})
		require.NoError(t, err)

		exporter := &countingExporter{}
		manager := importer.NewManager(db, exporter, time.Millisecond)
		s := NewSyncScheduler(manager, &staticTokens{token: "secret"}, "0 */6 * * *")

		s.runSync(context.Background())

		require.Equal(t, 1, exporter.callCount())
		require.NotNil(t, exporter.calls[0].UpdatedAfter)
		assert.True(t, lastSync.Equal(*exporter.calls[0].UpdatedAfter))
	})

	t.Run("no incremental filter after a failed run", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		lastSync := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
		err := progress.NewRepository(db).Set(entities.ImportProgress{
			Status:     entities.ImportStatusError,
			LastSyncAt: &lastSync,
		})
		require.NoError(t, err)

		exporter := &countingExporter{}
		manager := importer.NewManager(db, exporter, time.Millisecond)
		s := NewSyncScheduler(manager, &staticTokens{token: "secret"}, "0 */6 * * *")

		s.runSync(context.Background())

		require.Equal(t, 1, exporter.callCount())
		assert.Nil(t, exporter.calls[0].UpdatedAfter)
	})
}
