// Package entrypoint wires every component together and runs the HTTP
// server with graceful shutdown.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotescroll/quotescroll/internal/config"
	"github.com/quotescroll/quotescroll/internal/database"
	"github.com/quotescroll/quotescroll/internal/database/books"
	"github.com/quotescroll/quotescroll/internal/database/highlights"
	http_controllers "github.com/quotescroll/quotescroll/internal/http"
	"github.com/quotescroll/quotescroll/internal/importer"
	"github.com/quotescroll/quotescroll/internal/readwise"
	"github.com/quotescroll/quotescroll/internal/scheduler"
	"github.com/quotescroll/quotescroll/internal/tasks"
	"github.com/quotescroll/quotescroll/internal/tokenstore"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// tokenSource reads the stored token, falling back to the configured
// environment token when the store is empty. The fallback covers
// headless deployments that never touch the token endpoint.
type tokenSource struct {
	store    *tokenstore.TokenStore
	fallback string
}

func (s *tokenSource) Get() (string, error) {
	token, err := s.store.Get()
	if err != nil {
		return "", err
	}
	if token == "" {
		return s.fallback, nil
	}
	return token, nil
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Shutdown callback first so the task queue stops taking work
	// before in-flight HTTP requests drain.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting QuoteScroll v%s", version)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	store, err := tokenstore.New(db.DB, tokenstore.Config{})
	if err != nil {
		log.Fatalf("Failed to initialize token store: %v", err)
	}
	tokens := &tokenSource{store: store, fallback: cfg.Readwise.Token}
	if token, err := tokens.Get(); err == nil && token == "" {
		log.Printf("WARNING: no Readwise token configured. Set one via the token endpoint or 'READWISE_TOKEN'.")
	}

	client := readwise.NewClient(cfg.Readwise.BaseURL)
	manager := importer.NewManager(db.DB, client, cfg.Import.PageDelay)

	highlightRepo := highlights.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)

	// Task queue for background imports
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewImportQueue(manager, tokens))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else {
		log.Printf("Task queue disabled; imports will run inline")
	}

	// Scheduled incremental sync
	var syncScheduler *scheduler.SyncScheduler
	var syncCtxCancel context.CancelFunc
	if cfg.Sync.Enabled {
		syncScheduler = scheduler.NewSyncScheduler(manager, tokens, cfg.Sync.Schedule)

		var syncCtx context.Context
		syncCtx, syncCtxCancel = context.WithCancel(context.Background())
		if err := syncScheduler.Start(syncCtx); err != nil {
			log.Fatalf("Failed to start sync scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Highlights:  highlightRepo,
		Books:       bookRepo,
		DataStore:   db,
		TokenStore:  store,
		Validator:   client,
		Manager:     manager,
		TaskClient:  taskClient,
		Tokens:      tokens,
		SampleQuota: cfg.Import.SampleQuota,
		Version:     version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if syncScheduler != nil {
			syncScheduler.Stop()
			syncCtxCancel()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
