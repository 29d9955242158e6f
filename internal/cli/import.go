// Package cli implements the command-line entry points: running imports
// and managing the stored API token without the HTTP server.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quotescroll/quotescroll/internal/config"
	"github.com/quotescroll/quotescroll/internal/database"
	"github.com/quotescroll/quotescroll/internal/importer"
	"github.com/quotescroll/quotescroll/internal/readwise"
	"github.com/quotescroll/quotescroll/internal/tokenstore"
)

// ImportCommand runs an import from the terminal, printing progress as
// pages arrive.
type ImportCommand struct {
	DatabasePath   string
	Token          string
	IncludeDeleted bool
	UpdatedAfter   string
	Resume         bool
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.Token, "token", "", "Readwise API token (defaults to the stored token)")
	fs.BoolVar(&cmd.IncludeDeleted, "include-deleted", false, "Also fetch highlights the remote marked as discarded")
	fs.StringVar(&cmd.UpdatedAfter, "updated-after", "", "Only fetch data updated after this RFC3339 timestamp")
	fs.BoolVar(&cmd.Resume, "resume", false, "Continue an interrupted import from the stored cursor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import highlights from Readwise into the local database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Full import using the stored token:\n")
		fmt.Fprintf(os.Stderr, "  %s import\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Incremental import since a date:\n")
		fmt.Fprintf(os.Stderr, "  %s import -updated-after 2025-01-01T00:00:00Z\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ImportCommand) Run() error {
	db, err := database.New(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	token := cmd.Token
	if token == "" {
		store, err := tokenstore.New(db.DB, tokenstore.Config{})
		if err != nil {
			return fmt.Errorf("failed to open token store: %w", err)
		}
		token, err = store.Get()
		if err != nil {
			return err
		}
	}
	if token == "" {
		return fmt.Errorf("no token provided; run '%s token set' first or pass -token", os.Args[0])
	}

	opts := importer.Options{IncludeDeleted: cmd.IncludeDeleted}
	if cmd.UpdatedAfter != "" {
		t, err := time.Parse(time.RFC3339, cmd.UpdatedAfter)
		if err != nil {
			return fmt.Errorf("invalid -updated-after value: %w", err)
		}
		opts.UpdatedAfter = &t
	}

	client := readwise.NewClient(os.Getenv("READWISE_BASE_URL"))
	manager := importer.NewManager(db.DB, client, 0)

	events, unsubscribe := manager.Subscribe()
	defer unsubscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			switch event.Kind {
			case importer.EventProgress:
				if event.Progress.Status == "loading" {
					fmt.Printf("Page %d: %d highlights, %d books\n",
						event.Progress.CurrentPage,
						event.Progress.TotalHighlights,
						event.Progress.TotalBooks)
				}
			case importer.EventReady:
				fmt.Println("First page stored; feed is usable.")
			}
		}
	}()

	if cmd.Resume {
		err = manager.Resume(context.Background(), token, opts)
	} else {
		err = manager.Run(context.Background(), token, opts)
	}
	unsubscribe()
	<-done

	if err != nil {
		return err
	}

	fmt.Println("Import complete!")
	return nil
}
