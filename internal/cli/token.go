package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/quotescroll/quotescroll/internal/config"
	"github.com/quotescroll/quotescroll/internal/database"
	"github.com/quotescroll/quotescroll/internal/readwise"
	"github.com/quotescroll/quotescroll/internal/tokenstore"
)

// TokenCommand manages the stored Readwise API token.
type TokenCommand struct {
	DatabasePath string

	action string
	token  string
}

func NewTokenCommand() *TokenCommand {
	return &TokenCommand{}
}

func (cmd *TokenCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s token <set|status|validate|clear> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage the stored Readwise API token.\n\n")
		fmt.Fprintf(os.Stderr, "Actions:\n")
		fmt.Fprintf(os.Stderr, "  set <token>       Validate and store a token\n")
		fmt.Fprintf(os.Stderr, "  status            Report whether a token is stored\n")
		fmt.Fprintf(os.Stderr, "  validate <token>  Check a token without storing it\n")
		fmt.Fprintf(os.Stderr, "  clear             Remove the stored token\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing action")
	}
	cmd.action = rest[0]
	if len(rest) > 1 {
		cmd.token = rest[1]
	}

	switch cmd.action {
	case "set", "validate":
		if cmd.token == "" {
			return fmt.Errorf("'%s' requires a token argument", cmd.action)
		}
	case "status", "clear":
	default:
		return fmt.Errorf("unknown action: %s", cmd.action)
	}

	return nil
}

func (cmd *TokenCommand) Run() error {
	db, err := database.New(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	store, err := tokenstore.New(db.DB, tokenstore.Config{})
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}

	switch cmd.action {
	case "set":
		if err := cmd.validate(); err != nil {
			return err
		}
		if err := store.Set(cmd.token); err != nil {
			return err
		}
		fmt.Println("Token saved.")

	case "status":
		token, err := store.Get()
		if err != nil {
			return err
		}
		if token == "" {
			fmt.Println("No token stored.")
		} else {
			fmt.Println("A token is stored.")
		}

	case "validate":
		if err := cmd.validate(); err != nil {
			return err
		}
		fmt.Println("Token is valid.")

	case "clear":
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Token cleared.")
	}

	return nil
}

func (cmd *TokenCommand) validate() error {
	client := readwise.NewClient(os.Getenv("READWISE_BASE_URL"))
	if err := client.ValidateToken(context.Background(), cmd.token); err != nil {
		if errors.Is(err, readwise.ErrInvalidToken) {
			return errors.New("token was rejected by Readwise")
		}
		return fmt.Errorf("could not validate token: %w", err)
	}
	return nil
}
