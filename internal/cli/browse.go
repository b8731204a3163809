package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
	"github.com/mrlokans/bookshelf/internal/listing"
	"github.com/mrlokans/bookshelf/internal/logging"
	"github.com/mrlokans/bookshelf/internal/theme"
	"github.com/mrlokans/bookshelf/internal/tui"
)

// BrowseCommand opens the catalog in the terminal.
type BrowseCommand struct {
	Theme   string
	LogPath string

	cfg *config.Config
}

func NewBrowseCommand(cfg *config.Config) *BrowseCommand {
	return &BrowseCommand{cfg: cfg}
}

func (cmd *BrowseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)

	fs.StringVar(&cmd.Theme, "theme", string(cmd.cfg.UI.DefaultTheme), "Color theme: day or night")
	fs.StringVar(&cmd.LogPath, "log", cmd.cfg.TUI.LogPath, "Log file (the terminal is taken by the browser)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s browse [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Browse the configured catalog in the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := theme.Parse(cmd.Theme); err != nil {
		return err
	}
	return nil
}

func (cmd *BrowseCommand) Run(ctx context.Context) error {
	if err := cmd.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Everything below logs, so the file has to be in place first.
	if err := logging.Init(cmd.LogPath); err != nil {
		return err
	}
	defer logging.Close()

	db, err := database.NewDatabase(cmd.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	source, err := entrypoint.OpenCatalog(ctx, cmd.cfg, db)
	if err != nil {
		return err
	}
	defer source.Close()

	cat := source.Holder.Catalog()
	logging.Info("Catalog ready", "books", cat.Len(), "source", cmd.cfg.Catalog.Source)

	session := listing.NewSession(cat, cmd.cfg.UI.BooksPerPage)
	return tui.Run(ctx, session, theme.ParseOr(cmd.Theme, theme.Day))
}
