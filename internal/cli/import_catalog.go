package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/imports"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// ImportCatalogCommand replaces the stored catalog with a JSON dataset.
type ImportCatalogCommand struct {
	DatasetPath  string
	DatabasePath string
	PostgresDSN  string
	Verbose      bool
	DryRun       bool

	out io.Writer
}

func NewImportCatalogCommand() *ImportCatalogCommand {
	return &ImportCatalogCommand{out: os.Stdout}
}

func (cmd *ImportCatalogCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-catalog", flag.ContinueOnError)

	fs.StringVar(&cmd.DatasetPath, "file", "", "Path to the catalog JSON dataset (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.PostgresDSN, "postgres", "", "Store the catalog in PostgreSQL instead of the local database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every book being imported")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the dataset without storing it")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-catalog -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Replace the stored catalog with a JSON dataset of the form\n")
		fmt.Fprintf(os.Stderr, "  {\"books\": [...], \"authors\": {\"id\": \"name\"}, \"genres\": {\"id\": \"name\"}}\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Check a dataset before importing it:\n")
		fmt.Fprintf(os.Stderr, "  %s import-catalog -file books.json -dry-run -verbose\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Import into PostgreSQL:\n")
		fmt.Fprintf(os.Stderr, "  %s import-catalog -file books.json -postgres postgres://localhost/bookshelf\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.DatasetPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportCatalogCommand) printf(format string, args ...any) {
	fmt.Fprintf(cmd.out, format, args...)
}

func (cmd *ImportCatalogCommand) Run(ctx context.Context) error {
	cmd.printf("Catalog Import\n")
	cmd.printf("==============\n")
	if cmd.DryRun {
		cmd.printf("DRY RUN MODE - No changes will be made\n\n")
	}

	cmd.printf("File: %s\n", cmd.DatasetPath)
	ds, err := catalog.ReadFile(cmd.DatasetPath)
	if err != nil {
		return err
	}
	cat, err := ds.Catalog()
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	cmd.printf("Found %d books, %d authors, %d genres\n", cat.Len(), len(cat.Authors()), len(cat.Genres()))

	if cmd.Verbose {
		cmd.printf("\n=== Books Found ===\n")
		for i, b := range cat.Books() {
			cmd.printf("%d. %q by %s\n", i+1, b.Title, cat.AuthorName(b.AuthorID))
		}
	}

	if cmd.DryRun {
		cmd.printf("\nDry run complete. Use without -dry-run to import.\n")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cmd.PostgresDSN != "" {
		cmd.printf("\nSaving to PostgreSQL\n")
		if err := importPostgres(ctx, cmd.PostgresDSN, ds); err != nil {
			return err
		}
	} else {
		cmd.printf("\nSaving to database: %s\n", cmd.DatabasePath)
		if err := books.NewRepository(db.DB).ReplaceCatalog(ctx, ds); err != nil {
			return fmt.Errorf("failed to store catalog: %w", err)
		}
	}

	source, _ := filepath.Abs(cmd.DatasetPath)
	err = imports.NewRepository(db.DB).Record(ctx, &entities.CatalogImport{
		Source:  source,
		Books:   cat.Len(),
		Authors: len(cat.Authors()),
		Genres:  len(cat.Genres()),
	})
	if err != nil {
		cmd.printf("[WARN] Failed to record import history: %v\n", err)
	}

	cmd.printf("\nImport complete!\n")
	return nil
}

func importPostgres(ctx context.Context, dsn string, ds *catalog.Dataset) error {
	pool, err := catalog.OpenPostgres(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := catalog.NewPostgresRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.ReplaceCatalog(ctx, ds); err != nil {
		return fmt.Errorf("failed to store catalog: %w", err)
	}
	return nil
}
