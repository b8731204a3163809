// Command generate_sample writes a catalog dataset of any size built from the
// embedded sample, for trying out paging against a large catalog.
// Usage: go run ./cmd/generate_sample [-count 500] [-out catalog.json] [-db bookshelf.db]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func main() {
	count := flag.Int("count", 500, "number of books to generate")
	out := flag.String("out", "", "write the dataset as JSON to this file (stdout when empty and -db is not set)")
	dbPath := flag.String("db", "", "store the dataset in this database, replacing its catalog")
	flag.Parse()

	sample, err := demo.SampleDataset()
	if err != nil {
		log.Fatalf("Failed to read sample catalog: %v", err)
	}

	ds, err := expand(sample, *count)
	if err != nil {
		log.Fatalf("Failed to generate catalog: %v", err)
	}
	log.Printf("Generated %d books from %d sample books", len(ds.Books), len(sample.Books))

	if *dbPath != "" {
		db, err := database.NewDatabase(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		if err := books.NewRepository(db.DB).ReplaceCatalog(context.Background(), ds); err != nil {
			log.Fatalf("Failed to store catalog: %v", err)
		}
		log.Printf("Stored catalog in %s", *dbPath)
	}

	if *out == "" && *dbPath != "" {
		return
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := ds.Encode(w); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}
}

// expand repeats the sample books until count is reached. Repeats get a
// fresh id and a volume suffix and keep the original author and genres.
func expand(sample *catalog.Dataset, count int) (*catalog.Dataset, error) {
	if len(sample.Books) == 0 {
		return nil, fmt.Errorf("sample catalog is empty")
	}
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative")
	}

	ds := &catalog.Dataset{
		Books:   make([]entities.Book, 0, count),
		Authors: sample.Authors,
		Genres:  sample.Genres,
	}
	for i := 0; i < count; i++ {
		b := sample.Books[i%len(sample.Books)]
		if round := i / len(sample.Books); round > 0 {
			b.ID = fmt.Sprintf("%s-%d", b.ID, round)
			b.Title = fmt.Sprintf("%s (vol. %d)", b.Title, round+1)
		}
		b.GenreIDs = append([]string(nil), b.GenreIDs...)
		ds.Books = append(ds.Books, b)
	}

	// Validates references and duplicate ids.
	if _, err := ds.Catalog(); err != nil {
		return nil, err
	}
	return ds, nil
}
