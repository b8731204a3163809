package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Dataset is the on-disk JSON shape of a catalog:
//
//	{"books": [...], "authors": {"id": "name"}, "genres": {"id": "name"}}
type Dataset struct {
	Books   []entities.Book   `json:"books"`
	Authors map[string]string `json:"authors"`
	Genres  map[string]string `json:"genres"`
}

// Decode reads a JSON dataset. It does not validate references; call
// Dataset.Catalog for that.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode catalog dataset: %w", err)
	}
	return &ds, nil
}

// ReadFile opens path and decodes it as a dataset.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Encode writes the dataset as indented JSON.
func (d *Dataset) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// AuthorList returns the dataset's authors ordered by id.
func (d *Dataset) AuthorList() []entities.Author {
	authors := make([]entities.Author, 0, len(d.Authors))
	for id, name := range d.Authors {
		authors = append(authors, entities.Author{ID: id, Name: name})
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].ID < authors[j].ID })
	return authors
}

// GenreList returns the dataset's genres ordered by id.
func (d *Dataset) GenreList() []entities.Genre {
	genres := make([]entities.Genre, 0, len(d.Genres))
	for id, name := range d.Genres {
		genres = append(genres, entities.Genre{ID: id, Name: name})
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres
}

// Catalog validates the dataset and builds an immutable catalog from it.
func (d *Dataset) Catalog() (*Catalog, error) {
	return New(d.Books, d.AuthorList(), d.GenreList())
}

// FileLoader loads a catalog from a JSON dataset on disk.
type FileLoader struct {
	Path string
}

func (l FileLoader) LoadCatalog(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := ReadFile(l.Path)
	if err != nil {
		return nil, err
	}
	return ds.Catalog()
}
