package listing

import (
	"fmt"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	AllAuthorsLabel = "All Authors"
	AllGenresLabel  = "All Genres"
	EmptyMessage    = "No results found. Your filters might be too narrow."
)

// BookPreview is what a list row shows.
type BookPreview struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	AuthorName string `json:"author_name"`
}

// BookDetail is what the detail overlay shows.
type BookDetail struct {
	BookPreview
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	Year        int      `json:"year,omitempty"`
	Genres      []string `json:"genres"`
}

// Option is one entry of an author or genre dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func Preview(cat *catalog.Catalog, b entities.Book) BookPreview {
	return BookPreview{
		ID:         b.ID,
		Title:      b.Title,
		Image:      b.Image,
		AuthorName: cat.AuthorName(b.AuthorID),
	}
}

func Previews(cat *catalog.Catalog, books []entities.Book) []BookPreview {
	out := make([]BookPreview, len(books))
	for i, b := range books {
		out[i] = Preview(cat, b)
	}
	return out
}

// Detail builds the overlay view. The subtitle is "Author (Year)", or just
// the author when the publication date is unknown.
func Detail(cat *catalog.Catalog, b entities.Book) BookDetail {
	d := BookDetail{
		BookPreview: Preview(cat, b),
		Description: b.Description,
		Year:        b.PublishedYear(),
		Genres:      make([]string, 0, len(b.GenreIDs)),
	}
	d.Subtitle = d.AuthorName
	if d.Year != 0 {
		d.Subtitle = fmt.Sprintf("%s (%d)", d.AuthorName, d.Year)
	}
	for _, id := range b.GenreIDs {
		if name := cat.GenreName(id); name != "" {
			d.Genres = append(d.Genres, name)
		}
	}
	return d
}

// PreviewByID resolves id against the catalog first.
func PreviewByID(cat *catalog.Catalog, id string) (BookPreview, bool) {
	b, ok := cat.BookByID(id)
	if !ok {
		return BookPreview{}, false
	}
	return Preview(cat, b), true
}

func DetailByID(cat *catalog.Catalog, id string) (BookDetail, bool) {
	b, ok := cat.BookByID(id)
	if !ok {
		return BookDetail{}, false
	}
	return Detail(cat, b), true
}

// AuthorOptions lists the catalog's authors behind an "All Authors" entry.
func AuthorOptions(cat *catalog.Catalog) []Option {
	authors := cat.Authors()
	opts := make([]Option, 0, len(authors)+1)
	opts = append(opts, Option{Value: Any, Label: AllAuthorsLabel})
	for _, a := range authors {
		opts = append(opts, Option{Value: a.ID, Label: a.Name})
	}
	return opts
}

// GenreOptions lists the catalog's genres behind an "All Genres" entry.
func GenreOptions(cat *catalog.Catalog) []Option {
	genres := cat.Genres()
	opts := make([]Option, 0, len(genres)+1)
	opts = append(opts, Option{Value: Any, Label: AllGenresLabel})
	for _, g := range genres {
		opts = append(opts, Option{Value: g.ID, Label: g.Name})
	}
	return opts
}

// RemainingLabel is the caption of the load-more control.
func RemainingLabel(remaining int) string {
	return fmt.Sprintf("Show more (%d)", max(remaining, 0))
}
