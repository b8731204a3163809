package entities

import "time"

type Author struct {
	ID   string `gorm:"primaryKey;size:64" json:"id"`
	Name string `gorm:"index;size:256" json:"name"`
}

type Genre struct {
	ID   string `gorm:"primaryKey;size:64" json:"id"`
	Name string `gorm:"index;size:128" json:"name"`
}

type Book struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Position    int       `gorm:"index" json:"-"` // catalog iteration order
	Title       string    `gorm:"index;size:512" json:"title"`
	AuthorID    string    `gorm:"index;size:64" json:"author"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:2048" json:"image"`
	Published   time.Time `json:"published"`

	// GenreIDs is the denormalized view of Genres used by filtering and the JSON dataset.
	GenreIDs []string `gorm:"-" json:"genres"`

	Author Author  `gorm:"foreignKey:AuthorID" json:"-"`
	Genres []Genre `gorm:"many2many:book_genres;" json:"-"`
}

// HasGenre reports whether genreID is one of the book's genres.
func (b Book) HasGenre(genreID string) bool {
	for _, id := range b.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

// PublishedYear returns the year of publication, or 0 when unknown.
func (b Book) PublishedYear() int {
	if b.Published.IsZero() {
		return 0
	}
	return b.Published.Year()
}

// CatalogImport records one write of a dataset into the catalog store.
type CatalogImport struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Source    string    `gorm:"size:512" json:"source"`
	Books     int       `json:"books"`
	Authors   int       `json:"authors"`
	Genres    int       `json:"genres"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
