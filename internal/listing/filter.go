// Package listing implements the browsable list: filtering the catalog,
// paging through the results and handing finished windows to a renderer.
//
// Nothing in this package does I/O. A Session is not safe for concurrent use;
// adapters are expected to serialize the calls they make on it.
package listing

import (
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Any disables the author or genre predicate.
const Any = "any"

// Criteria is one filter submission. The zero value matches every book.
type Criteria struct {
	Title  string `form:"title" json:"title"`
	Author string `form:"author" json:"author"`
	Genre  string `form:"genre" json:"genre"`
}

// MatchAll returns criteria that accept every book.
func MatchAll() Criteria {
	return Criteria{Author: Any, Genre: Any}
}

// Normalized trims the title query and maps empty selectors to Any.
func (c Criteria) Normalized() Criteria {
	c.Title = strings.TrimSpace(c.Title)
	if c.Author == "" {
		c.Author = Any
	}
	if c.Genre == "" {
		c.Genre = Any
	}
	return c
}

// IsZero reports whether c places no constraint on the catalog.
func (c Criteria) IsZero() bool {
	return c.Normalized() == MatchAll()
}

// Matches reports whether a single book satisfies all three predicates.
func (c Criteria) Matches(b entities.Book) bool {
	c = c.Normalized()
	return c.matches(b, strings.ToLower(c.Title))
}

func (c Criteria) matches(b entities.Book, loweredTitle string) bool {
	if loweredTitle != "" && !strings.Contains(strings.ToLower(b.Title), loweredTitle) {
		return false
	}
	if c.Author != Any && b.AuthorID != c.Author {
		return false
	}
	if c.Genre != Any && !b.HasGenre(c.Genre) {
		return false
	}
	return true
}

// Apply returns the books matching c, in their original order. The input is
// never modified and the result never shares its backing array.
func Apply(books []entities.Book, c Criteria) []entities.Book {
	c = c.Normalized()
	title := strings.ToLower(c.Title)

	out := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if c.matches(b, title) {
			out = append(out, b)
		}
	}
	return out
}
