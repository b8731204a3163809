package listing

import (
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// FilterResult is what a renderer needs after a filter submission.
type FilterResult struct {
	Items     []entities.Book
	Remaining int
	IsEmpty   bool
}

// Increment is the page exposed by a LoadMore call.
type Increment struct {
	Items     []entities.Book
	Remaining int
}

// Session holds the active result set and the cursor over it.
type Session struct {
	catalog  *catalog.Catalog
	results  []entities.Book
	cursor   *Cursor
	criteria Criteria
	filtered bool
}

// NewSession starts an unfiltered session over the whole catalog.
func NewSession(cat *catalog.Catalog, pageSize int) *Session {
	s := &Session{
		catalog: cat,
		cursor:  NewCursor(pageSize),
	}
	s.initialize()
	return s
}

func (s *Session) initialize() {
	s.results = s.catalog.Books()
	s.criteria = MatchAll()
	s.filtered = false
	s.cursor.Reset()
}

// ApplyFilter replaces the result set and rewinds to the first page.
func (s *Session) ApplyFilter(c Criteria) FilterResult {
	c = c.Normalized()
	s.results = Apply(s.catalog.Books(), c)
	s.criteria = c
	s.filtered = true
	s.cursor.Reset()

	return FilterResult{
		Items:     s.CurrentWindow(),
		Remaining: s.Remaining(),
		IsEmpty:   len(s.results) == 0,
	}
}

// LoadMore exposes the next page and returns only the books it added. When
// there is nothing left it returns an empty increment and changes nothing.
func (s *Session) LoadMore() Increment {
	total := len(s.results)
	from := s.cursor.Displayed(total)
	if !s.cursor.Advance(total) {
		return Increment{Items: []entities.Book{}, Remaining: 0}
	}
	to := s.cursor.Displayed(total)

	return Increment{
		Items:     s.results[from:to:to],
		Remaining: s.cursor.Remaining(total),
	}
}

// CurrentWindow returns every book exposed so far.
func (s *Session) CurrentWindow() []entities.Book {
	return s.cursor.Window(s.results)
}

// FindByID looks in the whole catalog, not only the active results.
func (s *Session) FindByID(id string) (entities.Book, bool) {
	return s.catalog.BookByID(id)
}

func (s *Session) HasMore() bool {
	return s.cursor.HasMore(len(s.results))
}

func (s *Session) Remaining() int {
	return s.cursor.Remaining(len(s.results))
}

// Total is the size of the active result set.
func (s *Session) Total() int {
	return len(s.results)
}

func (s *Session) Page() int {
	return s.cursor.Page()
}

func (s *Session) PageSize() int {
	return s.cursor.PageSize()
}

// Criteria returns the most recently applied criteria, normalized.
func (s *Session) Criteria() Criteria {
	return s.criteria
}

// Filtered reports whether ApplyFilter has been called at least once.
func (s *Session) Filtered() bool {
	return s.filtered
}

// Catalog exposes the catalog the session was built over.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// PageAt returns the books on a single 1-based page of results together with
// how many follow it. Pages past the end come back empty.
func PageAt(results []entities.Book, page, pageSize int) Increment {
	cursor := NewCursor(pageSize)
	if page < 1 {
		page = 1
	}
	total := len(results)
	from := 0
	for cursor.Page() < page {
		from = cursor.Displayed(total)
		if !cursor.Advance(total) {
			return Increment{Items: []entities.Book{}, Remaining: 0}
		}
	}
	to := cursor.Displayed(total)
	return Increment{
		Items:     results[from:to:to],
		Remaining: cursor.Remaining(total),
	}
}
