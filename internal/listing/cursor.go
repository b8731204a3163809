package listing

import "github.com/mrlokans/bookshelf/internal/entities"

// DefaultPageSize is the number of books exposed per page.
const DefaultPageSize = 36

// Cursor tracks how many pages of a result set are exposed. Pages are
// 1-based; a fresh cursor exposes the first page.
type Cursor struct {
	page     int
	pageSize int
}

// NewCursor returns a cursor on page 1. Non-positive sizes fall back to
// DefaultPageSize.
func NewCursor(pageSize int) *Cursor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Cursor{page: 1, pageSize: pageSize}
}

func (c *Cursor) Reset() {
	c.page = 1
}

func (c *Cursor) Page() int {
	return c.page
}

func (c *Cursor) PageSize() int {
	return c.pageSize
}

// Displayed is min(page*P, total).
func (c *Cursor) Displayed(total int) int {
	return min(c.page*c.pageSize, max(total, 0))
}

// HasMore reports whether another page exists beyond the current one.
func (c *Cursor) HasMore(total int) bool {
	return c.page*c.pageSize < total
}

// Remaining is max(total - page*P, 0).
func (c *Cursor) Remaining(total int) int {
	return max(total-c.page*c.pageSize, 0)
}

// Advance moves to the next page. It is a no-op returning false when the
// current page already reaches the end of the results.
func (c *Cursor) Advance(total int) bool {
	if !c.HasMore(total) {
		return false
	}
	c.page++
	return true
}

// Window returns the cumulative prefix of results through the current page.
func (c *Cursor) Window(results []entities.Book) []entities.Book {
	n := c.Displayed(len(results))
	return results[:n:n]
}
