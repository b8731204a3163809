package http

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/listing"
	"github.com/mrlokans/bookshelf/internal/theme"
)

// htmlRenderer collects what the presenter asked for during one request so
// the handler can turn it into a template response.
type htmlRenderer struct {
	catalog   *catalog.Catalog
	items     []listing.BookPreview
	appended  bool
	rendered  bool
	empty     bool
	remaining int
}

var _ listing.Renderer = (*htmlRenderer)(nil)

func (r *htmlRenderer) Render(items []entities.Book) {
	r.items = listing.Previews(r.catalog, items)
	r.appended = false
	r.rendered = true
}

func (r *htmlRenderer) RenderAppend(items []entities.Book) {
	r.items = listing.Previews(r.catalog, items)
	r.appended = true
	r.rendered = true
}

func (r *htmlRenderer) ShowEmptyState(empty bool) {
	r.empty = empty
}

func (r *htmlRenderer) SetRemainingLabel(remaining int) {
	r.remaining = remaining
}

// listView is the data of the "book-list", "more-button" and
// "more-fragment" templates.
type listView struct {
	Items          []listing.BookPreview
	Empty          bool
	EmptyMessage   string
	Remaining      int
	RemainingLabel string
	CSRFToken      string
	OOB            bool
}

func (r *htmlRenderer) view(csrf string) listView {
	return listView{
		Items:          r.items,
		Empty:          r.empty,
		EmptyMessage:   listing.EmptyMessage,
		Remaining:      r.remaining,
		RemainingLabel: listing.RemainingLabel(r.remaining),
		CSRFToken:      csrf,
	}
}

// pageView is the data of the full-page templates.
type pageView struct {
	Title         string
	Theme         theme.Theme
	ToggleTheme   theme.Theme
	ThemeCSS      template.CSS
	CSRFToken     string
	Demo          bool
	Criteria      listing.Criteria
	AuthorOptions []listing.Option
	GenreOptions  []listing.Option
	List          listView
	Book          listing.BookDetail
}

// UIController serves the HTML list. The browser list state lives in one
// listing.Session shared by every request, so calls on it are serialized.
type UIController struct {
	catalog      CatalogProvider
	sessions     *SessionManager
	defaultTheme theme.Theme
	pageSize     int

	mu      sync.Mutex
	session *listing.Session
}

func NewUIController(catalog CatalogProvider, pageSize int, sessions *SessionManager, defaultTheme theme.Theme) *UIController {
	return &UIController{
		catalog:      catalog,
		sessions:     sessions,
		defaultTheme: theme.ParseOr(string(defaultTheme), theme.Day),
		pageSize:     pageSize,
	}
}

// presenter must be called with mu held. A reloaded catalog starts a fresh,
// unfiltered session.
func (controller *UIController) presenter(r *htmlRenderer) *listing.Presenter {
	cat := controller.catalog.Catalog()
	if controller.session == nil || controller.session.Catalog() != cat {
		controller.session = listing.NewSession(cat, controller.pageSize)
	}
	r.catalog = cat
	return listing.NewPresenter(controller.session, r)
}

func (controller *UIController) theme(c *gin.Context) theme.Theme {
	if controller.sessions == nil {
		return controller.defaultTheme
	}
	return controller.sessions.Theme(c.Request, controller.defaultTheme)
}

func (controller *UIController) page(c *gin.Context, title string) pageView {
	t := controller.theme(c)
	return pageView{
		Title:       title,
		Theme:       t,
		ToggleTheme: t.Toggle(),
		ThemeCSS:    template.CSS(t.CSSVars()),
		CSRFToken:   csrfToken(c),
		Demo:        isDemo(c),
	}
}

// BooksPage renders everything exposed so far under the active filter.
// GET /
func (controller *UIController) BooksPage(c *gin.Context) {
	r := &htmlRenderer{}

	controller.mu.Lock()
	p := controller.presenter(r)
	p.Refresh()
	criteria := p.Session().Criteria()
	cat := p.Session().Catalog()
	controller.mu.Unlock()

	view := controller.page(c, "Bookshelf")
	view.Criteria = criteria
	view.AuthorOptions = listing.AuthorOptions(cat)
	view.GenreOptions = listing.GenreOptions(cat)
	view.List = r.view(view.CSRFToken)

	c.HTML(http.StatusOK, "books", view)
}

// Search applies a new filter and shows its first page.
// POST /ui/search
func (controller *UIController) Search(c *gin.Context) {
	var criteria listing.Criteria
	if err := c.ShouldBind(&criteria); err != nil {
		c.String(http.StatusBadRequest, "Invalid filter")
		return
	}

	r := &htmlRenderer{}
	controller.mu.Lock()
	controller.presenter(r).Submit(criteria)
	controller.mu.Unlock()

	if !isHTMXRequest(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "book-list", r.view(csrfToken(c)))
}

// ShowMore appends the next page of results.
// POST /ui/more
func (controller *UIController) ShowMore(c *gin.Context) {
	r := &htmlRenderer{}
	controller.mu.Lock()
	controller.presenter(r).ShowMore()
	controller.mu.Unlock()

	if !isHTMXRequest(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if !r.rendered {
		c.Status(http.StatusNoContent)
		return
	}
	view := r.view(csrfToken(c))
	view.OOB = true
	c.HTML(http.StatusOK, "more-fragment", view)
}

// BookPage shows the detail overlay of any catalog book, filtered out or not.
// GET /ui/books/:id
func (controller *UIController) BookPage(c *gin.Context) {
	r := &htmlRenderer{}
	controller.mu.Lock()
	session := controller.presenter(r).Session()
	book, ok := session.FindByID(c.Param("id"))
	cat := session.Catalog()
	controller.mu.Unlock()

	if !ok {
		c.String(http.StatusNotFound, "Book not found")
		return
	}

	detail := listing.Detail(cat, book)
	if isHTMXRequest(c) {
		c.HTML(http.StatusOK, "book-detail", detail)
		return
	}

	view := controller.page(c, detail.Title)
	view.Book = detail
	c.HTML(http.StatusOK, "book", view)
}

// SetTheme stores the requested theme, or flips the current one when the
// form does not name one.
// POST /settings/theme
func (controller *UIController) SetTheme(c *gin.Context) {
	next := theme.ParseOr(c.PostForm("theme"), controller.theme(c).Toggle())
	if controller.sessions != nil {
		controller.sessions.SetTheme(c.Request, next)
	}

	if isHTMXRequest(c) {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
