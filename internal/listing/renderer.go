package listing

import "github.com/mrlokans/bookshelf/internal/entities"

// Renderer is implemented by whatever draws the list: the HTML fragments of
// the web UI, the terminal list, or a recorder in tests.
type Renderer interface {
	// Render replaces everything shown with items.
	Render(items []entities.Book)
	// RenderAppend adds items below what is already shown.
	RenderAppend(items []entities.Book)
	ShowEmptyState(empty bool)
	SetRemainingLabel(remaining int)
}

// Presenter turns user triggers into session calls and pushes the outcome to
// a renderer.
type Presenter struct {
	session  *Session
	renderer Renderer
}

func NewPresenter(session *Session, renderer Renderer) *Presenter {
	return &Presenter{session: session, renderer: renderer}
}

// Submit applies a new filter and redraws the first page.
func (p *Presenter) Submit(c Criteria) FilterResult {
	res := p.session.ApplyFilter(c)
	p.renderer.Render(res.Items)
	p.renderer.ShowEmptyState(res.IsEmpty)
	p.renderer.SetRemainingLabel(res.Remaining)
	return res
}

// ShowMore appends the next page. Without a next page nothing is rendered.
func (p *Presenter) ShowMore() Increment {
	if !p.session.HasMore() {
		return Increment{Items: []entities.Book{}}
	}
	inc := p.session.LoadMore()
	p.renderer.RenderAppend(inc.Items)
	p.renderer.SetRemainingLabel(inc.Remaining)
	return inc
}

// Refresh redraws the whole current window without touching session state.
func (p *Presenter) Refresh() {
	p.renderer.Render(p.session.CurrentWindow())
	p.renderer.ShowEmptyState(p.session.Total() == 0)
	p.renderer.SetRemainingLabel(p.session.Remaining())
}

func (p *Presenter) Session() *Session {
	return p.session
}
