// Package tui is the terminal front end of the catalog: the same list,
// filter form and detail overlay as the web UI, driven by a listing.Session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/listing"
	"github.com/mrlokans/bookshelf/internal/logging"
	"github.com/mrlokans/bookshelf/internal/theme"
)

type appState int

const (
	stateList appState = iota
	stateSearch
	stateDetail
)

const (
	focusTitle = iota
	focusAuthor
	focusGenre
	focusCount
)

type bookItem struct {
	preview listing.BookPreview
}

func (item bookItem) Title() string       { return item.preview.Title }
func (item bookItem) Description() string { return item.preview.AuthorName }
func (item bookItem) FilterValue() string { return item.preview.Title }

// listRenderer receives the presenter's output. The model copies it into
// the bubbles list after every presenter call.
type listRenderer struct {
	session   *listing.Session
	items     []list.Item
	empty     bool
	remaining int
}

var _ listing.Renderer = (*listRenderer)(nil)

func (r *listRenderer) toItems(books []entities.Book) []list.Item {
	previews := listing.Previews(r.session.Catalog(), books)
	items := make([]list.Item, len(previews))
	for i, p := range previews {
		items[i] = bookItem{preview: p}
	}
	return items
}

func (r *listRenderer) Render(books []entities.Book) {
	r.items = r.toItems(books)
}

func (r *listRenderer) RenderAppend(books []entities.Book) {
	r.items = append(r.items, r.toItems(books)...)
}

func (r *listRenderer) ShowEmptyState(empty bool) {
	r.empty = empty
}

func (r *listRenderer) SetRemainingLabel(remaining int) {
	r.remaining = remaining
}

// Model is the bubbletea model of the browser.
type Model struct {
	state     appState
	session   *listing.Session
	presenter *listing.Presenter
	renderer  *listRenderer

	list list.Model

	titleInput    textinput.Model
	authorOptions []listing.Option
	genreOptions  []listing.Option
	authorIndex   int
	genreIndex    int
	focus         int

	detail   listing.BookDetail
	viewport viewport.Model

	theme  theme.Theme
	styles styles

	width  int
	height int
}

// NewModel shows the first page of session right away.
func NewModel(session *listing.Session, t theme.Theme) Model {
	renderer := &listRenderer{session: session}
	presenter := listing.NewPresenter(session, renderer)
	presenter.Refresh()

	cat := session.Catalog()
	m := Model{
		state:         stateList,
		session:       session,
		presenter:     presenter,
		renderer:      renderer,
		list:          newBookList(renderer.items),
		titleInput:    newTitleInput(),
		authorOptions: listing.AuthorOptions(cat),
		genreOptions:  listing.GenreOptions(cat),
		viewport:      viewport.New(0, 0),
		theme:         theme.ParseOr(string(t), theme.Day),
	}
	m.applyTheme()
	return m
}

func newBookList(items []list.Item) list.Model {
	books := list.New(items, list.NewDefaultDelegate(), 0, 0)
	books.Title = "Bookshelf"
	books.SetShowStatusBar(false)
	books.SetFilteringEnabled(false)
	books.SetShowHelp(false)
	return books
}

func newTitleInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = "Title"
	input.Prompt = "> "
	return input
}

func (m *Model) applyTheme() {
	m.styles = newStyles(m.theme)
	m.list.Styles.Title = m.styles.title
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(msg.Width-4, 10), listHeight(msg.Height))
		m.viewport.Width = max(msg.Width-8, 10)
		m.viewport.Height = max(msg.Height-12, 3)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateSearch:
		return m.updateSearch(msg)
	case stateDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "/":
			m.openSearch()
			return m, textinput.Blink
		case "m":
			inc := m.presenter.ShowMore()
			if len(inc.Items) > 0 {
				logging.Debug("Showing more books", "added", len(inc.Items), "remaining", inc.Remaining)
			}
			return m, m.syncList(false)
		case "t":
			m.theme = m.theme.Toggle()
			m.applyTheme()
			return m, nil
		case "enter":
			if item, ok := m.list.SelectedItem().(bookItem); ok {
				m.openDetail(item.preview.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// syncList copies the renderer's items into the list widget.
func (m *Model) syncList(toTop bool) tea.Cmd {
	cmd := m.list.SetItems(m.renderer.items)
	if toTop {
		m.list.ResetSelected()
	}
	return cmd
}

func (m *Model) openSearch() {
	criteria := m.session.Criteria()
	m.titleInput.SetValue(criteria.Title)
	m.authorIndex = optionIndex(m.authorOptions, criteria.Author)
	m.genreIndex = optionIndex(m.genreOptions, criteria.Genre)
	m.focus = focusTitle
	m.titleInput.Focus()
	m.state = stateSearch
}

func optionIndex(options []listing.Option, value string) int {
	for i, o := range options {
		if o.Value == value {
			return i
		}
	}
	return 0
}

func (m *Model) openDetail(id string) {
	book, ok := m.session.FindByID(id)
	if !ok {
		logging.Warn("Selected book is not in the catalog", "id", id)
		return
	}
	m.detail = listing.Detail(m.session.Catalog(), book)
	m.viewport.SetContent(m.detail.Description)
	m.viewport.GotoTop()
	m.state = stateDetail
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch key.String() {
		case "esc":
			m.titleInput.Blur()
			m.state = stateList
			return m, nil
		case "enter":
			return m.submitSearch()
		case "tab", "down":
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil
		case "left", "right":
			if m.focus != focusTitle {
				step := 1
				if key.String() == "left" {
					step = -1
				}
				m.cycleOption(step)
				return m, nil
			}
		}
	}

	if m.focus != focusTitle {
		return m, nil
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	if focus == focusTitle {
		m.titleInput.Focus()
	} else {
		m.titleInput.Blur()
	}
}

func (m *Model) cycleOption(step int) {
	switch m.focus {
	case focusAuthor:
		m.authorIndex = wrap(m.authorIndex+step, len(m.authorOptions))
	case focusGenre:
		m.genreIndex = wrap(m.genreIndex+step, len(m.genreOptions))
	}
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	criteria := listing.Criteria{
		Title:  m.titleInput.Value(),
		Author: m.authorOptions[m.authorIndex].Value,
		Genre:  m.genreOptions[m.genreIndex].Value,
	}
	res := m.presenter.Submit(criteria)
	logging.Info("Filter applied", "title", criteria.Title, "author", criteria.Author, "genre", criteria.Genre, "matches", m.session.Total())
	if res.IsEmpty {
		logging.Debug("Filter matched nothing")
	}

	m.titleInput.Blur()
	m.state = stateList
	return m, m.syncList(true)
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "enter", "backspace":
			m.state = stateList
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var view string
	switch m.state {
	case stateSearch:
		view = m.searchView()
	case stateDetail:
		view = m.detailView()
	default:
		view = m.listView()
	}
	return m.styles.app.Render(view)
}

func (m Model) listView() string {
	lines := []string{m.list.View()}
	if m.renderer.empty {
		lines = append(lines, m.styles.warning.Render(listing.EmptyMessage))
	}

	label := listing.RemainingLabel(m.renderer.remaining)
	if m.renderer.remaining > 0 {
		lines = append(lines, m.styles.button.Render(label))
	} else {
		lines = append(lines, m.styles.disabled.Render(label))
	}

	if summary := m.criteriaSummary(); summary != "" {
		lines = append(lines, m.styles.secondary.Render(summary))
	}
	lines = append(lines, m.styles.secondary.Render("/ filter · m more · enter details · t theme · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) criteriaSummary() string {
	if !m.session.Filtered() || m.session.Criteria().IsZero() {
		return ""
	}
	c := m.session.Criteria()
	cat := m.session.Catalog()
	parts := []string{}
	if c.Title != "" {
		parts = append(parts, fmt.Sprintf("title %q", c.Title))
	}
	if c.Author != listing.Any {
		parts = append(parts, "by "+cat.AuthorName(c.Author))
	}
	if c.Genre != listing.Any {
		if name := cat.GenreName(c.Genre); name != "" {
			parts = append(parts, "in "+name)
		} else {
			parts = append(parts, "in an unknown genre")
		}
	}
	return fmt.Sprintf("%d matches: %s", m.session.Total(), strings.Join(parts, ", "))
}

func (m Model) searchView() string {
	field := func(index int, label, value string) string {
		text := fmt.Sprintf("%-7s %s", label, value)
		if m.focus == index {
			return m.styles.focused.Render(text)
		}
		return text
	}

	lines := []string{
		m.styles.title.Render("Search"),
		"",
		field(focusTitle, "Title", m.titleInput.View()),
		field(focusAuthor, "Author", "‹ "+m.authorOptions[m.authorIndex].Label+" ›"),
		field(focusGenre, "Genre", "‹ "+m.genreOptions[m.genreIndex].Label+" ›"),
		"",
		m.styles.secondary.Render("tab next field · ←/→ change option · enter search · esc cancel"),
	}
	return m.styles.panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) detailView() string {
	lines := []string{
		m.styles.title.Render(m.detail.Title),
		m.styles.secondary.Render(m.detail.Subtitle),
	}
	if len(m.detail.Genres) > 0 {
		lines = append(lines, m.styles.secondary.Render(strings.Join(m.detail.Genres, ", ")))
	}
	if m.detail.Image != "" {
		lines = append(lines, m.styles.secondary.Render("Cover: "+m.detail.Image))
	}
	lines = append(lines, "", m.viewport.View(), "", m.styles.secondary.Render("esc close · ↑/↓ scroll · q quit"))
	return m.styles.panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func listHeight(height int) int {
	return max(height-8, 5)
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, session *listing.Session, t theme.Theme) error {
	program := tea.NewProgram(NewModel(session, t), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal browser: %w", err)
	}
	return nil
}
