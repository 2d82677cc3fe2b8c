package table

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"erp/internal/logging"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// DefaultFetchTimeout bounds a single fetch.
const DefaultFetchTimeout = 10 * time.Second

// Page is one page of rows plus the total row count across all pages.
type Page[Row any] struct {
	Rows  []Row `json:"rows"`
	Total int   `json:"total"`
}

// FetchFunc retrieves a page for the given params. It is owned by the caller.
type FetchFunc[Row any] func(ctx context.Context, p Params) (Page[Row], error)

// PageLoadedMsg carries the result of a fetch back into the update loop.
type PageLoadedMsg[Row any] struct {
	TableID   string
	RequestID int
	Params    Params
	Page      Page[Row]
	Err       error
}

// Option configures a Model.
type Option func(*options)

type options struct {
	debounce     time.Duration
	timeout      time.Duration
	defaultLimit int
	keys         KeyMap
	styles       Styles
}

// WithDebounce sets the search debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithFetchTimeout sets the per-fetch timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithDefaultLimit sets the page size used when no state is persisted.
func WithDefaultLimit(n int) Option {
	return func(o *options) { o.defaultLimit = n }
}

// WithKeyMap replaces the default keybindings.
func WithKeyMap(k KeyMap) Option {
	return func(o *options) { o.keys = k }
}

// WithStyles replaces the default styles.
func WithStyles(s Styles) Option {
	return func(o *options) { o.styles = s }
}

// Model is a server-paginated table. State changes go through the store and
// trigger a fetch; responses of superseded fetches are dropped.
type Model[Row any] struct {
	id        string
	cols      *ColumnSet[Row]
	fetch     FetchFunc[Row]
	store     *Store
	state     State
	opts      options
	debouncer *Debouncer

	rows      []Row
	total     int
	loading   bool
	loaded    bool
	err       error
	requestID int
	cancel    context.CancelFunc
	closed    bool

	cursor    int
	activeCol int
	searching bool
	input     textinput.Model
	spinner   spinner.Model
}

// New creates a table. Call Init to load persisted state and fetch.
func New[Row any](id string, cols []Column[Row], fetch FetchFunc[Row], store *Store, opts ...Option) *Model[Row] {
	o := options{
		debounce:     DefaultDebounce,
		timeout:      DefaultFetchTimeout,
		defaultLimit: DefaultLimit,
		keys:         DefaultKeyMap(),
		styles:       DefaultStyles(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	in := textinput.New()
	in.Prompt = "search> "
	in.Placeholder = "type to search…"
	in.CharLimit = 200
	in.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent)
	in.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorMuted)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m := &Model[Row]{
		id:        id,
		cols:      NewColumnSet(cols),
		fetch:     fetch,
		store:     store,
		opts:      o,
		debouncer: NewDebouncer(id, o.debounce),
		input:     in,
		spinner:   sp,
	}
	m.state = DefaultState()
	m.state.Limit = max(o.defaultLimit, 1)
	m.ensureVisibleActiveColumn()
	return m
}

func (m *Model[Row]) log() *logrus.Entry {
	return logging.Log.WithField("table", m.id)
}

// ID is the table identifier the state is keyed by.
func (m *Model[Row]) ID() string { return m.id }

// State returns a copy of the current state.
func (m *Model[Row]) State() State { return m.state.Clone() }

// Params is the parameter object of the current state.
func (m *Model[Row]) Params() Params { return BuildParams(m.state) }

// Rows is the current page of rows.
func (m *Model[Row]) Rows() []Row { return m.rows }

// Total is the total row count reported by the last successful fetch.
func (m *Model[Row]) Total() int { return m.total }

// TotalPages derives from Total and the page size.
func (m *Model[Row]) TotalPages() int { return TotalPages(m.total, m.state.Limit) }

// Loading reports whether a fetch is in flight.
func (m *Model[Row]) Loading() bool { return m.loading }

// Err is the error of the last fetch, if it failed.
func (m *Model[Row]) Err() error { return m.err }

// Columns exposes the column set.
func (m *Model[Row]) Columns() *ColumnSet[Row] { return m.cols }

// Searching reports whether the search input has focus.
func (m *Model[Row]) Searching() bool { return m.searching }

// RequestID is the id of the latest fetch issued.
func (m *Model[Row]) RequestID() int { return m.requestID }

// Init loads persisted state and fetches the first page.
func (m *Model[Row]) Init() tea.Cmd {
	fallback := DefaultState()
	fallback.Limit = max(m.opts.defaultLimit, 1)
	m.closed = false
	m.state = m.store.LoadOr(m.id, fallback)
	m.input.SetValue(m.state.SearchText)
	m.store.Save(m.id, m.state)
	return m.fetchCmd()
}

// Close tears the table down: the in-flight fetch is cancelled and the
// persisted state removed.
func (m *Model[Row]) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.closed = true
	m.loading = false
	m.store.Clear(m.id)
}

// Update handles table messages. Keys are only interpreted when focused is
// true; fetch results and timers are always processed. A closed table
// ignores everything.
func (m *Model[Row]) Update(msg tea.Msg, focused bool) tea.Cmd {
	if m.closed {
		return nil
	}
	switch msg := msg.(type) {
	case PageLoadedMsg[Row]:
		return m.handleLoaded(msg)

	case DebounceMsg:
		text, ok := m.debouncer.Settle(msg)
		if !ok || text == m.state.SearchText {
			return nil
		}
		return m.commit(m.state.WithSearch(text))

	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if !focused {
			return nil
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model[Row]) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := m.opts.keys

	if m.searching {
		if key.Matches(msg, k.EndSearch) {
			m.searching = false
			m.input.Blur()
			return nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return cmd
		}
		return tea.Batch(cmd, m.SearchInput(m.input.Value()))
	}

	switch {
	case key.Matches(msg, k.Up):
		m.MoveUp()
	case key.Matches(msg, k.Down):
		m.MoveDown()
	case key.Matches(msg, k.NextPage):
		return m.NextPage()
	case key.Matches(msg, k.PrevPage):
		return m.PrevPage()
	case key.Matches(msg, k.FirstPage):
		return m.SetPage(1)
	case key.Matches(msg, k.LastPage):
		if pages := m.TotalPages(); pages > 0 {
			return m.SetPage(pages)
		}
	case key.Matches(msg, k.BiggerPage):
		return m.SetLimit(NextPageSize(m.state.Limit, true))
	case key.Matches(msg, k.SmallerPage):
		return m.SetLimit(NextPageSize(m.state.Limit, false))
	case key.Matches(msg, k.NextColumn):
		m.NextColumn()
	case key.Matches(msg, k.PrevColumn):
		m.PrevColumn()
	case key.Matches(msg, k.Sort):
		return m.ToggleSort(m.ActiveColumn().ID)
	case key.Matches(msg, k.ClearSort):
		return m.commit(m.state.WithSort(nil))
	case key.Matches(msg, k.HideColumn):
		m.ToggleColumn(m.ActiveColumn().ID)
	case key.Matches(msg, k.ShowColumns):
		m.ShowAllColumns()
	case key.Matches(msg, k.FilterValue):
		return m.FilterBySelectedValue()
	case key.Matches(msg, k.ClearFilter):
		return m.RemoveFilter(m.ActiveColumn().ID)
	case key.Matches(msg, k.Search):
		m.searching = true
		return m.input.Focus()
	case key.Matches(msg, k.Refresh):
		return m.Refresh()
	}
	return nil
}

// commit applies next, persists it and fetches. Unchanged state is a no-op.
func (m *Model[Row]) commit(next State) tea.Cmd {
	if m.closed || reflect.DeepEqual(next, m.state) {
		return nil
	}
	m.state = next
	m.store.Save(m.id, m.state)
	return m.fetchCmd()
}

// Refresh refetches the current page.
func (m *Model[Row]) Refresh() tea.Cmd {
	return m.fetchCmd()
}

func (m *Model[Row]) fetchCmd() tea.Cmd {
	if m.closed || m.fetch == nil {
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}

	m.requestID++
	m.loading = true

	id := m.requestID
	tableID := m.id
	params := BuildParams(m.state)
	fetch := m.fetch
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.timeout)
	m.cancel = cancel

	m.log().WithFields(logrus.Fields{"request": id, "page": params.Page, "limit": params.Limit}).Debug("fetching page")

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		defer cancel()
		page, err := fetch(ctx, params)
		return PageLoadedMsg[Row]{TableID: tableID, RequestID: id, Params: params, Page: page, Err: err}
	})
}

func (m *Model[Row]) handleLoaded(msg PageLoadedMsg[Row]) tea.Cmd {
	if msg.TableID != m.id || m.closed {
		return nil
	}
	if msg.RequestID != m.requestID {
		m.log().WithFields(logrus.Fields{"request": msg.RequestID, "latest": m.requestID}).Debug("dropping stale page")
		return nil
	}

	m.loading = false
	m.cancel = nil
	if msg.Err != nil {
		m.err = msg.Err
		m.log().WithError(msg.Err).Warn("fetch failed")
		return nil
	}

	m.err = nil
	m.loaded = true
	m.rows = msg.Page.Rows
	m.total = msg.Page.Total
	m.clampCursor()

	if pages := m.TotalPages(); pages > 0 && m.state.Page > pages {
		return m.commit(m.state.WithPage(pages))
	}
	return nil
}

// SetPage moves to page. Pages below 1 become 1; once the total is known
// pages past the end become the last page.
func (m *Model[Row]) SetPage(page int) tea.Cmd {
	page = max(page, 1)
	if pages := m.TotalPages(); m.loaded && pages > 0 {
		page = min(page, pages)
	}
	return m.commit(m.state.WithPage(page))
}

// NextPage advances one page; no-op on the last page.
func (m *Model[Row]) NextPage() tea.Cmd {
	if !CanNext(m.state.Page, m.TotalPages()) {
		return nil
	}
	return m.SetPage(m.state.Page + 1)
}

// PrevPage goes back one page; no-op on the first page.
func (m *Model[Row]) PrevPage() tea.Cmd {
	if !CanPrev(m.state.Page) {
		return nil
	}
	return m.SetPage(m.state.Page - 1)
}

// SetLimit changes the page size. The current page is kept.
func (m *Model[Row]) SetLimit(limit int) tea.Cmd {
	if limit < 1 {
		return nil
	}
	return m.commit(m.state.WithLimit(limit))
}

// ToggleSort cycles the sort of a sortable column.
func (m *Model[Row]) ToggleSort(columnID string) tea.Cmd {
	c, ok := m.cols.Lookup(columnID)
	if !ok || !c.Sortable {
		return nil
	}
	return m.commit(m.state.ToggleSort(columnID))
}

// SetFilter replaces the values of a column filter and returns to page 1.
func (m *Model[Row]) SetFilter(columnID string, values []any) tea.Cmd {
	return m.commit(m.state.SetFilter(columnID, values).WithPage(1))
}

// ToggleFilterValue adds or removes one value of a column filter.
func (m *Model[Row]) ToggleFilterValue(columnID string, v any) tea.Cmd {
	return m.commit(m.state.ToggleFilterValue(columnID, v).WithPage(1))
}

// RemoveFilter clears a column filter.
func (m *Model[Row]) RemoveFilter(columnID string) tea.Cmd {
	if _, ok := m.state.Filter(columnID); !ok {
		return nil
	}
	return m.commit(m.state.RemoveFilter(columnID).WithPage(1))
}

// FilterBySelectedValue toggles the selected row's value of the active
// column in that column's filter. Only filterable columns take part.
func (m *Model[Row]) FilterBySelectedValue() tea.Cmd {
	row, ok := m.Selected()
	if !ok {
		return nil
	}
	col := m.ActiveColumn()
	if !col.Filterable {
		return nil
	}
	v := col.Value(row)
	if v == nil || strings.TrimSpace(fmt.Sprint(v)) == "" {
		return nil
	}
	return m.ToggleFilterValue(col.ID, v)
}

// SearchInput feeds raw search text to the debouncer. The search only takes
// effect once the input has been still for the debounce delay.
func (m *Model[Row]) SearchInput(text string) tea.Cmd {
	return m.debouncer.Input(text)
}

// ToggleColumn shows or hides a column. No fetch is issued.
func (m *Model[Row]) ToggleColumn(columnID string) bool {
	changed := m.cols.Toggle(columnID)
	m.ensureVisibleActiveColumn()
	return changed
}

// ShowAllColumns makes every column visible.
func (m *Model[Row]) ShowAllColumns() {
	m.cols.ShowAll()
}

// SetHiddenColumns restores persisted column visibility.
func (m *Model[Row]) SetHiddenColumns(ids []string) {
	m.cols.SetHidden(ids)
	m.ensureVisibleActiveColumn()
}

// ActiveColumn is the column sort, hide and filter keys act on.
func (m *Model[Row]) ActiveColumn() Column[Row] {
	if m.cols.Len() == 0 {
		return Column[Row]{}
	}
	return m.cols.At(m.activeCol)
}

// SetActiveColumn focuses a visible column by id.
func (m *Model[Row]) SetActiveColumn(columnID string) bool {
	for i, c := range m.cols.All() {
		if c.ID == columnID && m.cols.IsVisible(c.ID) {
			m.activeCol = i
			return true
		}
	}
	return false
}

// NextColumn focuses the next visible column, wrapping around.
func (m *Model[Row]) NextColumn() {
	n := m.cols.Len()
	if n == 0 {
		return
	}
	start := m.activeCol
	for {
		m.activeCol = (m.activeCol + 1) % n
		if m.cols.IsVisible(m.cols.At(m.activeCol).ID) || m.activeCol == start {
			return
		}
	}
}

// PrevColumn focuses the previous visible column, wrapping around.
func (m *Model[Row]) PrevColumn() {
	n := m.cols.Len()
	if n == 0 {
		return
	}
	start := m.activeCol
	for {
		m.activeCol--
		if m.activeCol < 0 {
			m.activeCol = n - 1
		}
		if m.cols.IsVisible(m.cols.At(m.activeCol).ID) || m.activeCol == start {
			return
		}
	}
}

func (m *Model[Row]) ensureVisibleActiveColumn() {
	if m.cols.Len() == 0 || m.cols.IsVisible(m.cols.At(m.activeCol).ID) {
		return
	}
	if idxs := m.cols.VisibleIndexes(); len(idxs) > 0 {
		m.activeCol = idxs[0]
	}
}

// MoveDown moves the cursor down within the page.
func (m *Model[Row]) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

// MoveUp moves the cursor up within the page.
func (m *Model[Row]) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// JumpToTop selects the first row.
func (m *Model[Row]) JumpToTop() { m.cursor = 0 }

// JumpToBottom selects the last row.
func (m *Model[Row]) JumpToBottom() {
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
}

// Selected returns the row under the cursor.
func (m *Model[Row]) Selected() (Row, bool) {
	var zero Row
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return zero, false
	}
	return m.rows[m.cursor], true
}

func (m *Model[Row]) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor, 0), len(m.rows)-1)
}

// Frame runs a render pass over the current state.
func (m *Model[Row]) Frame() Frame {
	return Layout(RenderInput[Row]{
		Columns:      m.cols,
		Rows:         m.rows,
		Loading:      m.loading,
		Total:        m.total,
		State:        m.state,
		Cursor:       m.cursor,
		ActiveColumn: m.ActiveColumn().ID,
	})
}

// Meta summarises column, sort, filter and search for the status line.
func (m *Model[Row]) Meta() string {
	parts := []string{fmt.Sprintf("col %s", strings.ToUpper(m.ActiveColumn().Title()))}
	if s := m.state.Sort; s != nil {
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(s.Column), strings.ToLower(string(s.Order))))
	}
	for _, f := range m.state.Filters {
		vals := make([]string, len(f.Value))
		for i, v := range f.Value {
			vals[i] = fmt.Sprint(v)
		}
		parts = append(parts, fmt.Sprintf("filter %s=[%s]", strings.ToUpper(f.ID), strings.Join(vals, ",")))
	}
	if m.state.SearchText != "" {
		parts = append(parts, fmt.Sprintf("search %q", m.state.SearchText))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders search line, table and pager.
func (m *Model[Row]) View(width, height int) string {
	var sections []string
	if m.searching || m.input.Value() != "" {
		sections = append(sections, m.input.View())
	}
	sections = append(sections, m.Frame().View(width, m.spinner.View(), m.opts.styles))
	if m.err != nil {
		sections = append(sections, m.opts.styles.Error.Render("Fetch failed: "+m.err.Error()))
	}
	sections = append(sections, m.opts.styles.Status.Render(m.Meta()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
