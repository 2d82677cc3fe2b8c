package ui

import (
	"reflect"
	"strings"
	"time"

	"erp/internal/analytics"
	"erp/internal/logging"
	"erp/internal/model"
	"erp/internal/table"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the application shell.
type Options struct {
	PageSize     int
	Debounce     time.Duration
	FetchTimeout time.Duration
	Embed        analytics.Embed
	// PrefsDir holds ui_prefs.json. Empty disables preference files.
	PrefsDir string
	// KeepState leaves table state in the store on quit.
	KeepState bool
	Now       func() time.Time
}

var tabOrder = []model.Screen{
	model.ScreenUsers,
	model.ScreenOrders,
	model.ScreenCategories,
	model.ScreenDashboard,
}

// Model is the root application model.
type Model struct {
	opts      Options
	tables    []tableController
	dashboard *dashboardView

	screen      model.Screen
	width       int
	height      int
	error       string
	info        string
	showingHelp bool
	quitting    bool
	keys        KeyMap
	gState      GState
	prefs       UIPreferences

	undoStack []undoAction
	redoStack []undoAction
}

// New creates the application. Every list tab hosts a table that stays
// mounted while other tabs are shown.
func New(sources model.Sources, store *table.Store, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = table.DefaultFetchTimeout
	}

	tableOpts := []table.Option{table.WithFetchTimeout(opts.FetchTimeout)}
	if opts.Debounce > 0 {
		tableOpts = append(tableOpts, table.WithDebounce(opts.Debounce))
	}
	if opts.PageSize > 0 {
		tableOpts = append(tableOpts, table.WithDefaultLimit(opts.PageSize))
	}

	m := Model{
		opts: opts,
		tables: []tableController{
			newResourceTable(model.ScreenUsers, sources.Users, userColumns(opts.Now), userLabel, store, opts.FetchTimeout, tableOpts...),
			newResourceTable(model.ScreenOrders, sources.Orders, orderColumns(), orderLabel, store, opts.FetchTimeout, tableOpts...),
			newResourceTable(model.ScreenCategories, sources.Categories, categoryColumns(), categoryLabel, store, opts.FetchTimeout, tableOpts...),
		},
		dashboard: &dashboardView{embed: opts.Embed},
		screen:    model.ScreenUsers,
		keys:      DefaultKeyMap(),
		prefs:     loadUIPreferences(opts.PrefsDir),
	}

	for _, t := range m.tables {
		if p, ok := m.prefs.Tables[t.ID()]; ok {
			t.ApplyPrefs(p)
		}
	}
	for _, s := range tabOrder {
		if strings.EqualFold(s.Title(), m.prefs.LastTab) {
			m.screen = s
		}
	}
	m.dashboard.sign(opts.Now())
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.tables))
	for _, t := range m.tables {
		cmds = append(cmds, t.Init())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.showingHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
				m.showingHelp = false
			}
			return m, nil
		}
		if t := m.currentTable(); t != nil && t.Searching() {
			return m, t.Update(msg, true)
		}
		return m.handleNavMode(msg)

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		m.info = ""
		return m, nil

	case model.InfoMsg:
		m.info = msg.Text
		m.error = ""
		return m, nil

	case model.RowDeletedMsg:
		t := m.tableFor(msg.Screen)
		if t == nil {
			return m, nil
		}
		if action, ok := t.DeleteAction(msg); ok {
			m.pushUndoAction(action)
		}
		m.info = "Deleted " + msg.Label + " (u to undo)"
		m.error = ""
		return m, t.Refresh()

	case undoAppliedMsg:
		cmd := m.applyUndoResult(msg)
		return m, cmd
	}

	// Fetch results, debounce timers and spinner ticks reach every table so
	// background tabs keep loading. Each table ignores messages of others.
	cmds := make([]tea.Cmd, 0, len(m.tables))
	for _, t := range m.tables {
		cmds = append(cmds, t.Update(msg, false))
	}
	return m, tea.Batch(cmds...)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Help):
		m.showingHelp = true
		return m, nil
	case key.Matches(msg, k.NextTab):
		return m.switchTab(1)
	case key.Matches(msg, k.PrevTab):
		return m.switchTab(-1)
	case key.Matches(msg, k.Users):
		return m.setScreen(model.ScreenUsers)
	case key.Matches(msg, k.Orders):
		return m.setScreen(model.ScreenOrders)
	case key.Matches(msg, k.Categories):
		return m.setScreen(model.ScreenCategories)
	case key.Matches(msg, k.Dashboard):
		return m.setScreen(model.ScreenDashboard)
	case key.Matches(msg, k.Undo):
		if len(m.undoStack) == 0 {
			m.info = "Nothing to undo"
			return m, nil
		}
		cmd := m.undoCmd()
		return m, cmd
	case key.Matches(msg, k.Redo):
		if len(m.redoStack) == 0 {
			m.info = "Nothing to redo"
			return m, nil
		}
		cmd := m.redoCmd()
		return m, cmd
	}

	if m.screen == model.ScreenDashboard {
		return m.handleDashboardNav(msg)
	}

	t := m.currentTable()
	if t == nil {
		return m, nil
	}

	// Handle "gg" state machine
	if key.Matches(msg, k.Top) {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			t.JumpToTop()
			return m, nil
		}
		m.gState = GStateFirstG
		return m, nil
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, k.Bottom):
		t.JumpToBottom()
		return m, nil
	case key.Matches(msg, k.Delete):
		cmd := t.DeleteSelected()
		if cmd == nil {
			m.info = "Nothing selected"
		}
		return m, cmd
	}

	cmd := t.Update(msg, true)
	m.persistTablePrefs(t)
	return m, cmd
}

func (m Model) handleDashboardNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Copy):
		cmd := m.dashboard.copyCmd()
		if cmd == nil {
			m.info = "No dashboard URL to copy"
		}
		return m, cmd
	case key.Matches(msg, m.keys.Reload):
		m.dashboard.sign(m.opts.Now())
		if m.dashboard.err == nil {
			m.info = "Dashboard URL re-signed"
		}
	}
	return m, nil
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	idx := 0
	for i, s := range tabOrder {
		if s == m.screen {
			idx = i
		}
	}
	idx = (idx + delta + len(tabOrder)) % len(tabOrder)
	return m.setScreen(tabOrder[idx])
}

func (m Model) setScreen(s model.Screen) (tea.Model, tea.Cmd) {
	if s == m.screen {
		return m, nil
	}
	m.screen = s
	m.gState = GStateIdle
	m.error = ""
	m.info = ""
	if s == model.ScreenDashboard && m.dashboard.expired(m.opts.Now()) {
		m.dashboard.sign(m.opts.Now())
	}
	m.prefs.LastTab = strings.ToLower(s.Title())
	m.savePrefs()
	return m, nil
}

// quit saves preferences and, unless state is kept, tears every table down
// so the next session starts from defaults.
func (m Model) quit() (tea.Model, tea.Cmd) {
	for _, t := range m.tables {
		m.persistTablePrefs(t)
		if !m.opts.KeepState {
			t.Close()
		}
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) currentTable() tableController {
	return m.tableFor(m.screen)
}

func (m *Model) tableFor(s model.Screen) tableController {
	for _, t := range m.tables {
		if t.Screen() == s {
			return t
		}
	}
	return nil
}

func (m *Model) persistTablePrefs(t tableController) {
	p := t.Prefs()
	if prev, ok := m.prefs.Tables[t.ID()]; ok && reflect.DeepEqual(prev, p) {
		return
	}
	m.prefs.Tables[t.ID()] = p
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if err := saveUIPreferences(m.opts.PrefsDir, m.prefs); err != nil {
		logging.Log.WithError(err).Warn("failed to save ui preferences")
	}
}

func (m Model) mode() model.Mode {
	if t := m.currentTable(); t != nil && t.Searching() {
		return model.ModeSearch
	}
	return model.ModeNav
}

// route is the slash path shown as breadcrumbs.
func (m Model) route() string {
	if t := m.currentTable(); t != nil {
		return t.Route()
	}
	return m.screen.Route()
}

func (m Model) View() string {
	if m.quitting || m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	header := renderHeader(Breadcrumbs(m.route()), m.opts.Now(), m.width)
	tabs := renderTabs(m.tables, m.screen, m.width)
	footer := RenderHelp(m.screen, m.mode(), m.width)

	sections := []string{header, tabs}
	if m.error != "" {
		sections = append(sections, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		sections = append(sections, SuccessStyle.Width(m.width).Render(m.info))
	}

	used := 0
	for _, s := range sections {
		used += lipgloss.Height(s)
	}
	contentHeight := max(m.height-used-lipgloss.Height(footer), 1)

	var content string
	if t := m.currentTable(); t != nil {
		content = t.View(m.width, contentHeight)
	} else {
		content = m.dashboard.View(m.width, contentHeight, m.opts.Now())
	}

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	sections = append(sections, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderTabs(tables []tableController, screen model.Screen, width int) string {
	var tabStrings []string
	for _, s := range tabOrder {
		name := s.Title()
		for _, t := range tables {
			if t.Screen() == s && t.Loading() {
				name += " ⋯"
			}
		}

		style := TabStyle
		if s == screen {
			style = ActiveTabStyle
		}
		tabStrings = append(tabStrings, style.Render(name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return TabBarStyle.Width(width).Render(tabBar)
}

func renderHeader(crumbs []Crumb, now time.Time, width int) string {
	left := "  " + HeaderStyle.Render("erp") + " " + RenderBreadcrumbs(crumbs)
	right := BreadcrumbStyle.Render(now.Format("Mon 02 Jan")) + "  "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}
