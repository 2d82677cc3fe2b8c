package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"erp/internal/model"
	"erp/internal/table"

	tea "github.com/charmbracelet/bubbletea"
)

// tableController is what the shell needs from a hosted table, whatever its
// row type.
type tableController interface {
	ID() string
	Screen() model.Screen
	Init() tea.Cmd
	Update(msg tea.Msg, focused bool) tea.Cmd
	View(width, height int) string
	Searching() bool
	Loading() bool
	Refresh() tea.Cmd
	JumpToTop()
	JumpToBottom()
	Close()

	Route() string
	DeleteSelected() tea.Cmd
	DeleteAction(msg model.RowDeletedMsg) (undoAction, bool)
	Prefs() TablePrefs
	ApplyPrefs(p TablePrefs)
}

// resourceTable binds a table to the resource that feeds it.
type resourceTable[Row model.Identified] struct {
	*table.Model[Row]
	screen  model.Screen
	res     model.Resource[Row]
	label   func(Row) string
	timeout time.Duration
}

func newResourceTable[Row model.Identified](
	screen model.Screen,
	res model.Resource[Row],
	cols []table.Column[Row],
	label func(Row) string,
	store *table.Store,
	timeout time.Duration,
	opts ...table.Option,
) *resourceTable[Row] {
	if timeout <= 0 {
		timeout = table.DefaultFetchTimeout
	}
	return &resourceTable[Row]{
		Model:   table.New(res.Name(), cols, table.FetchFunc[Row](res.List), store, opts...),
		screen:  screen,
		res:     res,
		label:   label,
		timeout: timeout,
	}
}

func (t *resourceTable[Row]) Screen() model.Screen { return t.screen }

// Route is the screen route, extended with the selected row id.
func (t *resourceTable[Row]) Route() string {
	row, ok := t.Selected()
	if !ok {
		return t.screen.Route()
	}
	return t.screen.Route() + "/" + strconv.FormatInt(row.RowID(), 10)
}

// DeleteSelected deletes the row under the cursor through the resource.
func (t *resourceTable[Row]) DeleteSelected() tea.Cmd {
	row, ok := t.Selected()
	if !ok {
		return nil
	}
	res, screen, timeout := t.res, t.screen, t.timeout
	label := t.label(row)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := res.Delete(ctx, row.RowID()); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delete %s: %w", label, err)}
		}
		return model.RowDeletedMsg{Screen: screen, ID: row.RowID(), Label: label, Row: row}
	}
}

// DeleteAction builds the undo entry for a row this table deleted.
func (t *resourceTable[Row]) DeleteAction(msg model.RowDeletedMsg) (undoAction, bool) {
	row, ok := msg.Row.(Row)
	if !ok || msg.Screen != t.screen {
		return undoAction{}, false
	}
	res := t.res
	return undoAction{
		label:  msg.Label + " deleted",
		screen: t.screen,
		undo: func(ctx context.Context) error {
			return res.Restore(ctx, row)
		},
		redo: func(ctx context.Context) error {
			return res.Delete(ctx, row.RowID())
		},
	}, true
}

func (t *resourceTable[Row]) Prefs() TablePrefs {
	hidden := t.Columns().Hidden()
	if hidden == nil {
		hidden = []string{}
	}
	return TablePrefs{
		HiddenColumns: hidden,
		ActiveColumn:  t.ActiveColumn().ID,
	}
}

func (t *resourceTable[Row]) ApplyPrefs(p TablePrefs) {
	if p.HiddenColumns != nil {
		t.SetHiddenColumns(p.HiddenColumns)
	}
	if p.ActiveColumn != "" {
		t.SetActiveColumn(p.ActiveColumn)
	}
}
