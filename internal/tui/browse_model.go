// Package tui implements the interactive record browser.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/listkit/listkit/internal/listdata"
	"github.com/listkit/listkit/internal/records"
	"github.com/listkit/listkit/internal/sortspec"
)

// ViewState represents the current view mode of the browser.
type ViewState int

const (
	// ViewStateList shows the record table with pagination.
	ViewStateList ViewState = iota
	// ViewStateJump shows the jump-to-page input.
	ViewStateJump
	// ViewStateQuitting means the browser is shutting down.
	ViewStateQuitting
	// ViewStateError means the browser hit an unrecoverable error.
	ViewStateError
)

// Key bindings.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyLeft      = "left"
	keyRight     = "right"
	keyCycleSort = "s"
	keyToggleDir = "S"
	keyJump      = "g"
)

// Layout constants.
const (
	defaultWidth  = 100
	defaultHeight = 30

	colWidthKey     = 12
	colWidthDefault = 16
	tableChromeRows = 8

	jumpInputCharLimit = 6
	jumpInputWidth     = 10
)

// Styles.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	pagerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pageStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// BrowseModel is the Bubble Tea model for paging through records.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowseModel struct {
	// Data
	provider *listdata.Provider[records.Record]
	items    []records.Record
	columns  []string

	// Query state
	sortParam string
	page      int
	limit     int
	desc      bool

	// Current page
	current listdata.Page[records.Record]

	// Interactive components
	state     ViewState
	table     table.Model
	textInput textinput.Model

	// Display configuration
	width  int
	height int

	err error
}

// NewBrowseModel builds a browser over items and computes the initial page.
func NewBrowseModel(
	provider *listdata.Provider[records.Record],
	items []records.Record,
	columns []string,
	q listdata.Query,
) (*BrowseModel, error) {
	m := &BrowseModel{
		provider:  provider,
		items:     items,
		columns:   columns,
		sortParam: q.Sort,
		page:      q.Page,
		limit:     q.Limit,
		desc:      q.Desc,
		state:     ViewStateList,
		textInput: newJumpInput(),
		width:     defaultWidth,
		height:    defaultHeight,
	}

	if err := m.refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

// newJumpInput creates the text input for jump-to-page.
func newJumpInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "page number"
	ti.CharLimit = jumpInputCharLimit
	ti.Width = jumpInputWidth
	return ti
}

// Err returns the error the browser stopped with, if any.
func (m BrowseModel) Err() error {
	return m.err
}

// refresh recomputes the current page and rebuilds the table.
func (m *BrowseModel) refresh() error {
	page, err := m.provider.GetPage(m.items, listdata.Query{
		Sort:  m.sortParam,
		Page:  m.page,
		Limit: m.limit,
		Desc:  m.desc,
	})
	if err != nil {
		return err
	}

	m.current = page
	if page.State != nil {
		// Keep the query in sync with the clamped page.
		m.page = page.State.PageCurrent
	}
	m.rebuildTable()
	return nil
}

// rebuildTable reconstructs the table with the current page.
func (m *BrowseModel) rebuildTable() {
	columns := make([]table.Column, 0, len(m.columns)+1)
	columns = append(columns, table.Column{Title: "Key", Width: colWidthKey})
	for _, col := range m.columns {
		columns = append(columns, table.Column{Title: col, Width: colWidthDefault})
	}

	rows := make([]table.Row, len(m.current.Items))
	for i, rec := range m.current.Items {
		row := make(table.Row, 0, len(m.columns)+1)
		row = append(row, m.current.Keys[i])
		for _, col := range m.columns {
			v := records.Value(rec, col)
			if v == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%v", v))
		}
		rows[i] = row
	}

	height := m.height - tableChromeRows
	if height < len(rows)+1 {
		height = len(rows) + 1
	}

	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
}

// Init initializes the model (Bubble Tea interface).
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildTable()
		return m, nil
	}

	switch m.state {
	case ViewStateJump:
		return m.handleJumpInput(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateQuitting, ViewStateError:
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m BrowseModel) handleJumpInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter:
			m.state = ViewStateList
			m.textInput.Blur()
			// Pages are presented one-based; out-of-range values clamp.
			if n, err := strconv.Atoi(strings.TrimSpace(m.textInput.Value())); err == nil {
				m.page = n - 1
				return m.applyRefresh()
			}
			return m, nil
		case keyEsc:
			m.state = ViewStateList
			m.textInput.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m BrowseModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyLeft:
		if st := m.current.State; st != nil {
			m.page = st.PagePrev
			return m.applyRefresh()
		}
		return m, nil
	case keyRight:
		if st := m.current.State; st != nil {
			m.page = st.PageNext
			return m.applyRefresh()
		}
		return m, nil
	case keyCycleSort:
		m.cycleSortAttribute()
		return m.applyRefresh()
	case keyToggleDir:
		m.toggleSortDirection()
		return m.applyRefresh()
	case keyJump:
		m.state = ViewStateJump
		m.textInput.SetValue("")
		m.textInput.Focus()
		return m, textinput.Blink
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

// applyRefresh recomputes the page, moving to the error state on failure.
func (m BrowseModel) applyRefresh() (tea.Model, tea.Cmd) {
	if err := m.refresh(); err != nil {
		m.err = err
		m.state = ViewStateError
		return m, tea.Quit
	}
	return m, nil
}

// cycleSortAttribute advances the primary sort to the next configured
// attribute, resetting to the first page.
func (m *BrowseModel) cycleSortAttribute() {
	spec := m.provider.Spec
	if spec == nil {
		return
	}
	names := spec.AttributeNames()
	if len(names) == 0 {
		return
	}

	next := names[0]
	if len(m.current.Order) > 0 {
		for i, name := range names {
			if name == m.current.Order[0].Attribute {
				next = names[(i+1)%len(names)]
				break
			}
		}
	}

	// Sorting by the new attribute in its default direction.
	if sorted, err := spec.Toggle("", next); err == nil {
		m.sortParam = sorted
		m.page = 0
	}
}

// toggleSortDirection flips the direction of the primary sort attribute.
func (m *BrowseModel) toggleSortDirection() {
	spec := m.provider.Spec
	if spec == nil || len(m.current.Order) == 0 {
		return
	}

	if sorted, err := spec.Toggle(m.sortParam, m.current.Order[0].Attribute); err == nil {
		m.sortParam = sorted
		m.page = 0
	}
}

// View renders the current view (Bubble Tea interface).
func (m BrowseModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return fmt.Sprintf("Error: %v\n", m.err)
	case ViewStateJump:
		return m.renderList("Go to page: " + m.textInput.View())
	default:
		return m.renderList(m.helpText())
	}
}

func (m BrowseModel) renderList(footer string) string {
	title := titleStyle.Render(fmt.Sprintf("listkit — %d records", m.current.TotalCount))

	sections := []string{title, m.table.View(), m.renderPager()}
	if label := sortLabel(m.current.Order); label != "" {
		sections = append(sections, pagerStyle.Render("Sorted by "+label))
	}
	sections = append(sections, footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPager renders the visible page window, one-based, with the current
// page highlighted. With descending page order the window is presented in
// reverse so page 1 appears last.
func (m BrowseModel) renderPager() string {
	st := m.current.State
	if st == nil || st.PageCount == 0 {
		return pagerStyle.Render("No pages")
	}

	pages := make([]int, 0, st.WindowTo-st.WindowFrom+1)
	for p := st.WindowFrom; p <= st.WindowTo; p++ {
		pages = append(pages, p)
	}
	if m.desc {
		for i, j := 0, len(pages)-1; i < j; i, j = i+1, j-1 {
			pages[i], pages[j] = pages[j], pages[i]
		}
	}

	parts := make([]string, 0, len(pages)+2)
	parts = append(parts, pagerStyle.Render("‹"))
	for _, p := range pages {
		label := strconv.Itoa(p + 1)
		if p == st.PageCurrent {
			parts = append(parts, pageStyle.Render(label))
		} else {
			parts = append(parts, pagerStyle.Render(label))
		}
	}
	parts = append(parts, pagerStyle.Render("›"))

	return strings.Join(parts, " ")
}

func (m BrowseModel) helpText() string {
	return helpStyle.Render("[←→] Page  [s] Sort attribute  [S] Direction  [g] Go to page  [q] Quit")
}

// sortLabel renders the applied order, e.g. "asc age, desc name".
func sortLabel(order []sortspec.Entry) string {
	parts := make([]string, 0, len(order))
	for _, e := range order {
		parts = append(parts, string(e.Direction)+" "+e.Attribute)
	}
	return strings.Join(parts, ", ")
}
