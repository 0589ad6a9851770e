// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/styles"
)

// Row is one entry: a title with a right-aligned tag and a muted detail line.
type Row struct {
	Title  string
	Tag    string
	Detail string
}

// Rows displays rows in a navigable list.
type Rows struct {
	heading  string
	empty    string
	rows     []Row
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRows creates a list with a heading and a placeholder for the empty state.
func NewRows(s *styles.Styles, heading, empty string) *Rows {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Rows{
		heading: heading,
		empty:   empty,
		styles:  s,
		width:   80,
		height:  10,
	}
}

// Init initialises the list.
func (r *Rows) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *Rows) Update(msg tea.Msg) (*Rows, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *Rows) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render(r.empty)
	}

	lines := make([]string, 0, len(r.rows)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.heading, len(r.rows))), "")

	// Each row takes two lines
	visible := (r.height - 4) / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.rows) {
		end = len(r.rows)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, r.rows[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *Rows) renderRow(index int, row Row) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxTitle := r.width - len(row.Tag) - 8
	if maxTitle < 10 {
		maxTitle = 10
	}
	title := Truncate(row.Title, maxTitle)
	if title == "" {
		title = "(unnamed)"
	}

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitle, title, row.Tag))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitle, title)) +
			r.styles.Muted.Render(row.Tag)
	}

	maxDetail := r.width - 6
	if maxDetail < 20 {
		maxDetail = 20
	}
	detail := strings.Join(strings.Fields(row.Detail), " ")
	return titleLine + "\n" + r.styles.Muted.Render("    "+Truncate(detail, maxDetail))
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetRows replaces the rows and keeps the selection in range.
func (r *Rows) SetRows(rows []Row) {
	r.rows = rows
	if r.selected >= len(rows) {
		r.selected = len(rows) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}

// Selected returns the index of the selected row.
func (r *Rows) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *Rows) SetSelected(index int) {
	if index >= 0 && index < len(r.rows) {
		r.selected = index
	}
}

// SelectedRow returns the selected row, or nil when empty.
func (r *Rows) SelectedRow() *Row {
	if len(r.rows) == 0 || r.selected < 0 || r.selected >= len(r.rows) {
		return nil
	}
	return &r.rows[r.selected]
}

// MoveUp moves selection up.
func (r *Rows) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *Rows) MoveDown() {
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *Rows) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *Rows) Width() int {
	return r.width
}

// Height returns the current height.
func (r *Rows) Height() int {
	return r.height
}

// Count returns the number of rows.
func (r *Rows) Count() int {
	return len(r.rows)
}

// IsEmpty returns whether the list is empty.
func (r *Rows) IsEmpty() bool {
	return len(r.rows) == 0
}
