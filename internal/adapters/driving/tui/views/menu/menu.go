// Package menu is the TUI start screen.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/styles"
)

// Item is one menu entry.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

var defaultItems = []Item{
	{Label: "Verify description", Hint: "Check a description against an image", View: messages.ViewVerify},
	{Label: "Describe image", Hint: "Have the service write a description", View: messages.ViewDescribe},
	{Label: "Uploaded files", Hint: "Browse and delete stored uploads", View: messages.ViewFiles},
	{Label: "History", Hint: "Runs recorded on this machine", View: messages.ViewHistory},
	{Label: "Settings", Hint: "Service URLs, timeouts and cache", View: messages.ViewSettings},
	{Label: "Help", Hint: "Keys and input kinds", View: messages.ViewHelp},
	{Label: "Quit", Quit: true},
}

// View is the start screen model.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	items    []Item
	selected int

	// loggedIn is nil until the first session check.
	loggedIn *bool

	width, height int
	ready         bool
}

// NewView creates the menu with the cursor on the first entry.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		items:  defaultItems,
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and opens the chosen view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.SessionChecked:
		loggedIn := msg.LoggedIn
		v.loggedIn = &loggedIn

	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}
	return v, nil
}

func (v *View) handleKey(k string) tea.Cmd {
	switch {
	case keymap.Matches(k, v.keys.Up):
		v.selected = max(v.selected-1, 0)
	case keymap.Matches(k, v.keys.Down):
		v.selected = min(v.selected+1, len(v.items)-1)
	case keymap.Matches(k, v.keys.Select):
		return v.choose(v.selected)
	case keymap.Matches(k, v.keys.Help):
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keys.Quit):
		return tea.Quit
	case len(k) == 1 && k[0] >= '1' && int(k[0]-'1') < len(v.items):
		v.selected = int(k[0] - '1')
		return v.choose(v.selected)
	}
	return nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("descheck"))
	if v.loggedIn != nil {
		b.WriteString(" " + v.styles.SessionBadge(*v.loggedIn))
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Check images against their descriptions"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%d. %s", i+1, item.Label)
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(label))
			if item.Hint != "" {
				b.WriteString("  " + v.styles.Muted.Render(item.Hint))
			}
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		b.WriteString("\n")
	}

	if v.loggedIn != nil && !*v.loggedIn {
		b.WriteString("\n" + v.styles.Warning.Render("Run 'descheck login' to analyze images.") + "\n")
	}

	b.WriteString("\n" + v.styles.Help.Render("j/k move  enter select  1-7 jump  ? help  q quit"))
	return b.String()
}

// SetDimensions records the terminal size and marks the view ready.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor index.
func (v *View) Selected() int {
	return v.selected
}
