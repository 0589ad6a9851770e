// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/descheck/internal/core/domain"
)

// Bar displays the pipeline stage, the session and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	stage    domain.Stage
	message  string
	loggedIn bool
	hints    []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		stage:  domain.StageIdle,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the session badge and the stage.
func (s *Bar) renderLeft() string {
	badge := s.styles.SessionBadge(s.loggedIn)

	stage := s.stage.Description()
	if s.stage.IsBusy() {
		stage += "..."
	}
	text := s.styles.ForStage(s.stage).Render(stage)
	if s.message != "" {
		text += " " + s.styles.ForStage(s.stage).Render(s.message)
	}
	return badge + " " + text
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.hints
	if len(bindings) == 0 {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState shows a pipeline state. A failure message is displayed next to the stage.
func (s *Bar) SetState(state domain.PipelineState) {
	s.stage = state.Stage
	s.message = state.Message
}

// Stage returns the displayed stage.
func (s *Bar) Stage() domain.Stage {
	return s.stage
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetLoggedIn sets the session badge.
func (s *Bar) SetLoggedIn(loggedIn bool) {
	s.loggedIn = loggedIn
}

// LoggedIn reports the session badge state.
func (s *Bar) LoggedIn() bool {
	return s.loggedIn
}

// SetHints overrides the keybinding hints. Nil restores the defaults.
func (s *Bar) SetHints(bindings []key.Binding) {
	s.hints = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the stage and message. The session badge is kept.
func (s *Bar) Clear() {
	s.stage = domain.StageIdle
	s.message = ""
}
