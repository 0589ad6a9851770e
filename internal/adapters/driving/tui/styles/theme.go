// Package styles holds the palette and lipgloss styles shared by the TUI views.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// Theme is the colour palette the styles are derived from.
type Theme struct {
	Accent    lipgloss.Color // titles and selection
	Highlight lipgloss.Color // focus and result borders
	Text      lipgloss.Color
	Dim       lipgloss.Color
	Panel     lipgloss.Color // status bar background
	Edge      lipgloss.Color // borders
	Good      lipgloss.Color
	Caution   lipgloss.Color
	Bad       lipgloss.Color
}

// DefaultTheme returns the dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#7C3AED"),
		Highlight: lipgloss.Color("#22D3EE"),
		Text:      lipgloss.Color("#E5E7EB"),
		Dim:       lipgloss.Color("#71717A"),
		Panel:     lipgloss.Color("#18181B"),
		Edge:      lipgloss.Color("#3F3F46"),
		Good:      lipgloss.Color("#4ADE80"),
		Caution:   lipgloss.Color("#FACC15"),
		Bad:       lipgloss.Color("#F87171"),
	}
}

// Styles are the rendered styles for one theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// Form fields. Labels share a fixed width so inputs line up.
	InputField   lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style

	Border    lipgloss.Style
	Result    lipgloss.Style
	StatusBar lipgloss.Style
	Badge     lipgloss.Style
}

const labelWidth = 12

// NewStyles derives styles from theme, or the default theme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	rounded := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c)
	}

	return &Styles{
		theme: theme,

		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.Highlight).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Dim),
		Help:     fg(theme.Dim).Italic(true),
		Selected: fg(theme.Text).Background(theme.Accent).Bold(true),

		Error:   fg(theme.Bad),
		Success: fg(theme.Good),
		Warning: fg(theme.Caution),

		InputField:   rounded(theme.Edge).Padding(0, 1),
		Label:        fg(theme.Dim).Width(labelWidth),
		FocusedLabel: fg(theme.Highlight).Bold(true).Width(labelWidth),

		Border:    rounded(theme.Edge),
		Result:    rounded(theme.Highlight).Padding(0, 1),
		StatusBar: fg(theme.Dim).Background(theme.Panel).Padding(0, 1),
		Badge:     lipgloss.NewStyle().Bold(true).Padding(0, 1),
	}
}

// DefaultStyles returns styles for the default theme.
func DefaultStyles() *Styles {
	return NewStyles(nil)
}

// Theme returns the palette behind s.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// ForStage picks the style for a pipeline stage: busy stages render as
// warnings, terminal stages as success or error.
func (s *Styles) ForStage(stage domain.Stage) lipgloss.Style {
	switch {
	case stage == domain.StageSucceeded:
		return s.Success
	case stage == domain.StageFailed:
		return s.Error
	case stage.IsBusy():
		return s.Warning
	default:
		return s.Muted
	}
}

// ForMatch picks the style for a verify verdict.
func (s *Styles) ForMatch(match bool) lipgloss.Style {
	if match {
		return s.Success.Bold(true)
	}
	return s.Error.Bold(true)
}

// SessionBadge renders the signed-in marker.
func (s *Styles) SessionBadge(loggedIn bool) string {
	if loggedIn {
		return s.Badge.Foreground(s.theme.Good).Render("signed in")
	}
	return s.Badge.Foreground(s.theme.Dim).Render("signed out")
}
