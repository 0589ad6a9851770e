// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
	"github.com/custodia-labs/descheck/internal/core/services"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Item is one editable setting.
type Item struct {
	Key   string
	Label string
	Bool  bool
}

// Items lists the settings in display order.
var Items = []Item{
	{Key: services.KeyAPIBaseURL, Label: "Service URL"},
	{Key: services.KeySocialBaseURL, Label: "Post service URL"},
	{Key: services.KeyStepTimeout, Label: "Step timeout"},
	{Key: services.KeyRequestsPerSec, Label: "Requests per second"},
	{Key: services.KeyBurst, Label: "Request burst"},
	{Key: services.KeyCacheSize, Label: "Post cache size"},
	{Key: services.KeyCacheTTL, Label: "Post cache TTL"},
	{Key: services.KeyHistoryEnabled, Label: "Record history", Bool: true},
}

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	notice   string

	selected int
	editing  bool
	field    *input.Field

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		field:           input.NewField(s, "Value", ""),
		width:           80,
		height:          24,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := service.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved. Network settings apply on next start."
		// Reload settings after save
		return v, v.loadSettings()

	case messages.ConfigReloaded:
		if v.editing {
			return v, nil
		}
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(Items)-1 {
			v.selected++
		}
	case "enter":
		if v.settings == nil {
			return v, nil
		}
		item := Items[v.selected]
		v.notice = ""
		if item.Bool {
			current := services.SettingValue(v.settings, item.Key) == "true"
			return v, v.save(item.Key, fmt.Sprintf("%t", !current))
		}
		v.editing = true
		v.field.SetLabel(item.Label)
		v.field.SetValue(services.SettingValue(v.settings, item.Key))
		return v, v.field.Focus()
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.stopEditing()
		return v, nil
	case "enter":
		key, value := Items[v.selected].Key, v.field.Value()
		v.stopEditing()
		return v, v.save(key, value)
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func (v *View) stopEditing() {
	v.editing = false
	v.field.Blur()
	v.field.Reset()
}

// save applies one value to a copy of the settings and persists it.
func (v *View) save(key, value string) tea.Cmd {
	service := v.settingsService
	if service == nil || v.settings == nil {
		return func() tea.Msg { return messages.SettingsSaved{Err: ErrNoSettingsService} }
	}
	updated := *v.settings
	return func() tea.Msg {
		if err := services.ApplySetting(&updated, key, value); err != nil {
			return messages.SettingsSaved{Err: err}
		}
		return messages.SettingsSaved{Err: service.Save(&updated)}
	}
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Settings"), ""}

	if v.settings == nil {
		if v.err != nil {
			sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
		} else {
			sections = append(sections, v.styles.Muted.Render("Loading..."))
		}
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	lines := make([]string, 0, len(Items))
	for i, item := range Items {
		value := services.SettingValue(v.settings, item.Key)
		if value == "" {
			value = "(default)"
		}
		if item.Key == services.KeyStepTimeout && v.settings.Pipeline.StepTimeout == 0 {
			value = "off"
		}
		line := fmt.Sprintf("%-22s %s", item.Label, value)
		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render("> "+line))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+line))
		}
	}
	sections = append(sections, strings.Join(lines, "\n"), "")

	if v.editing {
		sections = append(sections, v.field.View(), "")
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	} else if v.notice != "" {
		sections = append(sections, v.styles.Success.Render(v.notice), "")
	}

	help := "[j/k] Navigate  [Enter] Edit  [Esc] Back"
	if v.editing {
		help = "[Enter] Save  [Esc] Cancel"
	}
	sections = append(sections, v.styles.Help.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.field.SetWidth(width)
}

// Reset returns to the list.
func (v *View) Reset() {
	v.stopEditing()
	v.selected = 0
	v.err = nil
	v.notice = ""
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
