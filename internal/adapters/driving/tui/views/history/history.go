// Package history provides the local run history view for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// DefaultLimit is how many runs the view loads.
const DefaultLimit = 50

// ErrHistoryDisabled is reported when no history service is configured.
var ErrHistoryDisabled = errors.New("run history is disabled")

// View lists recorded runs, newest first.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	list      *list.Rows

	service driving.HistoryService
	ctx     context.Context

	runs       []domain.RunRecord
	confirming bool
	detail     bool
	loading    bool
	err        error

	width  int
	height int
	ready  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km),
		list:      list.NewRows(s, "Runs", "No runs recorded yet."),
		service:   service,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(km.ListHelp())
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads recent runs.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.confirming = false
	v.detail = false
	return v.loadRuns()
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.runs = msg.Runs
		v.list.SetRows(rows(msg.Runs))
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.runs = nil
		v.list.SetRows(nil)
		v.statusbar.SetMessage("History cleared")
		return v, nil

	case messages.StateChanged:
		// A finished run lands in the store after its final transition.
		if msg.Change.To.Stage.IsTerminal() {
			return v, v.loadRuns()
		}
		return v, nil

	case messages.SessionChecked:
		v.statusbar.SetLoggedIn(msg.LoggedIn)
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if v.confirming {
		v.confirming = false
		if keyStr == "y" {
			return v, v.clearRuns()
		}
		return v, nil
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		if v.detail {
			v.detail = false
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(keyStr, v.keymap.Refresh):
		v.loading = true
		return v, v.loadRuns()
	case keymap.Matches(keyStr, v.keymap.Delete):
		v.confirming = len(v.runs) > 0
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Select):
		v.detail = v.selected() != nil && !v.detail
		return v, nil
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) loadRuns() tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.HistoryLoaded{Err: ErrHistoryDisabled}
		}
		runs, err := service.List(ctx, DefaultLimit)
		return messages.HistoryLoaded{Runs: runs, Err: err}
	}
}

func (v *View) clearRuns() tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.HistoryCleared{Err: ErrHistoryDisabled}
		}
		return messages.HistoryCleared{Err: service.Clear(ctx)}
	}
}

func (v *View) selected() *domain.RunRecord {
	i := v.list.Selected()
	if i < 0 || i >= len(v.runs) {
		return nil
	}
	r := v.runs[i]
	return &r
}

func rows(runs []domain.RunRecord) []list.Row {
	out := make([]list.Row, 0, len(runs))
	for _, r := range runs {
		tag := fmt.Sprintf("%s · %s", r.Variant, r.Stage)
		if !r.StartedAt.IsZero() {
			tag += " · " + humanize.Time(r.StartedAt)
		}
		detail := r.Result
		if r.Stage == domain.StageFailed {
			detail = r.Message
		}
		out = append(out, list.Row{Title: r.SourceLabel, Tag: tag, Detail: detail})
	}
	return out
}

// View renders the history view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("History"), ""}

	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	default:
		sections = append(sections, v.list.View())
	}

	if v.detail {
		if r := v.selected(); r != nil {
			sections = append(sections, "", v.renderDetail(r))
		}
	}

	if v.confirming {
		sections = append(sections, "", v.styles.Warning.Render(
			fmt.Sprintf("Clear all %d recorded runs? [y/N]", len(v.runs))))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderDetail(r *domain.RunRecord) string {
	lines := []string{
		v.styles.Subtitle.Render(r.SourceLabel),
		v.styles.Muted.Render("Run: ") + r.ID,
		v.styles.Muted.Render("Variant: ") + r.Variant.String(),
		v.styles.ForStage(r.Stage).Render(r.Stage.Description()),
	}
	if r.UploadID > 0 {
		lines = append(lines, v.styles.Muted.Render("Upload: ")+fmt.Sprintf("%d", r.UploadID))
	}
	if d := r.Duration(); d > 0 {
		lines = append(lines, v.styles.Muted.Render("Took: ")+d.Round(time.Millisecond).String())
	}
	if r.Result != "" {
		lines = append(lines, v.styles.Muted.Render("Result: ")+r.Result)
	}
	if r.DoesMatch != nil {
		verdict := "no"
		if *r.DoesMatch {
			verdict = "yes"
		}
		lines = append(lines, v.styles.ForMatch(*r.DoesMatch).Render("Match: "+verdict))
	}
	if r.Message != "" {
		lines = append(lines, v.styles.Error.Render(r.Message))
	}

	width := v.width - 4
	if width < 20 {
		width = 20
	}
	return v.styles.Border.Width(width).Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.RunRecord {
	return v.runs
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
