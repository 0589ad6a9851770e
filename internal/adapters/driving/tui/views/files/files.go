// Package files provides the uploaded files view for the TUI.
package files

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

// ErrNoFileService indicates that no file service was provided.
var ErrNoFileService = errors.New("file service is required")

// View lists the signed-in user's uploads.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	list      *list.Rows

	service driving.FileService
	ctx     context.Context

	files   []domain.StoredFile
	pending *domain.StoredFile
	detail  bool
	loading bool
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a new files view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.FileService) *View {
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
		list:      list.NewRows(s, "Uploaded files", "No uploaded files."),
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

// Init loads the file list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.pending = nil
	v.detail = false
	return v.loadFiles()
}

// Update handles messages for the files view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FilesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.files = msg.Files
		v.list.SetRows(rows(msg.Files))
		return v, nil

	case messages.FileDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.statusbar.SetMessage(fmt.Sprintf("Deleted file %d", msg.ID))
		kept := v.files[:0:0]
		for _, f := range v.files {
			if f.ID != msg.ID {
				kept = append(kept, f)
			}
		}
		v.files = kept
		v.list.SetRows(rows(kept))
		return v, nil

	case messages.SessionChecked:
		v.statusbar.SetLoggedIn(msg.LoggedIn)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if v.pending != nil {
		id := v.pending.ID
		v.pending = nil
		if keyStr == "y" {
			return v, v.deleteFile(id)
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
		return v, v.loadFiles()
	case keymap.Matches(keyStr, v.keymap.Delete):
		if f := v.selected(); f != nil {
			v.pending = f
		}
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Select):
		v.detail = v.selected() != nil && !v.detail
		return v, nil
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) loadFiles() tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.FilesLoaded{Err: ErrNoFileService}
		}
		files, err := service.List(ctx)
		return messages.FilesLoaded{Files: files, Err: err}
	}
}

func (v *View) deleteFile(id int64) tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.FileDeleted{ID: id, Err: ErrNoFileService}
		}
		return messages.FileDeleted{ID: id, Err: service.Delete(ctx, id)}
	}
}

func (v *View) selected() *domain.StoredFile {
	i := v.list.Selected()
	if i < 0 || i >= len(v.files) {
		return nil
	}
	f := v.files[i]
	return &f
}

func rows(files []domain.StoredFile) []list.Row {
	out := make([]list.Row, 0, len(files))
	for _, f := range files {
		tag := fmt.Sprintf("#%d", f.ID)
		if !f.UploadedAt.IsZero() {
			tag += " · " + humanize.Time(f.UploadedAt)
		}
		detail := f.AnalysisResult
		if detail == "" {
			detail = f.UploadedText
		}
		out = append(out, list.Row{Title: f.FileName, Tag: tag, Detail: detail})
	}
	return out
}

// View renders the files view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Files"), ""}

	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render(errorText(v.err)))
	default:
		sections = append(sections, v.list.View())
	}

	if v.detail {
		if f := v.selected(); f != nil {
			sections = append(sections, "", v.renderDetail(f))
		}
	}

	if v.pending != nil {
		sections = append(sections, "", v.styles.Warning.Render(
			fmt.Sprintf("Delete file %d (%s)? [y/N]", v.pending.ID, v.pending.FileName)))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderDetail(f *domain.StoredFile) string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(f.FileName))
	if f.UploadedText != "" {
		b.WriteString("\n" + v.styles.Muted.Render("Text: ") + f.UploadedText)
	}
	if f.AnalysisResult != "" {
		b.WriteString("\n" + v.styles.Muted.Render("Analysis: ") + f.AnalysisResult)
	}
	if !f.UploadedAt.IsZero() {
		b.WriteString("\n" + v.styles.Muted.Render("Uploaded: ") + f.UploadedAt.Format("2006-01-02 15:04"))
	}
	width := v.width - 4
	if width < 20 {
		width = 20
	}
	return v.styles.Border.Width(width).Padding(0, 1).Render(b.String())
}

func errorText(err error) string {
	if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, domain.ErrAuthExpired) {
		return "Not logged in. Run 'descheck login' first."
	}
	return "Error: " + err.Error()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Files returns the loaded uploads.
func (v *View) Files() []domain.StoredFile {
	return v.files
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
