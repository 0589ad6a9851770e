// Package analyze provides the verify and describe views for the TUI.
package analyze

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/descheck/internal/adapters/driven/media"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// ErrNoPipeline indicates that no pipeline service was provided.
var ErrNoPipeline = errors.New("pipeline service is required")

const (
	focusSource = iota
	focusText
)

var kindOrder = []domain.SourceKind{domain.SourceFile, domain.SourceURL, domain.SourceSocialPost}

// View collects an image and optional text and runs them through the pipeline.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	spinner   spinner.Model

	variant   domain.Variant
	pipeline  driving.PipelineService
	inspector driven.ImageInspector
	ctx       context.Context

	kind   domain.SourceKind
	source *input.Field
	text   *input.Field
	focus  int

	state     domain.PipelineState
	content   *domain.CanonicalContent
	loadedRef string
	preview   *domain.Preview
	result    *domain.AnalysisResult
	err       error

	width  int
	height int
	ready  bool
}

// NewView creates an analysis view for one variant.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	variant domain.Variant,
	pipeline driving.PipelineService,
	inspector driven.ImageInspector,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Warning

	v := &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km),
		spinner:   sp,
		variant:   variant,
		pipeline:  pipeline,
		inspector: inspector,
		ctx:       context.Background(),
		kind:      domain.SourceFile,
		source:    input.NewField(s, "Image", ""),
		text:      input.NewField(s, "Description", "what the image should show"),
		state:     domain.IdleState(),
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(km.AnalyzeHelp())
	v.applyKind()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the source field.
func (v *View) Init() tea.Cmd {
	v.setFocus(focusSource)
	return tea.Batch(v.source.Init(), v.source.Focus())
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StateChanged:
		v.setState(msg.Change.To)
		if msg.Change.To.Busy() {
			return v, v.spinner.Tick
		}
		return v, nil

	case messages.InputLoaded:
		v.handleInputLoaded(msg)
		return v, nil

	case messages.SubmissionDone:
		v.handleSubmissionDone(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case messages.SessionChecked:
		v.statusbar.SetLoggedIn(msg.LoggedIn)
		return v, nil

	case spinner.TickMsg:
		if !v.state.Busy() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(keyStr, v.keymap.NextField):
		if v.textVisible() {
			next := focusText
			if v.focus == focusText {
				next = focusSource
			}
			return v, v.setFocus(next)
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Source):
		v.cycleKind()
		return v, v.setFocus(focusSource)

	case keymap.Matches(keyStr, v.keymap.Reset):
		v.startOver()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Load):
		return v, v.load()

	case keymap.Matches(keyStr, v.keymap.Submit):
		return v, v.submit()
	}

	var cmd tea.Cmd
	if v.focus == focusText {
		before := v.text.Value()
		v.text, cmd = v.text.Update(msg)
		if v.text.Value() != before {
			v.startOver()
		}
	} else {
		before := v.source.Value()
		v.source, cmd = v.source.Update(msg)
		if v.source.Value() != before {
			v.startOver()
		}
	}
	return v, cmd
}

// load acquires the input for a preview without uploading it.
func (v *View) load() tea.Cmd {
	if v.pipeline == nil {
		return errorCmd(ErrNoPipeline)
	}
	if v.pipeline.Busy() {
		return errorCmd(domain.ErrPipelineBusy)
	}
	raw, err := v.rawInput()
	if err != nil {
		return func() tea.Msg { return messages.InputLoaded{Err: err} }
	}

	ctx, pipeline, inspector := v.ctx, v.pipeline, v.inspector
	return func() tea.Msg {
		content, err := pipeline.Acquire(ctx, raw)
		if err != nil {
			return messages.InputLoaded{Err: err}
		}
		return messages.InputLoaded{Content: content, Preview: inspect(inspector, content)}
	}
}

// submit runs loaded content when it still matches the input, otherwise acquires afresh.
func (v *View) submit() tea.Cmd {
	if v.pipeline == nil {
		return errorCmd(ErrNoPipeline)
	}
	if v.pipeline.Busy() {
		return errorCmd(domain.ErrPipelineBusy)
	}

	ctx, pipeline, variant := v.ctx, v.pipeline, v.variant
	v.result = nil
	v.err = nil

	if v.content != nil && v.loadedRef == v.ref() {
		content := *v.content
		if v.kind != domain.SourceSocialPost {
			content.Text = v.textValue()
		}
		return func() tea.Msg {
			result, err := pipeline.Run(ctx, &content, variant)
			return messages.SubmissionDone{Variant: variant, Result: result, Err: err}
		}
	}

	raw, err := v.rawInput()
	if err != nil {
		return func() tea.Msg { return messages.SubmissionDone{Variant: variant, Err: err} }
	}
	return func() tea.Msg {
		result, err := pipeline.Submit(ctx, raw, variant)
		return messages.SubmissionDone{Variant: variant, Result: result, Err: err}
	}
}

// rawInput builds pipeline input from the fields. Local files are read here.
func (v *View) rawInput() (domain.RawInput, error) {
	ref := strings.TrimSpace(v.source.Value())
	text := v.textValue()

	switch v.kind {
	case domain.SourceSocialPost:
		return domain.NewSocialPostInput(ref), nil
	case domain.SourceURL:
		return domain.NewURLInput(ref, text), nil
	default:
		if ref == "" {
			return domain.RawInput{Kind: domain.SourceFile, Text: text}, nil
		}
		return media.LoadFile(ref, text)
	}
}

func (v *View) handleInputLoaded(msg messages.InputLoaded) {
	if msg.Err != nil {
		v.clearLoaded()
		v.err = msg.Err
		return
	}
	v.err = nil
	v.content = msg.Content
	v.preview = msg.Preview
	v.loadedRef = v.ref()
}

func (v *View) handleSubmissionDone(msg messages.SubmissionDone) {
	if v.pipeline != nil {
		v.setState(v.pipeline.State())
	}
	if msg.Err != nil {
		v.result = nil
		v.err = msg.Err
		var inputErr *domain.InputError
		if errors.As(msg.Err, &inputErr) {
			v.clearLoaded()
		}
		return
	}
	v.err = nil
	v.result = msg.Result
}

func (v *View) setState(state domain.PipelineState) {
	v.state = state
	v.statusbar.SetState(state)
}

func (v *View) setFocus(focus int) tea.Cmd {
	v.focus = focus
	if focus == focusText {
		v.source.Blur()
		return v.text.Focus()
	}
	v.text.Blur()
	return v.source.Focus()
}

func (v *View) cycleKind() {
	for i, k := range kindOrder {
		if k == v.kind {
			v.kind = kindOrder[(i+1)%len(kindOrder)]
			break
		}
	}
	v.source.Reset()
	v.startOver()
	v.applyKind()
}

// startOver drops the loaded input and, unless a run is in flight, returns
// the pipeline to Idle and clears the last result so it never sits next to
// new input.
func (v *View) startOver() {
	v.clearLoaded()
	if v.pipeline != nil {
		if v.pipeline.Busy() {
			return
		}
		v.pipeline.Reset()
		v.setState(v.pipeline.State())
	}
	v.result = nil
	v.err = nil
}

func (v *View) applyKind() {
	switch v.kind {
	case domain.SourceSocialPost:
		v.source.SetLabel("Post URL")
		v.source.SetPlaceholder("https://x.com/user/status/123")
	case domain.SourceURL:
		v.source.SetLabel("Image URL")
		v.source.SetPlaceholder("https://example.com/image.png")
	default:
		v.source.SetLabel("Image")
		v.source.SetPlaceholder("path to a local image")
	}
}

func (v *View) clearLoaded() {
	v.content = nil
	v.preview = nil
	v.loadedRef = ""
}

// textVisible reports whether the description field applies.
func (v *View) textVisible() bool {
	return v.variant.RequiresText() && v.kind != domain.SourceSocialPost
}

func (v *View) textValue() string {
	if !v.textVisible() {
		return ""
	}
	return v.text.Value()
}

func (v *View) ref() string {
	return v.kind.String() + "|" + strings.TrimSpace(v.source.Value())
}

// View renders the analysis view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 16)
	sections = append(sections, v.styles.Title.Render(v.title()), "")
	sections = append(sections,
		v.styles.Muted.Render(fmt.Sprintf("Input: %s", v.kind.Description())), "",
		v.source.View())
	if v.textVisible() {
		sections = append(sections, v.text.View())
	}
	sections = append(sections, "")

	if v.content != nil {
		sections = append(sections, v.renderPreview(), "")
	}

	if v.state.Busy() {
		sections = append(sections, v.spinner.View()+" "+v.styles.ForStage(v.state.Stage).Render(v.state.Stage.Description()+"..."), "")
	}

	if v.result != nil {
		sections = append(sections, v.renderResult(), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render(v.errorText()), "")
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) title() string {
	if v.variant == domain.VariantGenerate {
		return "Describe image"
	}
	return "Verify description"
}

func (v *View) renderPreview() string {
	c := v.content
	parts := []string{c.SourceLabel}
	if c.MediaType != "" {
		parts = append(parts, c.MediaType)
	}
	if c.SizeKnown() {
		parts = append(parts, humanize.Bytes(uint64(c.Size)))
	}
	if v.preview != nil && v.preview.Width > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", v.preview.Width, v.preview.Height))
	}
	line := v.styles.Subtitle.Render("Loaded: ") + v.styles.Normal.Render(strings.Join(parts, " · "))
	if c.Kind == domain.SourceSocialPost && c.Text != "" {
		line += "\n" + v.styles.Muted.Render("Caption: "+c.Text)
	}
	return line
}

func (v *View) renderResult() string {
	var b strings.Builder
	if v.variant == domain.VariantGenerate {
		b.WriteString(v.styles.Subtitle.Render("Description"))
	} else {
		b.WriteString(v.styles.Subtitle.Render("Result"))
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(v.result.Text))
	if v.result.DoesMatch != nil {
		verdict := "no"
		if *v.result.DoesMatch {
			verdict = "yes"
		}
		b.WriteString("\n\n")
		b.WriteString(v.styles.ForMatch(*v.result.DoesMatch).Render("Match: " + verdict))
	}

	width := v.width - 4
	if width < 20 {
		width = 20
	}
	return v.styles.Result.Width(width).Render(b.String())
}

// errorText prefers the message the pipeline settled on.
func (v *View) errorText() string {
	if v.state.Stage == domain.StageFailed && v.state.Message != "" {
		return v.state.Message
	}
	if errors.Is(v.err, domain.ErrAuthRequired) || errors.Is(v.err, domain.ErrAuthExpired) {
		return "Not logged in. Run 'descheck login' first."
	}
	return v.err.Error()
}

func inspect(inspector driven.ImageInspector, content *domain.CanonicalContent) *domain.Preview {
	if inspector == nil || content == nil || !content.IsResident() {
		return nil
	}
	preview, err := inspector.Inspect(bytes.NewReader(content.Data))
	if err != nil {
		return nil
	}
	return preview
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.source.SetWidth(width)
	v.text.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Variant returns the analysis variant this view submits.
func (v *View) Variant() domain.Variant {
	return v.variant
}

// Kind returns the selected input kind.
func (v *View) Kind() domain.SourceKind {
	return v.kind
}

// Content returns the content loaded for preview, if any.
func (v *View) Content() *domain.CanonicalContent {
	return v.content
}

// State returns the last pipeline state the view saw.
func (v *View) State() domain.PipelineState {
	return v.state
}

// Result returns the last analysis result.
func (v *View) Result() *domain.AnalysisResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// SourceValue returns the source field contents.
func (v *View) SourceValue() string {
	return v.source.Value()
}

// TextValue returns the description field contents.
func (v *View) TextValue() string {
	return v.text.Value()
}
