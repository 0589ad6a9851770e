package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/views/analyze"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/views/files"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/descheck/internal/core/domain"
)

// stateBuffer bounds the queue between pipeline transitions and the UI loop.
// Views resync from the pipeline after each submission, so overflow only
// skips intermediate spinner frames.
const stateBuffer = 64

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	verifyView   *analyze.View
	describeView *analyze.View
	filesView    *files.View
	historyView  *history.View
	settingsView *settings.View

	// states carries pipeline transitions into the Bubbletea loop.
	states chan domain.StateChange

	// configs signals config file writes.
	configs chan struct{}

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		verifyView:   analyze.NewView(s, km, domain.VariantVerify, ports.Pipeline, ports.Inspector),
		describeView: analyze.NewView(s, km, domain.VariantGenerate, ports.Pipeline, ports.Inspector),
		filesView:    files.NewView(s, km, ports.Files),
		historyView:  history.NewView(s, km, ports.History),
		settingsView: settings.NewView(s, ports.Settings),
		states:       make(chan domain.StateChange, stateBuffer),
		configs:      make(chan struct{}, 1),
		currentView:  messages.ViewMenu,
	}

	// The handler runs under the bus lock: it must only enqueue.
	err := ports.Pipeline.Subscribe(func(change domain.StateChange) {
		select {
		case a.states <- change:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to pipeline: %w", err)
	}

	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.verifyView.WithContext(ctx)
	a.describeView.WithContext(ctx)
	a.filesView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("descheck"),
		a.checkSession(),
		waitForState(a.states),
	}

	if a.ports.WatchConfig != nil {
		a.startConfigWatch()
		cmds = append(cmds, waitForConfig(a.configs))
	}

	return tea.Batch(cmds...)
}

func (a *App) startConfigWatch() {
	watch := a.ports.WatchConfig
	ctx := a.ctx
	configs := a.configs
	go func() {
		_ = watch(ctx, func() {
			select {
			case configs <- struct{}{}:
			default:
			}
		})
	}()
}

func (a *App) checkSession() tea.Cmd {
	auth := a.ports.Auth
	return func() tea.Msg {
		if auth == nil {
			return messages.SessionChecked{}
		}
		return messages.SessionChecked{LoggedIn: auth.LoggedIn()}
	}
}

func waitForState(ch <-chan domain.StateChange) tea.Cmd {
	return func() tea.Msg {
		return messages.StateChanged{Change: <-ch}
	}
}

func waitForConfig(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return messages.ConfigReloaded{}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewVerify:
			a.verifyView, cmd = a.verifyView.Update(msg)
		case messages.ViewDescribe:
			a.describeView, cmd = a.describeView.Update(msg)
		case messages.ViewFiles:
			a.filesView, cmd = a.filesView.Update(msg)
		case messages.ViewHistory:
			a.historyView, cmd = a.historyView.Update(msg)
		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Back) || keymap.Matches(msg.String(), a.keymap.Quit) {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewVerify:
			return a, a.verifyView.Init()
		case messages.ViewDescribe:
			return a, a.describeView.Init()
		case messages.ViewFiles:
			return a, a.filesView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	case messages.StateChanged:
		// Both analysis views share one pipeline.
		var verifyCmd, describeCmd, historyCmd tea.Cmd
		a.verifyView, verifyCmd = a.verifyView.Update(msg)
		a.describeView, describeCmd = a.describeView.Update(msg)
		if a.currentView == messages.ViewHistory {
			a.historyView, historyCmd = a.historyView.Update(msg)
		}
		return a, tea.Batch(waitForState(a.states), verifyCmd, describeCmd, historyCmd)

	case messages.ConfigReloaded:
		var settingsCmd tea.Cmd
		a.settingsView, settingsCmd = a.settingsView.Update(msg)
		return a, tea.Batch(waitForConfig(a.configs), a.checkSession(), settingsCmd)

	case messages.SessionChecked:
		var cmds []tea.Cmd
		a.menuView, cmd = a.menuView.Update(msg)
		cmds = append(cmds, cmd)
		a.verifyView, cmd = a.verifyView.Update(msg)
		cmds = append(cmds, cmd)
		a.describeView, cmd = a.describeView.Update(msg)
		cmds = append(cmds, cmd)
		a.filesView, cmd = a.filesView.Update(msg)
		cmds = append(cmds, cmd)
		a.historyView, cmd = a.historyView.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case messages.InputLoaded, messages.SubmissionDone:
		return a, a.forwardToAnalysis(msg)

	case messages.FilesLoaded, messages.FileDeleted:
		a.filesView, cmd = a.filesView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.HistoryCleared:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewVerify:
			a.verifyView, cmd = a.verifyView.Update(msg)
		case messages.ViewDescribe:
			a.describeView, cmd = a.describeView.Update(msg)
		case messages.ViewFiles:
			a.filesView, cmd = a.filesView.Update(msg)
		case messages.ViewMenu, messages.ViewHistory, messages.ViewSettings, messages.ViewHelp:
			// Shown through Err only
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (spinner ticks, cursor blinks) to the active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewVerify:
		a.verifyView, cmd = a.verifyView.Update(msg)
	case messages.ViewDescribe:
		a.describeView, cmd = a.describeView.Update(msg)
	case messages.ViewFiles:
		a.filesView, cmd = a.filesView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// forwardToAnalysis routes a pipeline result to the view that started it.
func (a *App) forwardToAnalysis(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	target := a.currentView
	if done, ok := msg.(messages.SubmissionDone); ok {
		if done.Variant == domain.VariantGenerate {
			target = messages.ViewDescribe
		} else {
			target = messages.ViewVerify
		}
	}

	switch target {
	case messages.ViewVerify:
		a.verifyView, cmd = a.verifyView.Update(msg)
	case messages.ViewDescribe:
		a.describeView, cmd = a.describeView.Update(msg)
	case messages.ViewMenu, messages.ViewFiles, messages.ViewHistory,
		messages.ViewSettings, messages.ViewHelp:
		// Result arrived after the user left the view
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewVerify:
		return a.verifyView.View()
	case messages.ViewDescribe:
		return a.describeView.View()
	case messages.ViewFiles:
		return a.filesView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
		return a.menuView.View()
	default:
		return a.menuView.View()
	}
}

// helpSections titles the groups returned by KeyMap.FullHelp.
var helpSections = []string{"Lists", "Verify / Describe", "Files / History", "General"}

// viewHelp renders the key bindings.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")

	for i, group := range a.keymap.FullHelp() {
		b.WriteString("\n" + a.styles.Subtitle.Render(helpSections[i]) + "\n")
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
	}

	b.WriteString("\n" + a.styles.Muted.Render("Sign in with 'descheck login' before submitting."))
	b.WriteString("\n\n" + a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.verifyView.SetDimensions(width, height)
	a.describeView.SetDimensions(width, height)
	a.filesView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
