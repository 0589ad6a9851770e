package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/descheck/internal/adapters/driven/media"
	"github.com/custodia-labs/descheck/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for descheck.

The TUI verifies and generates image descriptions, shows pipeline progress
as it happens, and browses uploaded files, local run history and settings.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Submit / Select
  ctrl+t   - Switch between file, image URL and post URL
  Esc      - Back
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts collects the installed services for the TUI.
func tuiPorts() *tui.Ports {
	ports := tui.NewPorts(pipelineService, authService)
	ports.Files = fileService
	ports.History = historyService
	ports.Settings = settingsService
	ports.Inspector = media.Inspector{}
	ports.WatchConfig = watchConfig
	return ports
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in TUI: %v", r)
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(commandContext(cmd)).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
