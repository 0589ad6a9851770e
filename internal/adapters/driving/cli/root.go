// Package cli implements the descheck command line.
package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/descheck/internal/core/ports/driving"
	"github.com/custodia-labs/descheck/internal/logger"
)

// ErrNotConfigured is returned when a command runs without its service.
var ErrNotConfigured = errors.New("service not configured")

var (
	version = "dev"

	verbose   bool
	configDir string

	pipelineService driving.PipelineService
	authService     driving.AuthService
	fileService     driving.FileService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	metricsHandler  http.Handler
	watchConfig     func(ctx context.Context, onChange func()) error

	initializer Initializer
	cleanup     func()
)

// Services holds everything the commands call into.
type Services struct {
	Pipeline driving.PipelineService
	Auth     driving.AuthService
	Files    driving.FileService
	History  driving.HistoryService
	Settings driving.SettingsService

	// Metrics serves Prometheus metrics for `mcp serve --metrics-port`.
	Metrics http.Handler

	// WatchConfig reports external edits of the config file.
	WatchConfig func(ctx context.Context, onChange func()) error
}

// Options are the global flags an Initializer needs.
type Options struct {
	ConfigDir string
}

// Initializer builds the services once flags are parsed. The returned
// func releases what it opened.
type Initializer func(opts Options) (Services, func(), error)

var rootCmd = &cobra.Command{
	Use:   "descheck",
	Short: "Check images against their descriptions",
	Long: `descheck uploads an image and asks the analysis service whether a
description matches it, or has the service describe the image.

Images can come from a local file, an image URL or a social-media post.

Examples:
  descheck login --email you@example.com
  descheck verify photo.jpg --text "A red barn in the snow"
  descheck verify --post https://x.com/someone/status/1234567890
  descheck describe https://example.com/cat.png`,
	SilenceUsage:       true,
	PersistentPreRunE:  preRun,
	PersistentPostRunE: postRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.descheck)")
}

// SetVersion sets the version reported by `descheck version`.
func SetVersion(v string) {
	version = v
}

// SetServices installs services directly, bypassing the initializer.
func SetServices(s Services) {
	pipelineService = s.Pipeline
	authService = s.Auth
	fileService = s.Files
	historyService = s.History
	settingsService = s.Settings
	metricsHandler = s.Metrics
	watchConfig = s.WatchConfig
}

// SetInitializer registers the function that builds services after flag
// parsing.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func preRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if initializer == nil {
		return nil
	}
	services, release, err := initializer(Options{ConfigDir: configDir})
	if err != nil {
		return err
	}
	SetServices(services)
	cleanup = release
	return nil
}

func postRun(_ *cobra.Command, _ []string) error {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
	logger.Sync()
	return nil
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
