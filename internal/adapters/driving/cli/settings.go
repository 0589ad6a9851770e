package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/descheck/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the analysis service address, timeouts and other options.

Use subcommands to change a single setting or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting.

Keys:
  api.base_url               Analysis service root, e.g. http://127.0.0.1:8000/api
  social.base_url            Post extraction root (empty = api.base_url)
  pipeline.step_timeout      Per-step deadline, e.g. 90s or 2m (0 disables)
  http.requests_per_second   Outgoing request rate (0 disables throttling)
  http.burst                 Requests allowed in a burst
  cache.size                 Social posts kept in the cache
  cache.ttl                  How long a cached post stays valid, e.g. 10m
  history.enabled            Record submissions locally (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the service address and timeouts step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", ErrNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL: %s\n", settings.API.BaseURL)
	cmd.Printf("  Social URL: %s\n", orDefault(settings.API.SocialURL, "(same as base URL)"))
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Step timeout: %s\n", durationOrOff(settings.Pipeline.StepTimeout))
	cmd.Println()

	cmd.Println("[HTTP]")
	if settings.HTTP.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g req/s (burst %d)\n", settings.HTTP.RequestsPerSecond, settings.HTTP.Burst)
	} else {
		cmd.Println("  Rate limit: off")
	}
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Size: %d posts\n", settings.Cache.Size)
	cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.History.Enabled))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", ErrNotConfigured)
	}
	key, value := args[0], strings.TrimSpace(args[1])

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := services.ApplySetting(settings, key, value); err != nil {
		return err
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", ErrNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("descheck Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	// Step 1: service address
	cmd.Println("Step 1: Analysis Service")
	cmd.Println("------------------------")
	cmd.Printf("Base URL [%s]: ", settings.API.BaseURL)
	if input := prompt(reader); input != "" {
		if err := settingsService.SetAPIBaseURL(input); err != nil {
			return fmt.Errorf("failed to set base URL: %w", err)
		}
	}
	cmd.Println()

	// Step 2: step timeout
	cmd.Println("Step 2: Step Timeout")
	cmd.Println("--------------------")
	cmd.Printf("Timeout per step, 0 to disable [%s]: ", settings.Pipeline.StepTimeout)
	if input := prompt(reader); input != "" {
		d, err := services.ParseDuration(input)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		if err := settingsService.SetStepTimeout(d); err != nil {
			return fmt.Errorf("failed to set timeout: %w", err)
		}
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func prompt(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func durationOrOff(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}
