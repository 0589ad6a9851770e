package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent submissions",
	Long:  `Show submissions recorded on this machine, newest first.`,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one recorded submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded submissions",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return fmt.Errorf("history: %w", ErrNotConfigured)
	}
	runs, err := historyService.List(commandContext(cmd), historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No submissions recorded.")
		return nil
	}

	t := newTable(cmd.OutOrStdout(), "Run", "Variant", "Source", "Outcome", "Took", "Started")
	for _, r := range runs {
		outcome := r.Stage.String()
		if r.Message != "" {
			outcome += ": " + r.Message
		}
		t.AppendRow([]any{
			truncate(r.ID, 8),
			r.Variant,
			truncate(r.SourceLabel, 32),
			truncate(outcome, 40),
			r.Duration().Round(10 * time.Millisecond),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return fmt.Errorf("history: %w", ErrNotConfigured)
	}
	r, err := historyService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("get run %s: %w", args[0], err)
	}

	cmd.Printf("Run:      %s\n", r.ID)
	cmd.Printf("Variant:  %s\n", r.Variant)
	cmd.Printf("Source:   %s\n", r.SourceLabel)
	cmd.Printf("Outcome:  %s\n", r.Stage)
	if r.UploadID > 0 {
		cmd.Printf("Upload:   %d\n", r.UploadID)
	}
	if r.Message != "" {
		cmd.Printf("Message:  %s\n", r.Message)
	}
	if r.DoesMatch != nil {
		cmd.Printf("Match:    %s\n", yesNo(*r.DoesMatch))
	}
	cmd.Printf("Started:  %s\n", r.StartedAt.Local().Format(time.RFC3339))
	cmd.Printf("Took:     %s\n", r.Duration())
	if r.Result != "" {
		cmd.Println()
		cmd.Println(r.Result)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return fmt.Errorf("history: %w", ErrNotConfigured)
	}
	if err := historyService.Clear(commandContext(cmd)); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	cmd.Println("History cleared.")
	return nil
}
