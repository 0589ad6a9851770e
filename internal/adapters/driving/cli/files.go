package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

var filesJSON bool

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage uploaded images",
	RunE:  runFilesList,
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded images and their analyses",
	RunE:  runFilesList,
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an uploaded image",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilesDelete,
}

func init() {
	filesListCmd.Flags().BoolVar(&filesJSON, "json", false, "output as JSON")
	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesDeleteCmd)
	rootCmd.AddCommand(filesCmd)
}

func runFilesList(cmd *cobra.Command, _ []string) error {
	if fileService == nil {
		return fmt.Errorf("files: %w", ErrNotConfigured)
	}

	files, err := fileService.List(commandContext(cmd))
	if err != nil {
		return err
	}

	if filesJSON {
		return printFilesJSON(cmd, files)
	}
	if len(files) == 0 {
		cmd.Println("No uploaded files.")
		return nil
	}

	t := newTable(cmd.OutOrStdout(), "ID", "File", "Text", "Analysis", "Uploaded")
	for _, f := range files {
		uploaded := ""
		if !f.UploadedAt.IsZero() {
			uploaded = f.UploadedAt.Format("2006-01-02 15:04")
		}
		t.AppendRow([]any{f.ID, f.FileName, truncate(f.UploadedText, 40), truncate(f.AnalysisResult, 40), uploaded})
	}
	t.Render()
	return nil
}

type storedFileJSON struct {
	ID             int64  `json:"id"`
	FileName       string `json:"file_name"`
	UploadedText   string `json:"uploaded_text"`
	AnalysisResult string `json:"analysis_result"`
	UploadedAt     string `json:"uploaded_at,omitempty"`
}

func printFilesJSON(cmd *cobra.Command, files []domain.StoredFile) error {
	out := make([]storedFileJSON, 0, len(files))
	for _, f := range files {
		entry := storedFileJSON{
			ID:             f.ID,
			FileName:       f.FileName,
			UploadedText:   f.UploadedText,
			AnalysisResult: f.AnalysisResult,
		}
		if !f.UploadedAt.IsZero() {
			entry.UploadedAt = f.UploadedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, entry)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal files: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runFilesDelete(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return fmt.Errorf("files: %w", ErrNotConfigured)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid file id %q", args[0])
	}
	if err := fileService.Delete(commandContext(cmd), id); err != nil {
		return err
	}
	cmd.Printf("Deleted file %d\n", id)
	return nil
}
