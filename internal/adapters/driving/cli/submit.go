package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/descheck/internal/adapters/driven/media"
	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
	"github.com/custodia-labs/descheck/internal/logger"
)

var (
	verifyText string
	verifyPost string
	submitJSON bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file|url]",
	Short: "Check whether an image matches a description",
	Long: `Upload an image and ask the analysis service whether the description
matches it.

The image is a local file path or an http(s) URL. With --post the image
and the description are both taken from a social-media post.

Examples:
  descheck verify photo.jpg --text "A red barn in the snow"
  descheck verify https://example.com/barn.png -t "A red barn"
  descheck verify --post https://x.com/someone/status/1234567890`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubmission(cmd, args, domain.VariantVerify)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [file|url]",
	Short: "Generate a description for an image",
	Long: `Upload an image and ask the analysis service to describe it.

Examples:
  descheck describe photo.jpg
  descheck describe https://example.com/cat.png --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubmission(cmd, args, domain.VariantGenerate)
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyText, "text", "t", "", "description to check against the image")
	verifyCmd.Flags().StringVar(&verifyPost, "post", "", "social-media post URL to take image and text from")
	verifyCmd.Flags().BoolVar(&submitJSON, "json", false, "output the result as JSON")
	describeCmd.Flags().BoolVar(&submitJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(describeCmd)
}

// progress prints stage changes for the current invocation. The pipeline
// offers no unsubscribe, so one handler is registered per service and
// pointed at the active writer.
var progress struct {
	mu      sync.Mutex
	w       io.Writer
	service driving.PipelineService
}

func watchProgress(w io.Writer) error {
	progress.mu.Lock()
	progress.w = w
	subscribed := progress.service == pipelineService
	progress.service = pipelineService
	progress.mu.Unlock()

	if subscribed {
		return nil
	}
	return pipelineService.Subscribe(printProgress)
}

func printProgress(change domain.StateChange) {
	progress.mu.Lock()
	defer progress.mu.Unlock()
	if progress.w == nil || !change.To.Stage.IsBusy() {
		return
	}
	fmt.Fprintf(progress.w, "%s...\n", change.To.Stage.Description())
}

func runSubmission(cmd *cobra.Command, args []string, variant domain.Variant) error {
	if pipelineService == nil {
		return fmt.Errorf("pipeline: %w", ErrNotConfigured)
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	text, post := "", ""
	if variant == domain.VariantVerify {
		text, post = verifyText, verifyPost
	}
	input, err := buildInput(arg, text, post)
	if err != nil {
		return err
	}
	logger.Section(variant.String())
	logger.Debugw("submitting", "source", input.Kind, "reference", arg, "post", post)

	if !submitJSON {
		if err := watchProgress(cmd.ErrOrStderr()); err != nil {
			return err
		}
		defer func() {
			progress.mu.Lock()
			progress.w = nil
			progress.mu.Unlock()
		}()
	}

	result, err := pipelineService.Submit(commandContext(cmd), input, variant)
	if err != nil {
		return err
	}

	if submitJSON {
		return printResultJSON(cmd, result, variant)
	}
	printResult(cmd, result, variant)
	return nil
}

// buildInput turns the positional argument and flags into pipeline input.
func buildInput(arg, text, post string) (domain.RawInput, error) {
	if post != "" {
		if arg != "" {
			return domain.RawInput{}, errors.New("give either an image or --post, not both")
		}
		return domain.NewSocialPostInput(post), nil
	}
	return media.Resolve(arg, text)
}

func printResult(cmd *cobra.Command, result *domain.AnalysisResult, variant domain.Variant) {
	if variant == domain.VariantGenerate {
		cmd.Println("Description:")
		cmd.Println(result.Text)
		return
	}
	cmd.Println("Result:")
	cmd.Println(result.Text)
	if result.DoesMatch != nil {
		cmd.Println()
		cmd.Printf("Match: %s\n", yesNo(*result.DoesMatch))
	}
}

type resultJSON struct {
	Variant   string `json:"variant"`
	FileName  string `json:"file_name,omitempty"`
	Result    string `json:"result"`
	DoesMatch *bool  `json:"does_match,omitempty"`
}

func printResultJSON(cmd *cobra.Command, result *domain.AnalysisResult, variant domain.Variant) error {
	data, err := json.MarshalIndent(resultJSON{
		Variant:   variant.String(),
		FileName:  result.FileName,
		Result:    result.Text,
		DoesMatch: result.DoesMatch,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
