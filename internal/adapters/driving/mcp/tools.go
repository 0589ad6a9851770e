package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/descheck/internal/adapters/driven/media"
	"github.com/custodia-labs/descheck/internal/core/domain"
)

// VerifyInput is the input schema for the verify_description tool.
type VerifyInput struct {
	Image   string `json:"image,omitempty" jsonschema:"local image path or http(s) image URL"`
	Text    string `json:"text,omitempty" jsonschema:"the description to check against the image"`
	PostURL string `json:"post_url,omitempty" jsonschema:"social-media post URL; its image and caption are used instead"`
}

// GenerateInput is the input schema for the generate_description tool.
type GenerateInput struct {
	Image   string `json:"image,omitempty" jsonschema:"local image path or http(s) image URL"`
	PostURL string `json:"post_url,omitempty" jsonschema:"social-media post URL to take the image from"`
}

// AnalysisOutput is the output schema for both analysis tools.
type AnalysisOutput struct {
	Variant   string `json:"variant"`
	FileName  string `json:"file_name,omitempty"`
	Result    string `json:"result"`
	DoesMatch *bool  `json:"does_match,omitempty"`
}

// ListFilesInput is the input schema for the list_files tool.
type ListFilesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of files to return (default all)"`
}

// ListFilesOutput is the output schema for the list_files tool.
type ListFilesOutput struct {
	Files []FileOutput `json:"files"`
	Count int          `json:"count"`
}

// FileOutput is one uploaded file.
type FileOutput struct {
	ID             int64  `json:"id"`
	FileName       string `json:"file_name"`
	UploadedText   string `json:"uploaded_text,omitempty"`
	AnalysisResult string `json:"analysis_result,omitempty"`
	UploadedAt     string `json:"uploaded_at,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify_description",
		Description: "Check whether a description matches an image from a file, an image URL or a social-media post",
	}, s.handleVerify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_description",
		Description: "Generate a description for an image from a file, an image URL or a social-media post",
	}, s.handleGenerate)

	if s.ports.Files != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_files",
			Description: "List images uploaded to the analysis service",
		}, s.handleListFiles)
	}
}

func (s *Server) handleVerify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input VerifyInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	raw, err := toolInput(input.Image, input.Text, input.PostURL)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return s.submit(ctx, raw, domain.VariantVerify)
}

func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	raw, err := toolInput(input.Image, "", input.PostURL)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return s.submit(ctx, raw, domain.VariantGenerate)
}

func (s *Server) submit(
	ctx context.Context,
	raw domain.RawInput,
	variant domain.Variant,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	result, err := s.ports.Pipeline.Submit(ctx, raw, variant)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return nil, AnalysisOutput{
		Variant:   variant.String(),
		FileName:  result.FileName,
		Result:    result.Text,
		DoesMatch: result.DoesMatch,
	}, nil
}

func (s *Server) handleListFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListFilesInput,
) (*mcp.CallToolResult, ListFilesOutput, error) {
	files, err := s.ports.Files.List(ctx)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}
	if input.Limit > 0 && len(files) > input.Limit {
		files = files[:input.Limit]
	}

	output := ListFilesOutput{
		Files: make([]FileOutput, len(files)),
		Count: len(files),
	}
	for i := range files {
		output.Files[i] = fileOutput(files[i])
	}
	return nil, output, nil
}

func fileOutput(f domain.StoredFile) FileOutput {
	out := FileOutput{
		ID:             f.ID,
		FileName:       f.FileName,
		UploadedText:   f.UploadedText,
		AnalysisResult: f.AnalysisResult,
	}
	if !f.UploadedAt.IsZero() {
		out.UploadedAt = f.UploadedAt.Format(time.RFC3339)
	}
	return out
}

// toolInput builds pipeline input from tool arguments.
func toolInput(image, text, postURL string) (domain.RawInput, error) {
	image = strings.TrimSpace(image)
	postURL = strings.TrimSpace(postURL)

	switch {
	case image != "" && postURL != "":
		return domain.RawInput{}, ErrAmbiguousInput
	case postURL != "":
		return domain.NewSocialPostInput(postURL), nil
	case image == "":
		return domain.RawInput{}, ErrNoImage
	default:
		return media.Resolve(image, text)
	}
}
