package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

const (
	uriScheme = "descheck://"

	// historyLimit bounds the runs returned by the history resource.
	historyLimit = 50
)

// runInfo is the JSON form of a recorded run.
type runInfo struct {
	ID         string `json:"id"`
	Variant    string `json:"variant"`
	Source     string `json:"source"`
	UploadID   int64  `json:"upload_id,omitempty"`
	Stage      string `json:"stage"`
	Message    string `json:"message,omitempty"`
	Result     string `json:"result,omitempty"`
	DoesMatch  *bool  `json:"does_match,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}

// registerResources registers the run history resources when history is enabled.
func (s *Server) registerResources() {
	if s.ports.History == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recently recorded verify and generate runs",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{runId}",
		Name:        "run",
		Description: "A single recorded run",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runs, err := s.ports.History.List(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = toRunInfo(&runs[i])
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, runID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return jsonResource(req.Params.URI, toRunInfo(run))
}

func toRunInfo(r *domain.RunRecord) runInfo {
	info := runInfo{
		ID:        r.ID,
		Variant:   r.Variant.String(),
		Source:    r.SourceLabel,
		UploadID:  r.UploadID,
		Stage:     r.Stage.String(),
		Message:   r.Message,
		Result:    r.Result,
		DoesMatch: r.DoesMatch,
		StartedAt: r.StartedAt.Format(time.RFC3339),
	}
	if !r.FinishedAt.IsZero() {
		info.FinishedAt = r.FinishedAt.Format(time.RFC3339)
	}
	return info
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like descheck://history/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
