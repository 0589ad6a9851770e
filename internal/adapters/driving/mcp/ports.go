package mcp

import (
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline runs verify and generate submissions.
	Pipeline driving.PipelineService

	// Files lists uploads on the remote dashboard. Optional.
	Files driving.FileService

	// History reads the local run log. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
