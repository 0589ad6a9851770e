// Package tui provides an interactive terminal user interface for descheck.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline runs submissions and reports stage changes.
	Pipeline driving.PipelineService

	// Auth reports whether a session token is stored.
	Auth driving.AuthService

	// Files lists and deletes uploads.
	Files driving.FileService

	// History lists locally recorded runs.
	History driving.HistoryService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Inspector reads image dimensions for previews. Optional.
	Inspector driven.ImageInspector

	// WatchConfig watches the config file and calls onChange after each write. Optional.
	WatchConfig func(ctx context.Context, onChange func()) error
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(pipeline driving.PipelineService, auth driving.AuthService) *Ports {
	return &Ports{
		Pipeline: pipeline,
		Auth:     auth,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
