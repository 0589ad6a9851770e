package driving

import (
	"time"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAPIBaseURL updates the remote service root.
	SetAPIBaseURL(baseURL string) error

	// SetStepTimeout updates the per-step deadline. Zero disables it.
	SetStepTimeout(timeout time.Duration) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
