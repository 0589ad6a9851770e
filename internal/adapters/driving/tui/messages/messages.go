// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/descheck/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewVerify checks an image against a description.
	ViewVerify
	// ViewDescribe generates a description for an image.
	ViewDescribe
	// ViewFiles lists uploads stored by the backend.
	ViewFiles
	// ViewHistory lists locally recorded runs.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewVerify:
		return "verify"
	case ViewDescribe:
		return "describe"
	case ViewFiles:
		return "files"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Variant maps an analysis view to its pipeline variant.
func (v ViewType) Variant() (domain.Variant, bool) {
	switch v {
	case ViewVerify:
		return domain.VariantVerify, true
	case ViewDescribe:
		return domain.VariantGenerate, true
	default:
		return "", false
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// StateChanged carries one pipeline transition.
type StateChanged struct {
	Change domain.StateChange
}

// InputLoaded carries content acquired for preview.
type InputLoaded struct {
	Content *domain.CanonicalContent
	Preview *domain.Preview
	Err     error
}

// SubmissionDone carries the outcome of a run.
type SubmissionDone struct {
	Variant domain.Variant
	Result  *domain.AnalysisResult
	Err     error
}

// FilesLoaded carries the user's uploads.
type FilesLoaded struct {
	Files []domain.StoredFile
	Err   error
}

// FileDeleted signals an upload was removed.
type FileDeleted struct {
	ID  int64
	Err error
}

// HistoryLoaded carries recorded runs.
type HistoryLoaded struct {
	Runs []domain.RunRecord
	Err  error
}

// HistoryCleared signals all runs were removed.
type HistoryCleared struct {
	Err error
}

// SessionChecked reports whether a usable token is stored.
type SessionChecked struct {
	LoggedIn bool
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}

// ConfigReloaded is sent when the config file changed on disk.
type ConfigReloaded struct{}
