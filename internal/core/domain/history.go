package domain

import "time"

// RunRecord is a finished pipeline run kept in local history.
type RunRecord struct {
	ID          string
	Variant     Variant
	SourceLabel string
	UploadID    int64
	Stage       Stage
	Message     string
	Result      string
	DoesMatch   *bool
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Duration returns how long the run took.
func (r RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Preview describes an image without holding its pixels.
type Preview struct {
	Format string
	Width  int
	Height int
}
