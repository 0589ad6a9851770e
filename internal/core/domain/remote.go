package domain

import (
	"fmt"
	"time"
)

// UploadRequest is the payload sent to the remote store.
type UploadRequest struct {
	OwnerID        int64
	FileName       string
	Text           string
	EncodedPayload string
}

// UploadRecord is the server-assigned handle for stored content.
type UploadRecord struct {
	ID int64
}

// AnalysisRequest asks the remote analyzer to process an upload.
type AnalysisRequest struct {
	UploadID int64
	Variant  Variant

	// Text is sent only for VariantVerify.
	Text string
}

// AnalysisResult is the analyzer's answer. Text is never interpreted.
type AnalysisResult struct {
	Text        string
	FileName    string
	Description string

	// DoesMatch is reported by the verify analysis when available.
	DoesMatch *bool
}

// StoredFile is an upload listed on the user's dashboard.
type StoredFile struct {
	ID             int64
	FileName       string
	UploadedText   string
	AnalysisResult string
	UploadedAt     time.Time
}

// SocialPost is the extracted content of a social-media post.
type SocialPost struct {
	PostURL  string
	PostID   string
	ImageURL string
	Caption  string
}

// RemoteError describes a failed call to a remote collaborator.
// StatusCode is zero for transport failures.
type RemoteError struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": failed"
	}
}

// Unwrap returns the underlying cause.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether the server rejected the credentials.
func (e *RemoteError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
