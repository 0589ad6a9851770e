package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// ContentFetcher retrieves payload bytes from a location.
type ContentFetcher interface {
	// Fetch opens the location for reading. The caller closes the reader.
	// A non-success response is an error.
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

// ImageInspector reads image metadata for previews.
type ImageInspector interface {
	// Inspect decodes only the image header.
	Inspect(r io.Reader) (*domain.Preview, error)
}
