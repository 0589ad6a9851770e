package media

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/logger"
)

// Ensure HTTPFetcher implements the interface.
var _ driven.ContentFetcher = (*HTTPFetcher)(nil)

// DefaultFetchTimeout bounds a single image download.
const DefaultFetchTimeout = 60 * time.Second

// HTTPFetcher downloads remote images. Responses that are not successful
// or do not sniff as an image are rejected.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher. A nil client gets a default one.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &HTTPFetcher{client: client}
}

type sniffedBody struct {
	io.Reader
	io.Closer
}

// Fetch opens location for reading.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.RemoteError{Op: "fetch image", Err: fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &domain.RemoteError{Op: "fetch image", StatusCode: resp.StatusCode}
	}

	br := bufio.NewReaderSize(resp.Body, sniffLen)
	head, _ := br.Peek(sniffLen)
	if len(head) > 0 {
		mt := DetectType(head)
		if !domain.IsImageMediaType(mt) {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s is %s, not an image", domain.ErrInvalidInput, location, mt)
		}
		logger.Debug("fetched %s (%s)", location, mt)
	}
	return sniffedBody{Reader: br, Closer: resp.Body}, nil
}
