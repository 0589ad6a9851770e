package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
)

// Encoder produces the base64 text sent to the remote store.
// Lazy locations are fetched here, not at acquisition.
type Encoder struct {
	fetcher driven.ContentFetcher
	maxSize int64
}

// NewEncoder creates an encoder. fetcher may be nil when only
// resident content is encoded.
func NewEncoder(fetcher driven.ContentFetcher) *Encoder {
	return &Encoder{fetcher: fetcher, maxSize: domain.MaxContentSize}
}

// Encode returns the payload as standard base64.
// Read failures wrap domain.ErrEncodeFailed. A fetched payload larger than
// the ceiling yields an InputError with RejectTooLarge.
func (e *Encoder) Encode(ctx context.Context, content *domain.CanonicalContent) (string, error) {
	if content == nil || !content.HasPayload() {
		return "", fmt.Errorf("%w: no payload", domain.ErrEncodeFailed)
	}
	if content.IsResident() {
		return e.stream(bytes.NewReader(content.Data))
	}

	if e.fetcher == nil {
		return "", fmt.Errorf("%w: no fetcher for %s", domain.ErrEncodeFailed, content.Location)
	}
	body, err := e.fetcher.Fetch(ctx, content.Location)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %w", domain.ErrEncodeFailed, content.Location, err)
	}
	defer body.Close()

	return e.stream(body)
}

func (e *Encoder) stream(r io.Reader) (string, error) {
	limited := &io.LimitedReader{R: r, N: e.maxSize + 1}

	var out bytes.Buffer
	enc := base64.NewEncoder(base64.StdEncoding, &out)
	n, err := io.Copy(enc, limited)
	if err != nil {
		return "", fmt.Errorf("%w: read payload: %w", domain.ErrEncodeFailed, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("%w: finalise: %w", domain.ErrEncodeFailed, err)
	}
	if limited.N <= 0 {
		return "", domain.NewInputError(domain.RejectTooLarge)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: empty payload", domain.ErrEncodeFailed)
	}
	return out.String(), nil
}
