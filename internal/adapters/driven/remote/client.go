package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/logger"
)

// Ensure Client implements the remote ports.
var (
	_ driven.IdentityService = (*Client)(nil)
	_ driven.RemoteStore     = (*Client)(nil)
	_ driven.Analyzer        = (*Client)(nil)
	_ driven.SocialExtractor = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultTimeout           = 120 * time.Second
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 5

	// HeaderRequestID correlates client and server logs.
	HeaderRequestID = "X-Request-ID"

	// maxErrorBody caps how much of a failed response is read.
	maxErrorBody = 64 * 1024
)

// ErrMissingBaseURL is returned when no API root is configured.
var ErrMissingBaseURL = fmt.Errorf("%w: remote base url is required", domain.ErrInvalidInput)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8000/api (required).
	BaseURL string

	// SocialURL is the root for post extraction. Defaults to BaseURL.
	SocialURL string

	// Timeout bounds a single HTTP exchange (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing calls. Zero or less disables it.
	RequestsPerSecond float64
	Burst             int

	// Transport overrides the base round tripper. Used by tests.
	Transport http.RoundTripper
}

// Client is the JSON/HTTP backend adapter.
type Client struct {
	baseURL   string
	socialURL string
	timeout   time.Duration
	transport http.RoundTripper
	limiter   *rate.Limiter
	requestID func() string
}

// NewClient creates a new backend client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	baseURL, err := normaliseRoot(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: base url: %w", err)
	}
	socialURL := baseURL
	if cfg.SocialURL != "" {
		if socialURL, err = normaliseRoot(cfg.SocialURL); err != nil {
			return nil, fmt.Errorf("remote: social url: %w", err)
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:   baseURL,
		socialURL: socialURL,
		timeout:   cfg.Timeout,
		transport: cfg.Transport,
		limiter:   limiter,
		requestID: uuid.NewString,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func normaliseRoot(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute http(s) url", domain.ErrInvalidInput, raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// httpClient returns a client for one call. A non-empty session token is
// attached as a bearer credential.
func (c *Client) httpClient(session *domain.Session) *http.Client {
	rt := c.transport
	if session != nil && session.Token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: session.Token, TokenType: "Bearer"}),
			Base:   c.transport,
		}
	}
	return &http.Client{Transport: rt, Timeout: c.timeout}
}

// call describes one JSON exchange.
type call struct {
	op      string
	method  string
	url     string
	session *domain.Session
	in      any
	out     any
}

// do performs the exchange. Every failure, transport or status, comes
// back as a *domain.RemoteError.
func (c *Client) do(ctx context.Context, cl call) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.RemoteError{Op: cl.op, Err: err}
	}

	var body io.Reader
	if cl.in != nil {
		payload, err := json.Marshal(cl.in)
		if err != nil {
			return &domain.RemoteError{Op: cl.op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, cl.url, body)
	if err != nil {
		return &domain.RemoteError{Op: cl.op, Err: fmt.Errorf("create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.requestID()
	req.Header.Set(HeaderRequestID, reqID)

	logger.Debug("%s %s %s (request %s)", cl.op, cl.method, cl.url, reqID)
	start := time.Now()

	resp, err := c.httpClient(cl.session).Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &domain.RemoteError{Op: cl.op, Err: ctxErr}
		}
		return &domain.RemoteError{Op: cl.op, Err: fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)}
	}
	defer resp.Body.Close()

	logger.Debug("%s -> %d in %v", cl.op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(cl.op, resp)
	}
	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return &domain.RemoteError{Op: cl.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusError builds a RemoteError from a non-success response, using the
// server's detail field when it has one.
func statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	rerr := &domain.RemoteError{Op: op, StatusCode: resp.StatusCode, Detail: decodeDetail(raw)}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		rerr.Err = domain.ErrAuthInvalid
	case resp.StatusCode == http.StatusNotFound:
		rerr.Err = domain.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		rerr.Err = domain.ErrRateLimited
	case resp.StatusCode >= 500:
		rerr.Err = domain.ErrRemoteUnavailable
	}
	return rerr
}

// decodeDetail extracts a human-readable message from an error body.
// The backend reports either a plain string or a list of validation
// entries with a msg field.
func decodeDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// IsUnauthorized reports whether err is a remote credential rejection.
func IsUnauthorized(err error) bool {
	var rerr *domain.RemoteError
	return errors.As(err, &rerr) && rerr.IsUnauthorized()
}
