package domain

import (
	"net/url"
	"strings"
	"time"
)

// DefaultAPIBaseURL is the remote service root used when none is configured.
const DefaultAPIBaseURL = "http://127.0.0.1:8000/api"

// APISettings holds remote service endpoints.
type APISettings struct {
	// BaseURL is the root for identity, store and analysis calls.
	BaseURL string

	// SocialURL is the root for social extraction.
	// Empty means BaseURL is used.
	SocialURL string
}

// SocialBaseURL returns the effective social extraction root.
func (a APISettings) SocialBaseURL() string {
	if a.SocialURL != "" {
		return a.SocialURL
	}
	return a.BaseURL
}

// Validate checks that the configured URLs are absolute http(s) URLs.
func (a APISettings) Validate() error {
	for _, raw := range []string{a.BaseURL, a.SocialURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return ErrInvalidInput
		}
		if !strings.EqualFold(u.Scheme, "http") && !strings.EqualFold(u.Scheme, "https") {
			return ErrInvalidInput
		}
	}
	return nil
}

// PipelineSettings holds submission behaviour.
type PipelineSettings struct {
	// StepTimeout bounds each network step. Zero disables the deadline.
	StepTimeout time.Duration
}

// HTTPSettings holds client-side throttling.
type HTTPSettings struct {
	// RequestsPerSecond limits outgoing calls. Zero disables the limiter.
	RequestsPerSecond float64

	// Burst is the limiter bucket size.
	Burst int
}

// CacheSettings holds the social extraction cache configuration.
type CacheSettings struct {
	Size int
	TTL  time.Duration
}

// HistorySettings controls the local run log.
type HistorySettings struct {
	Enabled bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	API      APISettings
	Pipeline PipelineSettings
	HTTP     HTTPSettings
	Cache    CacheSettings
	History  HistorySettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			BaseURL: DefaultAPIBaseURL,
		},
		Pipeline: PipelineSettings{
			StepTimeout: 120 * time.Second,
		},
		HTTP: HTTPSettings{
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Cache: CacheSettings{
			Size: 128,
			TTL:  10 * time.Minute,
		},
		History: HistorySettings{
			Enabled: true,
		},
	}
}
