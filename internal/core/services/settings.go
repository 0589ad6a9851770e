package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyAPIBaseURL     = "api.base_url"
	KeySocialBaseURL  = "social.base_url"
	KeyStepTimeout    = "pipeline.step_timeout"
	KeyRequestsPerSec = "http.requests_per_second"
	KeyBurst          = "http.burst"
	KeyCacheSize      = "cache.size"
	KeyCacheTTL       = "cache.ttl"
	KeyHistoryEnabled = "history.enabled"
)

// SettingsService manages application settings.
// Durations are stored as whole seconds.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:   s.getString(KeyAPIBaseURL, defaults.API.BaseURL),
			SocialURL: s.configStore.GetString(KeySocialBaseURL),
		},
		Pipeline: domain.PipelineSettings{
			StepTimeout: s.getSeconds(KeyStepTimeout, defaults.Pipeline.StepTimeout),
		},
		HTTP: domain.HTTPSettings{
			RequestsPerSecond: s.getFloat(KeyRequestsPerSec, defaults.HTTP.RequestsPerSecond),
			Burst:             s.getInt(KeyBurst, defaults.HTTP.Burst),
		},
		Cache: domain.CacheSettings{
			Size: s.getInt(KeyCacheSize, defaults.Cache.Size),
			TTL:  s.getSeconds(KeyCacheTTL, defaults.Cache.TTL),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(KeyHistoryEnabled, defaults.History.Enabled),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := settings.API.Validate(); err != nil {
		return fmt.Errorf("invalid api settings: %w", err)
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyAPIBaseURL, settings.API.BaseURL},
		{KeySocialBaseURL, settings.API.SocialURL},
		{KeyStepTimeout, int(settings.Pipeline.StepTimeout / time.Second)},
		{KeyRequestsPerSec, settings.HTTP.RequestsPerSecond},
		{KeyBurst, settings.HTTP.Burst},
		{KeyCacheSize, settings.Cache.Size},
		{KeyCacheTTL, int(settings.Cache.TTL / time.Second)},
		{KeyHistoryEnabled, settings.History.Enabled},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetAPIBaseURL updates the remote service root.
func (s *SettingsService) SetAPIBaseURL(baseURL string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.API.BaseURL = baseURL
	if err := settings.API.Validate(); err != nil {
		return fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	return s.configStore.Set(KeyAPIBaseURL, baseURL)
}

// SetStepTimeout updates the per-step deadline.
func (s *SettingsService) SetStepTimeout(timeout time.Duration) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", domain.ErrInvalidInput)
	}
	return s.configStore.Set(KeyStepTimeout, int(timeout/time.Second))
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.API.Validate(); err != nil {
		return fmt.Errorf("invalid api settings: %w", err)
	}
	if settings.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, def bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, def time.Duration) time.Duration {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}
