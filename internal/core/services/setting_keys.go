package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// ErrUnknownSetting is returned for keys ApplySetting does not know.
var ErrUnknownSetting = errors.New("unknown setting")

type settingField struct {
	set func(s *domain.AppSettings, v string) error
	get func(s *domain.AppSettings) string
}

var settingFields = map[string]settingField{
	KeyAPIBaseURL: {
		set: func(s *domain.AppSettings, v string) error { s.API.BaseURL = v; return nil },
		get: func(s *domain.AppSettings) string { return s.API.BaseURL },
	},
	KeySocialBaseURL: {
		set: func(s *domain.AppSettings, v string) error { s.API.SocialURL = v; return nil },
		get: func(s *domain.AppSettings) string { return s.API.SocialURL },
	},
	KeyStepTimeout: {
		set: func(s *domain.AppSettings, v string) error {
			d, err := ParseDuration(v)
			if err == nil {
				s.Pipeline.StepTimeout = d
			}
			return err
		},
		get: func(s *domain.AppSettings) string { return s.Pipeline.StepTimeout.String() },
	},
	KeyRequestsPerSec: {
		set: func(s *domain.AppSettings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			if f < 0 {
				return errors.New("must not be negative")
			}
			s.HTTP.RequestsPerSecond = f
			return nil
		},
		get: func(s *domain.AppSettings) string {
			return strconv.FormatFloat(s.HTTP.RequestsPerSecond, 'g', -1, 64)
		},
	},
	KeyBurst: {
		set: func(s *domain.AppSettings, v string) error {
			n, err := parsePositiveInt(v)
			if err == nil {
				s.HTTP.Burst = n
			}
			return err
		},
		get: func(s *domain.AppSettings) string { return strconv.Itoa(s.HTTP.Burst) },
	},
	KeyCacheSize: {
		set: func(s *domain.AppSettings, v string) error {
			n, err := parsePositiveInt(v)
			if err == nil {
				s.Cache.Size = n
			}
			return err
		},
		get: func(s *domain.AppSettings) string { return strconv.Itoa(s.Cache.Size) },
	},
	KeyCacheTTL: {
		set: func(s *domain.AppSettings, v string) error {
			d, err := ParseDuration(v)
			if err == nil {
				s.Cache.TTL = d
			}
			return err
		},
		get: func(s *domain.AppSettings) string { return s.Cache.TTL.String() },
	},
	KeyHistoryEnabled: {
		set: func(s *domain.AppSettings, v string) error {
			b, err := strconv.ParseBool(v)
			if err == nil {
				s.History.Enabled = b
			}
			return err
		},
		get: func(s *domain.AppSettings) string { return strconv.FormatBool(s.History.Enabled) },
	},
}

// SettingKeys returns every key ApplySetting accepts, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for k := range settingFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplySetting parses value and stores it under key. The settings are
// left unchanged when the value does not parse.
func ApplySetting(s *domain.AppSettings, key, value string) error {
	field, ok := settingFields[key]
	if !ok {
		return fmt.Errorf("%w %q (valid: %s)", ErrUnknownSetting, key, strings.Join(SettingKeys(), ", "))
	}
	if err := field.set(s, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// SettingValue formats the current value stored under key.
func SettingValue(s *domain.AppSettings, key string) string {
	field, ok := settingFields[key]
	if !ok {
		return ""
	}
	return field.get(s)
}

// ParseDuration accepts Go durations or a bare number of seconds.
func ParseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, errors.New("must not be negative")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("must not be negative")
	}
	return d, nil
}

func parsePositiveInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}
