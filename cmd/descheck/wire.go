package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/custodia-labs/descheck/internal/adapters/driven/auth"
	"github.com/custodia-labs/descheck/internal/adapters/driven/cache"
	"github.com/custodia-labs/descheck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/descheck/internal/adapters/driven/media"
	"github.com/custodia-labs/descheck/internal/adapters/driven/metrics"
	"github.com/custodia-labs/descheck/internal/adapters/driven/remote"
	"github.com/custodia-labs/descheck/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/descheck/internal/adapters/driving/cli"
	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/core/services"
	"github.com/custodia-labs/descheck/internal/logger"
)

// Environment overrides, also read from .env.
const (
	envConfigDir = "DESCHECK_CONFIG_DIR"
	envAPIURL    = "DESCHECK_API_URL"
	envSocialURL = "DESCHECK_SOCIAL_URL"
	envToken     = "DESCHECK_TOKEN"
)

// initialize builds every service from the config directory.
func initialize(opts cli.Options) (cli.Services, func(), error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = os.Getenv(envConfigDir)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("loading settings: %w", err)
	}
	applyEnv(settings)

	var tokens driven.TokenStore = auth.NewConfigTokenStore(configStore)
	if token := strings.TrimSpace(os.Getenv(envToken)); token != "" {
		logger.Debug("using session token from %s", envToken)
		tokens = auth.NewStaticTokenStore(token)
	}

	client, err := remote.NewClient(remote.Config{
		BaseURL:           settings.API.BaseURL,
		SocialURL:         settings.API.SocialBaseURL(),
		RequestsPerSecond: settings.HTTP.RequestsPerSecond,
		Burst:             settings.HTTP.Burst,
	})
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("creating client: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	social := cache.NewSocialExtractor(client, settings.Cache.Size, settings.Cache.TTL,
		cache.WithLookupObserver(recorder.ObserveCacheLookup))

	pipeline, err := services.NewPipeline(services.PipelineDeps{
		Tokens:   tokens,
		Identity: client,
		Store:    client,
		Analyzer: client,
		Social:   social,
		Fetcher:  media.NewHTTPFetcher(nil),
	}, services.WithStepTimeout(settings.Pipeline.StepTimeout))
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("creating pipeline: %w", err)
	}
	if err := pipeline.Subscribe(recorder.Handle); err != nil {
		return cli.Services{}, nil, fmt.Errorf("subscribing metrics: %w", err)
	}

	svcs := cli.Services{
		Pipeline:    pipeline,
		Auth:        services.NewAuthService(tokens, client),
		Files:       services.NewFileService(tokens, client),
		Settings:    settingsService,
		Metrics:     metrics.Handler(registry),
		WatchConfig: configStore.Watch,
	}
	release := func() {}

	if settings.History.Enabled {
		dataDir := filepath.Join(filepath.Dir(configStore.Path()), "data")
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return cli.Services{}, nil, fmt.Errorf("opening history: %w", err)
		}
		history := store.HistoryStore()
		if err := pipeline.Subscribe(services.NewHistoryRecorder(history).Handle); err != nil {
			_ = store.Close()
			return cli.Services{}, nil, fmt.Errorf("subscribing history: %w", err)
		}
		svcs.History = services.NewHistoryService(history)
		release = func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing history: %v", err)
			}
		}
	}

	return svcs, release, nil
}

// applyEnv overrides the API roots from the environment for this process
// only. The config file is left untouched.
func applyEnv(settings *domain.AppSettings) {
	if v := strings.TrimSpace(os.Getenv(envAPIURL)); v != "" {
		settings.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envSocialURL)); v != "" {
		settings.API.SocialURL = v
	}
}
