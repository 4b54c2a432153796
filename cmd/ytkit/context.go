package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"google.golang.org/api/option"

	"ytkit/internal/auth"
	"ytkit/internal/config"
	"ytkit/internal/logging"
	"ytkit/internal/services"
	"ytkit/internal/services/analytics"
	"ytkit/internal/services/captions"
	"ytkit/internal/services/youtube"
	"ytkit/internal/transcripts"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	// fetcher, when preset, replaces the caption service. Tests use it.
	fetcher captions.Fetcher
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) tokenStore() (*auth.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return auth.NewStore(cfg.Paths.TokenPath, c.log()), nil
}

func (c *commandContext) authedClient(ctx context.Context) (*http.Client, error) {
	store, err := c.tokenStore()
	if err != nil {
		return nil, err
	}
	return store.Client(ctx)
}

func (c *commandContext) youtubeClient(ctx context.Context) (*youtube.Client, error) {
	httpClient, err := c.authedClient(ctx)
	if err != nil {
		return nil, err
	}
	return youtube.New(ctx, c.log(), option.WithHTTPClient(httpClient))
}

func (c *commandContext) analyticsClient(ctx context.Context) (*analytics.Client, error) {
	httpClient, err := c.authedClient(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.New(ctx, c.log(), option.WithHTTPClient(httpClient))
}

func (c *commandContext) transcriptStore() (*transcripts.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return transcripts.NewStore(cfg.Paths.TranscriptsDir, cfg.Paths.IndexPath, c.log()), nil
}

func (c *commandContext) captionFetcher() (captions.Fetcher, error) {
	if c.fetcher != nil {
		return c.fetcher, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return captions.NewService(cfg.Captions.Languages, c.log()), nil
}

// transcriptManager wires the transcript cache to the caption fetcher
// and, when credentials exist, the Data API. Commands that only read
// the cache still work without stored credentials.
func (c *commandContext) transcriptManager(ctx context.Context) (*transcripts.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.transcriptStore()
	if err != nil {
		return nil, err
	}

	var channel transcripts.ChannelAPI
	client, err := c.youtubeClient(ctx)
	switch {
	case err == nil:
		channel = client
	case errors.Is(err, services.ErrNoCredentials):
		// Cache-only operation.
	default:
		return nil, err
	}

	fetcher, err := c.captionFetcher()
	if err != nil {
		return nil, err
	}
	return &transcripts.Manager{
		Store:    store,
		Fetcher:  fetcher,
		Channel:  channel,
		Logger:   c.log(),
		LockPath: filepath.Join(cfg.Paths.LogDir, "sync.lock"),
		PageSize: cfg.Sync.PageSize,
	}, nil
}
