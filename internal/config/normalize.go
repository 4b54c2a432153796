package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCaptions()
	c.normalizeAnalytics()
	c.normalizeAuth()
	c.normalizeSync()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TokenPath) == "" {
		c.Paths.TokenPath = defaultTokenPath
	}
	if c.Paths.TokenPath, err = expandPath(c.Paths.TokenPath); err != nil {
		return fmt.Errorf("paths.token_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.ClientSecretPath) == "" {
		c.Paths.ClientSecretPath = defaultClientSecretPath
	}
	if c.Paths.ClientSecretPath, err = expandPath(c.Paths.ClientSecretPath); err != nil {
		return fmt.Errorf("paths.client_secret_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.TranscriptsDir) == "" {
		c.Paths.TranscriptsDir = defaultTranscriptsDir
	}
	if c.Paths.TranscriptsDir, err = expandPath(c.Paths.TranscriptsDir); err != nil {
		return fmt.Errorf("paths.transcripts_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.IndexPath) == "" {
		c.Paths.IndexPath = defaultIndexPath
	}
	if c.Paths.IndexPath, err = expandPath(c.Paths.IndexPath); err != nil {
		return fmt.Errorf("paths.index_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCaptions() {
	languages := make([]string, 0, len(c.Captions.Languages))
	for _, lang := range c.Captions.Languages {
		if trimmed := strings.TrimSpace(lang); trimmed != "" {
			languages = append(languages, trimmed)
		}
	}
	if len(languages) == 0 {
		languages = defaultCaptionLanguages()
	}
	c.Captions.Languages = languages
}

func (c *Config) normalizeAnalytics() {
	if c.Analytics.DefaultDays <= 0 {
		c.Analytics.DefaultDays = defaultAnalyticsDays
	}
}

func (c *Config) normalizeAuth() {
	if c.Auth.RedirectPort <= 0 {
		c.Auth.RedirectPort = defaultRedirectPort
	}
	c.Auth.RevokeURL = strings.TrimSpace(c.Auth.RevokeURL)
	if c.Auth.RevokeURL == "" {
		c.Auth.RevokeURL = defaultRevokeURL
	}
}

func (c *Config) normalizeSync() {
	if c.Sync.PageSize <= 0 {
		c.Sync.PageSize = defaultSyncPageSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
