package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.TokenPath == "" {
		return errors.New("paths.token_path must be set")
	}
	if c.Paths.TranscriptsDir == "" {
		return errors.New("paths.transcripts_dir must be set")
	}
	if c.Paths.IndexPath == "" {
		return errors.New("paths.index_path must be set")
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.RedirectPort < 1 || c.Auth.RedirectPort > 65535 {
		return fmt.Errorf("auth.redirect_port %d outside valid port range", c.Auth.RedirectPort)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.PageSize < 1 || c.Sync.PageSize > 50 {
		return fmt.Errorf("sync.page_size must be between 1 and 50, got %d", c.Sync.PageSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
