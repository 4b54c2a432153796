package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, _, exists, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected no config file to exist")
	}
	if cfg.Sync.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Sync.PageSize)
	}
	if cfg.Analytics.DefaultDays != 28 {
		t.Errorf("DefaultDays = %d, want 28", cfg.Analytics.DefaultDays)
	}
	if got := cfg.Captions.Languages; len(got) != 3 || got[0] != "en" {
		t.Errorf("Languages = %v", got)
	}
	if !filepath.IsAbs(cfg.Paths.TokenPath) {
		t.Errorf("TokenPath not expanded: %q", cfg.Paths.TokenPath)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`transcripts_dir = "~/transcripts"`,
		"[captions]",
		`languages = ["de"]`,
		"[sync]",
		"page_size = 25",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Sync.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Sync.PageSize)
	}
	if cfg.Paths.TranscriptsDir != filepath.Join(home, "transcripts") {
		t.Errorf("TranscriptsDir = %q", cfg.Paths.TranscriptsDir)
	}
	if len(cfg.Captions.Languages) != 1 || cfg.Captions.Languages[0] != "de" {
		t.Errorf("Languages = %v", cfg.Captions.Languages)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"page size", func(c *Config) { c.Sync.PageSize = 51 }, "page_size"},
		{"port", func(c *Config) { c.Auth.RedirectPort = 70000 }, "redirect_port"},
		{"format", func(c *Config) { c.Logging.Format = "yaml" }, "logging.format"},
		{"level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate error = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.TranscriptsDir = filepath.Join(base, "transcripts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.TokenPath = filepath.Join(base, "conf", "token.json")
	cfg.Paths.IndexPath = filepath.Join(base, "data", "index.json")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.TranscriptsDir, cfg.Paths.LogDir, filepath.Join(base, "conf"), filepath.Join(base, "data")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %q missing: %v", dir, err)
		}
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/cache/thing.json")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "cache", "thing.json") {
		t.Errorf("ExpandPath = %q", got)
	}
}
