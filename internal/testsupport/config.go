package testsupport

import (
	"path/filepath"
	"testing"

	"ytkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TokenPath = filepath.Join(base, "token.json")
	cfgVal.Paths.ClientSecretPath = filepath.Join(base, "client_secret.json")
	cfgVal.Paths.TranscriptsDir = filepath.Join(base, "transcripts")
	cfgVal.Paths.IndexPath = filepath.Join(base, "transcript_index.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLanguages overrides the caption language preference on the test config.
func WithLanguages(languages ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Captions.Languages = languages
	}
}

// WithDefaultDays overrides the analytics reporting window on the test config.
func WithDefaultDays(days int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analytics.DefaultDays = days
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.TranscriptsDir)
}
