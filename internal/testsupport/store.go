package testsupport

import (
	"testing"

	"ytkit/internal/config"
	"ytkit/internal/logging"
	"ytkit/internal/transcripts"
)

// NewTranscriptStore opens a transcript store rooted at the test
// config's cache paths.
func NewTranscriptStore(t testing.TB, cfg *config.Config) *transcripts.Store {
	t.Helper()
	return transcripts.NewStore(cfg.Paths.TranscriptsDir, cfg.Paths.IndexPath, logging.NewNop())
}
