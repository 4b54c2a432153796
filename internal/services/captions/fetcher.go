package captions

import (
	"context"
	"log/slog"
	"strings"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_models"

	"ytkit/internal/logging"
	"ytkit/internal/services"
)

// Segment is a timestamped span of caption text.
type Segment struct {
	Start int    `json:"start"`
	Text  string `json:"text"`
}

// Transcript is a fetched caption track, normalized to whole-second
// offsets and single-line text.
type Transcript struct {
	VideoID   string
	Title     string
	Language  string
	Generated bool
	Segments  []Segment
}

// FullText joins the segment texts with single spaces.
func (t *Transcript) FullText() string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// Fetcher retrieves the preferred caption track for a video.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}

// Service fetches transcripts through the youtube-transcript-api
// library, preferring a manually created track in one of the configured
// languages, then an auto-generated one, then whatever exists.
type Service struct {
	client    *yt_transcript.YtTranscriptClient
	languages []string
	logger    *slog.Logger
}

// NewService constructs a caption fetcher with a language preference list.
func NewService(languages []string, logger *slog.Logger) *Service {
	return &Service{
		client:    yt_transcript.NewClient(),
		languages: append([]string{}, languages...),
		logger:    logging.NewComponentLogger(logger, "captions"),
	}
}

// Fetch retrieves the best available caption track. All failure modes of
// the underlying library (captions disabled, no track in any language,
// video unavailable) surface as ErrTranscriptUnavailable; callers treat
// that as an expected outcome, not a fault.
func (s *Service) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracks, err := s.client.GetTranscripts(videoID, s.languages)
	if err != nil || len(tracks) == 0 {
		// Retry without a language filter before giving up.
		tracks, err = s.client.GetTranscripts(videoID, nil)
	}
	if err != nil {
		s.logger.Debug("transcript fetch failed",
			logging.String(logging.FieldVideoID, videoID),
			logging.Error(err))
		return nil, services.Wrap(services.ErrTranscriptUnavailable, "fetch transcript", videoID, err)
	}
	if len(tracks) == 0 {
		return nil, services.Wrap(services.ErrTranscriptUnavailable, "fetch transcript", videoID, nil)
	}

	track := pickTrack(tracks, s.languages)
	return normalize(videoID, track), nil
}

// pickTrack applies the language preference: manual track in a preferred
// language, then generated in a preferred language, then the first track.
func pickTrack(tracks []yt_transcript_models.Transcript, preferred []string) yt_transcript_models.Transcript {
	isPreferred := func(code string) bool {
		for _, lang := range preferred {
			if strings.EqualFold(code, lang) {
				return true
			}
		}
		return false
	}
	for _, track := range tracks {
		if !track.IsGenerated && isPreferred(track.LanguageCode) {
			return track
		}
	}
	for _, track := range tracks {
		if isPreferred(track.LanguageCode) {
			return track
		}
	}
	return tracks[0]
}

func normalize(videoID string, track yt_transcript_models.Transcript) *Transcript {
	segments := make([]Segment, 0, len(track.Lines))
	for _, line := range track.Lines {
		text := strings.TrimSpace(strings.ReplaceAll(line.Text, "\n", " "))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: int(line.Start),
			Text:  text,
		})
	}
	return &Transcript{
		VideoID:   videoID,
		Title:     track.VideoTitle,
		Language:  track.Language,
		Generated: track.IsGenerated,
		Segments:  segments,
	}
}
