package transcripts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"ytkit/internal/logging"
	"ytkit/internal/services"
	"ytkit/internal/services/captions"
	"ytkit/internal/services/youtube"
)

// ChannelAPI is the slice of the YouTube Data client the transcript
// manager needs. youtube.Client satisfies it.
type ChannelAPI interface {
	MyChannel(ctx context.Context) (*youtube.Channel, error)
	MyChannelID(ctx context.Context) (string, error)
	Uploads(ctx context.Context, playlistID string, pageSize int64, max int) ([]youtube.Upload, error)
	VideoDetails(ctx context.Context, videoID string) (*youtube.Details, error)
}

// Manager coordinates the transcript cache: bulk sync of the channel's
// uploads, single-video fetch, and ownership tagging.
type Manager struct {
	Store    *Store
	Fetcher  captions.Fetcher
	Channel  ChannelAPI
	Logger   *slog.Logger
	LockPath string
	PageSize int64
	Now      func() time.Time
}

func (m *Manager) logger() *slog.Logger {
	return logging.NewComponentLogger(m.Logger, "transcripts")
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now().UTC()
}

// SyncOptions controls a bulk sync run.
type SyncOptions struct {
	// Force refetches transcripts that are already cached.
	Force bool
	// Max caps how many uploads are considered; zero means all.
	Max int
}

// SyncResult tallies one sync run.
type SyncResult struct {
	ChannelTitle string
	Total        int
	Synced       int
	Skipped      int
	Failed       int
}

// Sync walks the authenticated channel's uploads and caches a
// transcript for each. A video whose captions cannot be fetched counts
// as failed and is recorded in the index without a transcript; the run
// continues. The transcript file and index are written after every
// video, so an interrupted run keeps everything fetched so far.
func (m *Manager) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	if m.LockPath != "" {
		lock := flock.New(m.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("sync transcripts: acquire lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("sync transcripts: another sync is already running")
		}
		defer lock.Unlock()
	}

	channel, err := m.Channel.MyChannel(ctx)
	if err != nil {
		return nil, err
	}
	uploads, err := m.Channel.Uploads(ctx, channel.UploadsPlaylist, m.pageSize(), opts.Max)
	if err != nil {
		return nil, err
	}

	logger := m.logger()
	logger.Info("syncing channel uploads",
		logging.String("channel", channel.Title),
		logging.Int("uploads", len(uploads)))

	result := &SyncResult{ChannelTitle: channel.Title, Total: len(uploads)}
	for _, upload := range uploads {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !opts.Force && m.Store.Has(upload.VideoID) {
			result.Skipped++
			continue
		}

		track, err := m.Fetcher.Fetch(ctx, upload.VideoID)
		if err != nil {
			result.Failed++
			logger.Warn("transcript unavailable",
				logging.String(logging.FieldVideoID, upload.VideoID),
				logging.String("title", upload.Title),
				logging.Error(err))
			entry := IndexEntry{
				Title:         upload.Title,
				PublishedAt:   upload.PublishedAt,
				HasTranscript: false,
				Ownership:     OwnershipOwn,
			}
			if err := m.Store.SetIndexEntry(upload.VideoID, entry); err != nil {
				return result, err
			}
			continue
		}

		rec := m.recordFromTrack(track, upload.Title, upload.PublishedAt, channel.Title, OwnershipOwn)
		if err := m.Store.SaveRecord(rec); err != nil {
			return result, err
		}
		result.Synced++
		logger.Debug("transcript cached",
			logging.String(logging.FieldVideoID, upload.VideoID),
			logging.Int("segments", len(rec.Segments)))
	}

	logger.Info("sync complete",
		logging.Int("synced", result.Synced),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", result.Failed))
	return result, nil
}

// Get returns the transcript for one video, from the cache when
// present. refresh forces a new fetch. Ownership of newly fetched
// videos is resolved against the authenticated channel; when that
// lookup fails the record is tagged unknown rather than failing the
// whole operation.
func (m *Manager) Get(ctx context.Context, videoID string, refresh bool) (*Record, error) {
	if !refresh {
		rec, err := m.Store.LoadRecord(videoID)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, services.ErrNotFound) {
			return nil, err
		}
	}

	track, err := m.Fetcher.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}

	title := track.Title
	published := ""
	channelTitle := ""
	ownership := OwnershipUnknown
	if m.Channel != nil {
		if details, derr := m.Channel.VideoDetails(ctx, videoID); derr == nil {
			title = details.Title
			published = details.PublishedAt
			channelTitle = details.ChannelTitle
			if myID, cerr := m.Channel.MyChannelID(ctx); cerr == nil {
				if details.ChannelID == myID {
					ownership = OwnershipOwn
				} else {
					ownership = OwnershipExternal
				}
			}
		} else {
			m.logger().Debug("ownership lookup failed",
				logging.String(logging.FieldVideoID, videoID),
				logging.Error(derr))
		}
	}

	rec := m.recordFromTrack(track, title, published, channelTitle, ownership)
	if err := m.Store.SaveRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (m *Manager) recordFromTrack(track *captions.Transcript, title, published, channelTitle string, ownership Ownership) *Record {
	if title == "" {
		title = track.Title
	}
	return &Record{
		VideoID:      track.VideoID,
		Title:        title,
		PublishedAt:  published,
		ChannelTitle: channelTitle,
		Language:     track.Language,
		Generated:    track.Generated,
		Ownership:    ownership,
		FetchedAt:    m.now(),
		Segments:     track.Segments,
		FullText:     track.FullText(),
	}
}

func (m *Manager) pageSize() int64 {
	if m.PageSize > 0 {
		return m.PageSize
	}
	return 50
}
