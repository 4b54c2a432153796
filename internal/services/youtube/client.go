package youtube

import (
	"context"
	"log/slog"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"ytkit/internal/logging"
	"ytkit/internal/services"
)

// Channel summarizes the authenticated user's channel.
type Channel struct {
	ID              string
	Title           string
	CustomURL       string
	Description     string
	UploadsPlaylist string
	Subscribers     uint64
	Views           uint64
	Videos          uint64
}

// Upload is one entry of the uploads playlist.
type Upload struct {
	VideoID     string
	Title       string
	PublishedAt string
}

// Stats carries per-video counters.
type Stats struct {
	Views    uint64
	Likes    uint64
	Comments uint64
}

// Details is the full metadata for a single video.
type Details struct {
	ID           string
	Title        string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
	Duration     string // ISO 8601, e.g. PT1H2M3S
	Definition   string
	Privacy      string
	Tags         []string
	Description  string
	Stats        Stats
}

// Comment is a top-level comment on a video.
type Comment struct {
	Author string
	Text   string
	Likes  int64
}

// SearchResult is one hit of a channel-scoped video search.
type SearchResult struct {
	VideoID     string
	Title       string
	PublishedAt string
}

// Client wraps the YouTube Data API service.
type Client struct {
	svc    *yt.Service
	logger *slog.Logger
}

// New constructs a Data API client. Options typically carry the
// authenticated HTTP client; tests pass a fake endpoint instead.
func New(ctx context.Context, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, "create youtube service", "", err)
	}
	return &Client{
		svc:    svc,
		logger: logging.NewComponentLogger(logger, "youtube"),
	}, nil
}

// MyChannel returns the authenticated user's channel.
func (c *Client) MyChannel(ctx context.Context) (*Channel, error) {
	resp, err := c.svc.Channels.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Mine(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, services.Classify("list channel", err)
	}
	if len(resp.Items) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "list channel", "no channel for authenticated user", nil)
	}

	item := resp.Items[0]
	ch := &Channel{ID: item.Id}
	if item.Snippet != nil {
		ch.Title = item.Snippet.Title
		ch.CustomURL = item.Snippet.CustomUrl
		ch.Description = item.Snippet.Description
	}
	if item.Statistics != nil {
		ch.Subscribers = item.Statistics.SubscriberCount
		ch.Views = item.Statistics.ViewCount
		ch.Videos = item.Statistics.VideoCount
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		ch.UploadsPlaylist = item.ContentDetails.RelatedPlaylists.Uploads
	}

	c.logger.Debug("resolved channel", logging.String("channel_id", ch.ID))
	return ch, nil
}

// MyChannelID returns just the authenticated user's channel ID.
func (c *Client) MyChannelID(ctx context.Context) (string, error) {
	resp, err := c.svc.Channels.List([]string{"id"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return "", services.Classify("list channel", err)
	}
	if len(resp.Items) == 0 {
		return "", services.Wrap(services.ErrNotFound, "list channel", "no channel for authenticated user", nil)
	}
	return resp.Items[0].Id, nil
}

// Uploads walks the uploads playlist page by page and returns up to max
// entries; max <= 0 means all. Pages follow continuation tokens until
// the playlist is exhausted.
func (c *Client) Uploads(ctx context.Context, playlistID string, pageSize int64, max int) ([]Upload, error) {
	if pageSize < 1 || pageSize > 50 {
		pageSize = 50
	}

	var uploads []Upload
	pageToken := ""
	for {
		call := c.svc.PlaylistItems.
			List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, services.Classify("list uploads", err)
		}

		for _, item := range resp.Items {
			upload := Upload{}
			if item.ContentDetails != nil {
				upload.VideoID = item.ContentDetails.VideoId
			}
			if item.Snippet != nil {
				upload.Title = item.Snippet.Title
				upload.PublishedAt = item.Snippet.PublishedAt
			}
			uploads = append(uploads, upload)
			if max > 0 && len(uploads) >= max {
				return uploads, nil
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return uploads, nil
		}
	}
}

// VideoStats fetches statistics for up to 50 video IDs in one call.
func (c *Client) VideoStats(ctx context.Context, ids []string) (map[string]Stats, error) {
	if len(ids) == 0 {
		return map[string]Stats{}, nil
	}
	if len(ids) > 50 {
		ids = ids[:50] // API batch limit
	}
	resp, err := c.svc.Videos.
		List([]string{"statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, services.Classify("list video stats", err)
	}

	stats := make(map[string]Stats, len(resp.Items))
	for _, item := range resp.Items {
		if item.Statistics == nil {
			continue
		}
		stats[item.Id] = Stats{
			Views:    item.Statistics.ViewCount,
			Likes:    item.Statistics.LikeCount,
			Comments: item.Statistics.CommentCount,
		}
	}
	return stats, nil
}

// Titles resolves up to 50 video IDs to their titles in one call. IDs
// the API does not return are absent from the map.
func (c *Client) Titles(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	if len(ids) > 50 {
		ids = ids[:50] // API batch limit
	}
	resp, err := c.svc.Videos.
		List([]string{"snippet"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, services.Classify("list video titles", err)
	}

	titles := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet != nil {
			titles[item.Id] = item.Snippet.Title
		}
	}
	return titles, nil
}

// VideoDetails returns the full metadata for one video.
func (c *Client) VideoDetails(ctx context.Context, videoID string) (*Details, error) {
	resp, err := c.svc.Videos.
		List([]string{"snippet", "statistics", "contentDetails", "status"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, services.Classify("get video", err)
	}
	if len(resp.Items) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "get video", videoID, nil)
	}

	item := resp.Items[0]
	details := &Details{ID: item.Id}
	if item.Snippet != nil {
		details.Title = item.Snippet.Title
		details.ChannelID = item.Snippet.ChannelId
		details.ChannelTitle = item.Snippet.ChannelTitle
		details.PublishedAt = item.Snippet.PublishedAt
		details.Tags = item.Snippet.Tags
		details.Description = item.Snippet.Description
	}
	if item.ContentDetails != nil {
		details.Duration = item.ContentDetails.Duration
		details.Definition = item.ContentDetails.Definition
	}
	if item.Status != nil {
		details.Privacy = item.Status.PrivacyStatus
	}
	if item.Statistics != nil {
		details.Stats = Stats{
			Views:    item.Statistics.ViewCount,
			Likes:    item.Statistics.LikeCount,
			Comments: item.Statistics.CommentCount,
		}
	}
	return details, nil
}

// Comments returns up to max top-level comments ordered by relevance.
func (c *Client) Comments(ctx context.Context, videoID string, max int64) ([]Comment, error) {
	resp, err := c.svc.CommentThreads.
		List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(max).
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, services.Classify("list comments", err)
	}

	comments := make([]Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		snippet := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, Comment{
			Author: snippet.AuthorDisplayName,
			Text:   snippet.TextDisplay,
			Likes:  snippet.LikeCount,
		})
	}
	return comments, nil
}

// SearchChannel runs a relevance-ordered video search scoped to a channel.
func (c *Client) SearchChannel(ctx context.Context, channelID, query string, max int64) ([]SearchResult, error) {
	resp, err := c.svc.Search.
		List([]string{"snippet"}).
		ChannelId(channelID).
		Q(query).
		Type("video").
		MaxResults(max).
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, services.Classify("search channel", err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		result := SearchResult{}
		if item.Id != nil {
			result.VideoID = item.Id.VideoId
		}
		if item.Snippet != nil {
			result.Title = item.Snippet.Title
			result.PublishedAt = item.Snippet.PublishedAt
		}
		results = append(results, result)
	}
	return results, nil
}
