package transcripts

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ytkit/internal/logging"
	"ytkit/internal/services"
	"ytkit/internal/services/captions"
	"ytkit/internal/services/youtube"
)

type fakeChannel struct {
	channel    *youtube.Channel
	uploads    []youtube.Upload
	details    map[string]*youtube.Details
	myID       string
	myIDErr    error
	detailsErr error
}

func (f *fakeChannel) MyChannel(context.Context) (*youtube.Channel, error) {
	return f.channel, nil
}

func (f *fakeChannel) MyChannelID(context.Context) (string, error) {
	return f.myID, f.myIDErr
}

func (f *fakeChannel) Uploads(_ context.Context, playlistID string, _ int64, max int) ([]youtube.Upload, error) {
	if playlistID != f.channel.UploadsPlaylist {
		return nil, fmt.Errorf("unexpected playlist %q", playlistID)
	}
	uploads := f.uploads
	if max > 0 && len(uploads) > max {
		uploads = uploads[:max]
	}
	return uploads, nil
}

func (f *fakeChannel) VideoDetails(_ context.Context, videoID string) (*youtube.Details, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	details, ok := f.details[videoID]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "video details", videoID, nil)
	}
	return details, nil
}

type fakeFetcher struct {
	tracks  map[string]*captions.Transcript
	calls   []string
	onFetch func(videoID string)
}

func (f *fakeFetcher) Fetch(_ context.Context, videoID string) (*captions.Transcript, error) {
	f.calls = append(f.calls, videoID)
	if f.onFetch != nil {
		f.onFetch(videoID)
	}
	track, ok := f.tracks[videoID]
	if !ok {
		return nil, services.Wrap(services.ErrTranscriptUnavailable, "fetch transcript", videoID, nil)
	}
	return track, nil
}

func track(videoID string, segments ...captions.Segment) *captions.Transcript {
	return &captions.Transcript{
		VideoID:  videoID,
		Language: "en",
		Segments: segments,
	}
}

func newTestManager(t *testing.T, fetcher *fakeFetcher, channel *fakeChannel) *Manager {
	t.Helper()
	return &Manager{
		Store:   newTestStore(t),
		Fetcher: fetcher,
		Channel: channel,
		Logger:  logging.NewNop(),
	}
}

func ownChannel(uploads ...youtube.Upload) *fakeChannel {
	return &fakeChannel{
		channel: &youtube.Channel{
			ID:              "chan-1",
			Title:           "My Channel",
			UploadsPlaylist: "UU123",
		},
		uploads: uploads,
		myID:    "chan-1",
	}
}

func TestSyncCountsAndRecordsFailures(t *testing.T) {
	channel := ownChannel(
		youtube.Upload{VideoID: "vid-a", Title: "First"},
		youtube.Upload{VideoID: "vid-b", Title: "No captions"},
		youtube.Upload{VideoID: "vid-c", Title: "Third"},
	)
	fetcher := &fakeFetcher{tracks: map[string]*captions.Transcript{
		"vid-a": track("vid-a", captions.Segment{Start: 0, Text: "hello"}),
		"vid-c": track("vid-c", captions.Segment{Start: 2, Text: "world"}),
	}}
	mgr := newTestManager(t, fetcher, channel)

	result, err := mgr.Sync(context.Background(), SyncOptions{})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Synced != 2 || result.Failed != 1 || result.Skipped != 0 || result.Total != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	idx, err := mgr.Store.LoadIndex()
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	if len(idx.Videos) != 3 {
		t.Fatalf("expected 3 index entries, got %d", len(idx.Videos))
	}
	failed := idx.Videos["vid-b"]
	if failed.HasTranscript || failed.Title != "No captions" || failed.Ownership != OwnershipOwn {
		t.Fatalf("unexpected failed entry: %+v", failed)
	}

	rec, err := mgr.Store.LoadRecord("vid-a")
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	if rec.Ownership != OwnershipOwn || rec.Title != "First" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSyncSkipsCachedUnlessForced(t *testing.T) {
	channel := ownChannel(youtube.Upload{VideoID: "vid-a", Title: "First"})
	fetcher := &fakeFetcher{tracks: map[string]*captions.Transcript{
		"vid-a": track("vid-a", captions.Segment{Start: 0, Text: "hello"}),
	}}
	mgr := newTestManager(t, fetcher, channel)

	if _, err := mgr.Sync(context.Background(), SyncOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	result, err := mgr.Sync(context.Background(), SyncOptions{})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if result.Skipped != 1 || result.Synced != 0 {
		t.Fatalf("expected skip of cached video, got %+v", result)
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("expected a single fetch, got %d", len(fetcher.calls))
	}

	forced, err := mgr.Sync(context.Background(), SyncOptions{Force: true})
	if err != nil {
		t.Fatalf("forced sync: %v", err)
	}
	if forced.Synced != 1 || forced.Skipped != 0 {
		t.Fatalf("expected forced refetch, got %+v", forced)
	}
}

func TestSyncHonorsMax(t *testing.T) {
	channel := ownChannel(
		youtube.Upload{VideoID: "vid-a", Title: "First"},
		youtube.Upload{VideoID: "vid-b", Title: "Second"},
	)
	fetcher := &fakeFetcher{tracks: map[string]*captions.Transcript{
		"vid-a": track("vid-a", captions.Segment{Start: 0, Text: "hello"}),
		"vid-b": track("vid-b", captions.Segment{Start: 0, Text: "again"}),
	}}
	mgr := newTestManager(t, fetcher, channel)

	result, err := mgr.Sync(context.Background(), SyncOptions{Max: 1})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Total != 1 || result.Synced != 1 {
		t.Fatalf("expected one video synced, got %+v", result)
	}
}

func TestSyncPersistsIndexIncrementally(t *testing.T) {
	channel := ownChannel(
		youtube.Upload{VideoID: "vid-a", Title: "First"},
		youtube.Upload{VideoID: "vid-b", Title: "Second"},
	)
	fetcher := &fakeFetcher{tracks: map[string]*captions.Transcript{
		"vid-a": track("vid-a", captions.Segment{Start: 0, Text: "hello"}),
		"vid-b": track("vid-b", captions.Segment{Start: 0, Text: "again"}),
	}}
	mgr := newTestManager(t, fetcher, channel)

	// While the second video is being fetched, the first must already
	// be on disk and in the index.
	var sawFirst bool
	fetcher.onFetch = func(videoID string) {
		if videoID != "vid-b" {
			return
		}
		idx, err := mgr.Store.LoadIndex()
		if err != nil {
			t.Errorf("load index mid-sync: %v", err)
			return
		}
		_, sawFirst = idx.Videos["vid-a"]
		if !mgr.Store.Has("vid-a") {
			t.Error("expected vid-a transcript file before vid-b fetch")
		}
	}

	if _, err := mgr.Sync(context.Background(), SyncOptions{}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !sawFirst {
		t.Fatal("expected index entry for vid-a before vid-b was fetched")
	}
}

func TestGetReturnsCachedWithoutFetching(t *testing.T) {
	fetcher := &fakeFetcher{}
	mgr := newTestManager(t, fetcher, ownChannel())
	if err := mgr.Store.SaveRecord(sampleRecord("vid-a")); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	rec, err := mgr.Get(context.Background(), "vid-a", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Title != "Title vid-a" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(fetcher.calls) != 0 {
		t.Fatalf("expected no fetch for cached video, got %v", fetcher.calls)
	}
}

func TestGetFetchesAndTagsExternalOwnership(t *testing.T) {
	channel := ownChannel()
	channel.details = map[string]*youtube.Details{
		"vid-x": {
			ID:           "vid-x",
			Title:        "Someone else's video",
			ChannelID:    "chan-other",
			ChannelTitle: "Other Channel",
			PublishedAt:  "2026-03-01T00:00:00Z",
		},
	}
	fetcher := &fakeFetcher{tracks: map[string]*captions.Transcript{
		"vid-x": track("vid-x", captions.Segment{Start: 1, Text: "external"}),
	}}
	mgr := newTestManager(t, fetcher, channel)

	rec, err := mgr.Get(context.Background(), "vid-x", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Ownership != OwnershipExternal {
		t.Fatalf("expected external ownership, got %q", rec.Ownership)
	}
	if rec.Title != "Someone else's video" || rec.ChannelTitle != "Other Channel" {
		t.Fatalf("expected metadata from video details, got %+v", rec)
	}
	if !mgr.Store.Has("vid-x") {
		t.Fatal("expected fetched transcript cached")
	}
}

func TestGetFallsBackToUnknownOwnership(t *testing.T) {
	channel := ownChannel()
	channel.detailsErr = errors.New("api down")
	fetcher := &fakeFetcher{tracks: map[string]*captions.Transcript{
		"vid-y": track("vid-y", captions.Segment{Start: 1, Text: "mystery"}),
	}}
	mgr := newTestManager(t, fetcher, channel)

	rec, err := mgr.Get(context.Background(), "vid-y", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Ownership != OwnershipUnknown {
		t.Fatalf("expected unknown ownership, got %q", rec.Ownership)
	}
}

func TestGetRefreshBypassesCache(t *testing.T) {
	channel := ownChannel()
	channel.details = map[string]*youtube.Details{
		"vid-a": {ID: "vid-a", Title: "Fresh title", ChannelID: "chan-1"},
	}
	fetcher := &fakeFetcher{tracks: map[string]*captions.Transcript{
		"vid-a": track("vid-a", captions.Segment{Start: 0, Text: "updated"}),
	}}
	mgr := newTestManager(t, fetcher, channel)
	if err := mgr.Store.SaveRecord(sampleRecord("vid-a")); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	rec, err := mgr.Get(context.Background(), "vid-a", true)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("expected refetch, calls=%v", fetcher.calls)
	}
	if rec.Title != "Fresh title" || rec.Ownership != OwnershipOwn {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
