package transcripts

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ytkit/internal/logging"
	"ytkit/internal/services"
	"ytkit/internal/services/captions"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "transcripts"), filepath.Join(dir, "transcript_index.json"), logging.NewNop())
}

func sampleRecord(videoID string) *Record {
	return &Record{
		VideoID:     videoID,
		Title:       "Title " + videoID,
		PublishedAt: "2026-01-02T03:04:05Z",
		Language:    "en",
		Ownership:   OwnershipOwn,
		FetchedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Segments: []captions.Segment{
			{Start: 0, Text: "hello there"},
			{Start: 4, Text: "general remarks"},
		},
	}
}

func TestSaveRecordBuildsFullTextAndIndex(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveRecord(sampleRecord("vid-a")); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec, err := store.LoadRecord("vid-a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.FullText != "hello there general remarks" {
		t.Fatalf("unexpected full text %q", rec.FullText)
	}

	idx, err := store.LoadIndex()
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	entry, ok := idx.Videos["vid-a"]
	if !ok {
		t.Fatal("expected index entry for vid-a")
	}
	if !entry.HasTranscript || entry.Title != "Title vid-a" || entry.Ownership != OwnershipOwn {
		t.Fatalf("unexpected index entry: %+v", entry)
	}
}

func TestLoadRecordMissingIsNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.LoadRecord("absent")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadIndexMissingReturnsEmpty(t *testing.T) {
	store := newTestStore(t)
	idx, err := store.LoadIndex()
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	if len(idx.Videos) != 0 {
		t.Fatalf("expected empty index, got %d entries", len(idx.Videos))
	}
}

func TestLoadNormalizesUnknownOwnership(t *testing.T) {
	store := newTestStore(t)
	rec := sampleRecord("vid-b")
	rec.Ownership = Ownership("mine") // stale value from an older cache
	if err := store.SaveRecord(rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.LoadRecord("vid-b")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Ownership != OwnershipUnknown {
		t.Fatalf("expected unknown ownership, got %q", loaded.Ownership)
	}
}

func TestDeleteRecordRemovesFileAndIndexEntry(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveRecord(sampleRecord("vid-c")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeleteRecord("vid-c"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Has("vid-c") {
		t.Fatal("expected transcript file removed")
	}
	idx, err := store.LoadIndex()
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	if _, ok := idx.Videos["vid-c"]; ok {
		t.Fatal("expected index entry removed")
	}
}

func TestCachedIDsSorted(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"zzz", "aaa", "mmm"} {
		if err := store.SaveRecord(sampleRecord(id)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	ids, err := store.CachedIDs()
	if err != nil {
		t.Fatalf("cached ids: %v", err)
	}
	want := []string{"aaa", "mmm", "zzz"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestIndexFileIsIndentedJSON(t *testing.T) {
	store := newTestStore(t)
	if err := store.SetIndexEntry("vid-d", IndexEntry{Title: "No captions", Ownership: OwnershipOwn}); err != nil {
		t.Fatalf("set entry: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(store.Dir()), "transcript_index.json"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if entry := idx.Videos["vid-d"]; entry.HasTranscript {
		t.Fatalf("expected has_transcript false, got %+v", entry)
	}
}
