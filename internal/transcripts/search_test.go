package transcripts

import (
	"testing"

	"ytkit/internal/services/captions"
)

func seedSearchStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)
	records := []*Record{
		{
			VideoID:   "bbb",
			Title:     "Second video",
			Ownership: OwnershipOwn,
			Segments: []captions.Segment{
				{Start: 10, Text: "Hello again everyone"},
				{Start: 42, Text: "and that's a wrap"},
			},
		},
		{
			VideoID:   "aaa",
			Title:     "First video",
			Ownership: OwnershipOwn,
			Segments: []captions.Segment{
				{Start: 5, Text: "HELLO world"},
				{Start: 95, Text: "say hello to the camera"},
			},
		},
	}
	for _, rec := range records {
		if err := store.SaveRecord(rec); err != nil {
			t.Fatalf("save %s: %v", rec.VideoID, err)
		}
	}
	return store
}

func TestSearchCaseInsensitiveOrdered(t *testing.T) {
	store := seedSearchStore(t)
	report, err := store.Search("hello", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if report.Total != 3 {
		t.Fatalf("expected 3 matches, got %d", report.Total)
	}
	if len(report.Videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(report.Videos))
	}
	if report.Videos[0].VideoID != "aaa" || report.Videos[1].VideoID != "bbb" {
		t.Fatalf("expected lexical video order, got %q then %q",
			report.Videos[0].VideoID, report.Videos[1].VideoID)
	}
	first := report.Videos[0].Matches
	if len(first) != 2 || first[0].Start != 5 || first[1].Start != 95 {
		t.Fatalf("expected timestamp-ordered matches, got %+v", first)
	}
}

func TestSearchMaxResultsCapsButCountsAll(t *testing.T) {
	store := seedSearchStore(t)
	report, err := store.Search("hello", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if report.Total != 3 {
		t.Fatalf("total must count every match, got %d", report.Total)
	}
	if report.Shown() != 2 {
		t.Fatalf("expected 2 matches shown, got %d", report.Shown())
	}
	if remaining := report.Total - report.Shown(); remaining != 1 {
		t.Fatalf("expected 1 remaining match, got %d", remaining)
	}
}

func TestSearchNoMatches(t *testing.T) {
	store := seedSearchStore(t)
	report, err := store.Search("nonexistent", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if report.Total != 0 || len(report.Videos) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
