package transcripts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"ytkit/internal/logging"
	"ytkit/internal/services"
	"ytkit/internal/services/captions"
)

// Record is one cached transcript, stored as <video-id>.json in the
// transcripts directory.
type Record struct {
	VideoID      string             `json:"video_id"`
	Title        string             `json:"title"`
	PublishedAt  string             `json:"published_at,omitempty"`
	ChannelTitle string             `json:"channel_title,omitempty"`
	Language     string             `json:"language,omitempty"`
	Generated    bool               `json:"generated"`
	Ownership    Ownership          `json:"ownership"`
	FetchedAt    time.Time          `json:"fetched_at"`
	Segments     []captions.Segment `json:"segments"`
	FullText     string             `json:"full_text"`
}

// IndexEntry is the per-video summary kept in the index file so list
// operations never open individual transcript files.
type IndexEntry struct {
	Title         string    `json:"title"`
	PublishedAt   string    `json:"published_at,omitempty"`
	HasTranscript bool      `json:"has_transcript"`
	Ownership     Ownership `json:"ownership"`
}

// Index maps video IDs to their summaries.
type Index struct {
	Videos map[string]IndexEntry `json:"videos"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{Videos: make(map[string]IndexEntry)}
}

// SortedIDs returns the indexed video IDs in lexical order.
func (i *Index) SortedIDs() []string {
	ids := make([]string, 0, len(i.Videos))
	for id := range i.Videos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store persists transcript records and the index as flat JSON files.
// All writes go through a temp file and rename so a crash never leaves
// a partial file behind.
type Store struct {
	dir       string
	indexPath string
	logger    *slog.Logger

	mu sync.Mutex
}

// NewStore constructs a store rooted at dir with the index at indexPath.
func NewStore(dir, indexPath string, logger *slog.Logger) *Store {
	return &Store{
		dir:       dir,
		indexPath: indexPath,
		logger:    logging.NewComponentLogger(logger, "transcripts"),
	}
}

// Dir returns the transcript directory.
func (s *Store) Dir() string {
	return s.dir
}

// RecordPath returns the on-disk location for a video's transcript.
func (s *Store) RecordPath(videoID string) string {
	return filepath.Join(s.dir, videoID+".json")
}

// Has reports whether a transcript file exists for the video.
func (s *Store) Has(videoID string) bool {
	_, err := os.Stat(s.RecordPath(videoID))
	return err == nil
}

// LoadRecord reads one cached transcript. Missing files map to
// ErrNotFound.
func (s *Store) LoadRecord(videoID string) (*Record, error) {
	data, err := os.ReadFile(s.RecordPath(videoID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "load transcript", videoID, nil)
		}
		return nil, fmt.Errorf("load transcript %s: %w", videoID, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("load transcript %s: %w", videoID, err)
	}
	rec.Ownership = rec.Ownership.Normalize()
	return &rec, nil
}

// SaveRecord writes the transcript file and updates the index entry in
// the same call, so the index never lags more than one video behind.
func (s *Store) SaveRecord(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.FullText == "" && len(rec.Segments) > 0 {
		parts := make([]string, 0, len(rec.Segments))
		for _, seg := range rec.Segments {
			parts = append(parts, seg.Text)
		}
		rec.FullText = strings.Join(parts, " ")
	}
	rec.Ownership = rec.Ownership.Normalize()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("save transcript %s: %w", rec.VideoID, err)
	}
	if err := writeJSONAtomic(s.RecordPath(rec.VideoID), rec); err != nil {
		return fmt.Errorf("save transcript %s: %w", rec.VideoID, err)
	}

	idx, err := s.loadIndexLocked()
	if err != nil {
		return err
	}
	idx.Videos[rec.VideoID] = IndexEntry{
		Title:         rec.Title,
		PublishedAt:   rec.PublishedAt,
		HasTranscript: len(rec.Segments) > 0,
		Ownership:     rec.Ownership,
	}
	return s.saveIndexLocked(idx)
}

// SetIndexEntry records a video in the index without a transcript file,
// used for videos whose captions could not be fetched.
func (s *Store) SetIndexEntry(videoID string, entry IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadIndexLocked()
	if err != nil {
		return err
	}
	entry.Ownership = entry.Ownership.Normalize()
	idx.Videos[videoID] = entry
	return s.saveIndexLocked(idx)
}

// DeleteRecord removes a transcript file and its index entry.
func (s *Store) DeleteRecord(videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.RecordPath(videoID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete transcript %s: %w", videoID, err)
	}
	idx, err := s.loadIndexLocked()
	if err != nil {
		return err
	}
	delete(idx.Videos, videoID)
	return s.saveIndexLocked(idx)
}

// LoadIndex reads the index, returning an empty one when the file does
// not exist yet. Entries pointing at missing transcript files are kept;
// list output reflects the index, get falls back to a fresh fetch.
func (s *Store) LoadIndex() (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadIndexLocked()
}

func (s *Store) loadIndexLocked() (*Index, error) {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewIndex(), nil
		}
		return nil, fmt.Errorf("load transcript index: %w", err)
	}
	idx := NewIndex()
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("load transcript index: %w", err)
	}
	if idx.Videos == nil {
		idx.Videos = make(map[string]IndexEntry)
	}
	for id, entry := range idx.Videos {
		entry.Ownership = entry.Ownership.Normalize()
		idx.Videos[id] = entry
	}
	return idx, nil
}

func (s *Store) saveIndexLocked(idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(s.indexPath), 0o755); err != nil {
		return fmt.Errorf("save transcript index: %w", err)
	}
	if err := writeJSONAtomic(s.indexPath, idx); err != nil {
		return fmt.Errorf("save transcript index: %w", err)
	}
	return nil
}

// CachedIDs lists the video IDs that have transcript files on disk, in
// lexical order.
func (s *Store) CachedIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func writeJSONAtomic(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
