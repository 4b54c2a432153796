package transcripts

import (
	"strings"

	"ytkit/internal/services/captions"
)

// Match is one caption segment containing the query.
type Match struct {
	Start int
	Text  string
}

// VideoMatches groups a video's matches, in timestamp order.
type VideoMatches struct {
	VideoID   string
	Title     string
	Ownership Ownership
	Matches   []Match
}

// SearchReport is the result of a cache-wide search. Total counts every
// match found; Videos carries at most the requested number, so
// Total minus the shown count is how many were cut.
type SearchReport struct {
	Query  string
	Videos []VideoMatches
	Total  int
}

// Shown returns how many matches the report actually carries.
func (r *SearchReport) Shown() int {
	n := 0
	for _, v := range r.Videos {
		n += len(v.Matches)
	}
	return n
}

// Search scans every cached transcript for a case-insensitive substring
// match, walking videos in lexical ID order and segments in timestamp
// order. maxResults caps the matches carried in the report; zero means
// no cap.
func (s *Store) Search(query string, maxResults int) (*SearchReport, error) {
	needle := strings.ToLower(query)
	report := &SearchReport{Query: query}

	ids, err := s.CachedIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		rec, err := s.LoadRecord(id)
		if err != nil {
			return nil, err
		}
		matches := matchSegments(rec.Segments, needle)
		if len(matches) == 0 {
			continue
		}
		report.Total += len(matches)

		if maxResults > 0 {
			room := maxResults - report.Shown()
			if room <= 0 {
				continue
			}
			if len(matches) > room {
				matches = matches[:room]
			}
		}
		report.Videos = append(report.Videos, VideoMatches{
			VideoID:   rec.VideoID,
			Title:     rec.Title,
			Ownership: rec.Ownership,
			Matches:   matches,
		})
	}
	return report, nil
}

func matchSegments(segments []captions.Segment, needle string) []Match {
	var matches []Match
	for _, seg := range segments {
		if strings.Contains(strings.ToLower(seg.Text), needle) {
			matches = append(matches, Match{Start: seg.Start, Text: seg.Text})
		}
	}
	return matches
}
