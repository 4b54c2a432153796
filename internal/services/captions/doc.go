// Package captions fetches YouTube caption tracks through the
// youtube-transcript-api library and normalizes them into timestamped
// segments.
package captions
