// Package youtube wraps the YouTube Data API v3 calls the commands
// need: channel info, uploads enumeration, video metadata, comments,
// and channel-scoped search. Pagination of the uploads playlist is the
// only stateful loop; everything else is a single call-through.
package youtube
