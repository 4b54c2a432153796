// Package transcripts maintains the on-disk transcript cache: one JSON
// file per video plus an index file summarizing every known video. It
// syncs the authenticated channel's uploads, fetches single videos on
// demand, and searches the cached captions.
package transcripts
