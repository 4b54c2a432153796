// Command ytkit is a CLI for YouTube channel maintenance: stored OAuth
// credentials, channel and video inspection, analytics reports, and a
// local transcript cache with full-text search.
package main
