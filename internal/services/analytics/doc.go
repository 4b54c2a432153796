// Package analytics wraps the YouTube Analytics API v2 reports.query
// endpoint. Reports come back as untyped rows; the Float and String
// helpers keep cell access in one place.
package analytics
