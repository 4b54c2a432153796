// Package report holds the pure formatting helpers shared by all
// commands: counts with thousands separators, watch-time durations,
// caption timestamps, and HTML comment cleanup. No state, no I/O.
package report
