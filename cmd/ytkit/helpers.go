package main

import (
	"strings"
	"time"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// publishedDate trims an RFC 3339 timestamp down to its date part.
func publishedDate(value string) string {
	if value == "" {
		return "-"
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.Format("2006-01-02")
	}
	if idx := strings.IndexByte(value, 'T'); idx > 0 {
		return value[:idx]
	}
	return value
}
