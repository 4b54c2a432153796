package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Count renders an integer with thousands separators.
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}

// SignedCount renders an integer with an explicit sign and separators.
func SignedCount(n int64) string {
	if n >= 0 {
		return "+" + printer.Sprintf("%d", n)
	}
	return printer.Sprintf("%d", n)
}

// Percent renders a ratio value (already in 0..100) with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Currency renders a dollar amount with separators and two decimals.
func Currency(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// WatchMinutes renders a watch-time total in the largest sensible unit.
func WatchMinutes(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%.1f min", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%.1f hrs", hours)
	}
	return fmt.Sprintf("%.1f days", hours/24)
}

// Timestamp renders a second offset as H:MM:SS, or M:SS under an hour.
func Timestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// VideoDuration converts an ISO 8601 duration like PT1H2M3S to clock
// notation. Unparseable input is returned unchanged.
func VideoDuration(iso string) string {
	match := isoDurationPattern.FindStringSubmatch(strings.TrimSpace(iso))
	if match == nil {
		return iso
	}
	hours := atoiDefault(match[1])
	minutes := atoiDefault(match[2])
	seconds := atoiDefault(match[3])
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

var (
	htmlBreak = regexp.MustCompile(`<br\s*/?>`)
	htmlTag   = regexp.MustCompile(`<[^>]+>`)
)

// StripHTML converts comment HTML to plain text: break tags become
// newlines, remaining tags are dropped, and common entities decoded.
func StripHTML(s string) string {
	s = htmlBreak.ReplaceAllString(s, "\n")
	s = htmlTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return s
}
