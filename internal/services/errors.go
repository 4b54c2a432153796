package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

var (
	// ErrNoCredentials marks a missing or unusable token file.
	ErrNoCredentials = errors.New("no credentials")
	// ErrNotFound marks a lookup for an id the remote service does not know.
	ErrNotFound = errors.New("not found")
	// ErrCommentsDisabled marks a comment listing on a video with comments off.
	ErrCommentsDisabled = errors.New("comments disabled")
	// ErrQuotaExceeded marks an exhausted API quota.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrTranscriptUnavailable marks the expected no-captions conditions:
	// captions disabled, no track in any language, or video unavailable.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	// ErrRemote marks any other remote-service failure.
	ErrRemote = errors.New("remote service error")
)

// Wrap builds an error that includes call context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrRemote
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// Classify maps a Google API error onto the sentinel taxonomy so callers can
// branch with errors.Is instead of inspecting response bodies.
func Classify(operation string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return Wrap(ErrRemote, operation, "", err)
	}
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "commentsDisabled":
			return Wrap(ErrCommentsDisabled, operation, "", err)
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return Wrap(ErrQuotaExceeded, operation, "", err)
		}
	}
	switch apiErr.Code {
	case http.StatusNotFound:
		return Wrap(ErrNotFound, operation, "", err)
	case http.StatusForbidden:
		if strings.Contains(apiErr.Message, "quota") {
			return Wrap(ErrQuotaExceeded, operation, "", err)
		}
	}
	return Wrap(ErrRemote, operation, "", err)
}
