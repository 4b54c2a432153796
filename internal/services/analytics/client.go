package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"google.golang.org/api/option"
	yta "google.golang.org/api/youtubeanalytics/v2"

	"ytkit/internal/logging"
	"ytkit/internal/services"
)

// Query describes one reports.query call.
type Query struct {
	ChannelID  string
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
	Metrics    string // comma-separated metric names
	Dimensions string
	Filters    string
	Sort       string
	MaxResults int64
}

// Result holds the raw rows of a report. Column order matches the
// dimensions followed by the metrics of the query.
type Result struct {
	Rows [][]any
}

// Empty reports whether the query matched no data.
func (r *Result) Empty() bool { return r == nil || len(r.Rows) == 0 }

// Client wraps the YouTube Analytics API service.
type Client struct {
	svc    *yta.Service
	logger *slog.Logger
}

// New constructs an Analytics API client.
func New(ctx context.Context, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := yta.NewService(ctx, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, "create analytics service", "", err)
	}
	return &Client{
		svc:    svc,
		logger: logging.NewComponentLogger(logger, "analytics"),
	}, nil
}

// Run executes a reports.query call.
func (c *Client) Run(ctx context.Context, q Query) (*Result, error) {
	call := c.svc.Reports.Query().
		Ids("channel==" + q.ChannelID).
		StartDate(q.StartDate).
		EndDate(q.EndDate).
		Metrics(q.Metrics).
		Context(ctx)
	if q.Dimensions != "" {
		call = call.Dimensions(q.Dimensions)
	}
	if q.Filters != "" {
		call = call.Filters(q.Filters)
	}
	if q.Sort != "" {
		call = call.Sort(q.Sort)
	}
	if q.MaxResults > 0 {
		call = call.MaxResults(q.MaxResults)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, services.Classify("analytics query", err)
	}

	c.logger.Debug("analytics query",
		logging.String("metrics", q.Metrics),
		logging.String("dimensions", q.Dimensions),
		logging.Int("rows", len(resp.Rows)))

	return &Result{Rows: resp.Rows}, nil
}

// DateRange returns the YYYY-MM-DD bounds for a report covering the
// given number of days. The window ends yesterday because Analytics
// data lags one to two days behind.
func DateRange(days int, now time.Time) (string, string) {
	end := now.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -days)
	const layout = "2006-01-02"
	return start.Format(layout), end.Format(layout)
}

// Float reads a numeric cell from a report row.
func Float(row []any, index int) float64 {
	if index < 0 || index >= len(row) {
		return 0
	}
	switch v := row[index].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// String reads a string cell from a report row.
func String(row []any, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	switch v := row[index].(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
