package analytics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), nil,
		option.WithEndpoint(server.URL),
		option.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestRunBuildsQueryParams(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("ids") != "channel==UCabc" {
			t.Errorf("ids = %q", q.Get("ids"))
		}
		if q.Get("metrics") != "views,likes" {
			t.Errorf("metrics = %q", q.Get("metrics"))
		}
		if q.Get("dimensions") != "video" {
			t.Errorf("dimensions = %q", q.Get("dimensions"))
		}
		if q.Get("sort") != "-views" {
			t.Errorf("sort = %q", q.Get("sort"))
		}
		fmt.Fprint(w, `{"rows": [["v1", 120, 5], ["v2", 80, 2]]}`)
	}))

	result, err := client.Run(context.Background(), Query{
		ChannelID:  "UCabc",
		StartDate:  "2026-08-01",
		EndDate:    "2026-08-29",
		Metrics:    "views,likes",
		Dimensions: "video",
		Sort:       "-views",
		MaxResults: 10,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Empty() {
		t.Fatal("expected rows")
	}
	if got := String(result.Rows[0], 0); got != "v1" {
		t.Errorf("video id = %q", got)
	}
	if got := Float(result.Rows[0], 1); got != 120 {
		t.Errorf("views = %v", got)
	}
}

func TestRunEmptyResult(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))

	result, err := client.Run(context.Background(), Query{ChannelID: "UCabc", StartDate: "2026-08-01", EndDate: "2026-08-29", Metrics: "views"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Empty() {
		t.Fatal("expected empty result")
	}
}

func TestDateRangeEndsYesterday(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	start, end := DateRange(28, now)
	if end != "2026-08-29" {
		t.Errorf("end = %q", end)
	}
	if start != "2026-08-01" {
		t.Errorf("start = %q", start)
	}
}

func TestFloatCoercions(t *testing.T) {
	row := []any{"v1", float64(3.5), "7.25", int64(2)}
	if got := Float(row, 1); got != 3.5 {
		t.Errorf("float cell = %v", got)
	}
	if got := Float(row, 2); got != 7.25 {
		t.Errorf("string cell = %v", got)
	}
	if got := Float(row, 3); got != 2 {
		t.Errorf("int cell = %v", got)
	}
	if got := Float(row, 9); got != 0 {
		t.Errorf("out of range = %v", got)
	}
}
