package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ytkit/internal/report"
	"ytkit/internal/services/analytics"
)

func newAnalyticsCommand(ctx *commandContext) *cobra.Command {
	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Channel analytics reports",
	}

	analyticsCmd.AddCommand(newAnalyticsOverviewCommand(ctx))
	analyticsCmd.AddCommand(newAnalyticsTopVideosCommand(ctx))
	analyticsCmd.AddCommand(newAnalyticsVideoCommand(ctx))
	analyticsCmd.AddCommand(newAnalyticsDemographicsCommand(ctx))
	analyticsCmd.AddCommand(newAnalyticsTrafficCommand(ctx))
	analyticsCmd.AddCommand(newAnalyticsGeographyCommand(ctx))

	return analyticsCmd
}

// reportRange resolves the --days flag against the configured default
// and returns the date window plus a printable description.
func reportRange(ctx *commandContext, days int) (string, string, string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", "", "", err
	}
	if days <= 0 {
		days = cfg.Analytics.DefaultDays
	}
	start, end := analytics.DateRange(days, time.Now().UTC())
	label := fmt.Sprintf("last %d days (%s to %s)", days, start, end)
	return start, end, label, nil
}

func runReport(cmd *cobra.Command, ctx *commandContext, q analytics.Query) (*analytics.Result, error) {
	client, err := ctx.analyticsClient(cmd.Context())
	if err != nil {
		return nil, err
	}
	q.ChannelID = "MINE"
	return client.Run(cmd.Context(), q)
}

func newAnalyticsOverviewCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Channel-wide performance summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, label, err := reportRange(ctx, days)
			if err != nil {
				return err
			}
			result, err := runReport(cmd, ctx, analytics.Query{
				StartDate: start,
				EndDate:   end,
				Metrics: "views,estimatedMinutesWatched,averageViewDuration," +
					"averageViewPercentage,subscribersGained,subscribersLost," +
					"likes,comments,shares,estimatedRevenue",
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Channel overview, %s\n\n", label)
			if result.Empty() {
				fmt.Fprintln(out, "No analytics data for this period")
				return nil
			}

			row := result.Rows[0]
			gained := analytics.Float(row, 4)
			lost := analytics.Float(row, 5)
			rows := [][]string{
				{"Views", report.Count(int64(analytics.Float(row, 0)))},
				{"Watch time", report.WatchMinutes(analytics.Float(row, 1))},
				{"Avg view duration", report.Timestamp(int(analytics.Float(row, 2)))},
				{"Avg percentage viewed", report.Percent(analytics.Float(row, 3))},
				{"Subscribers gained", report.Count(int64(gained))},
				{"Subscribers lost", report.Count(int64(lost))},
				{"Net subscribers", report.SignedCount(int64(gained - lost))},
				{"Likes", report.Count(int64(analytics.Float(row, 6)))},
				{"Comments", report.Count(int64(analytics.Float(row, 7)))},
				{"Shares", report.Count(int64(analytics.Float(row, 8)))},
			}
			// Revenue is zero for unmonetized channels; hide it then.
			if revenue := analytics.Float(row, 9); revenue > 0 {
				rows = append(rows, []string{"Est. revenue", report.Currency(revenue)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Reporting window in days")
	return cmd
}

func newAnalyticsTopVideosCommand(ctx *commandContext) *cobra.Command {
	var days int
	var max int

	cmd := &cobra.Command{
		Use:   "top-videos",
		Short: "Best performing videos by views",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, label, err := reportRange(ctx, days)
			if err != nil {
				return err
			}
			result, err := runReport(cmd, ctx, analytics.Query{
				StartDate:  start,
				EndDate:    end,
				Metrics:    "views,estimatedMinutesWatched,averageViewDuration,estimatedRevenue",
				Dimensions: "video",
				Sort:       "-views",
				MaxResults: int64(max),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Top videos, %s\n\n", label)
			if result.Empty() {
				fmt.Fprintln(out, "No analytics data for this period")
				return nil
			}

			ids := make([]string, 0, len(result.Rows))
			for _, row := range result.Rows {
				ids = append(ids, analytics.String(row, 0))
			}
			titles := map[string]string{}
			if data, err := ctx.youtubeClient(cmd.Context()); err == nil {
				if resolved, err := data.Titles(cmd.Context(), ids); err == nil {
					titles = resolved
				}
			}

			rows := make([][]string, 0, len(result.Rows))
			for i, row := range result.Rows {
				videoID := analytics.String(row, 0)
				title := titles[videoID]
				if title == "" {
					title = videoID
				}
				revenue := "-"
				if v := analytics.Float(row, 4); v > 0 {
					revenue = report.Currency(v)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					report.Truncate(title, 50),
					report.Count(int64(analytics.Float(row, 1))),
					report.WatchMinutes(analytics.Float(row, 2)),
					report.Timestamp(int(analytics.Float(row, 3))),
					revenue,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", "Views", "Watch time", "Avg duration", "Revenue"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Reporting window in days")
	cmd.Flags().IntVar(&max, "max", 10, "Number of videos to list")
	return cmd
}

func newAnalyticsVideoCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "video <video-id>",
		Short: "Performance report for one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, label, err := reportRange(ctx, days)
			if err != nil {
				return err
			}
			result, err := runReport(cmd, ctx, analytics.Query{
				StartDate: start,
				EndDate:   end,
				Metrics: "views,estimatedMinutesWatched,averageViewDuration," +
					"averageViewPercentage,likes,comments,shares,subscribersGained",
				Filters: "video==" + args[0],
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Video %s, %s\n\n", args[0], label)
			if result.Empty() {
				fmt.Fprintln(out, "No analytics data for this period")
				return nil
			}

			row := result.Rows[0]
			rows := [][]string{
				{"Views", report.Count(int64(analytics.Float(row, 0)))},
				{"Watch time", report.WatchMinutes(analytics.Float(row, 1))},
				{"Avg view duration", report.Timestamp(int(analytics.Float(row, 2)))},
				{"Avg percentage viewed", report.Percent(analytics.Float(row, 3))},
				{"Likes", report.Count(int64(analytics.Float(row, 4)))},
				{"Comments", report.Count(int64(analytics.Float(row, 5)))},
				{"Shares", report.Count(int64(analytics.Float(row, 6)))},
				{"Subscribers gained", report.Count(int64(analytics.Float(row, 7)))},
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Reporting window in days")
	return cmd
}

func newAnalyticsDemographicsCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "demographics",
		Short: "Viewer age and gender breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, label, err := reportRange(ctx, days)
			if err != nil {
				return err
			}
			result, err := runReport(cmd, ctx, analytics.Query{
				StartDate:  start,
				EndDate:    end,
				Metrics:    "viewerPercentage",
				Dimensions: "ageGroup,gender",
				Sort:       "-viewerPercentage",
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Demographics, %s\n\n", label)
			if result.Empty() {
				fmt.Fprintln(out, "No demographics data for this period")
				return nil
			}

			rows := make([][]string, 0, len(result.Rows))
			for _, row := range result.Rows {
				rows = append(rows, []string{
					analytics.String(row, 0),
					analytics.String(row, 1),
					report.Percent(analytics.Float(row, 2)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Age group", "Gender", "Viewers"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Reporting window in days")
	return cmd
}

// trafficSourceNames maps the API's source type codes to readable labels.
var trafficSourceNames = map[string]string{
	"YT_SEARCH":        "YouTube Search",
	"EXT_URL":          "External Websites",
	"RELATED_VIDEO":    "Suggested Videos",
	"YT_CHANNEL":       "Channel Pages",
	"YT_OTHER_PAGE":    "Other YouTube",
	"SUBSCRIBER":       "Subscriptions",
	"NOTIFICATION":     "Notifications",
	"PLAYLIST":         "Playlists",
	"NO_LINK_OTHER":    "Direct/Unknown",
	"END_SCREEN":       "End Screens",
	"ANNOTATION":       "Cards",
	"SHORTS":           "Shorts Feed",
	"YT_PLAYLIST_PAGE": "Playlist Page",
	"HASHTAGS":         "Hashtags",
}

func newAnalyticsTrafficCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "traffic",
		Short: "Views by traffic source",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, label, err := reportRange(ctx, days)
			if err != nil {
				return err
			}
			result, err := runReport(cmd, ctx, analytics.Query{
				StartDate:  start,
				EndDate:    end,
				Metrics:    "views",
				Dimensions: "insightTrafficSourceType",
				Sort:       "-views",
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Traffic sources, %s\n\n", label)
			if result.Empty() {
				fmt.Fprintln(out, "No traffic data for this period")
				return nil
			}

			var total float64
			for _, row := range result.Rows {
				total += analytics.Float(row, 1)
			}

			rows := make([][]string, 0, len(result.Rows))
			for _, row := range result.Rows {
				source := analytics.String(row, 0)
				if name, ok := trafficSourceNames[source]; ok {
					source = name
				}
				views := analytics.Float(row, 1)
				share := 0.0
				if total > 0 {
					share = views / total * 100
				}
				rows = append(rows, []string{
					source,
					report.Count(int64(views)),
					report.Percent(share),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Source", "Views", "Share"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Reporting window in days")
	return cmd
}

func newAnalyticsGeographyCommand(ctx *commandContext) *cobra.Command {
	var days int
	var max int

	cmd := &cobra.Command{
		Use:   "geography",
		Short: "Views by country",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, label, err := reportRange(ctx, days)
			if err != nil {
				return err
			}
			result, err := runReport(cmd, ctx, analytics.Query{
				StartDate:  start,
				EndDate:    end,
				Metrics:    "views,estimatedMinutesWatched",
				Dimensions: "country",
				Sort:       "-views",
				MaxResults: int64(max),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Geography, %s\n\n", label)
			if result.Empty() {
				fmt.Fprintln(out, "No geography data for this period")
				return nil
			}

			rows := make([][]string, 0, len(result.Rows))
			for _, row := range result.Rows {
				rows = append(rows, []string{
					analytics.String(row, 0),
					report.Count(int64(analytics.Float(row, 1))),
					report.WatchMinutes(analytics.Float(row, 2)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Country", "Views", "Watch time"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Reporting window in days")
	cmd.Flags().IntVar(&max, "max", 10, "Number of countries to list")
	return cmd
}
