package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ytkit/internal/report"
	"ytkit/internal/services"
	"ytkit/internal/services/captions"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Inspect individual videos",
	}

	videoCmd.AddCommand(newVideoDetailsCommand(ctx))
	videoCmd.AddCommand(newVideoCommentsCommand(ctx))
	videoCmd.AddCommand(newVideoTranscriptCommand(ctx))

	return videoCmd
}

func newVideoDetailsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "details <video-id>",
		Short: "Show a video's metadata and statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.youtubeClient(cmd.Context())
			if err != nil {
				return err
			}
			details, err := client.VideoDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, details)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:      %s\n", details.Title)
			fmt.Fprintf(out, "Channel:    %s\n", details.ChannelTitle)
			fmt.Fprintf(out, "Published:  %s\n", publishedDate(details.PublishedAt))
			fmt.Fprintf(out, "Duration:   %s\n", report.VideoDuration(details.Duration))
			fmt.Fprintf(out, "Definition: %s\n", details.Definition)
			fmt.Fprintf(out, "Privacy:    %s\n", details.Privacy)
			fmt.Fprintf(out, "Views:      %s\n", report.Count(int64(details.Stats.Views)))
			fmt.Fprintf(out, "Likes:      %s\n", report.Count(int64(details.Stats.Likes)))
			fmt.Fprintf(out, "Comments:   %s\n", report.Count(int64(details.Stats.Comments)))
			if len(details.Tags) > 0 {
				fmt.Fprintf(out, "Tags:       %s\n", strings.Join(details.Tags, ", "))
			}
			if details.Description != "" {
				fmt.Fprintf(out, "\n%s\n", report.Truncate(details.Description, 500))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newVideoCommentsCommand(ctx *commandContext) *cobra.Command {
	var max int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "comments <video-id>",
		Short: "Show a video's top comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.youtubeClient(cmd.Context())
			if err != nil {
				return err
			}
			comments, err := client.Comments(cmd.Context(), args[0], int64(max))
			if errors.Is(err, services.ErrCommentsDisabled) {
				fmt.Fprintln(cmd.OutOrStdout(), "Comments are disabled for this video")
				return nil
			}
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, comments)
			}

			out := cmd.OutOrStdout()
			if len(comments) == 0 {
				fmt.Fprintln(out, "No comments")
				return nil
			}
			for _, comment := range comments {
				fmt.Fprintf(out, "%s (%s likes)\n", comment.Author, report.Count(comment.Likes))
				fmt.Fprintf(out, "  %s\n\n", report.StripHTML(comment.Text))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&max, "max", 20, "Maximum number of comments")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newVideoTranscriptCommand(ctx *commandContext) *cobra.Command {
	var timed bool
	var search string
	var contextLines int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "transcript <video-id>",
		Short: "Fetch and show a video's transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher, err := ctx.captionFetcher()
			if err != nil {
				return err
			}
			track, err := fetcher.Fetch(cmd.Context(), args[0])
			if errors.Is(err, services.ErrTranscriptUnavailable) {
				fmt.Fprintln(cmd.OutOrStdout(), "No transcript available for this video")
				return nil
			}
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, track)
			}

			out := cmd.OutOrStdout()
			kind := "manual"
			if track.Generated {
				kind = "auto-generated"
			}
			fmt.Fprintf(out, "Transcript (%s - %s):\n", track.Language, kind)
			fmt.Fprintf(out, "Video: https://youtu.be/%s\n\n", args[0])

			if search != "" {
				printSegmentMatches(out, args[0], track.Segments, search, contextLines)
				return nil
			}
			if timed {
				for _, seg := range track.Segments {
					fmt.Fprintf(out, "[%s] %s\n", report.Timestamp(seg.Start), seg.Text)
				}
				return nil
			}
			fmt.Fprintln(out, track.FullText())
			return nil
		},
	}

	cmd.Flags().BoolVar(&timed, "timed", false, "Prefix each segment with its timestamp")
	cmd.Flags().StringVar(&search, "search", "", "Find moments matching this text")
	cmd.Flags().IntVar(&contextLines, "context", 1, "Surrounding lines to show with search results")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

// printSegmentMatches finds the query across a three-segment sliding
// window so phrases that straddle a segment boundary still match, then
// prints each matched segment with its surrounding context lines and a
// timestamped watch link.
func printSegmentMatches(out io.Writer, videoID string, segments []captions.Segment, query string, contextLines int) {
	needle := strings.ToLower(query)
	seen := make(map[int]bool)
	var picked []int

	for i := range segments {
		end := i + 3
		if end > len(segments) {
			end = len(segments)
		}
		window := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			window = append(window, strings.ToLower(segments[j].Text))
		}
		if !strings.Contains(strings.Join(window, " "), needle) {
			continue
		}
		lo := i - contextLines
		if lo < 0 {
			lo = 0
		}
		hi := i + contextLines + 1
		if hi > len(segments) {
			hi = len(segments)
		}
		for j := lo; j < hi; j++ {
			if !seen[j] {
				seen[j] = true
				picked = append(picked, j)
			}
		}
	}

	if len(picked) == 0 {
		fmt.Fprintf(out, "No matches found for: %s\n", query)
		return
	}
	fmt.Fprintf(out, "Found %d segments matching %q:\n\n", len(picked), query)
	for _, j := range picked {
		seg := segments[j]
		fmt.Fprintf(out, "[%s] %s\n", report.Timestamp(seg.Start), seg.Text)
		fmt.Fprintf(out, "       -> https://youtu.be/%s?t=%d\n\n", videoID, seg.Start)
	}
}
