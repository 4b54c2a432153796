package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ytkit/internal/report"
	"ytkit/internal/services/youtube"
)

func newChannelCommand(ctx *commandContext) *cobra.Command {
	channelCmd := &cobra.Command{
		Use:   "channel",
		Short: "Inspect the authenticated channel",
	}

	channelCmd.AddCommand(newChannelInfoCommand(ctx))
	channelCmd.AddCommand(newChannelVideosCommand(ctx))
	channelCmd.AddCommand(newChannelSearchCommand(ctx))

	return channelCmd
}

func newChannelInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show channel metadata and lifetime statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.youtubeClient(cmd.Context())
			if err != nil {
				return err
			}
			channel, err := client.MyChannel(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, channel)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Channel:     %s\n", channel.Title)
			if channel.CustomURL != "" {
				fmt.Fprintf(out, "URL:         https://youtube.com/%s\n", channel.CustomURL)
			}
			fmt.Fprintf(out, "Channel ID:  %s\n", channel.ID)
			fmt.Fprintf(out, "Subscribers: %s\n", report.Count(int64(channel.Subscribers)))
			fmt.Fprintf(out, "Total views: %s\n", report.Count(int64(channel.Views)))
			fmt.Fprintf(out, "Videos:      %s\n", report.Count(int64(channel.Videos)))
			if channel.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", report.Truncate(channel.Description, 200))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newChannelVideosCommand(ctx *commandContext) *cobra.Command {
	var max int
	var order string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List recent uploads with their statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if order != "date" && order != "viewCount" {
				return fmt.Errorf("--order must be date or viewCount, got %q", order)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.youtubeClient(cmd.Context())
			if err != nil {
				return err
			}
			channel, err := client.MyChannel(cmd.Context())
			if err != nil {
				return err
			}
			uploads, err := client.Uploads(cmd.Context(), channel.UploadsPlaylist, cfg.Sync.PageSize, max)
			if err != nil {
				return err
			}
			stats, err := uploadStats(cmd, client, uploads)
			if err != nil {
				return err
			}
			if order == "viewCount" {
				sort.SliceStable(uploads, func(i, j int) bool {
					return stats[uploads[i].VideoID].Views > stats[uploads[j].VideoID].Views
				})
			}

			if jsonOut {
				type videoRow struct {
					youtube.Upload
					Stats youtube.Stats `json:"stats"`
				}
				rows := make([]videoRow, 0, len(uploads))
				for _, upload := range uploads {
					rows = append(rows, videoRow{Upload: upload, Stats: stats[upload.VideoID]})
				}
				return writeJSON(cmd, rows)
			}

			rows := make([][]string, 0, len(uploads))
			for _, upload := range uploads {
				st := stats[upload.VideoID]
				rows = append(rows, []string{
					upload.VideoID,
					report.Truncate(upload.Title, 50),
					publishedDate(upload.PublishedAt),
					report.Count(int64(st.Views)),
					report.Count(int64(st.Likes)),
					report.Count(int64(st.Comments)),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Video ID", "Title", "Published", "Views", "Likes", "Comments"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%d videos\n", len(uploads))
			return nil
		},
	}

	cmd.Flags().IntVar(&max, "max", 10, "Maximum number of uploads to list (0 for all)")
	cmd.Flags().StringVar(&order, "order", "date", "Sort order: date or viewCount")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

// uploadStats resolves statistics for the uploads in API-sized batches.
func uploadStats(cmd *cobra.Command, client *youtube.Client, uploads []youtube.Upload) (map[string]youtube.Stats, error) {
	stats := make(map[string]youtube.Stats, len(uploads))
	for start := 0; start < len(uploads); start += 50 {
		end := start + 50
		if end > len(uploads) {
			end = len(uploads)
		}
		ids := make([]string, 0, end-start)
		for _, upload := range uploads[start:end] {
			ids = append(ids, upload.VideoID)
		}
		batch, err := client.VideoStats(cmd.Context(), ids)
		if err != nil {
			return nil, err
		}
		for id, st := range batch {
			stats[id] = st
		}
	}
	return stats, nil
}

func newChannelSearchCommand(ctx *commandContext) *cobra.Command {
	var max int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the channel's videos by title and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.youtubeClient(cmd.Context())
			if err != nil {
				return err
			}
			channelID, err := client.MyChannelID(cmd.Context())
			if err != nil {
				return err
			}
			results, err := client.SearchChannel(cmd.Context(), channelID, args[0], int64(max))
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No videos matching %q\n", args[0])
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{
					result.VideoID,
					report.Truncate(result.Title, 60),
					publishedDate(result.PublishedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Video ID", "Title", "Published"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&max, "max", 10, "Maximum number of results")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}
