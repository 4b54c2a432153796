package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ytkit/internal/report"
	"ytkit/internal/services"
	"ytkit/internal/transcripts"
)

func newTranscriptsCommand(ctx *commandContext) *cobra.Command {
	transcriptsCmd := &cobra.Command{
		Use:   "transcripts",
		Short: "Maintain and search the local transcript cache",
	}

	transcriptsCmd.AddCommand(newTranscriptsSyncCommand(ctx))
	transcriptsCmd.AddCommand(newTranscriptsGetCommand(ctx))
	transcriptsCmd.AddCommand(newTranscriptsListCommand(ctx))
	transcriptsCmd.AddCommand(newTranscriptsSearchCommand(ctx))

	return transcriptsCmd
}

func newTranscriptsSyncCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var max int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Cache transcripts for the channel's uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.transcriptManager(cmd.Context())
			if err != nil {
				return err
			}
			if manager.Channel == nil {
				return fmt.Errorf("sync requires stored credentials; run 'ytkit auth setup' first")
			}
			result, err := manager.Sync(cmd.Context(), transcripts.SyncOptions{
				Force: force,
				Max:   max,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Synced transcripts for %s\n", result.ChannelTitle)
			fmt.Fprintf(out, "  videos:  %d\n", result.Total)
			fmt.Fprintf(out, "  synced:  %d\n", result.Synced)
			fmt.Fprintf(out, "  skipped: %d\n", result.Skipped)
			fmt.Fprintf(out, "  failed:  %d\n", result.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Refetch transcripts that are already cached")
	cmd.Flags().IntVar(&max, "max", 0, "Maximum uploads to consider (0 for all)")
	return cmd
}

func newTranscriptsGetCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var timed bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "get <video-id>",
		Short: "Show one transcript, fetching it if not cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.transcriptManager(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := manager.Get(cmd.Context(), args[0], refresh)
			if errors.Is(err, services.ErrTranscriptUnavailable) {
				fmt.Fprintln(cmd.OutOrStdout(), "No transcript available for this video")
				return nil
			}
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, rec)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", rec.Title, rec.VideoID)
			language := rec.Language
			if rec.Generated {
				language += ", auto-generated"
			}
			fmt.Fprintf(out, "Language: %s  Ownership: %s\n\n", language, rec.Ownership)
			if timed {
				for _, seg := range rec.Segments {
					fmt.Fprintf(out, "[%s] %s\n", report.Timestamp(seg.Start), seg.Text)
				}
				return nil
			}
			fmt.Fprintln(out, rec.FullText)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch even when cached")
	cmd.Flags().BoolVar(&timed, "timed", false, "Prefix each segment with its timestamp")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newTranscriptsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Summarize the transcript index",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.transcriptStore()
			if err != nil {
				return err
			}
			idx, err := store.LoadIndex()
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, idx)
			}

			out := cmd.OutOrStdout()
			if len(idx.Videos) == 0 {
				fmt.Fprintln(out, "No transcripts indexed. Run 'ytkit transcripts sync' first.")
				return nil
			}

			type listedVideo struct {
				videoID string
				entry   transcripts.IndexEntry
			}
			var ownWith, ownWithout, external int
			var withTranscripts []listedVideo
			for _, id := range idx.SortedIDs() {
				entry := idx.Videos[id]
				switch {
				case entry.Ownership == transcripts.OwnershipExternal:
					external++
				case entry.HasTranscript:
					ownWith++
				default:
					ownWithout++
				}
				if entry.HasTranscript {
					withTranscripts = append(withTranscripts, listedVideo{videoID: id, entry: entry})
				}
			}

			fmt.Fprintln(out, "Transcript index")
			fmt.Fprintf(out, "  Your videos: %d with captions, %d without\n", ownWith, ownWithout)
			if external > 0 {
				fmt.Fprintf(out, "  External videos: %d\n", external)
			}
			fmt.Fprintf(out, "  Storage: %s\n\n", store.Dir())

			sort.SliceStable(withTranscripts, func(i, j int) bool {
				return withTranscripts[i].entry.PublishedAt > withTranscripts[j].entry.PublishedAt
			})
			if len(withTranscripts) > 15 {
				withTranscripts = withTranscripts[:15]
			}
			fmt.Fprintln(out, "Recent videos with transcripts:")
			for _, video := range withTranscripts {
				marker := ""
				if video.entry.Ownership == transcripts.OwnershipExternal {
					marker = " [ext]"
				}
				fmt.Fprintf(out, "  - %s%s (%s)\n", report.Truncate(video.entry.Title, 55), marker, video.videoID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newTranscriptsSearchCommand(ctx *commandContext) *cobra.Command {
	var max int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search all cached transcripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.transcriptStore()
			if err != nil {
				return err
			}
			result, err := store.Search(args[0], max)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if result.Total == 0 {
				fmt.Fprintf(out, "No matches for %q\n", args[0])
				return nil
			}
			for _, video := range result.Videos {
				fmt.Fprintf(out, "%s (%s)\n", video.Title, video.VideoID)
				for _, match := range video.Matches {
					fmt.Fprintf(out, "  [%s] %s\n", report.Timestamp(match.Start), match.Text)
				}
				fmt.Fprintln(out)
			}
			shown := result.Shown()
			fmt.Fprintf(out, "%d matches in %d videos\n", shown, len(result.Videos))
			if remaining := result.Total - shown; remaining > 0 {
				fmt.Fprintf(out, "%d more matches; raise --max to see them\n", remaining)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&max, "max", 20, "Maximum matches to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}
