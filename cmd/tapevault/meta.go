package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/tapevault/internal/archiveorg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var metaCmd = &cobra.Command{
	Use:   "meta <recording-id>",
	Short: "Show remote metadata for a recording",
	Long: `Fetch and display a recording's descriptive metadata from the
remote archive. Results are cached on disk for 24 hours; within that
window no network request is made. Use --tracks or --reviews for the
track list or user reviews of the same recording.`,
	Args: cobra.ExactArgs(1),
	RunE: runMeta,
}

func init() {
	rootCmd.AddCommand(metaCmd)

	metaCmd.Flags().Bool("tracks", false, "show the track list instead of metadata")
	metaCmd.Flags().Bool("reviews", false, "show user reviews instead of metadata")
	metaCmd.Flags().Duration("timeout", archiveorg.DefaultTimeout, "remote fetch timeout")
}

func runMeta(cmd *cobra.Command, args []string) error {
	setupLogging()
	showTracks, _ := cmd.Flags().GetBool("tracks")
	showReviews, _ := cmd.Flags().GetBool("reviews")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if showTracks && showReviews {
		return fmt.Errorf("--tracks and --reviews are mutually exclusive")
	}

	ctx := context.Background()
	client := archiveorg.NewClient(timeout)
	cache := archiveorg.NewCache(viper.GetString("cache-dir"), client)
	id := args[0]

	switch {
	case showTracks:
		tracks, err := cache.Tracks(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get tracks: %w", err)
		}
		for _, t := range tracks {
			fmt.Printf("%2d. %-45s %7s  %s\n", t.TrackNum, t.Title, formatSeconds(t.Duration), t.Format)
		}
		return nil

	case showReviews:
		reviews, err := cache.Reviews(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get reviews: %w", err)
		}
		for _, r := range reviews {
			fmt.Printf("%.0f/5  %s  (%s, %s)\n", r.Stars, r.Title, r.Reviewer, r.Date.Format("2006-01-02"))
			if r.Body != "" {
				fmt.Printf("     %s\n", r.Body)
			}
		}
		return nil

	default:
		meta, err := cache.Meta(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get metadata: %w", err)
		}
		fmt.Printf("Title:     %s\n", meta.Title)
		fmt.Printf("Date:      %s\n", meta.Date)
		fmt.Printf("Venue:     %s\n", meta.Venue)
		fmt.Printf("Source:    %s\n", meta.Source)
		if meta.Taper != "" {
			fmt.Printf("Taper:     %s\n", meta.Taper)
		}
		if meta.Lineage != "" {
			fmt.Printf("Lineage:   %s\n", meta.Lineage)
		}
		fmt.Printf("Rating:    %.2f (%d reviews)\n", meta.AvgRating, meta.ReviewCount)
		fmt.Printf("Downloads: %d\n", meta.Downloads)
		if meta.Notes != "" {
			fmt.Printf("Notes:     %s\n", meta.Notes)
		}
		return nil
	}
}

func formatSeconds(sec float64) string {
	d := time.Duration(sec * float64(time.Second)).Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
