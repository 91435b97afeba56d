package main

import (
	"fmt"
	"strings"

	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showCmd = &cobra.Command{
	Use:   "show <show-id>",
	Short: "Show one concert in detail",
	Long: `Display a single show: date, venue, setlist, lineup, all known
recordings ranked best first, containing collections, and library status.`,
	Args: cobra.ExactArgs(1),
	RunE: runShowDetail,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("setlist", false, "show only the setlist")
}

func runShowDetail(cmd *cobra.Command, args []string) error {
	setupLogging()
	setlistOnly, _ := cmd.Flags().GetBool("setlist")

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sh, err := db.GetShow(args[0])
	if err != nil {
		return fmt.Errorf("failed to get show: %w", err)
	}
	if sh == nil {
		return fmt.Errorf("show not found: %s", args[0])
	}

	if setlistOnly {
		return printSetlist(sh)
	}

	venue := sh.Venue
	if sh.VenueFull != "" && sh.VenueFull != sh.Venue {
		venue = fmt.Sprintf("%s (%s)", sh.Venue, sh.VenueFull)
	}
	fmt.Printf("%s  %s\n", sh.Date, venue)
	fmt.Printf("%s\n", joinNonEmpty(", ", sh.City, sh.State, sh.Country))
	if sh.ShowSequence > 0 {
		fmt.Printf("Show #%d of the day\n", sh.ShowSequence+1)
	}
	fmt.Println()

	if err := printSetlist(sh); err != nil {
		return err
	}

	lineup, err := store.ParseLineup(sh.LineupJSON)
	if err != nil {
		return fmt.Errorf("failed to parse lineup: %w", err)
	}
	if len(lineup.Members) > 0 {
		fmt.Println("Lineup:")
		for _, m := range lineup.Members {
			if m.Instruments != "" {
				fmt.Printf("  %s - %s\n", m.Name, m.Instruments)
			} else {
				fmt.Printf("  %s\n", m.Name)
			}
		}
		fmt.Println()
	}

	recordings, err := db.RecordingsForShow(sh.ID)
	if err != nil {
		return fmt.Errorf("failed to get recordings: %w", err)
	}
	if len(recordings) > 0 {
		fmt.Printf("Recordings (%d):\n", len(recordings))
		for _, r := range recordings {
			marker := "  "
			if r.ID == sh.BestRecordingID {
				marker = "* "
			}
			line := fmt.Sprintf("%s%-10s %.2f (%d reviews)", marker, r.SourceType, r.WeightedRating, r.ReviewCount)
			if r.Taper != "" {
				line += "  taper: " + r.Taper
			}
			fmt.Printf("%s  [%s]\n", line, r.ID)
		}
		fmt.Println()
	}

	collections, err := db.CollectionsForShow(sh.ID)
	if err != nil {
		return fmt.Errorf("failed to get collections: %w", err)
	}
	if len(collections) > 0 {
		names := make([]string, len(collections))
		for i, c := range collections {
			names[i] = c.Name
		}
		fmt.Printf("Collections: %s\n", strings.Join(names, ", "))
	}

	if sh.InLibrary {
		entry, err := db.GetLibraryEntry(sh.ID)
		if err != nil {
			return fmt.Errorf("failed to get library entry: %w", err)
		}
		if entry != nil {
			line := fmt.Sprintf("In library since %s", entry.AddedAt.Format("2006-01-02"))
			if entry.Pinned {
				line += " (pinned)"
			}
			if entry.Note != "" {
				line += ": " + entry.Note
			}
			fmt.Println(line)
		}
	}

	play, err := db.GetRecentPlay(sh.ID)
	if err != nil {
		return fmt.Errorf("failed to get play history: %w", err)
	}
	if play != nil {
		fmt.Printf("Played %d times, last on %s\n", play.PlayCount, play.LastPlayedAt.Format("2006-01-02"))
	}

	// Chronological neighbors, nil at the ends of the catalog
	prev, err := db.PreviousShow(sh.Date)
	if err != nil {
		return fmt.Errorf("failed to get previous show: %w", err)
	}
	next, err := db.NextShow(sh.Date)
	if err != nil {
		return fmt.Errorf("failed to get next show: %w", err)
	}
	if prev != nil {
		fmt.Printf("Previous: %s  %s\n", prev.Date, prev.ID)
	}
	if next != nil {
		fmt.Printf("Next:     %s  %s\n", next.Date, next.ID)
	}

	return nil
}

func printSetlist(sh *store.Show) error {
	setlist, err := store.ParseSetlist(sh.SetlistJSON)
	if err != nil {
		return fmt.Errorf("failed to parse setlist: %w", err)
	}
	if len(setlist.Sets) == 0 {
		util.WarnLog("No setlist recorded for %s", sh.ID)
		return nil
	}
	for _, set := range setlist.Sets {
		fmt.Printf("%s:\n", set.Name)
		for _, song := range set.Songs {
			if song.SegueInto {
				fmt.Printf("  %s ->\n", song.Name)
			} else {
				fmt.Printf("  %s\n", song.Name)
			}
		}
	}
	fmt.Println()
	return nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
