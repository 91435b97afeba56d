package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var playedCmd = &cobra.Command{
	Use:   "played <show-id>",
	Short: "Record that a show was played",
	Long: `Record a play of a show. A play only counts toward history when it
was meaningful: at least 30 seconds, or at least a quarter of the
recording's total length when --duration is given. Repeat plays of the
same show update its single history row rather than adding new ones.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayed,
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently played shows",
	RunE:  runRecent,
}

func init() {
	rootCmd.AddCommand(playedCmd)
	rootCmd.AddCommand(recentCmd)

	playedCmd.Flags().Duration("elapsed", 0, "how long the show was played (e.g. 45s, 10m)")
	playedCmd.Flags().Duration("duration", 0, "total length of the recording, if known")

	recentCmd.Flags().IntP("limit", "n", 50, "maximum number of entries")
}

func runPlayed(cmd *cobra.Command, args []string) error {
	setupLogging()
	elapsed, _ := cmd.Flags().GetDuration("elapsed")
	total, _ := cmd.Flags().GetDuration("duration")

	if !store.QualifiesAsPlay(elapsed, total) {
		util.InfoLog("Play too short to count (%s)", elapsed)
		return nil
	}

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

	if err := db.RecordPlay(sh.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	util.SuccessLog("Recorded play of %s", sh.ID)
	return nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	setupLogging()
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	plays, err := db.RecentPlays(limit)
	if err != nil {
		return fmt.Errorf("failed to list recent plays: %w", err)
	}
	if len(plays) == 0 {
		util.WarnLog("No listening history yet.")
		return nil
	}

	for _, p := range plays {
		sh, err := db.GetShow(p.ShowID)
		if err != nil {
			return fmt.Errorf("failed to get show: %w", err)
		}
		if sh == nil {
			continue
		}
		fmt.Printf("%-16s %s", humanize.Time(p.LastPlayedAt), formatShowLine(sh))
		if p.PlayCount > 1 {
			fmt.Printf("  (%d plays)", p.PlayCount)
		}
		fmt.Println()
	}

	return nil
}
