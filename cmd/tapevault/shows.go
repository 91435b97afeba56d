package main

import (
	"fmt"
	"strings"

	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "Browse shows by date, location or venue",
	Long: `List shows from the catalog, filtered by one dimension.

Exactly one filter may be given; with no filter every show is listed
in date order.`,
	RunE: runShows,
}

func init() {
	rootCmd.AddCommand(showsCmd)

	showsCmd.Flags().Int("year", 0, "filter by year (e.g. 1977)")
	showsCmd.Flags().String("month", "", "filter by year-month (yyyy-mm)")
	showsCmd.Flags().String("city", "", "filter by exact city name")
	showsCmd.Flags().String("state", "", "filter by exact state or region")
	showsCmd.Flags().String("venue", "", "filter by venue substring")
	showsCmd.Flags().String("from", "", "range start date (yyyy-mm-dd, inclusive)")
	showsCmd.Flags().String("to", "", "range end date (yyyy-mm-dd, inclusive)")
}

func runShows(cmd *cobra.Command, args []string) error {
	setupLogging()

	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetString("month")
	city, _ := cmd.Flags().GetString("city")
	state, _ := cmd.Flags().GetString("state")
	venue, _ := cmd.Flags().GetString("venue")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	if (from == "") != (to == "") {
		return fmt.Errorf("--from and --to must be given together")
	}

	filters := 0
	if year != 0 {
		filters++
	}
	for _, f := range []string{month, city, state, venue, from} {
		if f != "" {
			filters++
		}
	}
	if filters > 1 {
		return fmt.Errorf("only one filter may be given")
	}

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var shows []*store.Show
	switch {
	case year != 0:
		shows, err = db.ShowsByYear(year)
	case month != "":
		shows, err = db.ShowsByYearMonth(month)
	case city != "":
		shows, err = db.ShowsByCity(city)
	case state != "":
		shows, err = db.ShowsByState(state)
	case venue != "":
		shows, err = db.ShowsByVenue(venue)
	case from != "":
		shows, err = db.ShowsByDateRange(from, to)
	default:
		shows, err = db.AllShows()
	}
	if err != nil {
		return fmt.Errorf("failed to list shows: %w", err)
	}

	if len(shows) == 0 {
		util.WarnLog("No shows found. Run 'tapevault import' first.")
		return nil
	}

	for _, sh := range shows {
		fmt.Println(formatShowLine(sh))
	}
	util.InfoLog("%d shows", len(shows))

	return nil
}

// formatShowLine renders the one-line list form of a show
func formatShowLine(sh *store.Show) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", sh.Date, sh.Venue)
	if sh.City != "" {
		fmt.Fprintf(&b, ", %s", sh.City)
	}
	if sh.State != "" {
		fmt.Fprintf(&b, ", %s", sh.State)
	}
	if sh.RecordingCount > 0 {
		fmt.Fprintf(&b, "  [%d recordings, %.1f avg]", sh.RecordingCount, sh.AvgRating)
	}
	if sh.InLibrary {
		b.WriteString("  *")
	}
	fmt.Fprintf(&b, "  (%s)", sh.ID)
	return b.String()
}
