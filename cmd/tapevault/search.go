package main

import (
	"fmt"
	"strings"

	"github.com/franz/tapevault/internal/search"
	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Full-text search across shows",
	Long: `Search the show index by any combination of dates, venues, cities,
states, song titles and performer names.

Date terms match common written forms: "5-8-77", "5/8/77" and
"1977-05-08" all find the same show. Results are ranked by relevance,
best match first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "n", 25, "maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	setupLogging()
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	idx, err := search.Open(viper.GetString("search-index"))
	if err != nil {
		return fmt.Errorf("failed to open search index: %w", err)
	}
	defer idx.Close()

	ids, err := idx.Search(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(ids) == 0 {
		util.WarnLog("No matches for %q", query)
		return nil
	}

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	printed := 0
	for _, id := range ids {
		sh, err := db.GetShow(id)
		if err != nil {
			return fmt.Errorf("failed to get show: %w", err)
		}
		if sh == nil {
			// Index can briefly outlive a catalog row; skip silently
			continue
		}
		fmt.Println(formatShowLine(sh))
		printed++
	}
	util.InfoLog("%d matches", printed)

	return nil
}
