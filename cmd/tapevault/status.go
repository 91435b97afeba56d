package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/franz/tapevault/internal/search"
	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog status and data version",
	Long: `Report which catalog package is loaded, row counts, search index
size, and a database integrity check.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	setupLogging()
	dbPath := viper.GetString("db")

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	version, err := db.GetDataVersion()
	if err != nil {
		return fmt.Errorf("failed to get data version: %w", err)
	}
	if version == nil {
		util.WarnLog("No catalog loaded. Run 'tapevault import' first.")
		return nil
	}

	fmt.Printf("Database:    %s\n", dbPath)
	fmt.Printf("Version:     %s\n", version.Version)
	if version.SourceRef != "" {
		fmt.Printf("Source:      %s\n", version.SourceRef)
	}
	if !version.BuiltAt.IsZero() {
		fmt.Printf("Built:       %s\n", version.BuiltAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Imported:    %s (%s)\n",
		version.ImportedAt.Format("2006-01-02 15:04:05"), humanize.Time(version.ImportedAt))

	shows, err := db.CountShows()
	if err != nil {
		return fmt.Errorf("failed to count shows: %w", err)
	}
	recordings, err := db.CountRecordings()
	if err != nil {
		return fmt.Errorf("failed to count recordings: %w", err)
	}
	collections, err := db.CountCollections()
	if err != nil {
		return fmt.Errorf("failed to count collections: %w", err)
	}
	fmt.Printf("Shows:       %s\n", humanize.Comma(int64(shows)))
	fmt.Printf("Recordings:  %s\n", humanize.Comma(int64(recordings)))
	fmt.Printf("Collections: %d\n", collections)

	idx, err := search.Open(viper.GetString("search-index"))
	if err != nil {
		util.WarnLog("Search index unavailable: %v", err)
	} else {
		defer idx.Close()
		docs, err := idx.Count()
		if err != nil {
			return fmt.Errorf("failed to count index documents: %w", err)
		}
		fmt.Printf("Indexed:     %s shows\n", humanize.Comma(int64(docs)))
		if docs != uint64(shows) {
			util.WarnLog("Index document count differs from show count; re-run import")
		}
	}

	if err := db.CheckIntegrity(); err != nil {
		util.ErrorLog("Integrity check failed: %v", err)
		return err
	}
	util.SuccessLog("Integrity check passed")

	return nil
}
