package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/tapevault/internal/importer"
	"github.com/franz/tapevault/internal/report"
	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var importCmd = &cobra.Command{
	Use:   "import <package-dir>",
	Short: "Import a catalog package, replacing the current catalog",
	Long: `Import a downloaded catalog package into the local database.

The package directory must contain manifest.json plus shows/ and
recordings/ subdirectories of JSON records. The entire catalog is
replaced in a single transaction and the search index is rebuilt;
library bookmarks and play history survive the swap. A failed import
leaves the previous catalog and index untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("events-dir", "artifacts", "directory for import event logs")
}

func runImport(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := context.Background()

	root := args[0]
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return fmt.Errorf("package directory does not exist: %s", root)
	}

	dbPath := viper.GetString("db")
	indexPath := viper.GetString("search-index")
	eventsDir, _ := cmd.Flags().GetString("events-dir")

	util.InfoLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Create event logger with appropriate log level
	logLevel := report.LevelInfo
	if viper.GetBool("quiet") {
		logLevel = report.LevelWarning
	} else if viper.GetBool("verbose") {
		logLevel = report.LevelDebug
	}

	logger, err := report.NewEventLogger(eventsDir, logLevel)
	if err != nil {
		return fmt.Errorf("failed to create event logger: %w", err)
	}
	defer logger.Close()

	im := importer.New(&importer.Config{
		Store:        db,
		IndexPath:    indexPath,
		Logger:       logger,
		ShowProgress: !viper.GetBool("quiet"),
	})

	result, err := im.Run(ctx, root)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	util.SuccessLog("Import complete in %s", result.Duration.Round(time.Millisecond))
	util.InfoLog("  Version:     %s", result.Version)
	util.InfoLog("  Shows:       %s imported, %d skipped",
		humanize.Comma(int64(result.ShowsImported)), result.ShowsSkipped)
	util.InfoLog("  Recordings:  %s imported, %d skipped, %d orphaned",
		humanize.Comma(int64(result.RecordingsImported)), result.RecordingsSkipped, result.RecordingsOrphaned)
	util.InfoLog("  Collections: %d", result.Collections)
	util.InfoLog("Event log: %s", logger.Path())

	return nil
}
