package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/franz/tapevault/internal/archiveorg"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the metadata cache",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached metadata",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	setupLogging()

	cache := archiveorg.NewCache(viper.GetString("cache-dir"), nil)
	units, totalBytes, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	fmt.Printf("Cache dir: %s\n", viper.GetString("cache-dir"))
	fmt.Printf("Entries:   %d\n", units)
	fmt.Printf("Size:      %s\n", humanize.Bytes(uint64(totalBytes)))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	setupLogging()

	cache := archiveorg.NewCache(viper.GetString("cache-dir"), nil)
	if err := cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	util.SuccessLog("Cache cleared")
	return nil
}
