package main

import (
	"fmt"
	"strings"

	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections [slug]",
	Short: "List curated collections or show one in detail",
	Long: `With no argument, list every collection. With a slug, print the
collection's description and its member shows in catalog order.

Collection membership is editorial data; members that reference shows
missing from the current catalog are noted but not treated as errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCollections,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

func runCollections(cmd *cobra.Command, args []string) error {
	setupLogging()

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		return printCollection(db, args[0])
	}

	collections, err := db.AllCollections()
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if len(collections) == 0 {
		util.WarnLog("No collections in catalog.")
		return nil
	}

	for _, c := range collections {
		line := fmt.Sprintf("%-30s %3d shows", c.Slug, c.ShowCount)
		if len(c.Tags) > 0 {
			line += "  [" + strings.Join(c.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}

	return nil
}

func printCollection(db *store.Store, slug string) error {
	c, err := db.GetCollection(slug)
	if err != nil {
		return fmt.Errorf("failed to get collection: %w", err)
	}
	if c == nil {
		return fmt.Errorf("collection not found: %s", slug)
	}

	fmt.Printf("%s (%d shows)\n", c.Name, c.ShowCount)
	if c.Description != "" {
		fmt.Println(c.Description)
	}
	if len(c.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(c.Tags, ", "))
	}
	fmt.Println()

	missing := 0
	for _, id := range c.ShowIDs {
		sh, err := db.GetShow(id)
		if err != nil {
			return fmt.Errorf("failed to get show: %w", err)
		}
		if sh == nil {
			missing++
			continue
		}
		fmt.Println(formatShowLine(sh))
	}
	if missing > 0 {
		util.WarnLog("%d member shows are not in the current catalog", missing)
	}

	return nil
}
