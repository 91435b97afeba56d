package main

import (
	"fmt"

	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage your library of bookmarked shows",
	Long: `Bookmark shows into a personal library. The library lists pinned
shows first, then most recently added. Bookmarks survive catalog
re-imports as long as the show still exists in the new catalog.`,
	RunE: runLibraryList,
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <show-id>",
	Short: "Add a show to the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryAdd,
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <show-id>",
	Short: "Remove a show from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryRemove,
}

var libraryPinCmd = &cobra.Command{
	Use:   "pin <show-id>",
	Short: "Pin a library show to the top of the list",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryPin,
}

var libraryUnpinCmd = &cobra.Command{
	Use:   "unpin <show-id>",
	Short: "Unpin a library show",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryUnpin,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryPinCmd)
	libraryCmd.AddCommand(libraryUnpinCmd)

	libraryAddCmd.Flags().String("note", "", "free-form note to attach")
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	setupLogging()

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	entries, err := db.ListLibrary()
	if err != nil {
		return fmt.Errorf("failed to list library: %w", err)
	}
	if len(entries) == 0 {
		util.WarnLog("Library is empty. Add shows with 'tapevault library add'.")
		return nil
	}

	for _, e := range entries {
		sh, err := db.GetShow(e.ShowID)
		if err != nil {
			return fmt.Errorf("failed to get show: %w", err)
		}
		if sh == nil {
			continue
		}
		line := formatShowLine(sh)
		if e.Pinned {
			line = "[pinned] " + line
		}
		if e.Note != "" {
			line += "  note: " + e.Note
		}
		fmt.Println(line)
	}

	return nil
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	setupLogging()
	note, _ := cmd.Flags().GetString("note")

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.AddToLibrary(args[0], note); err != nil {
		return fmt.Errorf("failed to add to library: %w", err)
	}
	util.SuccessLog("Added %s to library", args[0])
	return nil
}

func runLibraryRemove(cmd *cobra.Command, args []string) error {
	setupLogging()

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.RemoveFromLibrary(args[0]); err != nil {
		return fmt.Errorf("failed to remove from library: %w", err)
	}
	util.SuccessLog("Removed %s from library", args[0])
	return nil
}

func runLibraryPin(cmd *cobra.Command, args []string) error {
	return setPinned(args[0], true)
}

func runLibraryUnpin(cmd *cobra.Command, args []string) error {
	return setPinned(args[0], false)
}

func setPinned(showID string, pinned bool) error {
	setupLogging()

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SetPinned(showID, pinned); err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	if pinned {
		util.SuccessLog("Pinned %s", showID)
	} else {
		util.SuccessLog("Unpinned %s", showID)
	}
	return nil
}
