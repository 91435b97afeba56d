package store

import (
	"database/sql"
	"fmt"
)

// UserState is the snapshot of the mutable tables taken before an import
// wipes the catalog, so bookmarks and play history survive a re-import.
type UserState struct {
	Library []*LibraryEntry
	Recent  []*RecentPlay
}

// SnapshotUserStateTx reads the library and recent-play tables inside the
// import transaction, before the wipe cascades through them
func SnapshotUserStateTx(tx *sql.Tx) (*UserState, error) {
	state := &UserState{}

	rows, err := tx.Query("SELECT show_id, added_at, pinned, note FROM library")
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot library: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		e := &LibraryEntry{}
		if err := rows.Scan(&e.ShowID, &e.AddedAt, &e.Pinned, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan library entry: %w", err)
		}
		state.Library = append(state.Library, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	playRows, err := tx.Query("SELECT show_id, first_played_at, last_played_at, play_count FROM recent_plays")
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot recent plays: %w", err)
	}
	defer playRows.Close()
	for playRows.Next() {
		p := &RecentPlay{}
		if err := playRows.Scan(&p.ShowID, &p.FirstPlayedAt, &p.LastPlayedAt, &p.PlayCount); err != nil {
			return nil, fmt.Errorf("failed to scan recent play: %w", err)
		}
		state.Recent = append(state.Recent, p)
	}

	return state, playRows.Err()
}

// WipeCatalogTx clears all catalog tables inside the import transaction.
// Recordings go before shows to keep the cascade cheap; the data version
// goes last so a crash mid-wipe never leaves a version row claiming a
// complete catalog.
func WipeCatalogTx(tx *sql.Tx) error {
	for _, stmt := range []string{
		"DELETE FROM recordings",
		"DELETE FROM collections",
		"DELETE FROM shows",
		"DELETE FROM data_version",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to wipe catalog (%s): %w", stmt, err)
		}
	}
	return nil
}

// RestoreUserStateTx re-inserts snapshotted bookmarks and play history for
// shows that still exist in the newly imported catalog, and re-mirrors the
// shows' library fields. Rows pointing at shows the new package no longer
// carries are dropped.
func RestoreUserStateTx(tx *sql.Tx, state *UserState, showExists func(id string) bool) error {
	for _, e := range state.Library {
		if !showExists(e.ShowID) {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO library (show_id, added_at, pinned, note) VALUES (?, ?, ?, ?)
		`, e.ShowID, e.AddedAt, e.Pinned, e.Note)
		if err != nil {
			return fmt.Errorf("failed to restore library entry %s: %w", e.ShowID, err)
		}
		if err := mirrorLibraryTx(tx, e.ShowID, true, e.AddedAt); err != nil {
			return err
		}
	}

	for _, p := range state.Recent {
		if !showExists(p.ShowID) {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO recent_plays (show_id, first_played_at, last_played_at, play_count)
			VALUES (?, ?, ?, ?)
		`, p.ShowID, p.FirstPlayedAt, p.LastPlayedAt, p.PlayCount)
		if err != nil {
			return fmt.Errorf("failed to restore recent play %s: %w", p.ShowID, err)
		}
	}

	return nil
}
