package store

import (
	"database/sql"
	"fmt"
	"time"
)

// AddToLibrary bookmarks a show. The library row and the show's mirrored
// in_library fields are written in one transaction; neither is ever
// observable without the other.
func (s *Store) AddToLibrary(showID, note string) error {
	now := time.Now()
	return s.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO library (show_id, added_at, pinned, note)
			VALUES (?, ?, 0, ?)
			ON CONFLICT(show_id) DO UPDATE SET note = excluded.note
		`, showID, now, note)
		if err != nil {
			return fmt.Errorf("failed to insert library entry: %w", err)
		}

		// Re-adding keeps the original bookmark time
		var addedAt time.Time
		if err := tx.QueryRow("SELECT added_at FROM library WHERE show_id = ?", showID).Scan(&addedAt); err != nil {
			return fmt.Errorf("failed to read library entry: %w", err)
		}

		return mirrorLibraryTx(tx, showID, true, addedAt)
	})
}

// RemoveFromLibrary deletes a bookmark and clears the show's mirrored
// fields in the same transaction
func (s *Store) RemoveFromLibrary(showID string) error {
	return s.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM library WHERE show_id = ?", showID)
		if err != nil {
			return fmt.Errorf("failed to delete library entry: %w", err)
		}

		return mirrorLibraryTx(tx, showID, false, time.Time{})
	})
}

// mirrorLibraryTx syncs shows.in_library and shows.library_added_at with
// the library table
func mirrorLibraryTx(tx *sql.Tx, showID string, inLibrary bool, addedAt time.Time) error {
	var addedAtVal interface{}
	if inLibrary {
		addedAtVal = addedAt
	}

	res, err := tx.Exec(`
		UPDATE shows SET in_library = ?, library_added_at = ? WHERE id = ?
	`, inLibrary, addedAtVal, showID)
	if err != nil {
		return fmt.Errorf("failed to mirror library state: %w", err)
	}

	if inLibrary {
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("cannot add unknown show %s to library", showID)
		}
	}

	return nil
}

// SetPinned toggles a bookmark's pin flag. Single-row update, nothing
// denormalized elsewhere.
func (s *Store) SetPinned(showID string, pinned bool) error {
	res, err := s.db.Exec("UPDATE library SET pinned = ? WHERE show_id = ?", pinned, showID)
	if err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("show %s is not in the library", showID)
	}

	return nil
}

// GetLibraryEntry retrieves a bookmark, or nil if the show is not bookmarked
func (s *Store) GetLibraryEntry(showID string) (*LibraryEntry, error) {
	e := &LibraryEntry{}
	err := s.db.QueryRow(`
		SELECT show_id, added_at, pinned, note FROM library WHERE show_id = ?
	`, showID).Scan(&e.ShowID, &e.AddedAt, &e.Pinned, &e.Note)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get library entry: %w", err)
	}

	return e, nil
}

// ListLibrary retrieves all bookmarks, pinned first, newest first within
// each group
func (s *Store) ListLibrary() ([]*LibraryEntry, error) {
	rows, err := s.db.Query(`
		SELECT show_id, added_at, pinned, note
		FROM library ORDER BY pinned DESC, added_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query library: %w", err)
	}
	defer rows.Close()

	var entries []*LibraryEntry
	for rows.Next() {
		e := &LibraryEntry{}
		if err := rows.Scan(&e.ShowID, &e.AddedAt, &e.Pinned, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan library entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
