package store

import (
	"database/sql"
	"fmt"
)

const showColumns = `
	id, date, year, month, year_month, show_sequence,
	venue, venue_full, city, state, country,
	setlist_json, lineup_json, song_names, member_names,
	recording_count, COALESCE(best_recording_id, ''), avg_rating, total_reviews,
	in_library, library_added_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShow(row rowScanner) (*Show, error) {
	sh := &Show{}
	var addedAt sql.NullTime
	err := row.Scan(
		&sh.ID, &sh.Date, &sh.Year, &sh.Month, &sh.YearMonth, &sh.ShowSequence,
		&sh.Venue, &sh.VenueFull, &sh.City, &sh.State, &sh.Country,
		&sh.SetlistJSON, &sh.LineupJSON, &sh.SongNames, &sh.MemberNames,
		&sh.RecordingCount, &sh.BestRecordingID, &sh.AvgRating, &sh.TotalReviews,
		&sh.InLibrary, &addedAt,
	)
	if err != nil {
		return nil, err
	}
	if addedAt.Valid {
		sh.LibraryAddedAt = addedAt.Time
	}
	return sh, nil
}

func (s *Store) queryShows(query string, args ...interface{}) ([]*Show, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %w", err)
	}
	defer rows.Close()

	var shows []*Show
	for rows.Next() {
		sh, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan show: %w", err)
		}
		shows = append(shows, sh)
	}

	return shows, rows.Err()
}

// InsertShowTx inserts a show within an import transaction
func InsertShowTx(tx *sql.Tx, sh *Show) error {
	var bestID interface{}
	if sh.BestRecordingID != "" {
		bestID = sh.BestRecordingID
	}

	_, err := tx.Exec(`
		INSERT INTO shows (
			id, date, year, month, year_month, show_sequence,
			venue, venue_full, city, state, country,
			setlist_json, lineup_json, song_names, member_names,
			recording_count, best_recording_id, avg_rating, total_reviews
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sh.ID, sh.Date, sh.Year, sh.Month, sh.YearMonth, sh.ShowSequence,
		sh.Venue, sh.VenueFull, sh.City, sh.State, sh.Country,
		sh.SetlistJSON, sh.LineupJSON, sh.SongNames, sh.MemberNames,
		sh.RecordingCount, bestID, sh.AvgRating, sh.TotalReviews,
	)
	if err != nil {
		return fmt.Errorf("failed to insert show %s: %w", sh.ID, err)
	}

	return nil
}

// GetShow retrieves a show by its id, or nil if it does not exist
func (s *Store) GetShow(id string) (*Show, error) {
	sh, err := scanShow(s.db.QueryRow(
		"SELECT"+showColumns+" FROM shows WHERE id = ?", id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get show: %w", err)
	}

	return sh, nil
}

// AllShows retrieves every show in chronological order
func (s *Store) AllShows() ([]*Show, error) {
	return s.queryShows(
		"SELECT" + showColumns + " FROM shows ORDER BY date, show_sequence")
}

// ShowsByYear retrieves all shows in a year, chronological
func (s *Store) ShowsByYear(year int) ([]*Show, error) {
	return s.queryShows(
		"SELECT"+showColumns+" FROM shows WHERE year = ? ORDER BY date, show_sequence", year)
}

// ShowsByYearMonth retrieves all shows in a "yyyy-mm" month, chronological
func (s *Store) ShowsByYearMonth(yearMonth string) ([]*Show, error) {
	return s.queryShows(
		"SELECT"+showColumns+" FROM shows WHERE year_month = ? ORDER BY date, show_sequence", yearMonth)
}

// ShowsByDateRange retrieves shows with from <= date <= to, chronological
func (s *Store) ShowsByDateRange(from, to string) ([]*Show, error) {
	return s.queryShows(
		"SELECT"+showColumns+" FROM shows WHERE date >= ? AND date <= ? ORDER BY date, show_sequence",
		from, to)
}

// ShowsByCity retrieves shows by exact city match, chronological
func (s *Store) ShowsByCity(city string) ([]*Show, error) {
	return s.queryShows(
		"SELECT"+showColumns+" FROM shows WHERE city = ? ORDER BY date, show_sequence", city)
}

// ShowsByState retrieves shows by exact state match, chronological
func (s *Store) ShowsByState(state string) ([]*Show, error) {
	return s.queryShows(
		"SELECT"+showColumns+" FROM shows WHERE state = ? ORDER BY date, show_sequence", state)
}

// ShowsByVenue retrieves shows whose venue name contains the given
// substring (case-insensitive). This is a full table scan; no index can
// serve arbitrary substring match.
func (s *Store) ShowsByVenue(substr string) ([]*Show, error) {
	return s.queryShows(
		"SELECT"+showColumns+" FROM shows WHERE venue LIKE ? COLLATE NOCASE ORDER BY date, show_sequence",
		"%"+substr+"%")
}

// NextShow returns the earliest show strictly after the given date, or nil
// when the date is at or past the end of the catalog. Navigation does not
// wrap around.
func (s *Store) NextShow(date string) (*Show, error) {
	sh, err := scanShow(s.db.QueryRow(
		"SELECT"+showColumns+" FROM shows WHERE date > ? ORDER BY date, show_sequence LIMIT 1", date))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next show: %w", err)
	}

	return sh, nil
}

// PreviousShow returns the latest show strictly before the given date, or
// nil at the start of the catalog. Navigation does not wrap around.
func (s *Store) PreviousShow(date string) (*Show, error) {
	sh, err := scanShow(s.db.QueryRow(
		"SELECT"+showColumns+" FROM shows WHERE date < ? ORDER BY date DESC, show_sequence DESC LIMIT 1", date))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get previous show: %w", err)
	}

	return sh, nil
}

// DeleteShow removes a show; its recordings, library entry and recent-play
// row cascade with it
func (s *Store) DeleteShow(id string) error {
	_, err := s.db.Exec("DELETE FROM shows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete show: %w", err)
	}
	return nil
}

// CountShows returns the number of shows in the catalog
func (s *Store) CountShows() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM shows").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shows: %w", err)
	}
	return count, nil
}
