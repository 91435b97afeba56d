package store

import (
	"database/sql"
	"fmt"
	"time"
)

const (
	// minPlaySeconds qualifies a play regardless of track length
	minPlaySeconds = 30 * time.Second

	// playFraction qualifies a play on short tracks before the 30s mark.
	// Fixed at 25% so long jams qualify on the same wall-clock order of
	// magnitude as studio-length tracks.
	playFraction = 0.25
)

// QualifiesAsPlay reports whether elapsed playback of a track counts as a
// meaningful play: at least 30 seconds, or at least 25% of the track's
// total duration, whichever threshold is reached first.
func QualifiesAsPlay(elapsed, total time.Duration) bool {
	if elapsed >= minPlaySeconds {
		return true
	}
	if total > 0 && float64(elapsed) >= float64(total)*playFraction {
		return true
	}
	return false
}

// RecordPlay upserts the recent-play row for a show: first qualifying play
// inserts with count 1 and both timestamps set to now; later plays bump
// last_played_at and the count, leaving first_played_at untouched.
func (s *Store) RecordPlay(showID string, now time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO recent_plays (show_id, first_played_at, last_played_at, play_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(show_id) DO UPDATE SET
			last_played_at = excluded.last_played_at,
			play_count = play_count + 1
	`, showID, now, now)
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}

	return nil
}

// GetRecentPlay retrieves the play ledger row for a show, or nil if the
// show has never been played
func (s *Store) GetRecentPlay(showID string) (*RecentPlay, error) {
	p := &RecentPlay{}
	err := s.db.QueryRow(`
		SELECT show_id, first_played_at, last_played_at, play_count
		FROM recent_plays WHERE show_id = ?
	`, showID).Scan(&p.ShowID, &p.FirstPlayedAt, &p.LastPlayedAt, &p.PlayCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recent play: %w", err)
	}

	return p, nil
}

// RecentPlays retrieves the most recently played shows, newest first
func (s *Store) RecentPlays(limit int) ([]*RecentPlay, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT show_id, first_played_at, last_played_at, play_count
		FROM recent_plays ORDER BY last_played_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent plays: %w", err)
	}
	defer rows.Close()

	var plays []*RecentPlay
	for rows.Next() {
		p := &RecentPlay{}
		if err := rows.Scan(&p.ShowID, &p.FirstPlayedAt, &p.LastPlayedAt, &p.PlayCount); err != nil {
			return nil, fmt.Errorf("failed to scan recent play: %w", err)
		}
		plays = append(plays, p)
	}

	return plays, rows.Err()
}
