package store

import (
	"database/sql"
	"fmt"
)

const recordingColumns = `
	id, show_id, source_type, rating, weighted_rating,
	review_count, high_ratings, low_ratings, confidence,
	taper, source_chain, lineage`

func scanRecording(row rowScanner) (*Recording, error) {
	r := &Recording{}
	err := row.Scan(
		&r.ID, &r.ShowID, &r.SourceType, &r.Rating, &r.WeightedRating,
		&r.ReviewCount, &r.HighRatings, &r.LowRatings, &r.Confidence,
		&r.Taper, &r.SourceChain, &r.Lineage,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// InsertRecordingTx inserts a recording within an import transaction.
// The owning show must already exist.
func InsertRecordingTx(tx *sql.Tx, r *Recording) error {
	_, err := tx.Exec(`
		INSERT INTO recordings (
			id, show_id, source_type, rating, weighted_rating,
			review_count, high_ratings, low_ratings, confidence,
			taper, source_chain, lineage
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.ShowID, r.SourceType, r.Rating, r.WeightedRating,
		r.ReviewCount, r.HighRatings, r.LowRatings, r.Confidence,
		r.Taper, r.SourceChain, r.Lineage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recording %s: %w", r.ID, err)
	}

	return nil
}

// GetRecording retrieves a recording by id, or nil if it does not exist
func (s *Store) GetRecording(id string) (*Recording, error) {
	r, err := scanRecording(s.db.QueryRow(
		"SELECT"+recordingColumns+" FROM recordings WHERE id = ?", id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}

	return r, nil
}

// RecordingsForShow retrieves all recordings of a show, best-rated first
func (s *Store) RecordingsForShow(showID string) ([]*Recording, error) {
	rows, err := s.db.Query(
		"SELECT"+recordingColumns+" FROM recordings WHERE show_id = ? ORDER BY weighted_rating DESC, id",
		showID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recordings: %w", err)
	}
	defer rows.Close()

	var recordings []*Recording
	for rows.Next() {
		r, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		recordings = append(recordings, r)
	}

	return recordings, rows.Err()
}

// BestRecording returns the best recording of a show, or nil when the show
// has none. See SelectBest for the tie-break chain.
func (s *Store) BestRecording(showID string) (*Recording, error) {
	recordings, err := s.RecordingsForShow(showID)
	if err != nil {
		return nil, err
	}
	return SelectBest(recordings), nil
}

// SelectBest picks the best recording from a set. The tie-break chain is
// evaluated in order, first differentiator wins: source-type priority
// (soundboard > matrix > fm > remaster > audience > unknown), then weighted
// rating, then confidence, then review count.
func SelectBest(recordings []*Recording) *Recording {
	var best *Recording
	for _, r := range recordings {
		if best == nil || betterRecording(r, best) {
			best = r
		}
	}
	return best
}

func betterRecording(a, b *Recording) bool {
	if a.SourceType.Priority() != b.SourceType.Priority() {
		return a.SourceType.Priority() > b.SourceType.Priority()
	}
	if a.WeightedRating != b.WeightedRating {
		return a.WeightedRating > b.WeightedRating
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.ReviewCount > b.ReviewCount
}

// CountRecordings returns the number of recordings in the catalog
func (s *Store) CountRecordings() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM recordings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recordings: %w", err)
	}
	return count, nil
}

const (
	// ratingPrior is the global mean a sparsely reviewed recording is
	// shrunk toward
	ratingPrior = 3.0

	// priorWeight is the number of reviews at which the raw mean and the
	// prior contribute equally
	priorWeight = 5
)

// ComputeRatingScores fills in the confidence and weighted-rating fields
// from the raw mean and review count. Called once at import time; never
// recomputed at query time.
func ComputeRatingScores(r *Recording) {
	if r.ReviewCount <= 0 {
		r.Confidence = 0
		r.WeightedRating = 0
		return
	}
	r.Confidence = float64(r.ReviewCount) / float64(r.ReviewCount+priorWeight)
	r.WeightedRating = r.Confidence*r.Rating + (1-r.Confidence)*ratingPrior
}
