package store

import (
	"database/sql"
	"math"
	"testing"
)

func seedRecording(t *testing.T, s *Store, r *Recording) {
	t.Helper()
	ComputeRatingScores(r)
	err := s.Transaction(func(tx *sql.Tx) error {
		return InsertRecordingTx(tx, r)
	})
	if err != nil {
		t.Fatalf("failed to insert recording: %v", err)
	}
}

func TestComputeRatingScores(t *testing.T) {
	// 20 reviews at 4.8: confidence 20/25, pulled slightly toward 3.0
	r := &Recording{Rating: 4.8, ReviewCount: 20}
	ComputeRatingScores(r)
	if math.Abs(r.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %f, want 0.8", r.Confidence)
	}
	want := 0.8*4.8 + 0.2*3.0
	if math.Abs(r.WeightedRating-want) > 1e-9 {
		t.Errorf("weighted rating = %f, want %f", r.WeightedRating, want)
	}

	// A single 5-star review barely moves off the prior
	one := &Recording{Rating: 5.0, ReviewCount: 1}
	ComputeRatingScores(one)
	if one.WeightedRating >= r.WeightedRating {
		t.Errorf("one 5-star review (%f) should rank below twenty 4.8s (%f)",
			one.WeightedRating, r.WeightedRating)
	}

	// No reviews means no score at all
	zero := &Recording{Rating: 0, ReviewCount: 0}
	ComputeRatingScores(zero)
	if zero.Confidence != 0 || zero.WeightedRating != 0 {
		t.Errorf("unreviewed recording should score zero, got %f/%f",
			zero.Confidence, zero.WeightedRating)
	}
}

func TestSelectBest(t *testing.T) {
	sbd := &Recording{ID: "sbd", SourceType: SourceSoundboard, WeightedRating: 3.5}
	aud := &Recording{ID: "aud", SourceType: SourceAudience, WeightedRating: 4.9}

	// Source type outranks rating
	if best := SelectBest([]*Recording{aud, sbd}); best.ID != "sbd" {
		t.Errorf("expected soundboard to win over higher-rated audience, got %s", best.ID)
	}

	// Same source type falls through to weighted rating
	sbd2 := &Recording{ID: "sbd2", SourceType: SourceSoundboard, WeightedRating: 4.0}
	if best := SelectBest([]*Recording{sbd, sbd2}); best.ID != "sbd2" {
		t.Errorf("expected higher weighted rating to win, got %s", best.ID)
	}

	// Then confidence, then review count
	a := &Recording{ID: "a", SourceType: SourceAudience, WeightedRating: 4.0, Confidence: 0.5, ReviewCount: 5}
	b := &Recording{ID: "b", SourceType: SourceAudience, WeightedRating: 4.0, Confidence: 0.8, ReviewCount: 3}
	if best := SelectBest([]*Recording{a, b}); best.ID != "b" {
		t.Errorf("expected higher confidence to win, got %s", best.ID)
	}

	if best := SelectBest(nil); best != nil {
		t.Errorf("expected nil for empty set, got %v", best)
	}
}

func TestRecordingsForShow(t *testing.T) {
	s := newTestStore(t)
	sh := seedShow(t, s, "1977-05-08", "Barton Hall, Cornell U.", "Ithaca", "NY")

	seedRecording(t, s, &Recording{
		ID: "gd77-05-08.aud.x", ShowID: sh.ID,
		SourceType: SourceAudience, Rating: 3.5, ReviewCount: 8,
	})
	seedRecording(t, s, &Recording{
		ID: "gd77-05-08.sbd.hicks", ShowID: sh.ID,
		SourceType: SourceSoundboard, Rating: 4.9, ReviewCount: 120,
	})

	recordings, err := s.RecordingsForShow(sh.ID)
	if err != nil {
		t.Fatalf("RecordingsForShow: %v", err)
	}
	if len(recordings) != 2 {
		t.Fatalf("expected 2 recordings, got %d", len(recordings))
	}
	// Ranked best first
	if recordings[0].ID != "gd77-05-08.sbd.hicks" {
		t.Errorf("expected soundboard ranked first, got %s", recordings[0].ID)
	}

	best, err := s.BestRecording(sh.ID)
	if err != nil {
		t.Fatalf("BestRecording: %v", err)
	}
	if best == nil || best.ID != "gd77-05-08.sbd.hicks" {
		t.Errorf("unexpected best recording: %v", best)
	}
}

func TestInsertRecordingRequiresShow(t *testing.T) {
	s := newTestStore(t)

	err := s.Transaction(func(tx *sql.Tx) error {
		return InsertRecordingTx(tx, &Recording{
			ID: "orphan", ShowID: "no-such-show", SourceType: SourceAudience,
		})
	})
	if err == nil {
		t.Error("expected foreign key violation inserting recording without show")
	}
}
