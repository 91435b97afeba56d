package store

import (
	"testing"
	"time"
)

func TestQualifiesAsPlay(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		total   time.Duration
		want    bool
	}{
		{"thirty seconds flat", 30 * time.Second, 0, true},
		{"over thirty seconds", 2 * time.Minute, 0, true},
		{"under thirty, no length known", 29 * time.Second, 0, false},
		{"quarter of a short track", 10 * time.Second, 40 * time.Second, true},
		{"under a quarter of a short track", 9 * time.Second, 40 * time.Second, false},
		{"long jam, thirty seconds in", 30 * time.Second, 25 * time.Minute, true},
		{"nothing played", 0, 10 * time.Minute, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QualifiesAsPlay(tt.elapsed, tt.total); got != tt.want {
				t.Errorf("QualifiesAsPlay(%v, %v) = %v, want %v", tt.elapsed, tt.total, got, tt.want)
			}
		})
	}
}

func TestRecordPlayUpsert(t *testing.T) {
	s := newTestStore(t)
	sh := seedShow(t, s, "1977-05-08", "Barton Hall, Cornell U.", "Ithaca", "NY")

	first := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	if err := s.RecordPlay(sh.ID, first); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}

	p, err := s.GetRecentPlay(sh.ID)
	if err != nil {
		t.Fatalf("GetRecentPlay: %v", err)
	}
	if p == nil || p.PlayCount != 1 {
		t.Fatalf("expected one play, got %v", p)
	}

	// Second play bumps count and last_played_at only
	second := first.Add(48 * time.Hour)
	if err := s.RecordPlay(sh.ID, second); err != nil {
		t.Fatalf("RecordPlay again: %v", err)
	}

	p, err = s.GetRecentPlay(sh.ID)
	if err != nil {
		t.Fatalf("GetRecentPlay: %v", err)
	}
	if p.PlayCount != 2 {
		t.Errorf("expected play count 2, got %d", p.PlayCount)
	}
	if !p.FirstPlayedAt.Equal(first) {
		t.Errorf("first_played_at changed: %v", p.FirstPlayedAt)
	}
	if !p.LastPlayedAt.Equal(second) {
		t.Errorf("last_played_at not updated: %v", p.LastPlayedAt)
	}
}

func TestRecentPlaysOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	a := seedShow(t, s, "1977-05-07", "Boston Garden", "Boston", "MA")
	b := seedShow(t, s, "1977-05-08", "Barton Hall, Cornell U.", "Ithaca", "NY")
	c := seedShow(t, s, "1977-05-09", "War Memorial", "Buffalo", "NY")

	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	for i, sh := range []*Show{a, b, c} {
		if err := s.RecordPlay(sh.ID, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("RecordPlay: %v", err)
		}
	}

	plays, err := s.RecentPlays(0)
	if err != nil {
		t.Fatalf("RecentPlays: %v", err)
	}
	if len(plays) != 3 {
		t.Fatalf("expected 3 plays, got %d", len(plays))
	}
	// Most recent first
	if plays[0].ShowID != c.ID || plays[2].ShowID != a.ID {
		t.Errorf("unexpected order: %s ... %s", plays[0].ShowID, plays[2].ShowID)
	}

	limited, err := s.RecentPlays(2)
	if err != nil {
		t.Fatalf("RecentPlays limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 plays with limit, got %d", len(limited))
	}
}
