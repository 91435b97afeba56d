package store

import (
	"database/sql"
	"testing"
)

func seedCollection(t *testing.T, s *Store, c *Collection) {
	t.Helper()
	err := s.Transaction(func(tx *sql.Tx) error {
		return InsertCollectionTx(tx, c)
	})
	if err != nil {
		t.Fatalf("failed to insert collection: %v", err)
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	sh := seedShow(t, s, "1977-05-08", "Barton Hall, Cornell U.", "Ithaca", "NY")

	seedCollection(t, s, &Collection{
		Slug:        "may-77",
		Name:        "May '77",
		Description: "The legendary spring run.",
		Tags:        []string{"era", "essential"},
		ShowIDs:     []string{sh.ID, "1977-05-09-war-memorial-buffalo-ny-usa"},
		ShowCount:   2,
	})

	c, err := s.GetCollection("may-77")
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if c == nil {
		t.Fatal("expected collection")
	}
	if c.Name != "May '77" || c.ShowCount != 2 {
		t.Errorf("unexpected collection: %+v", c)
	}
	if len(c.Tags) != 2 || c.PrimaryTag() != "era" {
		t.Errorf("unexpected tags: %v", c.Tags)
	}
	// Membership keeps archive order and may reference missing shows
	if len(c.ShowIDs) != 2 || c.ShowIDs[0] != sh.ID {
		t.Errorf("unexpected members: %v", c.ShowIDs)
	}
}

func TestCollectionsForShow(t *testing.T) {
	s := newTestStore(t)
	sh := seedShow(t, s, "1977-05-08", "Barton Hall, Cornell U.", "Ithaca", "NY")
	other := seedShow(t, s, "1978-07-08", "Red Rocks", "Morrison", "CO")

	seedCollection(t, s, &Collection{
		Slug: "may-77", Name: "May '77",
		ShowIDs: []string{sh.ID}, ShowCount: 1,
	})
	seedCollection(t, s, &Collection{
		Slug: "cornell-legends", Name: "Cornell Legends",
		ShowIDs: []string{sh.ID}, ShowCount: 1,
	})
	seedCollection(t, s, &Collection{
		Slug: "colorado", Name: "Colorado",
		ShowIDs: []string{other.ID}, ShowCount: 1,
	})

	got, err := s.CollectionsForShow(sh.ID)
	if err != nil {
		t.Fatalf("CollectionsForShow: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 collections containing the show, got %d", len(got))
	}
	for _, c := range got {
		if c.Slug == "colorado" {
			t.Error("collection without the show should not match")
		}
	}
}

func TestGetCollectionMissing(t *testing.T) {
	s := newTestStore(t)
	c, err := s.GetCollection("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil for missing collection, got %v", c)
	}
}
