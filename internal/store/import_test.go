package store

import (
	"database/sql"
	"testing"
	"time"
)

func TestUserStateSurvivesWipe(t *testing.T) {
	s := newTestStore(t)
	kept := seedShow(t, s, "1977-05-08", "Barton Hall, Cornell U.", "Ithaca", "NY")
	dropped := seedShow(t, s, "1977-05-09", "War Memorial", "Buffalo", "NY")

	if err := s.AddToLibrary(kept.ID, "keeper"); err != nil {
		t.Fatalf("AddToLibrary: %v", err)
	}
	if err := s.AddToLibrary(dropped.ID, "goner"); err != nil {
		t.Fatalf("AddToLibrary: %v", err)
	}
	playedAt := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	if err := s.RecordPlay(kept.ID, playedAt); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}

	// Simulate a re-import where only the Cornell show survives
	err := s.Transaction(func(tx *sql.Tx) error {
		state, err := SnapshotUserStateTx(tx)
		if err != nil {
			return err
		}
		if len(state.Library) != 2 || len(state.Recent) != 1 {
			t.Errorf("snapshot incomplete: %d library, %d recent",
				len(state.Library), len(state.Recent))
		}

		if err := WipeCatalogTx(tx); err != nil {
			return err
		}
		if err := InsertShowTx(tx, &Show{
			ID: kept.ID, Date: kept.Date, Year: kept.Year, Month: kept.Month,
			YearMonth: kept.YearMonth, Venue: kept.Venue, City: kept.City,
			State: kept.State, Country: kept.Country,
		}); err != nil {
			return err
		}

		return RestoreUserStateTx(tx, state, func(id string) bool {
			return id == kept.ID
		})
	})
	if err != nil {
		t.Fatalf("re-import transaction: %v", err)
	}

	// Surviving show keeps its bookmark, play history and mirror
	entry, err := s.GetLibraryEntry(kept.ID)
	if err != nil {
		t.Fatalf("GetLibraryEntry: %v", err)
	}
	if entry == nil || entry.Note != "keeper" {
		t.Errorf("expected restored bookmark, got %v", entry)
	}
	play, err := s.GetRecentPlay(kept.ID)
	if err != nil {
		t.Fatalf("GetRecentPlay: %v", err)
	}
	if play == nil || !play.FirstPlayedAt.Equal(playedAt) {
		t.Errorf("expected restored play history, got %v", play)
	}
	sh, err := s.GetShow(kept.ID)
	if err != nil {
		t.Fatalf("GetShow: %v", err)
	}
	if !sh.InLibrary {
		t.Error("expected in_library mirror restored")
	}

	// The dropped show's state is gone with it
	goneEntry, err := s.GetLibraryEntry(dropped.ID)
	if err != nil {
		t.Fatalf("GetLibraryEntry: %v", err)
	}
	if goneEntry != nil {
		t.Errorf("expected dropped show's bookmark gone, got %v", goneEntry)
	}
}

func TestWipeClearsDataVersion(t *testing.T) {
	s := newTestStore(t)

	err := s.Transaction(func(tx *sql.Tx) error {
		return SetDataVersionTx(tx, &DataVersion{
			Version: "2026.08", ImportedAt: time.Now(), ShowCount: 1,
		})
	})
	if err != nil {
		t.Fatalf("SetDataVersionTx: %v", err)
	}

	err = s.Transaction(func(tx *sql.Tx) error {
		return WipeCatalogTx(tx)
	})
	if err != nil {
		t.Fatalf("WipeCatalogTx: %v", err)
	}

	v, err := s.GetDataVersion()
	if err != nil {
		t.Fatalf("GetDataVersion: %v", err)
	}
	if v != nil {
		t.Errorf("expected no data version after wipe, got %v", v)
	}
}
