package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndListSearches(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := New(filepath.Join(tmpDir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	first := time.Now().Add(-time.Hour)
	if _, err := db.RecordSearch("invoice", "/docs", false, 2, 5, first); err != nil {
		t.Fatal(err)
	}
	recorded, err := db.RecordSearch("total.*due", "/docs", true, 1, 3, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if !recorded.Regex || recorded.Query != "total.*due" {
		t.Errorf("unexpected record %+v", recorded)
	}

	searches, err := db.ListSearches(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(searches) != 2 {
		t.Fatalf("expected 2 searches, got %d", len(searches))
	}
	// Newest first
	if searches[0].Query != "total.*due" || searches[1].Query != "invoice" {
		t.Errorf("unexpected order: %q then %q", searches[0].Query, searches[1].Query)
	}
	if searches[1].DocCount != 2 || searches[1].MatchCount != 5 {
		t.Errorf("counts lost: %+v", searches[1])
	}
}

func TestGetSearchMissing(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := New(filepath.Join(tmpDir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	s, err := db.GetSearch("no-such-id")
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Errorf("expected nil for missing search, got %+v", s)
	}
}

func TestPruneSearchesKeepsNewest(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := New(filepath.Join(tmpDir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	base := time.Now().Add(-3 * time.Hour)
	for i, q := range []string{"oldest", "middle", "newest"} {
		if _, err := db.RecordSearch(q, "/docs", false, 0, 0, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := db.PruneSearches(1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	left, err := db.ListSearches(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Query != "newest" {
		t.Errorf("expected only the newest record, got %+v", left)
	}

	// Pruning everything leaves an empty history
	if _, err := db.PruneSearches(0); err != nil {
		t.Fatal(err)
	}
	left, err = db.ListSearches(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("expected empty history, got %d records", len(left))
	}
}

func TestDeleteSearch(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := New(filepath.Join(tmpDir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	s, err := db.RecordSearch("q", "/docs", false, 0, 0, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteSearch(s.ID); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetSearch(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("search should be gone after delete")
	}
}
