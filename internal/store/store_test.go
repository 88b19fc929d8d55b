package store

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndRecent(t *testing.T) {
	db := openTestDB(t)

	entries := []Entry{
		{URL: "https://example.org/a", Title: "A", DOI: "10.1038/a", BookmarkID: 1, SubmittedAt: 100},
		{URL: "https://example.org/b", Title: "B", BookmarkID: 2, SubmittedAt: 200},
		{URL: "https://example.org/c", Title: "C", ZoteroKey: "KEY1", SubmittedAt: 300},
	}
	for _, e := range entries {
		if _, err := db.Record(e); err != nil {
			t.Fatalf("Record(%s) error = %v", e.URL, err)
		}
	}

	got, err := db.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Newest first.
	if got[0].URL != "https://example.org/c" || got[2].URL != "https://example.org/a" {
		t.Errorf("order = %s, %s, %s", got[0].URL, got[1].URL, got[2].URL)
	}
	if got[0].ZoteroKey != "KEY1" {
		t.Errorf("ZoteroKey = %q", got[0].ZoteroKey)
	}
	if got[2].DOI != "10.1038/a" || got[2].BookmarkID != 1 {
		t.Errorf("oldest entry = %+v", got[2])
	}
}

func TestRecentLimit(t *testing.T) {
	db := openTestDB(t)
	for i := int64(1); i <= 5; i++ {
		if _, err := db.Record(Entry{URL: "https://example.org", SubmittedAt: i}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if got[0].SubmittedAt != 5 {
		t.Errorf("newest SubmittedAt = %d, want 5", got[0].SubmittedAt)
	}
}

func TestRecordFillsIDAndTimestamp(t *testing.T) {
	db := openTestDB(t)

	e, err := db.Record(Entry{URL: "https://example.org/x"})
	if err != nil {
		t.Fatal(err)
	}
	if e.ID == 0 {
		t.Error("ID not filled in")
	}
	if e.SubmittedAt == 0 {
		t.Error("SubmittedAt not filled in")
	}
}

func TestFindByURL(t *testing.T) {
	db := openTestDB(t)

	db.Record(Entry{URL: "https://example.org/a", SubmittedAt: 100})
	db.Record(Entry{URL: "https://example.org/a", SubmittedAt: 200})
	db.Record(Entry{URL: "https://example.org/b", SubmittedAt: 300})

	got, err := db.FindByURL("https://example.org/a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].SubmittedAt != 200 {
		t.Errorf("newest first: got SubmittedAt %d", got[0].SubmittedAt)
	}

	none, err := db.FindByURL("https://example.org/missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("len = %d, want 0", len(none))
	}
}

func TestFindByDOI(t *testing.T) {
	db := openTestDB(t)

	db.Record(Entry{URL: "https://example.org/a", DOI: "10.1038/nature14586", SubmittedAt: 100})
	db.Record(Entry{URL: "https://example.org/b", SubmittedAt: 200})

	got, err := db.FindByDOI("10.1038/nature14586")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].URL != "https://example.org/a" {
		t.Errorf("got = %+v", got)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	db.Close()
}
