// Package store records submitted bookmarks in a local SQLite database so
// repeat submissions can be detected and past activity inspected offline.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Entry is one recorded submission.
type Entry struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	DOI         string `json:"doi,omitempty"`
	BookmarkID  int64  `json:"bookmark_id,omitempty"`
	ZoteroKey   string `json:"zotero_key,omitempty"`
	SubmittedAt int64  `json:"submitted_at"` // unix seconds
}

// Open opens or creates the history database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			title TEXT,
			doi TEXT,
			bookmark_id INTEGER,
			zotero_key TEXT,
			submitted_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_submissions_url ON submissions(url);
		CREATE INDEX IF NOT EXISTS idx_submissions_doi ON submissions(doi)
			WHERE doi IS NOT NULL AND doi != '';
	`

	_, err := db.Exec(schema)
	return err
}

// Record inserts a submission and returns it with ID and timestamp filled in.
func (d *DB) Record(e Entry) (Entry, error) {
	if e.SubmittedAt == 0 {
		e.SubmittedAt = time.Now().Unix()
	}

	res, err := d.db.Exec(`
		INSERT INTO submissions (url, title, doi, bookmark_id, zotero_key, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.URL, e.Title, e.DOI, e.BookmarkID, e.ZoteroKey, e.SubmittedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("recording submission: %w", err)
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("reading insert id: %w", err)
	}
	return e, nil
}

// Recent returns the most recent submissions, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 25
	}

	rows, err := d.db.Query(`
		SELECT id, url, title, doi, bookmark_id, zotero_key, submitted_at
		FROM submissions ORDER BY submitted_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// FindByURL returns past submissions of the given URL, newest first.
func (d *DB) FindByURL(url string) ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT id, url, title, doi, bookmark_id, zotero_key, submitted_at
		FROM submissions WHERE url = ? ORDER BY submitted_at DESC, id DESC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// FindByDOI returns past submissions with the given DOI, newest first.
func (d *DB) FindByDOI(doi string) ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT id, url, title, doi, bookmark_id, zotero_key, submitted_at
		FROM submissions WHERE doi = ? ORDER BY submitted_at DESC, id DESC
	`, doi)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var title, doi, zoteroKey sql.NullString
		var bookmarkID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.URL, &title, &doi, &bookmarkID, &zoteroKey, &e.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		e.Title = title.String
		e.DOI = doi.String
		e.BookmarkID = bookmarkID.Int64
		e.ZoteroKey = zoteroKey.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
