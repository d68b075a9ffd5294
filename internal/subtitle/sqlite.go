package subtitle

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"
)

// writes cues into a fresh SQLite database
type SQLiteWriter struct{}

const sqliteSchema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE cues (
	idx      INTEGER PRIMARY KEY,
	start_ms INTEGER NOT NULL,
	end_ms   INTEGER NOT NULL,
	text     TEXT NOT NULL
);
`

func (w *SQLiteWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	meta := map[string]string{
		"title":    sub.Title,
		"language": sub.Language,
		"offset":   strconv.FormatFloat(sub.Offset.Seconds(), 'f', -1, 64),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO cues (idx, start_ms, end_ms, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range sub.Entries {
		if _, err := stmt.Exec(i+1, entry.StartTime.Milliseconds(), entry.EndTime.Milliseconds(), entry.Text); err != nil {
			return fmt.Errorf("insert cue %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
