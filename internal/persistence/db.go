// Package persistence provides local save storage: a SQLite file for real
// games and an in-memory map for tests and headless runs.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SaveKey is the single slot the game writes to.
const SaveKey = "tramp-freighter-save"

// SaveInfo describes a stored save without its blob.
type SaveInfo struct {
	Key     string    `db:"key" json:"key"`
	Version string    `db:"version" json:"version"`
	SavedAt time.Time `db:"-" json:"savedAt"`
	Size    int       `db:"size" json:"size"`

	SavedAtMillis int64 `db:"saved_at" json:"-"`
}

// DB wraps a SQLite connection holding save slots.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		key TEXT PRIMARY KEY,
		blob TEXT NOT NULL,
		version TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Write stores blob under key, replacing any previous save.
func (db *DB) Write(key, blob, version string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO saves (key, blob, version, saved_at) VALUES (?, ?, ?, ?)",
		key, blob, version, db.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write save %s: %w", key, err)
	}
	slog.Debug("save written", "key", key, "version", version, "bytes", len(blob))
	return nil
}

// Read returns the blob stored under key. ok is false when no save exists.
func (db *DB) Read(key string) (blob string, ok bool, err error) {
	err = db.conn.Get(&blob, "SELECT blob FROM saves WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read save %s: %w", key, err)
	}
	return blob, true, nil
}

// Delete removes the save under key. Deleting a missing save is not an error.
func (db *DB) Delete(key string) error {
	if _, err := db.conn.Exec("DELETE FROM saves WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete save %s: %w", key, err)
	}
	return nil
}

// Saved returns metadata for every stored save, newest first.
func (db *DB) Saved() ([]SaveInfo, error) {
	var infos []SaveInfo
	err := db.conn.Select(&infos,
		"SELECT key, version, saved_at, length(blob) AS size FROM saves ORDER BY saved_at DESC, key",
	)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	for i := range infos {
		infos[i].SavedAt = time.UnixMilli(infos[i].SavedAtMillis)
	}
	return infos, nil
}
