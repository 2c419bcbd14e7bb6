package draft

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBackend stores drafts in a single-table SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("draft: ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("draft: open sqlite: %w", err)
	}
	backend := &SQLiteBackend{db: db}
	if err := backend.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *SQLiteBackend) migrate() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("draft: migrate: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) Save(key string, data []byte) error {
	_, err := b.db.Exec(`
		INSERT INTO drafts (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("draft: save %s: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Load(key string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRow(`SELECT data FROM drafts WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("draft: load %s: %w", key, err)
	}
	return data, nil
}

func (b *SQLiteBackend) Delete(key string) error {
	if _, err := b.db.Exec(`DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("draft: delete %s: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Exists(key string) (bool, error) {
	var count int
	if err := b.db.QueryRow(`SELECT COUNT(1) FROM drafts WHERE key = ?`, key).Scan(&count); err != nil {
		return false, fmt.Errorf("draft: exists %s: %w", key, err)
	}
	return count > 0, nil
}
