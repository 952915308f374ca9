package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the SQLite database at path with foreign keys
// enabled. The sync engine is single-writer, so the pool is capped at one
// connection.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

// WithTx runs fn in a transaction, rolling back on error.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// formatTime renders a timestamp for storage, preserving its UTC offset.
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// parseTime is the inverse of formatTime.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// formatTimePtr renders a nullable timestamp.
func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
