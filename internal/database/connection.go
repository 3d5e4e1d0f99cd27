package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the database for the given driver ("sqlite3" or "postgres")
// and initializes the schema. For sqlite3 the DSN is a file path whose parent
// directory is created if missing.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite3" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"words", `
			CREATE TABLE IF NOT EXISTS words (
				key TEXT PRIMARY KEY,
				phonetic TEXT NOT NULL DEFAULT '',
				meaning TEXT NOT NULL,
				example TEXT NOT NULL DEFAULT '',
				level TEXT NOT NULL DEFAULT 'tier4',
				favorite BOOLEAN NOT NULL DEFAULT FALSE,
				ease_factor REAL NOT NULL DEFAULT 2.5,
				interval_days INTEGER NOT NULL DEFAULT 1,
				repetitions INTEGER NOT NULL DEFAULT 0,
				due_date TIMESTAMP NOT NULL,
				last_reviewed_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL
			)
		`},
		{"study_records", `
			CREATE TABLE IF NOT EXISTS study_records (
				id TEXT PRIMARY KEY,
				word_key TEXT NOT NULL,
				mode TEXT NOT NULL,
				correct BOOLEAN NOT NULL,
				duration_seconds INTEGER NOT NULL DEFAULT 0,
				timestamp TIMESTAMP NOT NULL
			)
		`},
		{"achievements", `
			CREATE TABLE IF NOT EXISTS achievements (
				key TEXT PRIMARY KEY,
				unlocked_at TIMESTAMP NOT NULL
			)
		`},
		{"settings", `
			CREATE TABLE IF NOT EXISTS settings (
				id INTEGER PRIMARY KEY,
				daily_goal INTEGER NOT NULL,
				reminder_enabled BOOLEAN NOT NULL,
				reminder_hour INTEGER NOT NULL,
				sound_enabled BOOLEAN NOT NULL,
				haptics_enabled BOOLEAN NOT NULL,
				auto_play_enabled BOOLEAN NOT NULL,
				appearance TEXT NOT NULL,
				question_timeout_seconds INTEGER NOT NULL,
				question_count INTEGER NOT NULL
			)
		`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.name, err)
		}
	}
	return nil
}
