package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by writes that target a missing learner.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer keeps SQLite happy and gives :memory: databases a single
	// shared connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT 1,
		standard TEXT NOT NULL DEFAULT '',
		parent_phone TEXT NOT NULL DEFAULT '',
		stars INTEGER NOT NULL DEFAULT 0,
		max_level INTEGER NOT NULL DEFAULT 1,
		screen_time_minutes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS test_scores (
		user_id INTEGER NOT NULL,
		level INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		total INTEGER NOT NULL,
		passed BOOLEAN NOT NULL DEFAULT 0,
		taken_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, level),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS game_scores (
		user_id INTEGER NOT NULL,
		game TEXT NOT NULL,
		score INTEGER NOT NULL,
		played_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, game),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS wrong_answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		level INTEGER NOT NULL,
		question TEXT NOT NULL,
		wrong_answer TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS lessons_completed (
		user_id INTEGER NOT NULL,
		level INTEGER NOT NULL,
		PRIMARY KEY (user_id, level),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS attendance (
		user_id INTEGER NOT NULL,
		day TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		homework BOOLEAN NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, day),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS app_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}
