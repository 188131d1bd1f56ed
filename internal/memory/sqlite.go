package memory

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore SQLite memory storage implementation.
// It keeps the same contract as FileStore: Flush rewrites both tables
// from the in-memory state inside one transaction.
type SQLiteStore struct {
	*state
	path string
	db   *sql.DB
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("memory database path must be provided")
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store := &SQLiteStore{state: newState(), path: dbPath}
	if err := store.open(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) open() error {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

// initTables initializes database tables
func (s *SQLiteStore) initTables() error {
	queries := []string{
		// Exchange log
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			user_input TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			session TEXT NOT NULL DEFAULT ''
		)`,
		// Remembered facts
		`CREATE TABLE IF NOT EXISTS user_info (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute SQL: %s, error: %w", query, err)
		}
	}

	return nil
}

// Load reads both tables. A database that cannot be read is moved aside to
// <path>.corrupt so the next Flush starts from a clean file; the returned
// error wraps ErrCorrupt.
func (s *SQLiteStore) Load() (*Memory, error) {
	mem, err := s.read()
	if err == nil {
		return s.replace(mem), nil
	}

	empty := s.replace(Empty())
	if qerr := s.quarantine(); qerr != nil {
		return empty, fmt.Errorf("%w: %v (quarantine failed: %v)", ErrCorrupt, err, qerr)
	}
	return empty, fmt.Errorf("%w: %v", ErrCorrupt, err)
}

func (s *SQLiteStore) read() (*Memory, error) {
	if err := s.initTables(); err != nil {
		return nil, err
	}

	mem := Empty()

	rows, err := s.db.Query(
		`SELECT id, date, user_input, bot_response, session
		 FROM conversations
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ex Exchange
		if err := rows.Scan(&ex.ID, &ex.Date, &ex.UserInput, &ex.BotResponse, &ex.Session); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		mem.Conversations = append(mem.Conversations, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conversations: %w", err)
	}

	infoRows, err := s.db.Query(`SELECT key, value FROM user_info`)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer infoRows.Close()

	for infoRows.Next() {
		var k, v string
		if err := infoRows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan user info: %w", err)
		}
		mem.UserInfo[k] = v
	}
	if err := infoRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user info: %w", err)
	}

	return mem, nil
}

func (s *SQLiteStore) quarantine() error {
	if err := s.db.Close(); err != nil {
		return err
	}
	if err := os.Rename(s.path, s.path+".corrupt"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.open()
}

// Flush replaces the database content with the in-memory state
func (s *SQLiteStore) Flush() error {
	mem := s.snapshot()

	if err := s.initTables(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM conversations`); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM user_info`); err != nil {
		return fmt.Errorf("failed to clear user info: %w", err)
	}

	exStmt, err := tx.Prepare(
		"INSERT INTO conversations (id, date, user_input, bot_response, session) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare exchange insert: %w", err)
	}
	defer exStmt.Close()

	for _, ex := range mem.Conversations {
		if _, err := exStmt.Exec(ex.ID, ex.Date, ex.UserInput, ex.BotResponse, ex.Session); err != nil {
			return fmt.Errorf("failed to save exchange %d: %w", ex.ID, err)
		}
	}

	for k, v := range mem.UserInfo {
		if _, err := tx.Exec("INSERT INTO user_info (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("failed to save user info %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit memory: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
