package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

// ErrNotFound is returned when a thread or sheet id has no record.
var ErrNotFound = errors.New("not found")

// Store persists conversation state and sheet contents in sqlite.
// One conversation record per thread; the host owns durability.
type Store struct {
	DB *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			thread_id TEXT PRIMARY KEY,
			state TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS sheets (
			id TEXT PRIMARY KEY,
			title TEXT,
			header TEXT,
			rows TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, q := range queries {
		_, err = db.Exec(q)
		if err != nil {
			return nil, err
		}
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// SaveConversation upserts the serialized state for a thread.
func (s *Store) SaveConversation(threadID string, state []byte) error {
	query := `INSERT INTO conversations (thread_id, state, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(thread_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`
	_, err := s.DB.Exec(query, threadID, string(state))
	return err
}

// LoadConversation returns the serialized state for a thread, or
// ErrNotFound when the thread has never been started.
func (s *Store) LoadConversation(threadID string) ([]byte, error) {
	var state string
	query := `SELECT state FROM conversations WHERE thread_id = ?`
	err := s.DB.QueryRow(query, threadID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(state), nil
}

// DeleteConversation removes a thread's record. Callers discard
// finished threads so a chat can start over.
func (s *Store) DeleteConversation(threadID string) error {
	query := `DELETE FROM conversations WHERE thread_id = ?`
	_, err := s.DB.Exec(query, threadID)
	return err
}

// CreateSheet registers a new empty sheet under the given id.
func (s *Store) CreateSheet(id, title string) error {
	query := `INSERT INTO sheets (id, title, header, rows) VALUES (?, ?, '[]', '[]')`
	_, err := s.DB.Exec(query, id, title)
	return err
}

// SheetExists reports whether a sheet id has a record.
func (s *Store) SheetExists(id string) (bool, error) {
	var one int
	err := s.DB.QueryRow(`SELECT 1 FROM sheets WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WriteSheetRows replaces the contents of an existing sheet. Writing to
// an unknown id is an error.
func (s *Store) WriteSheetRows(id string, header []string, rows [][]string) error {
	exists, err := s.SheetExists(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("sheet with ID %s does not exist: %w", id, ErrNotFound)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return err
	}
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	query := `UPDATE sheets SET header = ?, rows = ? WHERE id = ?`
	_, err = s.DB.Exec(query, string(headerJSON), string(rowsJSON), id)
	return err
}

// ReadSheet returns a sheet's title, header and rows.
func (s *Store) ReadSheet(id string) (title string, header []string, rows [][]string, err error) {
	var headerJSON, rowsJSON string
	query := `SELECT title, header, rows FROM sheets WHERE id = ?`
	err = s.DB.QueryRow(query, id).Scan(&title, &headerJSON, &rowsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("sheet with ID %s does not exist: %w", id, ErrNotFound)
		return
	}
	if err != nil {
		return
	}

	if err = json.Unmarshal([]byte(headerJSON), &header); err != nil {
		return
	}
	err = json.Unmarshal([]byte(rowsJSON), &rows)
	return
}
