// Package history persists the chat exchanges to a local SQLite file so
// a session's questions survive restarts.
package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Entry is one stored chat message.
type Entry struct {
	ID        string
	Role      string // "user" or "assistant"
	Content   string
	Source    string // answer source; empty for user entries
	CreatedAt time.Time
}

// Store is the SQLite-backed history store.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir histórico: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao inicializar histórico: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		source TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores one message and returns its generated id.
func (s *Store) Append(role, content, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO messages (id, role, content, source, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, role, content, source, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("erro ao gravar histórico: %w", err)
	}
	return id, nil
}

// Recent returns the latest n messages, oldest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, role, content, COALESCE(source, ''), created_at
		 FROM messages ORDER BY created_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar histórico: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Role, &e.Content, &e.Source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler histórico: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
