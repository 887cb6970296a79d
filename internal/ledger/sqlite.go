package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS offenses (
	kind TEXT NOT NULL,
	user_id TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
	PRIMARY KEY (kind, user_id)
)`

// SQLiteStore keeps offense counts in a local SQLite file.
// A single connection guarded by a mutex serializes all access.
type SQLiteStore struct {
	conn *sqlite.Conn
	mu   sync.Mutex
}

// OpenSQLite opens or creates the ledger database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite|sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := sqlitex.Execute(conn, sqliteSchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(_ context.Context, kind Kind, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count(kind, userID)
}

// Increment implements Store. The read and the write share one savepoint.
func (s *SQLiteStore) Increment(_ context.Context, kind Kind, userID string) (prior int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer sqlitex.Save(s.conn)(&err)

	prior, err = s.count(kind, userID)
	if err != nil {
		return 0, err
	}

	err = sqlitex.Execute(s.conn, `
		INSERT INTO offenses (kind, user_id, count) VALUES (?, ?, 1)
		ON CONFLICT (kind, user_id) DO UPDATE SET count = count + 1
	`, &sqlitex.ExecOptions{
		Args: []any{kind.String(), userID},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment count: %w", err)
	}

	return prior, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.Close()
}

func (s *SQLiteStore) count(kind Kind, userID string) (int64, error) {
	var count int64

	err := sqlitex.Execute(s.conn, "SELECT count FROM offenses WHERE kind = ? AND user_id = ?", &sqlitex.ExecOptions{
		Args: []any{kind.String(), userID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read count: %w", err)
	}

	return count, nil
}
