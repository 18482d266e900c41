package relay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/session"
	"github.com/hengjingzhu/remote-mcp-gateway/pkg/logging"
)

// SQLiteStore implements CredentialStore on a local SQLite database.
// Credentials survive process restarts, so a session actor recreated after a
// crash still sees the credential relayed to its predecessor.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the credential database at the given path.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them: WAL for
	// concurrent readers, and a busy timeout so concurrent writers wait for
	// the lock instead of failing with SQLITE_BUSY.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logging.Info("RelayStore", "Credential store initialized at %s", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS session_credentials (
			style      TEXT NOT NULL,
			session_id TEXT NOT NULL,
			token      TEXT NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (style, session_id)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StoreCredential upserts the credential for the session. Repeated stores for
// the same session are idempotent; concurrent stores resolve to whichever
// write committed last.
func (s *SQLiteStore) StoreCredential(ctx context.Context, key session.Key, token string) error {
	if token == "" {
		return ErrEmptyCredential
	}

	query := `
		INSERT INTO session_credentials (style, session_id, token, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (style, session_id) DO UPDATE SET
			token = excluded.token,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		string(key.Style),
		key.ID,
		token,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing credential for %s: %w", key.ActorAddress(), err)
	}

	logging.Debug("RelayStore", "Stored credential for session %s (%s)",
		logging.TruncateSessionID(key.ID), key.Style)
	return nil
}

// RetrieveCredential reads the credential back out. Reading does not consume
// or mutate state; many tool invocations inside one session read the same
// credential.
func (s *SQLiteStore) RetrieveCredential(ctx context.Context, key session.Key) (string, bool, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM session_credentials WHERE style = ? AND session_id = ?`,
		string(key.Style), key.ID,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("retrieving credential for %s: %w", key.ActorAddress(), err)
	}
	return token, true, nil
}

// DeleteSession removes the session's credential.
func (s *SQLiteStore) DeleteSession(ctx context.Context, key session.Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session_credentials WHERE style = ? AND session_id = ?`,
		string(key.Style), key.ID,
	)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", key.ActorAddress(), err)
	}
	logging.Debug("RelayStore", "Deleted session %s (%s)", logging.TruncateSessionID(key.ID), key.Style)
	return nil
}

// SessionCount returns the number of sessions holding a credential.
func (s *SQLiteStore) SessionCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_credentials`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return count, nil
}

// PurgeIdleSessions deletes credentials that have not been re-stored within
// the given window and returns how many were removed. The surrounding host
// calls this periodically; individual stores and retrievals never expire
// anything on their own.
func (s *SQLiteStore) PurgeIdleSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-idleFor).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM session_credentials WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging idle sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		logging.Debug("RelayStore", "Purged %d idle sessions", affected)
	}
	return int(affected), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements CredentialStore
var _ CredentialStore = (*SQLiteStore)(nil)
