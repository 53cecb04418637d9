package transcript

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const defaultLimit = 10

// Store manages the SQLite database for transcripts
type Store struct {
	db        *sql.DB
	sessionID string
	now       func() time.Time
}

// NewStore opens (or creates) the database at dbPath. Every Store gets a
// fresh session id that tags the entries it records.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{
		db:        db,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionID identifies the entries recorded through this store
func (s *Store) SessionID() string {
	return s.sessionID
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchanges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		user_input TEXT NOT NULL,
		intent TEXT NOT NULL,
		action TEXT NOT NULL,
		tool TEXT,
		safety_level TEXT,
		confidence REAL,
		response TEXT,
		metadata TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session_id);
	CREATE INDEX IF NOT EXISTS idx_exchanges_action ON exchanges(action);
	CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores e under the current session and returns its id. ID,
// SessionID and CreatedAt are filled in when zero.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.SessionID == "" {
		e.SessionID = s.sessionID
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	metadataJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (session_id, created_at, user_input, intent, action, tool, safety_level, confidence, response, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.SessionID, e.CreatedAt, e.UserInput, e.Intent, e.Action, e.Tool, e.SafetyLevel, e.Confidence, e.Response, string(metadataJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert exchange: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.Search(ctx, Query{Limit: limit})
}

// Search returns entries matching q, newest first
func (s *Store) Search(ctx context.Context, q Query) ([]Entry, error) {
	query := `
		SELECT id, session_id, created_at, user_input, intent, action, tool, safety_level, confidence, response, metadata
		FROM exchanges WHERE 1=1
	`
	var args []interface{}

	if q.Text != "" {
		query += ` AND (user_input LIKE ? OR response LIKE ?)`
		pattern := "%" + q.Text + "%"
		args = append(args, pattern, pattern)
	}
	if q.Action != "" {
		query += ` AND action = ?`
		args = append(args, q.Action)
	}
	if q.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, q.SessionID)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var tool, safety, response, metadataJSON sql.NullString
		var confidence sql.NullFloat64

		if err := rows.Scan(&e.ID, &e.SessionID, &e.CreatedAt, &e.UserInput, &e.Intent, &e.Action,
			&tool, &safety, &confidence, &response, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		e.Tool = tool.String
		e.SafetyLevel = safety.String
		e.Confidence = confidence.Float64
		e.Response = response.String
		if metadataJSON.Valid && metadataJSON.String != "null" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &e.Metadata); err != nil {
				e.Metadata = nil
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exchanges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count exchanges: %w", err)
	}
	return n, nil
}
