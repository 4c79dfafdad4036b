// internal/state/db.go
// Durable firing history: one row per action invocation, keyed by
// session, so a recording session can be reconstructed afterwards.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// FiringRecord represents one trigger firing during a session.
type FiringRecord struct {
	ID          int64
	SessionID   string
	TriggerName string // display form, e.g. "Trigger: intro -> verse"
	TriggerType string
	MatchEnd    int // stream index just past the matched symbols
	StreamLen   int // stream length at the moment of firing
	FiredAt     time.Time
}

// DB wraps the SQLite database connection for firing history.
type DB struct {
	db *sql.DB
}

const stateSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS firing_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    trigger_name TEXT NOT NULL,
    trigger_type TEXT NOT NULL,
    match_end INTEGER NOT NULL,
    stream_len INTEGER NOT NULL,
    fired_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_firing_history_session ON firing_history(session_id);
CREATE INDEX IF NOT EXISTS idx_firing_history_trigger ON firing_history(trigger_name);
CREATE INDEX IF NOT EXISTS idx_firing_history_fired ON firing_history(fired_at);
`

// Open opens or creates a state database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	// Insert schema version if not present
	var count int
	db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if count == 0 {
		db.Exec("INSERT INTO schema_version (version) VALUES (1)")
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// RecordFiring stores a firing record and returns its ID.
func (d *DB) RecordFiring(rec FiringRecord) (int64, error) {
	result, err := d.db.Exec(`
		INSERT INTO firing_history
		(session_id, trigger_name, trigger_type, match_end, stream_len, fired_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.TriggerName, rec.TriggerType,
		rec.MatchEnd, rec.StreamLen, rec.FiredAt,
	)
	if err != nil {
		return 0, fmt.Errorf("recording firing: %w", err)
	}
	return result.LastInsertId()
}

// Firings retrieves firing history filtered by session and/or trigger
// name, newest first.
func (d *DB) Firings(sessionID, triggerName string, limit int) ([]FiringRecord, error) {
	query := "SELECT id, session_id, trigger_name, trigger_type, match_end, stream_len, fired_at FROM firing_history WHERE 1=1"
	var args []any

	if sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}
	if triggerName != "" {
		query += " AND trigger_name = ?"
		args = append(args, triggerName)
	}

	query += " ORDER BY fired_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying firings: %w", err)
	}
	defer rows.Close()

	var records []FiringRecord
	for rows.Next() {
		var r FiringRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.TriggerName, &r.TriggerType,
			&r.MatchEnd, &r.StreamLen, &r.FiredAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountFirings returns how many firings a session has recorded.
func (d *DB) CountFirings(sessionID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM firing_history WHERE session_id = ?", sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting firings: %w", err)
	}
	return count, nil
}

// Cleanup removes firing records older than the specified number of days.
func (d *DB) Cleanup(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result, err := d.db.Exec(
		"DELETE FROM firing_history WHERE fired_at < ?", cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("cleaning up history: %w", err)
	}
	return result.RowsAffected()
}
