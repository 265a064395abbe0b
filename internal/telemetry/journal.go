package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/vitacheck/internal/api"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLiteJournal is an append-only local log of emitted telemetry, kept so
// events can be inspected offline (`vitacheck events`) regardless of
// whether the backend accepted them.
type SQLiteJournal struct {
	db *sql.DB
}

// OpenJournal opens (and if needed creates) the journal database at path.
func OpenJournal(path string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS telemetry_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		stage TEXT NOT NULL,
		level TEXT NOT NULL,
		assessment_id INTEGER,
		time_left INTEGER,
		details_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_telemetry_created ON telemetry_events(created_at);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Append writes one event row.
func (j *SQLiteJournal) Append(ctx context.Context, ev api.TelemetryEvent) error {
	details, err := json.Marshal(ev.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}

	var assessmentID, timeLeft any
	if ev.AssessmentID != nil {
		assessmentID = *ev.AssessmentID
	}
	if ev.TimeLeft != nil {
		timeLeft = *ev.TimeLeft
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO telemetry_events (event_type, stage, level, assessment_id, time_left, details_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.EventType, ev.Stage, ev.Level, assessmentID, timeLeft, string(details), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Entry is one journaled event.
type Entry struct {
	ID           int64
	EventType    string
	Stage        string
	Level        string
	AssessmentID *int64
	TimeLeft     *int
	Details      string
	CreatedAt    time.Time
}

// Recent returns up to limit entries, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, event_type, stage, level, assessment_id, time_left, details_json, created_at
		FROM telemetry_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var assessmentID, timeLeft sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.EventType, &e.Stage, &e.Level, &assessmentID, &timeLeft, &e.Details, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		if assessmentID.Valid {
			v := assessmentID.Int64
			e.AssessmentID = &v
		}
		if timeLeft.Valid {
			v := int(timeLeft.Int64)
			e.TimeLeft = &v
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// DefaultJournalPath resolves the journal file path in priority order:
// 1. VITACHECK_DB environment variable
// 2. $XDG_DATA_HOME/vitacheck/telemetry.db
// 3. ~/.local/share/vitacheck/telemetry.db
func DefaultJournalPath() (string, error) {
	if p := os.Getenv("VITACHECK_DB"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "vitacheck", "telemetry.db"), nil
}
