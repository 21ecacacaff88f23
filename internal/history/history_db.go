package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/workbench/internal/migrations"
	"github.com/studiowebux/workbench/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save stores entry and returns its id. A zero timestamp means now.
func (m *Manager) Save(entry types.HistoryEntry) (int64, error) {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := m.db.Exec(`
		INSERT INTO analyses (timestamp, action, kind, server, payload, result, elapsed, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ts.Local().Format(timestampLayout),
		string(entry.Action),
		entry.Kind,
		entry.Server,
		entry.Payload,
		entry.Result,
		entry.Elapsed,
		entry.Outcome,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save history entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read history id: %w", err)
	}
	return id, nil
}

// Load returns the newest entries first. A limit of zero or less returns all.
func (m *Manager) Load(limit int) ([]types.HistoryEntry, error) {
	return m.query(`
		SELECT id, timestamp, action, COALESCE(kind, ''), server, payload, result, COALESCE(elapsed, ''), outcome
		FROM analyses
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, normalizeLimit(limit))
}

// LoadForAction returns the newest entries of one action
func (m *Manager) LoadForAction(action types.Action, limit int) ([]types.HistoryEntry, error) {
	return m.query(`
		SELECT id, timestamp, action, COALESCE(kind, ''), server, payload, result, COALESCE(elapsed, ''), outcome
		FROM analyses
		WHERE action = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, string(action), normalizeLimit(limit))
}

// Get returns one entry by id
func (m *Manager) Get(id int64) (types.HistoryEntry, error) {
	entries, err := m.query(`
		SELECT id, timestamp, action, COALESCE(kind, ''), server, payload, result, COALESCE(elapsed, ''), outcome
		FROM analyses
		WHERE id = ?
	`, id)
	if err != nil {
		return types.HistoryEntry{}, err
	}
	if len(entries) == 0 {
		return types.HistoryEntry{}, fmt.Errorf("history entry %d not found", id)
	}
	return entries[0], nil
}

func (m *Manager) query(q string, args ...interface{}) ([]types.HistoryEntry, error) {
	rows, err := m.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var e types.HistoryEntry
		var action, timestamp string

		err := rows.Scan(
			&e.ID,
			&timestamp,
			&action,
			&e.Kind,
			&e.Server,
			&e.Payload,
			&e.Result,
			&e.Elapsed,
			&e.Outcome,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		e.Action = types.Action(action)
		e.Timestamp = parseTimestamp(timestamp)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// parseTimestamp reads local SQLite timestamps, falling back to RFC3339
func parseTimestamp(s string) time.Time {
	if t, err := time.ParseInLocation(timestampLayout, s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM analyses")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM analyses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
