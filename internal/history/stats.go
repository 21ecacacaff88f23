package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/studiowebux/workbench/internal/types"
)

// Stats summarizes the recorded runs of one action
type Stats struct {
	Action          types.Action   `json:"action" yaml:"action"`
	Total           int            `json:"total" yaml:"total"`
	OK              int            `json:"ok" yaml:"ok"`
	Malformed       int            `json:"malformed" yaml:"malformed"`
	TransportErrors int            `json:"transportErrors" yaml:"transportErrors"`
	Kinds           map[string]int `json:"kinds,omitempty" yaml:"kinds,omitempty"` // output kind after the run
	LastRun         time.Time      `json:"lastRun" yaml:"lastRun"`
}

// Stats returns one row per recorded action, most recently run first
func (m *Manager) Stats() ([]Stats, error) {
	query := `
		WITH kinds_agg AS (
			SELECT action, json_group_object(kind, count) AS kinds_json
			FROM (
				SELECT action, kind, COUNT(*) AS count
				FROM analyses
				WHERE kind IS NOT NULL AND kind != ''
				GROUP BY action, kind
			)
			GROUP BY action
		)
		SELECT
			a.action,
			COUNT(*) AS total,
			SUM(CASE WHEN a.outcome = 'ok' THEN 1 ELSE 0 END),
			SUM(CASE WHEN a.outcome = 'malformed' THEN 1 ELSE 0 END),
			SUM(CASE WHEN a.outcome = 'transport_error' THEN 1 ELSE 0 END),
			MAX(a.timestamp) AS last_run,
			COALESCE(k.kinds_json, '{}')
		FROM analyses a
		LEFT JOIN kinds_agg k ON a.action = k.action
		GROUP BY a.action
		ORDER BY last_run DESC
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get history stats: %w", err)
	}
	defer rows.Close()

	var out []Stats
	for rows.Next() {
		var (
			s         Stats
			action    string
			lastRun   sql.NullString
			kindsJSON string
		)
		if err := rows.Scan(&action, &s.Total, &s.OK, &s.Malformed, &s.TransportErrors, &lastRun, &kindsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan history stats: %w", err)
		}
		s.Action = types.Action(action)
		if lastRun.Valid {
			s.LastRun = parseTimestamp(lastRun.String)
		}
		if err := json.Unmarshal([]byte(kindsJSON), &s.Kinds); err != nil {
			return nil, fmt.Errorf("failed to parse kind counts: %w", err)
		}
		if len(s.Kinds) == 0 {
			s.Kinds = nil
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
