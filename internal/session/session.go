package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/studiowebux/workbench/internal/config"
)

const maxRecentExamples = 10

// Session is the state remembered between TUI runs
type Session struct {
	Example        string   `json:"example,omitempty"`
	Channel        string   `json:"channel,omitempty"`
	HistoryEnabled *bool    `json:"historyEnabled,omitempty"`
	RecentExamples []string `json:"recentExamples,omitempty"`
}

// Manager handles session persistence
type Manager struct {
	path    string
	session *Session
}

// NewManager creates a session manager backed by path. Empty path uses config.SessionFile.
func NewManager(path string) *Manager {
	if path == "" {
		path = config.SessionFile
	}
	return &Manager{path: path, session: &Session{}}
}

// Load loads the session file. A missing file yields an empty session.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		m.session = &Session{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	m.session = &s
	return nil
}

// Save saves the session to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(m.path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// GetSession returns the current session
func (m *Manager) GetSession() *Session {
	return m.session
}

// SetChannel remembers the selected synthesis channel
func (m *Manager) SetChannel(ch string) error {
	m.session.Channel = ch
	return m.Save()
}

// IsHistoryEnabled returns whether history tracking is enabled, falling back to def
func (m *Manager) IsHistoryEnabled(def bool) bool {
	if m.session.HistoryEnabled == nil {
		return def
	}
	return *m.session.HistoryEnabled
}

// SetHistoryEnabled sets whether history tracking is enabled
func (m *Manager) SetHistoryEnabled(enabled bool) error {
	m.session.HistoryEnabled = &enabled
	return m.Save()
}

// AddRecentExample records a loaded example at the front of the MRU list.
// Duplicates are removed and the list is capped.
func (m *Manager) AddRecentExample(name string) error {
	recent := []string{name}
	for _, e := range m.session.RecentExamples {
		if e != name {
			recent = append(recent, e)
		}
	}
	if len(recent) > maxRecentExamples {
		recent = recent[:maxRecentExamples]
	}

	m.session.Example = name
	m.session.RecentExamples = recent
	return m.Save()
}

// GetRecentExamples returns the MRU example list
func (m *Manager) GetRecentExamples() []string {
	if m.session.RecentExamples == nil {
		return []string{}
	}
	return m.session.RecentExamples
}
