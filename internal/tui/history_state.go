package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/studiowebux/workbench/internal/types"
)

// HistoryState encapsulates all history-related UI state
type HistoryState struct {
	mu sync.RWMutex

	// History data and navigation
	entries    []types.HistoryEntry
	allEntries []types.HistoryEntry // Unfiltered entries for search
	index      int

	// Viewport for preview pane
	previewView viewport.Model

	// UI state
	previewVisible bool   // Toggle for showing/hiding the result preview pane
	searchActive   bool   // True when search input is active
	searchQuery    string // Search query for filtering history
}

// NewHistoryState creates a new history state
func NewHistoryState() *HistoryState {
	return &HistoryState{
		previewView:    viewport.New(80, 20),
		previewVisible: true,
	}
}

// Load replaces the entries and reapplies the current search
func (s *HistoryState) Load(entries []types.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allEntries = entries
	s.filterLocked()
}

// GetEntries returns a copy of the visible entries
func (s *HistoryState) GetEntries() []types.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]types.HistoryEntry, len(s.entries))
	copy(result, s.entries)
	return result
}

// GetIndex returns the current index
func (s *HistoryState) GetIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Navigate moves the selection by delta
func (s *HistoryState) Navigate(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return
	}

	s.index += delta

	// Wrap around
	if s.index < 0 {
		s.index = len(s.entries) - 1
	} else if s.index >= len(s.entries) {
		s.index = 0
	}
}

// GetCurrentEntry returns the currently selected history entry
func (s *HistoryState) GetCurrentEntry() *types.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 || s.index < 0 || s.index >= len(s.entries) {
		return nil
	}

	entry := s.entries[s.index]
	return &entry
}

// RemoveCurrent drops the selected entry after it was deleted from the database
func (s *HistoryState) RemoveCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index < 0 || s.index >= len(s.entries) {
		return
	}
	id := s.entries[s.index].ID

	kept := s.allEntries[:0:0]
	for _, e := range s.allEntries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.allEntries = kept
	s.filterLocked()
}

// GetPreviewView returns a pointer to the preview viewport
func (s *HistoryState) GetPreviewView() *viewport.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &s.previewView
}

// GetPreviewVisible returns the preview visibility state
func (s *HistoryState) GetPreviewVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previewVisible
}

// TogglePreview toggles the preview visibility
func (s *HistoryState) TogglePreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewVisible = !s.previewVisible
}

// GetSearchActive returns the search active state
func (s *HistoryState) GetSearchActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchActive
}

// ActivateSearch activates the search mode
func (s *HistoryState) ActivateSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchActive = true
}

// DeactivateSearch stops editing the query but keeps the filter
func (s *HistoryState) DeactivateSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchActive = false
}

// GetSearchQuery returns the search query
func (s *HistoryState) GetSearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

// SetSearchQuery sets the search query and filters the entries
func (s *HistoryState) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
	s.filterLocked()
}

// ClearSearch clears the search query and deactivates search
func (s *HistoryState) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = ""
	s.searchActive = false
	s.filterLocked()
}

// filterLocked matches the query against action, kind, outcome and payload. Caller holds mu.
func (s *HistoryState) filterLocked() {
	q := strings.ToLower(strings.TrimSpace(s.searchQuery))
	if q == "" {
		s.entries = s.allEntries
	} else {
		s.entries = nil
		for _, e := range s.allEntries {
			hay := strings.ToLower(strings.Join([]string{string(e.Action), e.Kind, e.Outcome, e.Payload}, "\n"))
			if strings.Contains(hay, q) {
				s.entries = append(s.entries, e)
			}
		}
	}

	if s.index >= len(s.entries) {
		s.index = len(s.entries) - 1
	}
	if s.index < 0 {
		s.index = 0
	}
}
