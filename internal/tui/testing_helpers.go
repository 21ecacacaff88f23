package tui

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/workbench/internal/config"
	"github.com/studiowebux/workbench/internal/executor"
	"github.com/studiowebux/workbench/internal/mock"
	"github.com/studiowebux/workbench/internal/session"
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

// CreateTestModel creates a Model talking to an in-process mock analysis server
func CreateTestModel(t *testing.T) *Model {
	t.Helper()
	return CreateTestModelWithServer(t, &mock.Config{})
}

// CreateTestModelWithServer creates a Model whose mock server uses cfg
func CreateTestModelWithServer(t *testing.T, cfg *mock.Config) *Model {
	t.Helper()

	ts := httptest.NewServer(mock.NewServer(cfg, nil).Handler())
	t.Cleanup(ts.Close)

	client, err := executor.NewClient(ts.URL, executor.Options{})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	m, err := New(context.Background(), Options{
		Config:  config.Default(),
		Client:  client,
		Session: session.NewManager(filepath.Join(t.TempDir(), ".session.json")),
		Version: "test-version",
	})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &m
}

// RunToCompletion begins action the way a key press does, then runs its
// dispatch synchronously and feeds the completion back through Update.
// It returns false when the action was refused.
func RunToCompletion(t *testing.T, m *Model, action types.Action, p workbench.Params) bool {
	t.Helper()

	req, err := m.wb.Begin(action, p)
	if err != nil {
		return false
	}
	m.inFlight++
	m.Update(m.dispatch(req)())
	return true
}

// KeyPress builds the message for a printable key
func KeyPress(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
