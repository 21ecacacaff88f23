package session

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), ".session.json"))

	require.NoError(t, m.Load())
	assert.Equal(t, &Session{}, m.GetSession())
	assert.True(t, m.IsHistoryEnabled(true))
	assert.Empty(t, m.GetRecentExamples())
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")
	m := NewManager(path)
	require.NoError(t, m.SetChannel("3"))
	require.NoError(t, m.SetHistoryEnabled(false))
	require.NoError(t, m.AddRecentExample("philo"))

	reloaded := NewManager(path)
	require.NoError(t, reloaded.Load())

	s := reloaded.GetSession()
	assert.Equal(t, "3", s.Channel)
	assert.Equal(t, "philo", s.Example)
	assert.False(t, reloaded.IsHistoryEnabled(true))
}

func TestRecentExamplesMRU(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), ".session.json"))

	for i := 0; i < 12; i++ {
		require.NoError(t, m.AddRecentExample(fmt.Sprintf("ex-%d", i)))
	}
	require.NoError(t, m.AddRecentExample("ex-5"))

	recent := m.GetRecentExamples()
	assert.Len(t, recent, maxRecentExamples)
	assert.Equal(t, "ex-5", recent[0])
	assert.Equal(t, "ex-11", recent[1])
	assert.NotContains(t, recent[1:], "ex-5")
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	assert.Error(t, NewManager(path).Load())
}
