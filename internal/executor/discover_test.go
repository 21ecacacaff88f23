package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/workbench/internal/mock"
)

func TestParseIndex(t *testing.T) {
	page := `<html><body>
<div class="menu">
  <select id="examples">
    <option>altbit</option>
    <option value="philo"> philo </option>
  </select>
</div>
<select id="other"><option>ignored</option></select>
<select id="chan-cfsm">
  <option value="1">1 channel</option>
  <option value="2">2 channels</option>
</select>
</body></html>`

	cat, err := ParseIndex(strings.NewReader(page))

	require.NoError(t, err)
	assert.Equal(t, []Option{{Value: "altbit", Label: "altbit"}, {Value: "philo", Label: "philo"}}, cat.Examples)
	assert.Equal(t, []Option{{Value: "1", Label: "1 channel"}, {Value: "2", Label: "2 channels"}}, cat.Channels)
}

func TestParseIndexWithoutSelectors(t *testing.T) {
	cat, err := ParseIndex(strings.NewReader("<p>hello</p>"))

	require.NoError(t, err)
	assert.Empty(t, cat.Examples)
	assert.Empty(t, cat.Channels)
}

func TestDiscoverFromMock(t *testing.T) {
	c := newClient(t, mock.NewServer(&mock.Config{}, nil).Handler())

	cat, err := c.Discover(context.Background())

	require.NoError(t, err)
	assert.Len(t, cat.Examples, len(mock.ExampleNames))
	assert.Len(t, cat.Channels, len(mock.DefaultChannels))
}

func TestDiscoverStatus(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	_, err := c.Discover(context.Background())

	assert.ErrorContains(t, err, "404")
}

func TestDiscoverUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := NewClient(url, Options{})
	require.NoError(t, err)
	_, err = c.Discover(context.Background())
	assert.Error(t, err)
}
