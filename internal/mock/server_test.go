package mock

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(cfg, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestServer(t, &Config{
		Examples: map[string]string{"philo": "package main", "altbit": "package main"},
		Channels: []string{"1", "2"},
	})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	page := string(b)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, `<select id="examples">`)
	assert.Contains(t, page, `<select id="chan-cfsm">`)
	assert.Less(t, strings.Index(page, "altbit"), strings.Index(page, "philo"))
	assert.Contains(t, page, `<option value="2">2</option>`)
}

func TestRecordEndpoints(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	tests := []struct {
		path   string
		fields []string
	}{
		{"/cfsm", []string{"CFSM", "dot", "time"}},
		{"/migo", []string{"MiGo", "time"}},
		{"/gong", []string{"Gong", "time"}},
		{"/synthesis?chan=2", []string{"SMC", "Global", "Machines", "time"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := post(t, ts.URL+tt.path, "package main\n")
			require.Equal(t, http.StatusOK, status, body)

			var rec map[string]string
			require.NoError(t, json.Unmarshal([]byte(body), &rec))
			for _, f := range tt.fields {
				assert.NotEmpty(t, rec[f], f)
			}
		})
	}
}

func TestSSAIsText(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	status, body := post(t, ts.URL+"/ssa", "package main\n")

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(body, "# Name: main.main"))
}

func TestSynthesisRequiresChannel(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	status, _ := post(t, ts.URL+"/synthesis", "-- # of machines\n")

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLoadExample(t *testing.T) {
	_, ts := newTestServer(t, &Config{Examples: map[string]string{"philo": "package philo\n"}})

	status, body := post(t, ts.URL+"/load", "philo")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "package philo\n", body)

	status, _ = post(t, ts.URL+"/load", "missing")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestEmptyInputIsServerError(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	status, body := post(t, ts.URL+"/cfsm", "")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "empty input")
}

func TestMalformedSwitch(t *testing.T) {
	_, ts := newTestServer(t, &Config{Malformed: true})

	status, body := post(t, ts.URL+"/migo", "package main\n")

	assert.Equal(t, http.StatusOK, status)
	assert.False(t, json.Valid([]byte(body)))
}

func TestRouteOverride(t *testing.T) {
	_, ts := newTestServer(t, &Config{Routes: []Route{{Path: "/cfsm", Status: 503, Body: "busy"}}})

	status, body := post(t, ts.URL+"/cfsm", "package main\n")

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "busy", body)
}

func TestLatency(t *testing.T) {
	_, ts := newTestServer(t, &Config{Latency: Duration(50 * time.Millisecond)})

	start := time.Now()
	post(t, ts.URL+"/ssa", "package main\n")

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRequestLogging(t *testing.T) {
	s, ts := newTestServer(t, &Config{Logging: true})

	post(t, ts.URL+"/synthesis?chan=3", "cfsm")

	logs := s.GetLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "/synthesis", logs[0].Path)
	assert.Equal(t, "chan=3", logs[0].Query)
	assert.Equal(t, "cfsm", logs[0].Body)
	assert.Equal(t, http.StatusOK, logs[0].Status)

	s.ClearLogs()
	assert.Empty(t, s.GetLogs())
}

func TestStartStop(t *testing.T) {
	s := NewServer(&Config{Host: "127.0.0.1", Port: freePort(t)}, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	resp, err := http.Get(s.GetAddress() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7070\nlatency: 250ms\nmalformed: true\nroutes:\n  - path: /gong\n    status: 500\n    body: boom\n"), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.Latency)
	assert.True(t, cfg.Malformed)
	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, "/gong", cfg.Routes[0].Path)
}

func TestLoadConfigRejectsUnknownRoute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"routes":[{"path":"/nope","body":"x"}]}`), 0644))

	_, err := LoadConfig(path)

	assert.ErrorContains(t, err, "unknown endpoint")
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
