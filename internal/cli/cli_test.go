package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/workbench/internal/history"
	"github.com/studiowebux/workbench/internal/mock"
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

func startMock(t *testing.T, cfg *mock.Config) string {
	t.Helper()
	ts := httptest.NewServer(mock.NewServer(cfg, nil).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func runOpts(server string, stdout, stderr *bytes.Buffer) RunOptions {
	return RunOptions{
		Server: server,
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
	}
}

func TestRunStateMachine(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "cfsm"

	require.NoError(t, Run(context.Background(), opts))
	assert.Contains(t, stdout.String(), "-- # of machines")
	assert.Contains(t, stderr.String(), workbench.TimingPrefix)
}

func TestRunReadsSourceFromStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "cfsm"
	opts.File = "-"
	opts.Stdin = strings.NewReader("package main\nfunc main() {\n\tgo a()\n\tgo b()\n}\n")

	require.NoError(t, Run(context.Background(), opts))
	assert.True(t, strings.HasPrefix(stdout.String(), "-- # of machines\n3\n"), stdout.String())
}

func TestRunChainToSynthesisJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "cfsm"
	opts.Then = []string{"synthesis"}
	opts.Channel = "2"
	opts.OutputFormat = "json"

	require.NoError(t, Run(context.Background(), opts))

	var report Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, []types.Action{types.ActionStateMachine, types.ActionSynthesize}, report.Actions)
	assert.Equal(t, "CFSM", report.Kind)
	require.NotNil(t, report.Overlay)
	assert.Equal(t, "Synthesis", report.Overlay.Kind)
	assert.Contains(t, report.Overlay.Output, "Checking 2 channel")
	assert.Contains(t, report.Overlay.Global, "<svg")
	assert.True(t, strings.HasPrefix(report.Timing, workbench.TimingPrefix))
	assert.Empty(t, stderr.String())
}

func TestRunCodegenStripsMarkup(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "migo"
	opts.Then = []string{"gong"}

	require.NoError(t, Run(context.Background(), opts))
	assert.Contains(t, stdout.String(), "Liveness: true")
	assert.NotContains(t, stdout.String(), "<span")
}

func TestRunRefusedChain(t *testing.T) {
	var stdout, stderr bytes.Buffer
	server := startMock(t, &mock.Config{Logging: true})
	opts := runOpts(server, &stdout, &stderr)
	opts.Action = "gong"

	err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, workbench.ErrPrecondition)
	assert.Empty(t, stdout.String())
}

func TestRunSynthesisAfterBehaviouralTypeRefused(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "migo"
	opts.Then = []string{"synthesis"}
	opts.Channel = "1"

	err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, workbench.ErrPrecondition)
}

func TestRunMalformed(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{Malformed: true}), &stdout, &stderr)
	opts.Action = "migo"

	err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, workbench.ErrMalformed)
}

func TestRunTransportFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := &mock.Config{Routes: []mock.Route{{Path: "/ssa", Status: http.StatusBadGateway, Body: "upstream down"}}}
	opts := runOpts(startMock(t, cfg), &stdout, &stderr)
	opts.Action = "ssa"

	err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, workbench.ErrTransport)
	assert.Contains(t, err.Error(), "502")
}

func TestRunLoadExample(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "load"
	opts.Example = "philo"
	opts.OutputFormat = "yaml"

	require.NoError(t, Run(context.Background(), opts))
	assert.Contains(t, stdout.String(), "kind: None")
	assert.Contains(t, stdout.String(), "// philo")
}

func TestRunLoadWithoutExample(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "load"

	assert.ErrorIs(t, Run(context.Background(), opts), workbench.ErrNoExample)
}

func TestRunUnknownAction(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts("http://127.0.0.1:1", &stdout, &stderr)
	opts.Action = "cfsm"
	opts.Then = []string{"deploy"}

	assert.ErrorIs(t, Run(context.Background(), opts), workbench.ErrUnknownAction)
}

func TestRunWritesGraph(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "cfsm.dot")
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "cfsm"
	opts.GraphOut = out

	require.NoError(t, Run(context.Background(), opts))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}

func TestRunGraphWithoutStateMachine(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "ssa"
	opts.GraphOut = filepath.Join(t.TempDir(), "ssa.dot")

	err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no graph")
}

func TestRunRecordsHistory(t *testing.T) {
	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "workbench.db"))
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	var stdout, stderr bytes.Buffer
	opts := runOpts(startMock(t, &mock.Config{}), &stdout, &stderr)
	opts.Action = "cfsm"
	opts.Then = []string{"synthesis"}
	opts.Channel = "1"
	opts.History = mgr

	require.NoError(t, Run(context.Background(), opts))

	entries, err := mgr.Load(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	actions := []types.Action{entries[0].Action, entries[1].Action}
	assert.ElementsMatch(t, []types.Action{types.ActionStateMachine, types.ActionSynthesize}, actions)
	for _, e := range entries {
		assert.Equal(t, "ok", e.Outcome)
		assert.NotEmpty(t, e.Result)
	}

	stdout.Reset()
	require.NoError(t, ListHistory(mgr, HistoryOptions{Action: "synthesis", Stdout: &stdout}))
	assert.Contains(t, stdout.String(), "ACTION")
	assert.Contains(t, stdout.String(), "synthesis")
	assert.NotContains(t, stdout.String(), "cfsm")

	stdout.Reset()
	require.NoError(t, ListStats(mgr, HistoryOptions{Stdout: &stdout}))
	assert.Contains(t, stdout.String(), "RUNS")
	assert.Contains(t, stdout.String(), "cfsm")
	assert.Contains(t, stdout.String(), "synthesis")
}

func TestListHistoryEmpty(t *testing.T) {
	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "workbench.db"))
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	var stdout bytes.Buffer
	require.NoError(t, ListHistory(mgr, HistoryOptions{Stdout: &stdout}))
	assert.Equal(t, "No history entries\n", stdout.String())

	assert.ErrorIs(t, ListHistory(mgr, HistoryOptions{Action: "deploy", Stdout: &stdout}), workbench.ErrUnknownAction)
}

func TestListExamples(t *testing.T) {
	var stdout bytes.Buffer
	err := ListExamples(context.Background(), ExamplesOptions{
		Server: startMock(t, &mock.Config{}),
		Stdout: &stdout,
	})

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Len(t, lines, len(mock.ExampleNames))
	assert.Contains(t, lines, "philo")
}

func TestListExamplesFallback(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	var stdout bytes.Buffer
	err := ListExamples(context.Background(), ExamplesOptions{
		Server:       ts.URL,
		OutputFormat: "json",
		Fallback:     []string{"fanin-pattern"},
		Stdout:       &stdout,
	})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), `"label": "fanin-pattern"`)
}

func TestListExamplesNoFallback(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	err := ListExamples(context.Background(), ExamplesOptions{Server: ts.URL, Stdout: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestFormatReport(t *testing.T) {
	identity := func(s string) string { return s }

	tests := []struct {
		name   string
		report Report
		format string
		want   string
	}{
		{
			name:   "primary output",
			report: Report{Kind: "CFSM", Output: "A->B"},
			format: "text",
			want:   "A->B\n",
		},
		{
			name:   "overlay wins over primary",
			report: Report{Output: "def main.main():", Overlay: &OverlayReport{Output: "Liveness: true\n"}},
			format: "text",
			want:   "Liveness: true\n",
		},
		{
			name:   "loaded source",
			report: Report{Kind: "None", Output: "No output.", Source: "package main"},
			format: "text",
			want:   "package main\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatReport(tt.report, tt.format, identity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := formatReport(Report{}, "xml", identity)
	assert.Error(t, err)
}
