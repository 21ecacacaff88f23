package executor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/workbench/internal/mock"
	"github.com/studiowebux/workbench/internal/types"
)

func newClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := NewClient(ts.URL+"/", Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func recordReq(action types.Action, path string, fields types.FieldMap) *types.PendingRequest {
	return &types.PendingRequest{
		Action:   action,
		Payload:  "package main\n",
		Endpoint: types.Endpoint{Path: path, Method: http.MethodPost, Shape: types.ShapeRecord, Fields: fields},
	}
}

func TestDispatchAgainstMock(t *testing.T) {
	c := newClient(t, mock.NewServer(&mock.Config{}, nil).Handler())

	out := c.Dispatch(context.Background(), recordReq(types.ActionStateMachine, "/cfsm",
		types.FieldMap{Result: "CFSM", Time: "time", Graph: "dot"}))

	rec, ok := out.(types.RecordOutcome)
	require.True(t, ok, "got %#v", out)
	assert.Contains(t, rec.Result, "-- # of machines")
	assert.Contains(t, rec.Graph, "digraph")
	assert.NotEmpty(t, rec.Time)
}

func TestDispatchText(t *testing.T) {
	var gotBody, gotType, gotMethod string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody, gotType, gotMethod = string(b), r.Header.Get("Content-Type"), r.Method
		io.WriteString(w, "line one\nline two\n")
	}))

	out := c.Dispatch(context.Background(), &types.PendingRequest{
		Action:   types.ActionStructuralForm,
		Payload:  "package main",
		Endpoint: types.Endpoint{Path: "/ssa", Shape: types.ShapeText},
	})

	assert.Equal(t, types.TextOutcome{Body: "line one\nline two\n"}, out)
	assert.Equal(t, "package main", gotBody)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.True(t, strings.HasPrefix(gotType, "text/plain"))
}

func TestDispatchSendsQuery(t *testing.T) {
	var gotChan string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotChan = r.URL.Query().Get("chan")
		io.WriteString(w, `{"SMC":"ok","Global":"<svg/>","Machines":"<svg/>","time":"1ms"}`)
	}))

	req := recordReq(types.ActionSynthesize, "/synthesis",
		types.FieldMap{Result: "SMC", Time: "time", Global: "Global", Machines: "Machines"})
	req.Query = url.Values{"chan": []string{"3"}}
	out := c.Dispatch(context.Background(), req)

	assert.Equal(t, "3", gotChan)
	assert.Equal(t, types.RecordOutcome{Result: "ok", Global: "<svg/>", Machines: "<svg/>", Time: "1ms"}, out)
}

func TestDispatchStatusIsTransportFailure(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Cannot build SSA: prog.go:3: syntax error\nmore detail", http.StatusInternalServerError)
	}))

	out := c.Dispatch(context.Background(), recordReq(types.ActionBehaviouralType, "/migo", types.FieldMap{Result: "MiGo"}))

	f, ok := out.(types.TransportFailure)
	require.True(t, ok, "got %#v", out)
	assert.Equal(t, http.StatusInternalServerError, f.Status)
	assert.Equal(t, "server returned 500: Cannot build SSA: prog.go:3: syntax error", f.Error())
}

func TestDispatchConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	c, err := NewClient(addr, Options{Timeout: time.Second})
	require.NoError(t, err)
	out := c.Dispatch(context.Background(), recordReq(types.ActionStateMachine, "/cfsm", types.FieldMap{Result: "CFSM"}))

	f, ok := out.(types.TransportFailure)
	require.True(t, ok)
	assert.Zero(t, f.Status)
	assert.Error(t, f.Err)
}

func TestDispatchCancelled(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := c.Dispatch(ctx, recordReq(types.ActionStateMachine, "/cfsm", types.FieldMap{Result: "CFSM"}))

	f, ok := out.(types.TransportFailure)
	require.True(t, ok)
	assert.True(t, errors.Is(f.Err, context.Canceled))
}

func TestDispatchMalformedMock(t *testing.T) {
	c := newClient(t, mock.NewServer(&mock.Config{Malformed: true}, nil).Handler())

	out := c.Dispatch(context.Background(), recordReq(types.ActionBehaviouralType, "/migo", types.FieldMap{Result: "MiGo"}))

	_, ok := out.(types.MalformedOutcome)
	assert.True(t, ok, "got %#v", out)
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("", Options{})
	assert.Error(t, err)
}

func TestNewClientBadCA(t *testing.T) {
	_, err := NewClient("https://localhost", Options{TLS: &TLSConfig{CAFile: "/nonexistent/ca.pem"}})
	assert.ErrorContains(t, err, "CA certificate")
}

func TestBaseURLTrimsSlash(t *testing.T) {
	c, err := NewClient("http://localhost:6060/", Options{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:6060", c.BaseURL())
}
