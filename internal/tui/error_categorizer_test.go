package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"

	"github.com/studiowebux/workbench/internal/types"
)

func TestCategorizeRequestError(t *testing.T) {
	tests := []struct {
		name     string
		errStr   string
		wantText string
	}{
		{
			name:     "empty error",
			errStr:   "",
			wantText: "",
		},
		{
			name:     "context deadline exceeded",
			errStr:   "Post \"http://127.0.0.1:6060/cfsm\": context deadline exceeded",
			wantText: "Request timeout",
		},
		{
			name:     "DNS lookup failure",
			errStr:   "dial tcp: lookup nonexistent.example.com: no such host",
			wantText: "DNS resolution failed",
		},
		{
			name:     "connection refused",
			errStr:   "dial tcp 127.0.0.1:6060: connect: connection refused",
			wantText: "Connection refused",
		},
		{
			name:     "connection reset",
			errStr:   "read tcp 127.0.0.1:6060->127.0.0.1:54321: read: connection reset by peer",
			wantText: "Connection reset by server",
		},
		{
			name:     "TLS unknown authority",
			errStr:   "x509: certificate signed by unknown authority",
			wantText: "TLS certificate verification failed",
		},
		{
			name:     "TLS hostname mismatch",
			errStr:   "x509: certificate is valid for example.com, not example.org",
			wantText: "TLS hostname mismatch",
		},
		{
			name:     "unsupported scheme",
			errStr:   "unsupported protocol scheme \"ftp\"",
			wantText: "Invalid server URL",
		},
		{
			name:     "unexpected EOF",
			errStr:   "unexpected EOF",
			wantText: "Connection closed unexpectedly",
		},
		{
			name:     "unknown",
			errStr:   "something odd",
			wantText: "Request failed: something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeRequestError(tt.errStr)
			if !strings.HasPrefix(got, tt.wantText) {
				t.Errorf("categorizeRequestError(%q) = %q, want prefix %q", tt.errStr, got, tt.wantText)
			}
		})
	}
}

func TestCategorizeError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("dispatch: %w", context.DeadlineExceeded), "Request timeout"},
		{"canceled", context.Canceled, "Request cancelled"},
		{"wrapped refused", &url.Error{Op: "Post", URL: "http://127.0.0.1:6060/ssa", Err: refused}, "Connection refused"},
		{"plain", errors.New("no such host"), "DNS resolution failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeError(tt.err)
			if !strings.HasPrefix(got, tt.wantText) {
				t.Errorf("categorizeError() = %q, want prefix %q", got, tt.wantText)
			}
		})
	}
}

func TestCategorizeTransportFailure(t *testing.T) {
	tests := []struct {
		name     string
		failure  types.TransportFailure
		wantText string
	}{
		{"not found", types.TransportFailure{Status: 404, Err: errors.New("404 page not found")}, "Endpoint not found (404)"},
		{"server error", types.TransportFailure{Status: 500, Err: errors.New("no main package")}, "Analysis failed on the server (500): no main package"},
		{"bad request", types.TransportFailure{Status: 400, Err: errors.New("bad")}, "Server returned 400"},
		{"no response", types.TransportFailure{Err: context.DeadlineExceeded}, "Request timeout"},
		{"empty", types.TransportFailure{}, "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeTransportFailure(tt.failure)
			if !strings.HasPrefix(got, tt.wantText) {
				t.Errorf("categorizeTransportFailure() = %q, want prefix %q", got, tt.wantText)
			}
		})
	}
}
