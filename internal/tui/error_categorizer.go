package tui

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/studiowebux/workbench/internal/types"
)

// categorizeTransportFailure explains why an analysis request got no usable reply.
// Non-2xx replies name the status; connection problems go through categorizeError.
func categorizeTransportFailure(f types.TransportFailure) string {
	if f.Status != 0 {
		switch {
		case f.Status == http.StatusNotFound:
			return "Endpoint not found (404) - check the endpoint paths in config.yaml"
		case f.Status == http.StatusMethodNotAllowed:
			return "Method not allowed (405) - check the endpoint methods in config.yaml"
		case f.Status >= 500:
			return fmt.Sprintf("Analysis failed on the server (%d): %v", f.Status, f.Err)
		default:
			return fmt.Sprintf("Server returned %d: %v", f.Status, f.Err)
		}
	}
	if f.Err == nil {
		return "Request failed"
	}
	return categorizeError(f.Err)
}

// categorizeRequestError analyzes error strings from HTTP requests and provides
// actionable, user-friendly error messages based on the error type.
func categorizeRequestError(errStr string) string {
	if errStr == "" {
		return ""
	}

	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "context canceled") ||
		strings.Contains(errLower, "context cancelled") {
		return "Request cancelled"
	}

	if strings.Contains(errLower, "deadline exceeded") {
		return "Request timeout - the analysis took too long, try increasing timeout in config.yaml (default: 30s)"
	}

	// DNS resolution errors
	if strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "dial tcp: lookup") {
		return "DNS resolution failed - verify the server hostname in config.yaml or --server"
	}

	// Connection refused (server not running)
	if strings.Contains(errLower, "connection refused") {
		return "Connection refused - is the analysis server running? Try 'workbench serve-mock' for a local one"
	}

	if strings.Contains(errLower, "connection reset") {
		return "Connection reset by server - the analysis server may have crashed"
	}

	if strings.Contains(errLower, "network is unreachable") ||
		strings.Contains(errLower, "no route to host") {
		return "Network unreachable - check network connection and firewall settings"
	}

	// TLS/SSL errors
	if strings.Contains(errLower, "tls") ||
		strings.Contains(errLower, "certificate") ||
		strings.Contains(errLower, "x509") {
		return categorizeSSLError(errStr)
	}

	if strings.Contains(errLower, "unsupported protocol") ||
		strings.Contains(errLower, "invalid url") {
		return "Invalid server URL - use http:// or https://"
	}

	// EOF errors (connection closed unexpectedly)
	if strings.Contains(errLower, "eof") {
		return "Connection closed unexpectedly - the server terminated the connection"
	}

	if strings.Contains(errLower, "timeout") ||
		strings.Contains(errLower, "timed out") {
		return "Connection timeout - server took too long to respond, try increasing timeout"
	}

	// Return original error with a generic prefix if we can't categorize it
	return "Request failed: " + errStr
}

// categorizeSSLError provides specific guidance for TLS/SSL certificate errors
func categorizeSSLError(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "unknown authority"):
		return "TLS certificate verification failed - set tls.caFile in config.yaml or tls.insecureSkipVerify (insecure)"
	case strings.Contains(errLower, "expired"):
		return "TLS certificate has expired - contact server administrator or disable verification (insecure)"
	case strings.Contains(errLower, "certificate is valid for"):
		return "TLS hostname mismatch - certificate doesn't match the server hostname"
	case strings.Contains(errLower, "handshake"):
		return "TLS handshake failed - check TLS version compatibility"
	case strings.Contains(errLower, "certificate required"):
		return "TLS client certificate required - set tls.certFile and tls.keyFile in config.yaml"
	}

	return "TLS/SSL error - check certificate configuration: " + errStr
}

// categorizeError is a helper that wraps categorizeRequestError for use with Go error types.
// It handles nil errors and unwraps the error chain to get the root cause.
func categorizeError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return categorizeRequestError("deadline exceeded")
	}
	if errors.Is(err, context.Canceled) {
		return categorizeRequestError("context canceled")
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return categorizeRequestError("deadline exceeded")
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return categorizeRequestError("timeout")
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED:
				return categorizeRequestError("connection refused")
			case syscall.ECONNRESET:
				return categorizeRequestError("connection reset")
			case syscall.ENETUNREACH, syscall.EHOSTUNREACH:
				return categorizeRequestError("network is unreachable")
			}
		}
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return categorizeSSLError("unknown authority")
	}

	// Fall back to string-based categorization
	return categorizeRequestError(err.Error())
}
