package executor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/studiowebux/workbench/internal/logging"
	"github.com/studiowebux/workbench/internal/types"
)

// DefaultTimeout bounds a single analysis request
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of a response is read
const maxBody = 32 << 20

// TLSConfig configures HTTPS connections to the analysis server
type TLSConfig struct {
	CertFile           string `yaml:"certFile,omitempty"`
	KeyFile            string `yaml:"keyFile,omitempty"`
	CAFile             string `yaml:"caFile,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify,omitempty"`
}

// Options configures a Client
type Options struct {
	Timeout time.Duration
	TLS     *TLSConfig
	Logger  *slog.Logger

	// HTTPClient replaces the client built from Timeout and TLS
	HTTPClient *http.Client
}

// Client sends analysis requests to one server
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	hc := opts.HTTPClient
	if hc == nil {
		var err error
		hc, err = buildHTTPClient(opts.Timeout, opts.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  opts.Logger,
	}, nil
}

// BaseURL returns the server address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Dispatch sends req and validates the reply into exactly one outcome.
// There is no retry.
func (c *Client) Dispatch(ctx context.Context, req *types.PendingRequest) types.Outcome {
	u := c.baseURL + req.Endpoint.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	method := req.Endpoint.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, strings.NewReader(req.Payload))
	if err != nil {
		return types.TransportFailure{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "text/plain; charset=utf-8")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", "action", req.Action, "url", u, "error", err)
		return types.TransportFailure{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return types.TransportFailure{Status: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug("response received",
		"action", req.Action,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if !IsSuccessStatus(resp.StatusCode) {
		return types.TransportFailure{Status: resp.StatusCode, Err: fmt.Errorf("%s", firstLine(body))}
	}

	if req.Endpoint.Shape == types.ShapeText {
		return types.TextOutcome{Body: string(body)}
	}
	return DecodeRecord(body, req.Endpoint.Fields)
}

func firstLine(body []byte) string {
	s := strings.TrimSpace(string(body))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "empty response"
	}
	return s
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(timeout time.Duration, tlsConfig *TLSConfig) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = pool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
