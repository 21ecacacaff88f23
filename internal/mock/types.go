package mock

import "time"

// Config represents the mock analysis server configuration
type Config struct {
	Port      int               `json:"port" yaml:"port"`                               // Server port (default: 6060)
	Host      string            `json:"host" yaml:"host"`                               // Server host (default: localhost)
	Latency   Duration          `json:"latency,omitempty" yaml:"latency,omitempty"`     // Delay before every analysis reply
	Malformed bool              `json:"malformed,omitempty" yaml:"malformed,omitempty"` // Reply with invalid JSON on record endpoints
	Channels  []string          `json:"channels,omitempty" yaml:"channels,omitempty"`   // Options of the chan-cfsm selector
	Examples  map[string]string `json:"examples,omitempty" yaml:"examples,omitempty"`   // Example name to source
	Routes    []Route           `json:"routes,omitempty" yaml:"routes,omitempty"`       // Per-endpoint overrides
	Logging   bool              `json:"logging" yaml:"logging"`                         // Enable request logging
}

// Route overrides the canned reply of one endpoint
type Route struct {
	Path   string `json:"path" yaml:"path"`                         // Endpoint path, e.g. /cfsm
	Status int    `json:"status,omitempty" yaml:"status,omitempty"` // HTTP status code (default: 200)
	Body   string `json:"body" yaml:"body"`                         // Literal response body
	Delay  int    `json:"delay,omitempty" yaml:"delay,omitempty"`   // Extra delay in milliseconds
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Query     string        `json:"query,omitempty"`
	Body      string        `json:"body"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
}

// Duration is a time.Duration read from strings like "250ms"
type Duration time.Duration

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
