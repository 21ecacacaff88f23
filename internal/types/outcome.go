package types

import "fmt"

// Outcome is the validated result of one dispatched request.
// Exactly one of TextOutcome, RecordOutcome, MalformedOutcome or TransportFailure.
type Outcome interface {
	outcome()
}

// TextOutcome is a plain-text response body
type TextOutcome struct {
	Body string
}

// RecordOutcome is a structured response whose result field was present
type RecordOutcome struct {
	Result   string
	Time     string
	Global   string
	Machines string
	Graph    string
}

// MalformedOutcome is a structured response that failed to parse or lacked its result field
type MalformedOutcome struct {
	Err error
}

// TransportFailure is a request that never completed or completed with a non-success status.
// Status is zero when no HTTP response was received.
type TransportFailure struct {
	Status int
	Err    error
}

func (TextOutcome) outcome()      {}
func (RecordOutcome) outcome()    {}
func (MalformedOutcome) outcome() {}
func (TransportFailure) outcome() {}

func (f TransportFailure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("server returned %d: %v", f.Status, f.Err)
	}
	return f.Err.Error()
}

// OutcomeLabel names the outcome for logs, metrics and history
func OutcomeLabel(o Outcome) string {
	switch o.(type) {
	case TextOutcome, RecordOutcome:
		return "ok"
	case MalformedOutcome:
		return "malformed"
	case TransportFailure:
		return "transport_error"
	default:
		return "unknown"
	}
}
