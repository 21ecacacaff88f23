package types

import (
	"net/url"
	"time"
)

// Kind identifies which artifact the primary output pane currently holds
type Kind int

const (
	KindNone Kind = iota
	KindStructuralForm
	KindStateMachine
	KindBehaviouralType
)

// String returns the label shown next to the output pane
func (k Kind) String() string {
	switch k {
	case KindStructuralForm:
		return "Go SSA"
	case KindStateMachine:
		return "CFSM"
	case KindBehaviouralType:
		return "MiGo"
	default:
		return "None"
	}
}

// Action is a user-triggered operation that talks to the analysis server
type Action string

const (
	ActionStructuralForm  Action = "ssa"
	ActionStateMachine    Action = "cfsm"
	ActionBehaviouralType Action = "migo"
	ActionGenerateCode    Action = "gong"
	ActionSynthesize      Action = "synthesis"
	ActionLoadExample     Action = "load"
)

// AllActions lists every action in menu order
var AllActions = []Action{
	ActionStructuralForm,
	ActionStateMachine,
	ActionBehaviouralType,
	ActionGenerateCode,
	ActionSynthesize,
	ActionLoadExample,
}

// ParseAction converts a CLI/config name into an Action
func ParseAction(name string) (Action, bool) {
	for _, a := range AllActions {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

// Description returns a human-readable label for the action
func (a Action) Description() string {
	switch a {
	case ActionStructuralForm:
		return "Extract SSA structural form"
	case ActionStateMachine:
		return "Extract communicating state machines"
	case ActionBehaviouralType:
		return "Infer MiGo behavioural types"
	case ActionGenerateCode:
		return "Run Gong on MiGo types"
	case ActionSynthesize:
		return "Synthesise global graph from CFSMs"
	case ActionLoadExample:
		return "Load example"
	default:
		return string(a)
	}
}

// Shape is the expected format of a response body
type Shape int

const (
	ShapeText Shape = iota
	ShapeRecord
)

// Lane groups actions that write to the same display region.
// Sequence numbers are tracked per lane.
type Lane string

const (
	LanePrimary   Lane = "primary"
	LaneCodegen   Lane = "codegen"
	LaneSynthesis Lane = "synthesis"
)

// Endpoint describes how an action reaches the server
type Endpoint struct {
	Path   string   `json:"path" yaml:"path"`
	Method string   `json:"method,omitempty" yaml:"method,omitempty"`
	Shape  Shape    `json:"-" yaml:"-"`
	Fields FieldMap `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FieldMap holds JMESPath expressions selecting the record fields of a structured response.
// Empty expressions are not read.
type FieldMap struct {
	Result   string `json:"result,omitempty" yaml:"result,omitempty"`
	Time     string `json:"time,omitempty" yaml:"time,omitempty"`
	Global   string `json:"global,omitempty" yaml:"global,omitempty"`
	Machines string `json:"machines,omitempty" yaml:"machines,omitempty"`
	Graph    string `json:"graph,omitempty" yaml:"graph,omitempty"`
}

// Artifact is the content of the primary output pane
type Artifact struct {
	Kind    Kind   `json:"kind"`
	Text    string `json:"text"`
	Elapsed string `json:"elapsed,omitempty"`
	Graph   string `json:"graph,omitempty"` // Graphviz source returned with CFSMs
}

// SecondaryArtifact is a chained-action result shown in an overlay
type SecondaryArtifact struct {
	Text     string `json:"text"`
	Elapsed  string `json:"elapsed,omitempty"`
	Global   string `json:"global,omitempty"`   // synthesis only
	Machines string `json:"machines,omitempty"` // synthesis only
}

// PendingRequest is one in-flight request. It lives from dispatch to completion.
type PendingRequest struct {
	Action     Action
	Endpoint   Endpoint
	Payload    string
	Query      url.Values
	Lane       Lane
	Seq        uint64
	Dispatched time.Time
}

// HistoryEntry is a recorded analysis completion
type HistoryEntry struct {
	ID        int64     `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Action    Action    `json:"action" yaml:"action"`
	Kind      string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Server    string    `json:"server" yaml:"server"`
	Payload   string    `json:"payload" yaml:"payload"`
	Result    string    `json:"result" yaml:"result"`
	Elapsed   string    `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
	Outcome   string    `json:"outcome" yaml:"outcome"`
}
