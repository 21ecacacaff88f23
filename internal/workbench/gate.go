package workbench

import (
	"fmt"

	"github.com/studiowebux/workbench/internal/types"
)

// requiredKinds maps chained actions to the artifact kind they consume
var requiredKinds = map[types.Action]types.Kind{
	types.ActionGenerateCode: types.KindBehaviouralType,
	types.ActionSynthesize:   types.KindStateMachine,
}

// RequiredKind returns the artifact kind an action needs, if any
func RequiredKind(action types.Action) (types.Kind, bool) {
	k, ok := requiredKinds[action]
	return k, ok
}

// Gate decides whether an action may fire given what the tracker displays
type Gate struct {
	tracker *Tracker
}

// NewGate creates a gate reading from tracker
func NewGate(tracker *Tracker) *Gate {
	return &Gate{tracker: tracker}
}

// Check returns nil when action may be dispatched, or an error wrapping ErrPrecondition
func (g *Gate) Check(action types.Action) error {
	want, gated := requiredKinds[action]
	if !gated {
		return nil
	}
	if got := g.tracker.Kind(); got != want {
		return fmt.Errorf("%w: %s needs %s output, showing %s", ErrPrecondition, action, want, got)
	}
	return nil
}

// Allowed reports whether Check would pass
func (g *Gate) Allowed(action types.Action) bool {
	return g.Check(action) == nil
}
