package workbench

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studiowebux/workbench/internal/render"
	"github.com/studiowebux/workbench/internal/types"
)

func TestGateCheck(t *testing.T) {
	tests := []struct {
		kind   types.Kind
		action types.Action
		allow  bool
	}{
		{types.KindNone, types.ActionGenerateCode, false},
		{types.KindNone, types.ActionSynthesize, false},
		{types.KindStructuralForm, types.ActionGenerateCode, false},
		{types.KindStateMachine, types.ActionGenerateCode, false},
		{types.KindBehaviouralType, types.ActionGenerateCode, true},
		{types.KindBehaviouralType, types.ActionSynthesize, false},
		{types.KindStateMachine, types.ActionSynthesize, true},
		{types.KindNone, types.ActionStateMachine, true},
		{types.KindNone, types.ActionLoadExample, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+string(tt.action), func(t *testing.T) {
			tr := NewTracker(render.NewRegion("out"))
			tr.Replace(types.Artifact{Kind: tt.kind, Text: "x"})
			g := NewGate(tr)

			err := g.Check(tt.action)
			if tt.allow {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrPrecondition)
			}
			assert.Equal(t, tt.allow, g.Allowed(tt.action))
		})
	}
}

func TestTrackerShowMalformedKeepsKind(t *testing.T) {
	tr := NewTracker(render.NewRegion("out"))
	tr.Replace(types.Artifact{Kind: types.KindStateMachine, Text: "A->B"})

	tr.ShowMalformed()

	assert.Equal(t, types.KindStateMachine, tr.Kind())
	assert.Equal(t, MalformedMessage, tr.Region().Text())
}
