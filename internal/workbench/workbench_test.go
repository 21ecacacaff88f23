package workbench

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/workbench/internal/types"
)

type fakeDispatcher struct {
	calls []*types.PendingRequest
	reply map[types.Action]types.Outcome
}

func newFake() *fakeDispatcher {
	return &fakeDispatcher{reply: make(map[types.Action]types.Outcome)}
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req *types.PendingRequest) types.Outcome {
	f.calls = append(f.calls, req)
	if out, ok := f.reply[req.Action]; ok {
		return out
	}
	return types.TransportFailure{Err: errors.New("no reply configured")}
}

type recordingReporter struct {
	calls []string
}

func (r *recordingReporter) Report(elapsed string) {
	r.calls = append(r.calls, elapsed)
}

func newTestWorkbench(t *testing.T, opts Options) (*Workbench, *fakeDispatcher) {
	t.Helper()
	d := newFake()
	return New(d, opts), d
}

func TestNew_Defaults(t *testing.T) {
	wb, _ := newTestWorkbench(t, Options{})

	assert.Equal(t, Placeholder, wb.Source().Text())
	assert.Equal(t, types.KindNone, wb.Artifact().Kind)
	assert.Equal(t, NoOutput, wb.Artifact().Text)
	assert.Equal(t, OrderingDropStale, wb.Ordering())
	assert.False(t, wb.Overlays().Visible(OverlayCodegen))
	assert.False(t, wb.Overlays().Visible(OverlaySynthesis))
}

func TestGenerateCodeFromNone_NoDispatch(t *testing.T) {
	rep := &recordingReporter{}
	wb, d := newTestWorkbench(t, Options{Timing: rep})

	_, err := wb.Run(context.Background(), types.ActionGenerateCode, Params{})

	require.ErrorIs(t, err, ErrPrecondition)
	assert.Empty(t, d.calls)
	assert.Empty(t, rep.calls)
	assert.False(t, wb.Overlays().Visible(OverlayCodegen))
	assert.Equal(t, NoOutput, wb.Artifact().Text)
}

func TestSynthesizeFromBehaviouralType_NoDispatch(t *testing.T) {
	wb, d := newTestWorkbench(t, Options{})
	d.reply[types.ActionBehaviouralType] = types.RecordOutcome{Result: "def main.main(): 0", Time: "1ms"}

	_, err := wb.Run(context.Background(), types.ActionBehaviouralType, Params{})
	require.NoError(t, err)
	require.Len(t, d.calls, 1)

	_, err = wb.Run(context.Background(), types.ActionSynthesize, Params{Channel: "1"})
	require.ErrorIs(t, err, ErrPrecondition)
	assert.Len(t, d.calls, 1)
	assert.False(t, wb.Overlays().Visible(OverlaySynthesis))
}

func TestStateMachineSuccess(t *testing.T) {
	timing := &Timing{}
	wb, d := newTestWorkbench(t, Options{Timing: timing})
	d.reply[types.ActionStateMachine] = types.RecordOutcome{Result: "A->B", Time: "12ms", Graph: "digraph {}"}

	c, err := wb.Run(context.Background(), types.ActionStateMachine, Params{})

	require.NoError(t, err)
	assert.True(t, c.Applied)
	art := wb.Artifact()
	assert.Equal(t, types.KindStateMachine, art.Kind)
	assert.Equal(t, "A->B", art.Text)
	assert.Equal(t, "digraph {}", art.Graph)
	assert.Equal(t, "Last operation completed in 12ms", timing.Text())
	assert.Equal(t, Placeholder, d.calls[0].Payload)
}

func TestBehaviouralTypeMalformed(t *testing.T) {
	rep := &recordingReporter{}
	wb, d := newTestWorkbench(t, Options{Timing: rep})
	d.reply[types.ActionStructuralForm] = types.TextOutcome{Body: "package main"}
	d.reply[types.ActionBehaviouralType] = types.MalformedOutcome{Err: errors.New("invalid character 'h'")}

	_, err := wb.Run(context.Background(), types.ActionStructuralForm, Params{})
	require.NoError(t, err)

	_, err = wb.Run(context.Background(), types.ActionBehaviouralType, Params{})

	require.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, MalformedMessage, wb.Artifact().Text)
	assert.Equal(t, types.KindStructuralForm, wb.Artifact().Kind)
	// cleared twice at dispatch, never set
	assert.Equal(t, []string{"", ""}, rep.calls)
}

func TestStructuralFormDoesNotReportTime(t *testing.T) {
	rep := &recordingReporter{}
	wb, d := newTestWorkbench(t, Options{Timing: rep})
	d.reply[types.ActionStructuralForm] = types.TextOutcome{Body: "# Name: main.main\n"}

	_, err := wb.Run(context.Background(), types.ActionStructuralForm, Params{})

	require.NoError(t, err)
	assert.Equal(t, types.KindStructuralForm, wb.Artifact().Kind)
	assert.Equal(t, "# Name: main.main\n", wb.Artifact().Text)
	assert.Equal(t, []string{""}, rep.calls)
}

func TestLoadExampleResets(t *testing.T) {
	tests := []struct {
		name  string
		prior types.Action
		reply types.Outcome
	}{
		{"from none", "", nil},
		{"from state machine", types.ActionStateMachine, types.RecordOutcome{Result: "A->B"}},
		{"from behavioural type", types.ActionBehaviouralType, types.RecordOutcome{Result: "def main.main(): 0"}},
		{"from structural form", types.ActionStructuralForm, types.TextOutcome{Body: "ssa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, d := newTestWorkbench(t, Options{})
			d.reply[types.ActionLoadExample] = types.TextOutcome{Body: "package main\n\nfunc main() {}\n"}
			if tt.prior != "" {
				d.reply[tt.prior] = tt.reply
				_, err := wb.Run(context.Background(), tt.prior, Params{})
				require.NoError(t, err)
			}

			_, err := wb.Run(context.Background(), types.ActionLoadExample, Params{Example: "philo"})

			require.NoError(t, err)
			assert.Equal(t, types.KindNone, wb.Artifact().Kind)
			assert.Equal(t, NoOutput, wb.Artifact().Text)
			assert.Equal(t, "package main\n\nfunc main() {}\n", wb.Source().Text())
			assert.Equal(t, "philo", d.calls[len(d.calls)-1].Payload)
		})
	}
}

func TestLoadExampleWithoutSelection(t *testing.T) {
	wb, d := newTestWorkbench(t, Options{})

	_, err := wb.Run(context.Background(), types.ActionLoadExample, Params{})

	assert.ErrorIs(t, err, ErrNoExample)
	assert.Empty(t, d.calls)
}

func TestGenerateCodeOpensOverlay(t *testing.T) {
	timing := &Timing{}
	wb, d := newTestWorkbench(t, Options{Timing: timing})
	d.reply[types.ActionBehaviouralType] = types.RecordOutcome{Result: "def main.main(): let ch = newchan ch, 0;", Time: "2ms"}
	d.reply[types.ActionGenerateCode] = types.RecordOutcome{Result: "Liveness: true", Time: "40ms"}

	_, err := wb.Run(context.Background(), types.ActionBehaviouralType, Params{})
	require.NoError(t, err)
	_, err = wb.Run(context.Background(), types.ActionGenerateCode, Params{})
	require.NoError(t, err)

	assert.Equal(t, "def main.main(): let ch = newchan ch, 0;", d.calls[1].Payload)
	assert.True(t, wb.Overlays().Visible(OverlayCodegen))
	assert.Equal(t, "Liveness: true", wb.Overlays().Get(OverlayCodegen).Output().Text())
	assert.Equal(t, types.KindBehaviouralType, wb.Artifact().Kind)
	assert.Equal(t, "Last operation completed in 40ms", timing.Text())
}

func TestSynthesizeSendsChannel(t *testing.T) {
	wb, d := newTestWorkbench(t, Options{})
	d.reply[types.ActionStateMachine] = types.RecordOutcome{Result: "-- # CFSM\n"}
	d.reply[types.ActionSynthesize] = types.RecordOutcome{
		Result: "SMC check: true", Global: "<svg>g</svg>", Machines: "<svg>m</svg>", Time: "3ms",
	}

	_, err := wb.Run(context.Background(), types.ActionStateMachine, Params{})
	require.NoError(t, err)
	_, err = wb.Run(context.Background(), types.ActionSynthesize, Params{Channel: "2"})
	require.NoError(t, err)

	req := d.calls[1]
	assert.Equal(t, "2", req.Query.Get("chan"))
	assert.Equal(t, "-- # CFSM\n", req.Payload)

	o := wb.Overlays().Get(OverlaySynthesis)
	assert.True(t, o.Visible())
	assert.Equal(t, "SMC check: true", o.Output().Text())
	assert.Equal(t, "<svg>g</svg>", o.Global().Text())
	assert.Equal(t, "<svg>m</svg>", o.Machines().Text())
	assert.Equal(t, types.KindStateMachine, wb.Artifact().Kind)
}

func TestChainedMalformedDoesNotOpen(t *testing.T) {
	wb, d := newTestWorkbench(t, Options{})
	d.reply[types.ActionBehaviouralType] = types.RecordOutcome{Result: "def main.main(): 0"}
	d.reply[types.ActionGenerateCode] = types.MalformedOutcome{Err: errors.New("missing Gong")}

	_, err := wb.Run(context.Background(), types.ActionBehaviouralType, Params{})
	require.NoError(t, err)
	_, err = wb.Run(context.Background(), types.ActionGenerateCode, Params{})

	require.ErrorIs(t, err, ErrMalformed)
	assert.False(t, wb.Overlays().Visible(OverlayCodegen))
	assert.Equal(t, MalformedMessage, wb.Overlays().Get(OverlayCodegen).Output().Text())
	assert.Equal(t, "def main.main(): 0", wb.Artifact().Text)
}

func TestTransportFailureLeavesState(t *testing.T) {
	rep := &recordingReporter{}
	wb, d := newTestWorkbench(t, Options{Timing: rep})
	d.reply[types.ActionStateMachine] = types.TransportFailure{Status: 500, Err: errors.New("panic: boom")}

	c, err := wb.Run(context.Background(), types.ActionStateMachine, Params{})

	require.ErrorIs(t, err, ErrTransport)
	assert.False(t, c.Applied)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, types.KindNone, wb.Artifact().Kind)
	assert.Equal(t, NoOutput, wb.Artifact().Text)
	assert.Equal(t, []string{""}, rep.calls)
}

func TestDismissIndependent(t *testing.T) {
	p := NewOverlays()
	p.Open(OverlayCodegen, types.SecondaryArtifact{Text: "gong"})
	p.Open(OverlaySynthesis, types.SecondaryArtifact{Text: "smc"})

	p.Dismiss(OverlayCodegen)
	assert.False(t, p.Visible(OverlayCodegen))
	assert.True(t, p.Visible(OverlaySynthesis))

	p.Open(OverlayCodegen, types.SecondaryArtifact{Text: "gong"})
	p.Dismiss(OverlaySynthesis)
	assert.True(t, p.Visible(OverlayCodegen))
	assert.False(t, p.Visible(OverlaySynthesis))
}

func TestReopenOverlay(t *testing.T) {
	p := NewOverlays()
	assert.False(t, p.Reopen(OverlaySynthesis))
	assert.False(t, p.Visible(OverlaySynthesis))

	p.Open(OverlaySynthesis, types.SecondaryArtifact{Text: "smc"})
	p.Dismiss(OverlaySynthesis)
	require.True(t, p.Reopen(OverlaySynthesis))
	assert.True(t, p.Visible(OverlaySynthesis))
	assert.Equal(t, "smc", p.Get(OverlaySynthesis).Output().Text())
	assert.False(t, p.Visible(OverlayCodegen))
}

func TestStaleCompletion(t *testing.T) {
	tests := []struct {
		name     string
		ordering Ordering
		wantText string
		wantKind types.Kind
	}{
		{"drop stale keeps newest", OrderingDropStale, "second", types.KindBehaviouralType},
		{"last writer wins", OrderingLastWriterWins, "first", types.KindStateMachine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, _ := newTestWorkbench(t, Options{Ordering: tt.ordering})

			first, err := wb.Begin(types.ActionStateMachine, Params{})
			require.NoError(t, err)
			second, err := wb.Begin(types.ActionBehaviouralType, Params{})
			require.NoError(t, err)

			// responses arrive in reverse order
			c2 := wb.Complete(second, types.RecordOutcome{Result: "second"})
			c1 := wb.Complete(first, types.RecordOutcome{Result: "first"})

			assert.True(t, c2.Applied)
			assert.Equal(t, tt.ordering == OrderingDropStale, c1.Stale)
			assert.Equal(t, tt.wantText, wb.Artifact().Text)
			assert.Equal(t, tt.wantKind, wb.Artifact().Kind)
		})
	}
}

func TestLanesAreIndependent(t *testing.T) {
	wb, d := newTestWorkbench(t, Options{})
	d.reply[types.ActionBehaviouralType] = types.RecordOutcome{Result: "def main.main(): 0"}
	_, err := wb.Run(context.Background(), types.ActionBehaviouralType, Params{})
	require.NoError(t, err)

	gong, err := wb.Begin(types.ActionGenerateCode, Params{})
	require.NoError(t, err)
	_, err = wb.Begin(types.ActionStructuralForm, Params{})
	require.NoError(t, err)

	c := wb.Complete(gong, types.RecordOutcome{Result: "ok"})
	assert.False(t, c.Stale)
	assert.True(t, wb.Overlays().Visible(OverlayCodegen))
}

func TestUnknownAction(t *testing.T) {
	wb, _ := newTestWorkbench(t, Options{})

	_, err := wb.Begin(types.Action("bogus"), Params{})

	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestEndpointOverrides(t *testing.T) {
	wb, _ := newTestWorkbench(t, Options{Endpoints: map[types.Action]types.Endpoint{
		types.ActionStateMachine: {Path: "/v2/cfsm"},
	}})

	ep, ok := wb.Endpoint(types.ActionStateMachine)
	require.True(t, ok)
	assert.Equal(t, "/v2/cfsm", ep.Path)
	assert.Equal(t, "POST", ep.Method)
	assert.Equal(t, "CFSM", ep.Fields.Result)
	assert.Equal(t, types.ShapeRecord, ep.Shape)

	ssa, _ := wb.Endpoint(types.ActionStructuralForm)
	assert.Equal(t, "/ssa", ssa.Path)
	assert.Equal(t, types.ShapeText, ssa.Shape)
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, OrderingDropStale, o)

	o, err = ParseOrdering("last-writer-wins")
	require.NoError(t, err)
	assert.Equal(t, OrderingLastWriterWins, o)

	_, err = ParseOrdering("fifo")
	assert.Error(t, err)
}
