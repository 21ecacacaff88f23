package workbench

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/studiowebux/workbench/internal/logging"
	"github.com/studiowebux/workbench/internal/metrics"
	"github.com/studiowebux/workbench/internal/render"
	"github.com/studiowebux/workbench/internal/types"
)

// Dispatcher sends one request to the analysis server
type Dispatcher interface {
	Dispatch(ctx context.Context, req *types.PendingRequest) types.Outcome
}

// Options configures a Workbench. Zero values select defaults.
type Options struct {
	Endpoints map[types.Action]types.Endpoint
	Ordering  Ordering
	Timing    Reporter
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Source    string
}

// Params carries the user selections some actions need
type Params struct {
	Example string // loadExample
	Channel string // synthesize
}

// Completion describes what Complete did with an outcome
type Completion struct {
	Request *types.PendingRequest
	Outcome types.Outcome

	// Applied is true when the outcome changed displayed state
	Applied bool

	// Stale is true when the outcome was dropped because a newer request on its lane was dispatched
	Stale bool

	// Err wraps ErrMalformed or ErrTransport
	Err error
}

// Workbench ties the display regions, tracker, gate, timing and overlays together
type Workbench struct {
	source    *render.Region
	tracker   *Tracker
	gate      *Gate
	timing    Reporter
	overlays  *Overlays
	seq       *sequencer
	ordering  Ordering
	endpoints map[types.Action]types.Endpoint

	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// New creates a workbench that sends requests through d
func New(d Dispatcher, opts Options) *Workbench {
	if opts.Timing == nil {
		opts.Timing = &Timing{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Ordering == "" {
		opts.Ordering = OrderingDropStale
	}
	if opts.Source == "" {
		opts.Source = Placeholder
	}

	source := render.NewRegion("source")
	source.Render(opts.Source)
	tracker := NewTracker(render.NewRegion("out"))

	return &Workbench{
		source:     source,
		tracker:    tracker,
		gate:       NewGate(tracker),
		timing:     opts.Timing,
		overlays:   NewOverlays(),
		seq:        newSequencer(),
		ordering:   opts.Ordering,
		endpoints:  normalizeEndpoints(opts.Endpoints),
		dispatcher: d,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

// Source returns the source buffer region
func (w *Workbench) Source() *render.Region { return w.source }

// SetSource replaces the source buffer with user-edited text
func (w *Workbench) SetSource(text string) { w.source.Render(text) }

// Tracker returns the primary output tracker
func (w *Workbench) Tracker() *Tracker { return w.tracker }

// Artifact returns a snapshot of the primary output
func (w *Workbench) Artifact() types.Artifact { return w.tracker.Artifact() }

// Overlays returns the overlay presenter
func (w *Workbench) Overlays() *Overlays { return w.overlays }

// Timing returns the timing reporter
func (w *Workbench) Timing() Reporter { return w.timing }

// Ordering returns the completion ordering in effect
func (w *Workbench) Ordering() Ordering { return w.ordering }

// Endpoint returns the endpoint configured for action
func (w *Workbench) Endpoint(action types.Action) (types.Endpoint, bool) {
	ep, ok := w.endpoints[action]
	return ep, ok
}

// Allowed reports whether action would pass the gate right now
func (w *Workbench) Allowed(action types.Action) bool {
	return w.gate.Allowed(action)
}

// Begin validates action, assembles its payload, clears the timing line and
// assigns a sequence number. A refused action changes nothing.
func (w *Workbench) Begin(action types.Action, p Params) (*types.PendingRequest, error) {
	ep, ok := w.endpoints[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err := w.gate.Check(action); err != nil {
		w.metrics.Refused(string(action))
		w.logger.Debug("action refused", "action", action, "kind", w.tracker.Kind().String())
		return nil, err
	}

	req := &types.PendingRequest{
		Action:   action,
		Endpoint: ep,
		Lane:     LaneFor(action),
	}

	switch action {
	case types.ActionStructuralForm, types.ActionStateMachine, types.ActionBehaviouralType:
		req.Payload = w.source.Text()
	case types.ActionGenerateCode:
		req.Payload = w.tracker.Region().Text()
	case types.ActionSynthesize:
		req.Payload = w.tracker.Region().Text()
		req.Query = url.Values{"chan": []string{p.Channel}}
	case types.ActionLoadExample:
		if p.Example == "" {
			return nil, ErrNoExample
		}
		req.Payload = p.Example
	}

	w.timing.Report("")
	req.Seq = w.seq.next(req.Lane)
	req.Dispatched = time.Now()
	w.metrics.Started()

	w.logger.Debug("action dispatched",
		"action", action,
		"lane", req.Lane,
		"seq", req.Seq,
		"payload_bytes", len(req.Payload),
	)
	return req, nil
}

// Dispatch sends req through the dispatcher. It reads no mutable state.
func (w *Workbench) Dispatch(ctx context.Context, req *types.PendingRequest) types.Outcome {
	start := time.Now()
	out := w.dispatcher.Dispatch(ctx, req)
	w.metrics.ObserveDispatch(string(req.Action), time.Since(start))
	return out
}

// Complete applies the outcome of req to the display
func (w *Workbench) Complete(req *types.PendingRequest, out types.Outcome) Completion {
	w.metrics.Finished()
	c := Completion{Request: req, Outcome: out}

	if w.ordering == OrderingDropStale && !w.seq.isCurrent(req.Lane, req.Seq) {
		w.metrics.Stale(string(req.Lane))
		w.logger.Debug("stale completion dropped", "action", req.Action, "lane", req.Lane, "seq", req.Seq)
		c.Stale = true
		return c
	}

	label := types.OutcomeLabel(out)
	w.metrics.Completed(string(req.Action), label)

	switch o := out.(type) {
	case types.TransportFailure:
		c.Err = fmt.Errorf("%w: %s: %s", ErrTransport, req.Action, o.Error())
		w.logger.Warn("request failed", "action", req.Action, "error", o.Err, "status", o.Status)
		return c
	case types.MalformedOutcome:
		w.showMalformed(req.Lane)
		c.Applied = true
		c.Err = fmt.Errorf("%w: %s: %v", ErrMalformed, req.Action, o.Err)
		w.logger.Warn("malformed response", "action", req.Action, "error", o.Err)
		return c
	}

	if err := w.apply(req.Action, out); err != nil {
		w.showMalformed(req.Lane)
		c.Applied = true
		c.Err = err
		w.logger.Warn("unexpected response shape", "action", req.Action, "error", err)
		return c
	}

	c.Applied = true
	w.logger.Info("action completed",
		"action", req.Action,
		"kind", w.tracker.Kind().String(),
		"duration", time.Since(req.Dispatched),
	)
	return c
}

// apply renders a successful outcome
func (w *Workbench) apply(action types.Action, out types.Outcome) error {
	switch action {
	case types.ActionStructuralForm:
		body, err := textOf(out)
		if err != nil {
			return err
		}
		w.tracker.Replace(types.Artifact{Kind: types.KindStructuralForm, Text: body})

	case types.ActionLoadExample:
		body, err := textOf(out)
		if err != nil {
			return err
		}
		w.source.Render(body)
		w.tracker.Reset()

	case types.ActionStateMachine, types.ActionBehaviouralType:
		rec, err := recordOf(out)
		if err != nil {
			return err
		}
		kind := types.KindStateMachine
		if action == types.ActionBehaviouralType {
			kind = types.KindBehaviouralType
		}
		w.tracker.Replace(types.Artifact{Kind: kind, Text: rec.Result, Elapsed: rec.Time, Graph: rec.Graph})
		w.timing.Report(rec.Time)

	case types.ActionGenerateCode, types.ActionSynthesize:
		rec, err := recordOf(out)
		if err != nil {
			return err
		}
		kind := OverlayCodegen
		if action == types.ActionSynthesize {
			kind = OverlaySynthesis
		}
		w.overlays.Open(kind, types.SecondaryArtifact{
			Text:     rec.Result,
			Elapsed:  rec.Time,
			Global:   rec.Global,
			Machines: rec.Machines,
		})
		w.timing.Report(rec.Time)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

func (w *Workbench) showMalformed(lane types.Lane) {
	switch lane {
	case types.LaneCodegen:
		w.overlays.ShowMalformed(OverlayCodegen)
	case types.LaneSynthesis:
		w.overlays.ShowMalformed(OverlaySynthesis)
	default:
		w.tracker.ShowMalformed()
	}
}

// Run begins, dispatches and completes action synchronously
func (w *Workbench) Run(ctx context.Context, action types.Action, p Params) (Completion, error) {
	req, err := w.Begin(action, p)
	if err != nil {
		return Completion{}, err
	}
	c := w.Complete(req, w.Dispatch(ctx, req))
	return c, c.Err
}

func textOf(out types.Outcome) (string, error) {
	switch o := out.(type) {
	case types.TextOutcome:
		return o.Body, nil
	case types.RecordOutcome:
		return o.Result, nil
	default:
		return "", fmt.Errorf("%w: unexpected %T", ErrMalformed, out)
	}
}

func recordOf(out types.Outcome) (types.RecordOutcome, error) {
	rec, ok := out.(types.RecordOutcome)
	if !ok {
		return types.RecordOutcome{}, fmt.Errorf("%w: expected a record, got %T", ErrMalformed, out)
	}
	return rec, nil
}
