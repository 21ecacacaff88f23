package workbench

import (
	"github.com/studiowebux/workbench/internal/render"
	"github.com/studiowebux/workbench/internal/types"
)

const (
	// NoOutput is shown in the primary pane when it holds no artifact
	NoOutput = "No output."

	// MalformedMessage replaces the output of an action whose structured response could not be decoded
	MalformedMessage = "JSON error"
)

// Tracker owns the primary output region and the kind tag attached to it.
// The tag is the only record of what is displayed; there is no separate
// "last operation" state.
type Tracker struct {
	region  *render.Region
	kind    types.Kind
	elapsed string
	graph   string
}

// NewTracker creates a tracker over region, starting at {None, "No output."}
func NewTracker(region *render.Region) *Tracker {
	t := &Tracker{region: region}
	t.Reset()
	return t
}

// Kind returns the tag of the displayed artifact
func (t *Tracker) Kind() types.Kind {
	return t.kind
}

// Region returns the primary output region
func (t *Tracker) Region() *render.Region {
	return t.region
}

// Artifact returns a snapshot of the displayed artifact
func (t *Tracker) Artifact() types.Artifact {
	return types.Artifact{
		Kind:    t.kind,
		Text:    t.region.Text(),
		Elapsed: t.elapsed,
		Graph:   t.graph,
	}
}

// Replace renders a new artifact and retags the region in one step
func (t *Tracker) Replace(a types.Artifact) {
	t.region.Render(a.Text)
	t.kind = a.Kind
	t.elapsed = a.Elapsed
	t.graph = a.Graph
}

// Reset returns the region to {None, "No output."}
func (t *Tracker) Reset() {
	t.Replace(types.Artifact{Kind: types.KindNone, Text: NoOutput})
}

// ShowMalformed renders MalformedMessage. The kind tag is left unchanged.
func (t *Tracker) ShowMalformed() {
	t.region.Render(MalformedMessage)
}
