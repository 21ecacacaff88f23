package workbench

import (
	"github.com/studiowebux/workbench/internal/render"
	"github.com/studiowebux/workbench/internal/types"
)

// OverlayKind identifies one of the dismissible result panels
type OverlayKind int

const (
	OverlayCodegen OverlayKind = iota
	OverlaySynthesis
)

// String returns the overlay title
func (k OverlayKind) String() string {
	switch k {
	case OverlayCodegen:
		return "Gong"
	case OverlaySynthesis:
		return "Synthesis"
	default:
		return "Overlay"
	}
}

// Overlay is a panel layered above the main view
type Overlay struct {
	kind     OverlayKind
	output   *render.Region
	global   *render.Region
	machines *render.Region
	artifact types.SecondaryArtifact
	opened   bool
	visible  bool
}

func newOverlay(kind OverlayKind) *Overlay {
	return &Overlay{
		kind:     kind,
		output:   render.NewRegion(kind.String() + "-output"),
		global:   render.NewRegion(kind.String() + "-global"),
		machines: render.NewRegion(kind.String() + "-machines"),
	}
}

// Kind returns the overlay kind
func (o *Overlay) Kind() OverlayKind { return o.kind }

// Visible reports whether the overlay is shown
func (o *Overlay) Visible() bool { return o.visible }

// Output returns the main result region
func (o *Overlay) Output() *render.Region { return o.output }

// Global returns the global-graph region (synthesis)
func (o *Overlay) Global() *render.Region { return o.global }

// Machines returns the per-participant machines region (synthesis)
func (o *Overlay) Machines() *render.Region { return o.machines }

// Artifact returns the last artifact opened in this overlay
func (o *Overlay) Artifact() types.SecondaryArtifact { return o.artifact }

// Overlays presents the code generation and synthesis overlays.
// Their visibility is independent.
type Overlays struct {
	codegen   *Overlay
	synthesis *Overlay
}

// NewOverlays creates both overlays, hidden
func NewOverlays() *Overlays {
	return &Overlays{
		codegen:   newOverlay(OverlayCodegen),
		synthesis: newOverlay(OverlaySynthesis),
	}
}

// Get returns the overlay of the given kind
func (p *Overlays) Get(kind OverlayKind) *Overlay {
	if kind == OverlaySynthesis {
		return p.synthesis
	}
	return p.codegen
}

// Open renders art into the overlay and shows it
func (p *Overlays) Open(kind OverlayKind, art types.SecondaryArtifact) {
	o := p.Get(kind)
	o.artifact = art
	o.output.Render(art.Text)
	o.global.Render(art.Global)
	o.machines.Render(art.Machines)
	o.opened = true
	o.visible = true
}

// Reopen shows the overlay again with its last content.
// It returns false when the overlay was never opened.
func (p *Overlays) Reopen(kind OverlayKind) bool {
	o := p.Get(kind)
	if !o.opened {
		return false
	}
	o.visible = true
	return true
}

// Dismiss hides the overlay. The other overlay is not affected.
func (p *Overlays) Dismiss(kind OverlayKind) {
	p.Get(kind).visible = false
}

// Visible reports whether the overlay of the given kind is shown
func (p *Overlays) Visible(kind OverlayKind) bool {
	return p.Get(kind).visible
}

// ShowMalformed writes MalformedMessage into the overlay output without changing visibility
func (p *Overlays) ShowMalformed(kind OverlayKind) {
	p.Get(kind).output.Render(MalformedMessage)
}
