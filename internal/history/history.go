package history

import (
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

// Recordable reports whether a completion should be stored.
// Stale and refused completions never reach the display and are skipped.
func Recordable(c workbench.Completion) bool {
	if c.Request == nil || c.Stale {
		return false
	}
	_, transport := c.Outcome.(types.TransportFailure)
	return c.Applied || transport
}

// EntryFor builds the history entry of a completion from what wb now displays
func EntryFor(server string, wb *workbench.Workbench, c workbench.Completion) types.HistoryEntry {
	e := types.HistoryEntry{
		Timestamp: c.Request.Dispatched,
		Action:    c.Request.Action,
		Server:    server,
		Payload:   c.Request.Payload,
		Outcome:   types.OutcomeLabel(c.Outcome),
	}

	if c.Err != nil && !c.Applied {
		e.Result = c.Err.Error()
		return e
	}

	switch c.Request.Lane {
	case types.LaneCodegen:
		a := wb.Overlays().Get(workbench.OverlayCodegen)
		e.Result = a.Output().Text()
		e.Elapsed = a.Artifact().Elapsed
	case types.LaneSynthesis:
		a := wb.Overlays().Get(workbench.OverlaySynthesis)
		e.Result = a.Output().Text()
		e.Elapsed = a.Artifact().Elapsed
	default:
		art := wb.Artifact()
		e.Kind = art.Kind.String()
		e.Result = art.Text
		e.Elapsed = art.Elapsed
		if c.Request.Action == types.ActionLoadExample {
			e.Result = wb.Source().Text()
		}
	}
	if c.Err != nil {
		e.Elapsed = ""
	}
	return e
}
