package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/workbench/internal/config"
	"github.com/studiowebux/workbench/internal/executor"
	"github.com/studiowebux/workbench/internal/history"
	"github.com/studiowebux/workbench/internal/markup"
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

// runAction begins action on the UI loop and dispatches it in the background.
// A refused chained action leaves the screen as it is.
func (m *Model) runAction(action types.Action, p workbench.Params) tea.Cmd {
	req, err := m.wb.Begin(action, p)
	if err != nil {
		if errors.Is(err, workbench.ErrPrecondition) {
			return nil
		}
		return m.setErrorMessage(err.Error())
	}

	m.inFlight++
	m.statusMsg = action.Description() + "..."
	return tea.Batch(m.dispatch(req), m.spinner.Tick)
}

// dispatch sends req from a command goroutine. Only the request and the
// dispatcher are touched there.
func (m *Model) dispatch(req *types.PendingRequest) tea.Cmd {
	wb, ctx := m.wb, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{req: req, out: wb.Dispatch(ctx, req)}
	}
}

// runSynthesis asks for a channel first when none is selected
func (m *Model) runSynthesis() tea.Cmd {
	if !m.wb.Allowed(types.ActionSynthesize) {
		return nil
	}
	if m.channel == "" {
		m.pendingSynthesis = true
		m.openPicker(pickChannel)
		return nil
	}
	return m.runAction(types.ActionSynthesize, workbench.Params{Channel: m.channel})
}

// saveHistory records a completion in the background
func (m *Model) saveHistory(c workbench.Completion) tea.Cmd {
	if m.historyManager == nil || !history.Recordable(c) {
		return nil
	}
	if !m.sessionMgr.IsHistoryEnabled(m.cfg.HistoryEnabled) {
		return nil
	}

	entry := history.EntryFor(m.client.BaseURL(), m.wb, c)
	mgr := m.historyManager
	return func() tea.Msg {
		if _, err := mgr.Save(entry); err != nil {
			return errorMsg(fmt.Sprintf("Failed to save history: %v", err))
		}
		return nil
	}
}

func (m *Model) loadCatalog() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		cat, err := client.Discover(ctx)
		return catalogLoadedMsg{catalog: cat, err: err}
	}
}

// applyCatalog keeps configured lists for any selector the server did not advertise
func (m *Model) applyCatalog(msg catalogLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("index page unavailable, using configured examples", "error", msg.err)
		return m.setErrorMessage(categorizeError(msg.err))
	}

	if len(msg.catalog.Examples) > 0 {
		m.catalog.Examples = msg.catalog.Examples
	}
	if len(msg.catalog.Channels) > 0 {
		m.catalog.Channels = msg.catalog.Channels
		if !hasOption(m.catalog.Channels, m.channel) {
			m.channel = m.cfg.PickChannel(optionValues(m.catalog.Channels))
		}
	}
	return m.setStatusMessage(fmt.Sprintf("%d examples, %d channels available",
		len(m.catalog.Examples), len(m.catalog.Channels)))
}

func (m *Model) loadHistory() tea.Cmd {
	mgr := m.historyManager
	return func() tea.Msg {
		if mgr == nil {
			return historyLoadedMsg{}
		}
		entries, err := mgr.Load(0)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m *Model) deleteHistoryEntry() tea.Cmd {
	entry := m.historyState.GetCurrentEntry()
	if entry == nil || m.historyManager == nil {
		return nil
	}
	if err := m.historyManager.Delete(entry.ID); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to delete entry: %v", err))
	}
	m.historyState.RemoveCurrent()
	m.updateHistoryView()
	return m.setStatusMessage("History entry deleted")
}

func (m *Model) clearHistory() tea.Cmd {
	if m.historyManager == nil {
		return nil
	}
	if err := m.historyManager.Clear(); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to clear history: %v", err))
	}
	m.historyState.Load(nil)
	m.updateHistoryView()
	return m.setStatusMessage("History cleared")
}

// copyTarget returns the text the copy action applies to in the current view
func (m *Model) copyTarget() (string, string) {
	if m.mode == ModeOverlay {
		o := m.wb.Overlays().Get(m.overlayKind)
		return m.overlayText(o), m.overlayKind.String() + " " + m.overlayPane.String()
	}
	if m.focusedPanel == focusSource {
		return m.wb.Source().Text(), "Source"
	}
	return m.wb.Tracker().Region().Text(), m.wb.Tracker().Kind().String() + " output"
}

func (m *Model) copyToClipboard() tea.Cmd {
	text, what := m.copyTarget()
	return func() tea.Msg {
		if err := clipboard.WriteAll(markup.Strip(text)); err != nil {
			return errorMsg(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
		return statusMsg(what + " copied to clipboard")
	}
}

// saveGraph writes the state-machine graph, or the current overlay view, to the export directory
func (m *Model) saveGraph() tea.Cmd {
	name, content, err := m.exportContent(time.Now())
	if err != nil {
		return m.setErrorMessage(err.Error())
	}

	dir := config.ExportDir
	return func() tea.Msg {
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
			return errorMsg(fmt.Sprintf("Failed to create export directory: %v", err))
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), config.FilePermissions); err != nil {
			return errorMsg(fmt.Sprintf("Failed to save: %v", err))
		}
		return statusMsg("Saved to " + path)
	}
}

// exportContent picks the file name and content of a save
func (m *Model) exportContent(now time.Time) (string, string, error) {
	stamp := now.Format("20060102-150405")

	if m.mode == ModeOverlay {
		o := m.wb.Overlays().Get(m.overlayKind)
		base := strings.ToLower(m.overlayKind.String())
		switch m.overlayPane {
		case paneGlobal:
			return fmt.Sprintf("%s-global-%s.svg", base, stamp), o.Global().Text(), nil
		case paneMachines:
			return fmt.Sprintf("%s-machines-%s.svg", base, stamp), o.Machines().Text(), nil
		default:
			return fmt.Sprintf("%s-%s.txt", base, stamp), markup.Strip(o.Output().Text()), nil
		}
	}

	art := m.wb.Artifact()
	if art.Graph == "" {
		return "", "", fmt.Errorf("No graph to save: extract state machines first")
	}
	return fmt.Sprintf("cfsm-%s.dot", stamp), art.Graph, nil
}

// showOverlay puts kind on top
func (m *Model) showOverlay(kind workbench.OverlayKind) {
	m.overlayKind = kind
	m.overlayPane = paneOutput
	m.lastOverlay = &kind
	m.overlayView.GotoTop()
	if m.mode == ModeNormal || m.mode == ModeOverlay {
		m.mode = ModeOverlay
	}
	m.updateOverlayView()
}

// dismissOverlay hides the overlay on top, revealing the other one if it is still visible
func (m *Model) dismissOverlay() {
	overlays := m.wb.Overlays()
	overlays.Dismiss(m.overlayKind)

	other := workbench.OverlaySynthesis
	if m.overlayKind == workbench.OverlaySynthesis {
		other = workbench.OverlayCodegen
	}
	if overlays.Visible(other) {
		m.showOverlay(other)
		return
	}
	m.mode = ModeNormal
}

// reopenOverlay shows the most recently opened overlay again
func (m *Model) reopenOverlay() tea.Cmd {
	if m.lastOverlay == nil || !m.wb.Overlays().Reopen(*m.lastOverlay) {
		return m.setStatusMessage("No overlay to show")
	}
	m.showOverlay(*m.lastOverlay)
	return nil
}

// cycleOverlayPane switches between the synthesis views
func (m *Model) cycleOverlayPane() {
	if m.overlayKind != workbench.OverlaySynthesis {
		return
	}
	m.overlayPane = (m.overlayPane + 1) % 3
	m.overlayView.GotoTop()
	m.updateOverlayView()
}

func (m *Model) enterEditor() tea.Cmd {
	m.mode = ModeEditor
	m.editor.SetValue(m.wb.Source().Text())
	m.updateViewport()
	return m.editor.Focus()
}

func (m *Model) exitEditor() {
	m.wb.SetSource(m.editor.Value())
	m.editor.Blur()
	m.mode = ModeNormal
	m.refreshViews()
}

func hasOption(opts []executor.Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

func optionValues(opts []executor.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}
