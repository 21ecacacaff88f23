package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/workbench/internal/config"
	"github.com/studiowebux/workbench/internal/executor"
	"github.com/studiowebux/workbench/internal/history"
	"github.com/studiowebux/workbench/internal/keybinds"
	"github.com/studiowebux/workbench/internal/markup"
	"github.com/studiowebux/workbench/internal/session"
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditor
	ModeOverlay
	ModePicker
	ModeHistory
	ModeHistoryClearConfirm
	ModeHelp
	ModeErrorDetail
	ModeStatusDetail
)

// overlayPane selects which view of an overlay is displayed
type overlayPane int

const (
	paneOutput overlayPane = iota
	paneGlobal
	paneMachines
)

func (p overlayPane) String() string {
	switch p {
	case paneGlobal:
		return "global graph"
	case paneMachines:
		return "machines"
	default:
		return "output"
	}
}

const (
	focusSource = "source"
	focusOutput = "output"
)

// Model represents the TUI state
type Model struct {
	// Core state
	wb             *workbench.Workbench
	client         *executor.Client
	cfg            *config.Config
	keybinds       *keybinds.Registry
	sessionMgr     *session.Manager
	historyManager *history.Manager
	markup         *markup.Converter
	logger         *slog.Logger
	ctx            context.Context
	mode           Mode
	version        string

	// Editor and panes
	editor      textarea.Model
	sourceView  viewport.Model
	outputView  viewport.Model
	overlayView viewport.Model
	modalView   viewport.Model
	helpView    viewport.Model
	spinner     spinner.Model

	// Overlays: the one on top and the pane shown in it
	overlayKind workbench.OverlayKind
	overlayPane overlayPane
	lastOverlay *workbench.OverlayKind

	// Selectors
	catalog          executor.Catalog
	channel          string
	picker           *PickerState
	pendingSynthesis bool // run synthesis once a channel is picked

	historyState *HistoryState

	// UI state
	width           int
	height          int
	inFlight        int
	focusedPanel    string
	showLineNumbers bool
	messageTimeout  time.Duration
	statusMsg       string
	errorMsg        string // Truncated error for footer
	fullErrorMsg    string // Full error message for detail modal
	fullStatusMsg   string // Full status message for detail modal
}

// Init loads the server catalog
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Cleanup closes database connections and saves the session
func (m *Model) Cleanup() {
	if m.historyManager != nil {
		if err := m.historyManager.Close(); err != nil {
			m.logger.Error("failed to close history database", "error", err)
		}
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.MouseMsg:
		// Keyboard-only navigation

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewport()
		m.refreshViews()

	case actionDoneMsg:
		m.inFlight--
		c := m.wb.Complete(msg.req, msg.out)
		cmd = m.afterCompletion(c)
		m.refreshViews()

	case catalogLoadedMsg:
		cmd = m.applyCatalog(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			cmd = m.setErrorMessage(fmt.Sprintf("Failed to load history: %v", msg.err))
			break
		}
		m.historyState.Load(msg.entries)
		if len(msg.entries) > 0 {
			m.statusMsg = fmt.Sprintf("Loaded %d history entries", len(msg.entries))
		}
		m.updateHistoryView()

	case spinner.TickMsg:
		if m.inFlight > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case statusMsg:
		cmd = m.setStatusMessage(string(msg))

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""

	case errorMsg:
		cmd = m.setErrorMessage(string(msg))
	}

	return m, cmd
}

// afterCompletion updates the status line and the visible overlay for a completion
func (m *Model) afterCompletion(c workbench.Completion) tea.Cmd {
	if c.Stale {
		return nil
	}

	cmds := []tea.Cmd{m.saveHistory(c)}
	action := c.Request.Action

	switch {
	case errors.Is(c.Err, workbench.ErrTransport):
		failure, _ := c.Outcome.(types.TransportFailure)
		cmds = append(cmds, m.setErrorDetail(categorizeTransportFailure(failure), c.Err.Error()))

	case errors.Is(c.Err, workbench.ErrMalformed):
		cmds = append(cmds, m.setErrorDetail(
			fmt.Sprintf("%s: malformed response from server", action.Description()), c.Err.Error()))

	case c.Err != nil:
		cmds = append(cmds, m.setErrorMessage(c.Err.Error()))

	default:
		m.errorMsg = ""
		m.fullErrorMsg = ""
		cmds = append(cmds, m.setStatusMessage(action.Description()+" done"))

		switch c.Request.Lane {
		case types.LaneCodegen:
			m.showOverlay(workbench.OverlayCodegen)
		case types.LaneSynthesis:
			m.showOverlay(workbench.OverlaySynthesis)
		}

		if action == types.ActionLoadExample {
			m.sourceView.GotoTop()
			if err := m.sessionMgr.AddRecentExample(c.Request.Payload); err != nil {
				m.logger.Warn("failed to save session", "error", err)
			}
		}
		m.outputView.GotoTop()
	}

	return tea.Batch(cmds...)
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeOverlay:
		return m.renderOverlay()
	case ModePicker:
		return m.renderPicker()
	case ModeHistory:
		return m.renderHistory()
	case ModeHistoryClearConfirm:
		return m.renderHistoryClearConfirmation()
	case ModeHelp:
		return m.renderHelp()
	case ModeErrorDetail:
		return m.renderErrorDetailModal()
	case ModeStatusDetail:
		return m.renderStatusDetailModal()
	default:
		return m.renderMain()
	}
}

// Custom message types
type actionDoneMsg struct {
	req *types.PendingRequest
	out types.Outcome
}

type catalogLoadedMsg struct {
	catalog executor.Catalog
	err     error
}

type historyLoadedMsg struct {
	entries []types.HistoryEntry
	err     error
}

type statusMsg string
type clearStatusMsg struct{}
type clearErrorMsg struct{}
type errorMsg string

// truncateMessage keeps footer messages on one line
func truncateMessage(msg string) string {
	if len(msg) > 100 {
		return msg[:97] + "..."
	}
	return msg
}

// Helper methods for setting messages with optional timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.fullStatusMsg = msg
	m.statusMsg = truncateMessage(msg)

	if m.messageTimeout > 0 {
		return tea.Tick(m.messageTimeout, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}
	return nil
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	return m.setErrorDetail(msg, msg)
}

// setErrorDetail shows short in the footer and keeps full for the detail modal
func (m *Model) setErrorDetail(short, full string) tea.Cmd {
	m.fullErrorMsg = full
	m.errorMsg = truncateMessage(short)

	if m.messageTimeout > 0 {
		return tea.Tick(m.messageTimeout, func(time.Time) tea.Msg {
			return clearErrorMsg{}
		})
	}
	return nil
}
