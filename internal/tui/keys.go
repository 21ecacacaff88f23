package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/workbench/internal/keybinds"
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Global keys (work in all modes)
	if action, ok := m.keybinds.Match(keybinds.ContextGlobal, msg.String()); ok && action == keybinds.ActionQuitForce {
		return tea.Quit
	}

	// Mode-specific handling
	switch m.mode {
	case ModeNormal:
		return m.handleNormalKeys(msg)
	case ModeEditor:
		return m.handleEditorKeys(msg)
	case ModeOverlay:
		return m.handleOverlayKeys(msg)
	case ModePicker:
		return m.handlePickerKeys(msg)
	case ModeHistory:
		return m.handleHistoryKeys(msg)
	case ModeHistoryClearConfirm:
		return m.handleHistoryClearConfirmKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	case ModeErrorDetail, ModeStatusDetail:
		return m.handleDetailKeys(msg)
	}

	return nil
}

// scroll applies a navigation action to v. It reports whether action was one.
func scroll(v *viewport.Model, action keybinds.Action) bool {
	switch action {
	case keybinds.ActionNavigateUp:
		v.LineUp(1)
	case keybinds.ActionNavigateDown:
		v.LineDown(1)
	case keybinds.ActionPageUp:
		v.ViewUp()
	case keybinds.ActionPageDown:
		v.ViewDown()
	case keybinds.ActionHalfPageUp:
		v.HalfViewUp()
	case keybinds.ActionHalfPageDown:
		v.HalfViewDown()
	case keybinds.ActionGoToTop:
		v.GotoTop()
	case keybinds.ActionGoToBottom:
		v.GotoBottom()
	default:
		return false
	}
	return true
}

// analysisActions maps key actions to workbench actions
var analysisActions = map[keybinds.Action]types.Action{
	keybinds.ActionRunSSA:  types.ActionStructuralForm,
	keybinds.ActionRunCFSM: types.ActionStateMachine,
	keybinds.ActionRunMiGo: types.ActionBehaviouralType,
	keybinds.ActionRunGong: types.ActionGenerateCode,
}

// handleNormalKeys handles keys in the main view
func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextNormal, msg.String())
	if partial || !ok {
		return nil
	}

	if a, isAnalysis := analysisActions[action]; isAnalysis {
		return m.runAction(a, workbench.Params{})
	}

	switch action {
	case keybinds.ActionQuit:
		return tea.Quit

	case keybinds.ActionRunSynthesis:
		return m.runSynthesis()

	case keybinds.ActionSwitchFocus:
		if m.focusedPanel == focusSource {
			m.focusedPanel = focusOutput
		} else {
			m.focusedPanel = focusSource
		}

	case keybinds.ActionEditSource:
		return m.enterEditor()

	case keybinds.ActionOpenExamples:
		m.openPicker(pickExample)

	case keybinds.ActionOpenChannels:
		m.pendingSynthesis = false
		m.openPicker(pickChannel)

	case keybinds.ActionRefreshCatalog:
		m.statusMsg = "Reading examples from server..."
		return m.loadCatalog()

	case keybinds.ActionCopyToClipboard:
		return m.copyToClipboard()

	case keybinds.ActionSaveGraph:
		return m.saveGraph()

	case keybinds.ActionShowOverlay:
		return m.reopenOverlay()

	case keybinds.ActionToggleLineNums:
		m.showLineNumbers = !m.showLineNumbers
		m.refreshViews()

	case keybinds.ActionOpenHistory:
		if m.historyManager == nil {
			return m.setErrorMessage("History is disabled")
		}
		m.mode = ModeHistory
		return m.loadHistory()

	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.updateHelpView()

	case keybinds.ActionOpenErrorDetail:
		if m.fullErrorMsg != "" {
			m.mode = ModeErrorDetail
		} else if m.fullStatusMsg != "" {
			m.mode = ModeStatusDetail
		}
		m.modalView.GotoTop()

	default:
		view := &m.sourceView
		if m.focusedPanel == focusOutput {
			view = &m.outputView
		}
		scroll(view, action)
	}

	return nil
}

// handleEditorKeys passes every key but the exit key to the textarea
func (m *Model) handleEditorKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextEditor, msg.String()); ok && action == keybinds.ActionEditorExit {
		m.exitEditor()
		return nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return cmd
}

func (m *Model) handleOverlayKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextOverlay, msg.String())
	if partial || !ok {
		return nil
	}

	switch action {
	case keybinds.ActionCloseModal:
		m.dismissOverlay()
	case keybinds.ActionSwitchView:
		m.cycleOverlayPane()
	case keybinds.ActionCopyToClipboard:
		return m.copyToClipboard()
	case keybinds.ActionSaveGraph:
		return m.saveGraph()
	default:
		scroll(&m.overlayView, action)
	}
	return nil
}

// openPicker shows the example or channel selector
func (m *Model) openPicker(kind pickerKind) {
	switch kind {
	case pickChannel:
		m.picker.Reset(kind, m.catalog.Channels, m.channel, nil)
	default:
		m.picker.Reset(kind, m.catalog.Examples, m.sessionMgr.GetSession().Example, m.sessionMgr.GetRecentExamples())
	}
	m.mode = ModePicker
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextPicker, msg.String())
	if ok {
		switch action {
		case keybinds.ActionCloseModal:
			m.pendingSynthesis = false
			m.mode = ModeNormal
			return nil
		case keybinds.ActionSelect:
			return m.pickSelected()
		case keybinds.ActionNavigateUp:
			m.picker.Navigate(-1)
			return nil
		case keybinds.ActionNavigateDown:
			m.picker.Navigate(1)
			return nil
		case keybinds.ActionPageUp:
			m.picker.Navigate(-m.pickerPageSize())
			return nil
		case keybinds.ActionPageDown:
			m.picker.Navigate(m.pickerPageSize())
			return nil
		}
	}

	var cmd tea.Cmd
	before := m.picker.Query()
	m.picker.input, cmd = m.picker.input.Update(msg)
	if m.picker.Query() != before {
		m.picker.filter()
	}
	return cmd
}

// pickSelected applies the highlighted option
func (m *Model) pickSelected() tea.Cmd {
	opt, ok := m.picker.Selected()
	m.mode = ModeNormal
	if !ok {
		m.pendingSynthesis = false
		return nil
	}

	switch m.picker.kind {
	case pickChannel:
		m.channel = opt.Value
		if err := m.sessionMgr.SetChannel(opt.Value); err != nil {
			m.logger.Warn("failed to save session", "error", err)
		}
		if m.pendingSynthesis {
			m.pendingSynthesis = false
			return m.runAction(types.ActionSynthesize, workbench.Params{Channel: m.channel})
		}
		return m.setStatusMessage("Channels: " + opt.Label)
	default:
		return m.runAction(types.ActionLoadExample, workbench.Params{Example: opt.Value})
	}
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) tea.Cmd {
	if m.historyState.GetSearchActive() {
		return m.handleHistorySearchKeys(msg)
	}

	// Search toggle is not rebindable
	switch msg.String() {
	case "/":
		m.historyState.ActivateSearch()
		return nil
	case "p":
		m.historyState.TogglePreview()
		m.updateHistoryView()
		return nil
	}

	action, ok := m.keybinds.Match(keybinds.ContextHistory, msg.String())
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionCloseModal:
		if m.historyState.GetSearchQuery() != "" {
			m.historyState.ClearSearch()
			m.updateHistoryView()
			return nil
		}
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		m.historyState.Navigate(-1)
		m.updateHistoryView()
	case keybinds.ActionNavigateDown:
		m.historyState.Navigate(1)
		m.updateHistoryView()
	case keybinds.ActionHistoryView:
		m.historyState.TogglePreview()
		m.updateHistoryView()
	case keybinds.ActionHistoryDelete:
		return m.deleteHistoryEntry()
	case keybinds.ActionHistoryClear:
		if len(m.historyState.GetEntries()) > 0 {
			m.mode = ModeHistoryClearConfirm
		}
	}
	return nil
}

func (m *Model) handleHistorySearchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.historyState.ClearSearch()
	case tea.KeyEnter:
		m.historyState.DeactivateSearch()
	case tea.KeyBackspace:
		q := []rune(m.historyState.GetSearchQuery())
		if len(q) > 0 {
			m.historyState.SetSearchQuery(string(q[:len(q)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		m.historyState.SetSearchQuery(m.historyState.GetSearchQuery() + string(msg.Runes))
	}
	m.updateHistoryView()
	return nil
}

func (m *Model) handleHistoryClearConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeHistory
		return m.clearHistory()
	case "n", "N", "esc", "q":
		m.mode = ModeHistory
	}
	return nil
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextHelp, msg.String())
	if partial || !ok {
		return nil
	}
	if action == keybinds.ActionCloseModal {
		m.mode = ModeNormal
		return nil
	}
	scroll(&m.helpView, action)
	return nil
}

// handleDetailKeys handles the error and status detail modals
func (m *Model) handleDetailKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextModal, msg.String())
	if partial || !ok {
		return nil
	}
	if action == keybinds.ActionCloseModal {
		m.mode = ModeNormal
		return nil
	}
	scroll(&m.modalView, action)
	return nil
}
