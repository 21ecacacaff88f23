package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/studiowebux/workbench/internal/keybinds"
	"github.com/studiowebux/workbench/internal/render"
	"github.com/studiowebux/workbench/internal/types"
	"github.com/studiowebux/workbench/internal/workbench"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"} // Dark goldenrod / Yellow
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#0000ff"} // Dark blue / Blue
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleTitleFocused = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGreen)

	styleTitleUnfocused = lipgloss.NewStyle().
				Foreground(colorGray)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	// kindBadge colours the tag next to the output pane title
	kindBadge = map[types.Kind]lipgloss.Style{
		types.KindNone:            styleSubtle,
		types.KindStructuralForm:  lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		types.KindStateMachine:    lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
		types.KindBehaviouralType: lipgloss.NewStyle().Bold(true).Foreground(colorYellow),
	}
)

// renderMain renders the source pane, the output pane, the timing line and the status bar
func (m Model) renderMain() string {
	if m.width == 0 {
		return ""
	}

	sourceWidth, outputWidth := m.paneWidths()
	paneHeight := m.height - 3 // status bar + timing line + bottom border

	sourceBorder := colorGray
	outputBorder := colorGray
	switch {
	case m.mode == ModeEditor:
		sourceBorder = colorYellow
	case m.focusedPanel == focusSource:
		sourceBorder = colorGreen
	default:
		outputBorder = colorGreen
	}

	sourceBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sourceBorder).
		Width(sourceWidth).
		Height(paneHeight).
		Render(m.renderSourcePane())

	outputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(outputBorder).
		Width(outputWidth).
		Height(paneHeight).
		Render(m.renderOutputPane())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, sourceBox, outputBox)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		m.renderTimingLine(),
		m.renderStatusBar(),
	)
}

// paneWidths splits the screen between the source and output panes.
// MUST match the viewport sizes set in updateViewport.
func (m Model) paneWidths() (int, int) {
	source := int(float64(m.width) * SourcePaneWidthRatio)
	output := m.width - source - 2*ViewportBorderWidth
	source -= ViewportBorderWidth
	if source < 10 {
		source = 10
	}
	if output < 10 {
		output = 10
	}
	return source, output
}

func (m Model) renderSourcePane() string {
	title := "Source"
	if m.mode == ModeEditor {
		title += styleWarning.Render(" [editing: esc to finish]")
	}
	titleStyle := styleTitleUnfocused
	if m.focusedPanel == focusSource || m.mode == ModeEditor {
		titleStyle = styleTitleFocused
	}

	body := m.sourceView.View()
	if m.mode == ModeEditor {
		body = m.editor.View()
	}
	return titleStyle.Render(title) + "\n" + body
}

func (m Model) renderOutputPane() string {
	art := m.wb.Tracker()
	titleStyle := styleTitleUnfocused
	if m.focusedPanel == focusOutput && m.mode != ModeEditor {
		titleStyle = styleTitleFocused
	}

	title := titleStyle.Render("Output") + " " + kindBadge[art.Kind()].Render("["+art.Kind().String()+"]")
	if hint := m.chainHint(); hint != "" {
		title += "  " + styleSubtle.Render(hint)
	}
	return title + "\n" + m.outputView.View()
}

// chainHint names the chained action the displayed artifact allows, if any
func (m Model) chainHint() string {
	for _, c := range []struct {
		action types.Action
		key    keybinds.Action
	}{
		{types.ActionGenerateCode, keybinds.ActionRunGong},
		{types.ActionSynthesize, keybinds.ActionRunSynthesis},
	} {
		if m.wb.Allowed(c.action) {
			return fmt.Sprintf("%s: %s", m.keybinds.GetBindingString(keybinds.ContextNormal, c.key), c.action.Description())
		}
	}
	return ""
}

// renderTimingLine shows the elapsed time of the last operation, or the spinner while requests are in flight
func (m Model) renderTimingLine() string {
	var line string
	if t, ok := m.wb.Timing().(*workbench.Timing); ok {
		line = t.Text()
	}
	if m.inFlight > 0 {
		line = m.spinner.View() + " " + fmt.Sprintf("%d request(s) in flight", m.inFlight)
	}
	return styleSubtle.Render(" " + line)
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	left := fmt.Sprintf("Server: %s", m.client.BaseURL())
	if m.channel != "" {
		left += styleSubtle.Render(fmt.Sprintf(" | chan %s", m.channel))
	}

	right := ""
	if m.errorMsg != "" {
		right = styleError.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		// Make success messages green
		if strings.HasSuffix(m.statusMsg, "done") || strings.Contains(m.statusMsg, "copied") ||
			strings.HasPrefix(m.statusMsg, "Saved") {
			right = styleSuccess.Render(m.statusMsg)
		} else {
			right = m.statusMsg
		}
	} else {
		right = styleSubtle.Render("1-5 analyses | e edit | l examples | ? help | q quit")
	}

	// Center spacing
	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

// updateViewport resizes every viewport to the window
func (m *Model) updateViewport() {
	sourceWidth, outputWidth := m.paneWidths()
	paneHeight := m.height - MainViewHeightOffset

	m.sourceView.Width = sourceWidth
	m.sourceView.Height = paneHeight
	m.outputView.Width = outputWidth
	m.outputView.Height = paneHeight

	m.editor.SetWidth(sourceWidth)
	m.editor.SetHeight(paneHeight)

	m.overlayView.Width = m.width - ModalWidthMarginNarrow - ViewportPaddingHorizontal
	m.overlayView.Height = m.height - ModalHeightMarginMed - ModalOverheadLines - ModalFooterLines

	m.helpView.Width = m.width - ModalWidthMarginNarrow - ViewportPaddingHorizontal
	m.helpView.Height = m.height - ModalHeightMarginMed - ModalOverheadLines - ModalFooterLines
}

// refreshViews copies the workbench regions into the pane viewports
func (m *Model) refreshViews() {
	m.sourceView.SetContent(m.sourceContent())
	m.outputView.SetContent(m.outputContent())
	if m.mode == ModeOverlay {
		m.updateOverlayView()
	}
}

// sourceContent highlights the source buffer and decorates it with line numbers
func (m *Model) sourceContent() string {
	units := render.Lines(highlightSource(m.wb.Source().Text()))
	if m.showLineNumbers {
		units = render.Numbered(units)
	}
	return render.Join(units)
}

// outputContent converts server markup in the primary output to terminal styles
func (m *Model) outputContent() string {
	region := m.wb.Tracker().Region()
	return wrapText(m.markup.Convert(region.Text()), m.outputView.Width)
}

// overlayText returns the text of the selected view of o
func (m *Model) overlayText(o *workbench.Overlay) string {
	switch m.overlayPane {
	case paneGlobal:
		return o.Global().Text()
	case paneMachines:
		return o.Machines().Text()
	default:
		return o.Output().Text()
	}
}

// updateOverlayView fills the overlay viewport with the selected view
func (m *Model) updateOverlayView() {
	o := m.wb.Overlays().Get(m.overlayKind)
	text := m.overlayText(o)
	if text == "" {
		text = styleSubtle.Render("(empty)")
	}
	m.overlayView.SetContent(wrapText(m.markup.Convert(text), m.overlayView.Width))
}

// updateHistoryView fills the history list and preview viewports
func (m *Model) updateHistoryView() {
	modalWidth := m.width - ModalWidthMargin
	listWidth := int(float64(modalWidth-SplitPaneBorderWidth) * SplitViewEqual)
	if !m.historyState.GetPreviewVisible() {
		listWidth = modalWidth
	}

	m.modalView.Width = listWidth - ViewportPaddingHorizontal
	m.modalView.Height = m.height - ModalHeightMargin - ModalOverheadLines - ModalFooterLines

	entries := m.historyState.GetEntries()
	index := m.historyState.GetIndex()

	var content strings.Builder
	if len(entries) == 0 {
		content.WriteString(styleSubtle.Render("No history entries"))
	}
	for i, e := range entries {
		outcomeStyle := styleSuccess
		if e.Outcome != types.OutcomeLabel(types.TextOutcome{}) {
			outcomeStyle = styleError
		}
		line := fmt.Sprintf("%s %-9s %s", e.Timestamp.Format("01-02 15:04:05"), e.Action, outcomeStyle.Render(e.Outcome))
		if e.Elapsed != "" {
			line += styleSubtle.Render(" " + e.Elapsed)
		}
		if i == index {
			line = styleSelected.Render(line)
		}
		content.WriteString(line + "\n")
	}

	yOffset := m.modalView.YOffset
	m.modalView.SetContent(content.String())
	switch {
	case index < yOffset:
		m.modalView.SetYOffset(index)
	case index >= yOffset+m.modalView.Height:
		m.modalView.SetYOffset(index - m.modalView.Height + 1)
	default:
		m.modalView.SetYOffset(yOffset)
	}

	preview := m.historyState.GetPreviewView()
	preview.Width = modalWidth - listWidth - SplitPaneBorderWidth - ViewportPaddingHorizontal
	preview.Height = m.modalView.Height
	if entry := m.historyState.GetCurrentEntry(); entry != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", styleTitle.Render(entry.Action.Description()))
		if entry.Kind != "" {
			fmt.Fprintf(&b, "Kind: %s\n", entry.Kind)
		}
		fmt.Fprintf(&b, "Server: %s\n\n", entry.Server)
		b.WriteString(m.markup.Convert(entry.Result))
		preview.SetContent(wrapText(b.String(), preview.Width))
	} else {
		preview.SetContent("")
	}
	preview.GotoTop()
}

// wrapText wraps long lines to fit within width, breaking at word boundaries
// when possible and hard-wrapping what is still too long
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wrap.String(wordwrap.String(text, width), width)
}
