package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/workbench/internal/workbench"
)

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	title := styleTitle.Render("Keyboard Shortcuts")
	footer := "↑/↓ j/k: scroll | ESC/?: close"

	// Footer is OUTSIDE the viewport so it stays visible
	fullContent := title + "\n\n" + m.helpView.View() + "\n\n" + styleSubtle.Render(footer)

	helpView := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width-ModalWidthMarginNarrow).
		Height(m.height-ModalHeightMarginMed).
		Padding(1, 2).
		Render(fullContent)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpView,
	)
}

// renderOverlay renders the result overlay on top of the screen
func (m *Model) renderOverlay() string {
	o := m.wb.Overlays().Get(m.overlayKind)

	title := styleTitle.Render(m.overlayKind.String())
	if m.overlayKind == workbench.OverlaySynthesis {
		title += styleSubtle.Render(" · " + m.overlayPane.String())
	}
	if elapsed := o.Artifact().Elapsed; elapsed != "" {
		title += styleSubtle.Render("  (" + elapsed + ")")
	}

	footer := "↑/↓ j/k: scroll | c: copy | s: save | ESC/q: close"
	if m.overlayKind == workbench.OverlaySynthesis {
		footer = "tab: output/global/machines | " + footer
	}
	other := workbench.OverlayCodegen
	if m.overlayKind == workbench.OverlayCodegen {
		other = workbench.OverlaySynthesis
	}
	if m.wb.Overlays().Visible(other) {
		footer += " | " + other.String() + " open below"
	}

	fullContent := title + "\n\n" + m.overlayView.View() + "\n\n" + styleSubtle.Render(footer)

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorGreen).
		Width(m.width-ModalWidthMarginNarrow).
		Height(m.height-ModalHeightMarginMed).
		Padding(1, 2).
		Render(fullContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderPicker renders the example or channel selector
func (m *Model) renderPicker() string {
	width := m.width / 2
	if width < 40 {
		width = min(40, m.width-ViewportPaddingHorizontal)
	}
	height := m.pickerPageSize() + ModalOverheadLines + ModalFooterLines + 2

	var content strings.Builder
	content.WriteString(m.picker.input.View() + "\n\n")

	matches := m.picker.Matches()
	if len(matches) == 0 {
		content.WriteString(styleSubtle.Render("No matches"))
	}

	pageSize := m.pickerPageSize()
	start := 0
	if m.picker.Index() >= pageSize {
		start = m.picker.Index() - pageSize + 1
	}
	end := min(start+pageSize, len(matches))

	for i := start; i < end; i++ {
		opt := matches[i]
		line := opt.Label
		if opt.Value != opt.Label {
			line += styleSubtle.Render(" (" + opt.Value + ")")
		}
		if opt.Value == m.picker.current {
			line += styleSuccess.Render(" [current]")
		}
		if i == m.picker.Index() {
			line = styleSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		content.WriteString(line + "\n")
	}

	footer := fmt.Sprintf("↑/↓: navigate | enter: select | esc: cancel [%d/%d]", len(matches), len(m.picker.options))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(styleTitle.Render(m.picker.kind.title()) + "\n\n" + content.String() + "\n" + styleSubtle.Render(footer))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// pickerPageSize is the number of options shown at once
func (m *Model) pickerPageSize() int {
	size := m.height - ModalHeightMarginMed - ModalOverheadLines - ModalFooterLines - 4
	if size > 15 {
		size = 15
	}
	if size < 3 {
		size = 3
	}
	return size
}

// min returns the smaller of two ints
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// renderHistory renders the history viewer modal with split view (Telescope-style)
func (m *Model) renderHistory() string {
	// Use nearly full screen but leave small margin
	modalWidth := m.width - ModalWidthMargin
	modalHeight := m.height - ModalHeightMargin

	var footerText string
	if m.historyState.GetSearchActive() {
		footerText = fmt.Sprintf("Search: %s█", m.historyState.GetSearchQuery())
		if len(m.historyState.GetEntries()) > 0 {
			footerText += fmt.Sprintf(" [%d results]", len(m.historyState.GetEntries()))
		}
	} else {
		footerText = "/: Search | ↑/↓ j/k: Navigate | p: Toggle Preview | d: Delete | C: Clear All | ESC/H/q: Close"

		if len(m.historyState.GetEntries()) > 0 {
			current := m.historyState.GetIndex() + 1
			total := len(m.historyState.GetEntries())
			footerText += fmt.Sprintf(" [%d/%d]", current, total)
		}
	}

	cfg := SplitPaneConfig{
		ModalWidth:       modalWidth,
		ModalHeight:      modalHeight,
		IsSplitView:      m.historyState.GetPreviewVisible(),
		LeftTitle:        "History",
		LeftContent:      m.modalView.View(),
		LeftBorderColor:  colorBlue,
		LeftIsFocused:    true,
		RightTitle:       "Result",
		RightContent:     m.historyState.GetPreviewView().View(),
		RightBorderColor: colorGreen,
		RightIsFocused:   false,
		Footer:           footerText,
		LeftWidthRatio:   SplitViewEqual,
	}

	return renderSplitPaneModal(cfg, m.width, m.height)
}

// renderHistoryClearConfirmation asks before wiping the history database
func (m *Model) renderHistoryClearConfirmation() string {
	count := len(m.historyState.GetEntries())
	content := styleWarning.Render(fmt.Sprintf("Delete all %d history entries?", count)) +
		"\n\nThis cannot be undone."
	return m.renderModalWithFooter("Clear History", content, "y: confirm | n/ESC: cancel", 50, 10)
}

// renderModalWithFooter renders a modal dialog with scrollable content and a fixed footer
func (m *Model) renderModalWithFooter(title, content, footer string, width, height int) string {
	// For small terminals, use almost full screen
	maxWidth := m.width - ViewportPaddingHorizontal
	maxHeight := m.height - ModalHeightMarginSmall

	if width > maxWidth {
		width = maxWidth
	}
	if height > maxHeight {
		height = maxHeight
	}

	footerLines := 0
	if footer != "" {
		footerLines = ModalFooterLines
	}
	contentHeight := height - ModalOverheadLines - footerLines
	if contentHeight < 1 {
		contentHeight = 1
	}

	m.modalView.Width = width - ViewportPaddingHorizontal
	if m.modalView.Width < 10 {
		m.modalView.Width = 10
	}
	m.modalView.Height = contentHeight

	// Save scroll before SetContent resets it
	savedOffset := m.modalView.YOffset
	m.modalView.SetContent(content)
	m.modalView.SetYOffset(savedOffset)

	fullContent := styleTitle.Render(title) + "\n\n" + m.modalView.View()
	if footer != "" {
		fullContent += "\n\n" + styleSubtle.Render(footer)
	}

	modalBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(fullContent)

	// Modal is full screen or nearly full screen
	if width >= m.width-2 || height >= m.height-1 {
		return modalBox
	}

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modalBox,
	)
}

func (m *Model) renderErrorDetailModal() string {
	width := m.width - ModalWidthMargin
	height := m.height - ModalOverheadMinimal
	if width < 50 {
		width = 50
	}
	if height < 10 {
		height = 10
	}

	contentWidth := width - ViewportPaddingHorizontal
	content := styleError.Render(wrapText(m.fullErrorMsg, contentWidth))

	return m.renderModalWithFooter("Error Details", content, "j/k: scroll | g/G: top/bottom | ESC: close", width, height)
}

func (m *Model) renderStatusDetailModal() string {
	width := m.width - ModalWidthMargin
	height := m.height - ModalHeightMarginSmall
	if width < 50 {
		width = 50
	}
	if height < 10 {
		height = 10
	}

	contentWidth := width - ViewportPaddingHorizontal
	return m.renderModalWithFooter("Status Message", wrapText(m.fullStatusMsg, contentWidth), "ESC: close", width, height)
}
