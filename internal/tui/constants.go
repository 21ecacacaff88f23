package tui

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin       = 6  // Standard horizontal margin (m.width - 6)
	ModalHeightMargin      = 3  // Standard vertical margin (m.height - 3)
	ModalWidthMarginNarrow = 10 // Narrow horizontal margin for focused modals (m.width - 10)
	ModalHeightMarginSmall = 2  // Small vertical margin (m.height - 2)
	ModalHeightMarginMed   = 4  // Medium vertical margin (m.height - 4)

	// Viewport Padding and Borders
	ViewportBorderWidth       = 2 // Width consumed by borders
	ViewportPaddingHorizontal = 4 // Horizontal padding (left + right)
	ViewportPaddingVertical   = 2 // Vertical padding (top + bottom)

	// Main view: status bar (1) + timing line (1) + pane borders (2) + pane title (1)
	MainViewHeightOffset = 5

	// Modal Content Calculations
	ModalOverheadLines   = 6 // Title (2) + padding (2) + border (2)
	ModalOverheadMinimal = 4 // Border + title for minimal modals
	ModalFooterLines     = 2 // Footer + blank line

	// Split View Ratios
	SplitViewEqual = 0.5 // Equal 50/50 split for split-pane modals

	// Split Pane Layout
	SplitPaneBorderWidth = 3 // Border width between split panes

	// Source pane takes this share of the width; the output pane gets the rest
	SourcePaneWidthRatio = 0.5
)
