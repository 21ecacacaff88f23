package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal  Context = "global"  // Available everywhere
	ContextNormal  Context = "normal"  // Main view with source and output panes
	ContextEditor  Context = "editor"  // Source buffer editing
	ContextOverlay Context = "overlay" // Gong and synthesis result overlays
	ContextPicker  Context = "picker"  // Example and channel pickers
	ContextHistory Context = "history" // History browser
	ContextHelp    Context = "help"    // Help viewer
	ContextModal   Context = "modal"   // Generic modal (error detail)
)

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"    // Move up one line or item
	ActionNavigateDown   Action = "navigate_down"  // Move down one line or item
	ActionPageUp         Action = "page_up"        // Move up one page
	ActionPageDown       Action = "page_down"      // Move down one page
	ActionHalfPageUp     Action = "half_page_up"   // Move up half page (ctrl+u)
	ActionHalfPageDown   Action = "half_page_down" // Move down half page (ctrl+d)
	ActionGoToTop        Action = "go_to_top"      // Go to top
	ActionGoToBottom     Action = "go_to_bottom"   // Go to bottom
	ActionSwitchFocus    Action = "switch_focus"   // Switch focus between source and output panes
	ActionSwitchView     Action = "switch_view"    // Cycle result, global and machines views
	ActionSelect         Action = "select"         // Confirm the highlighted item
	ActionCloseModal     Action = "close_modal"    // Close current modal or overlay
	ActionEditorExit     Action = "editor_exit"    // Leave the source editor
	ActionToggleLineNums Action = "toggle_line_numbers"

	// Analysis actions
	ActionRunSSA       Action = "run_ssa"       // Extract SSA structural form
	ActionRunCFSM      Action = "run_cfsm"      // Extract communicating state machines
	ActionRunMiGo      Action = "run_migo"      // Infer MiGo types
	ActionRunGong      Action = "run_gong"      // Run Gong on displayed MiGo types
	ActionRunSynthesis Action = "run_synthesis" // Synthesise global graph from displayed CFSMs

	// Workbench actions
	ActionEditSource      Action = "edit_source"       // Focus the source editor
	ActionOpenExamples    Action = "open_examples"     // Open example picker
	ActionOpenChannels    Action = "open_channels"     // Open synthesis channel picker
	ActionRefreshCatalog  Action = "refresh_catalog"   // Re-read examples and channels from the server
	ActionCopyToClipboard Action = "copy_to_clipboard" // Copy displayed output
	ActionSaveGraph       Action = "save_graph"        // Save CFSM graph or synthesis view
	ActionShowOverlay     Action = "show_overlay"      // Reopen the last dismissed overlay
	ActionOpenHistory     Action = "open_history"      // Open history browser
	ActionOpenHelp        Action = "open_help"         // Open help viewer
	ActionOpenErrorDetail Action = "open_error_detail" // Show full text of the last error

	// History actions
	ActionHistoryView   Action = "history_view"   // Show the selected entry
	ActionHistoryDelete Action = "history_delete" // Delete the selected entry
	ActionHistoryClear  Action = "history_clear"  // Clear history

	// Other actions
	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:            {ActionQuit, "Quit application", "Global"},
	ActionQuitForce:       {ActionQuitForce, "Force quit", "Global"},
	ActionNavigateUp:      {ActionNavigateUp, "Move up", "Navigation"},
	ActionNavigateDown:    {ActionNavigateDown, "Move down", "Navigation"},
	ActionPageUp:          {ActionPageUp, "Page up", "Navigation"},
	ActionPageDown:        {ActionPageDown, "Page down", "Navigation"},
	ActionHalfPageUp:      {ActionHalfPageUp, "Half page up", "Navigation"},
	ActionHalfPageDown:    {ActionHalfPageDown, "Half page down", "Navigation"},
	ActionGoToTop:         {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToBottom:      {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionSwitchFocus:     {ActionSwitchFocus, "Switch pane", "Navigation"},
	ActionSwitchView:      {ActionSwitchView, "Next view", "Navigation"},
	ActionSelect:          {ActionSelect, "Select", "Navigation"},
	ActionCloseModal:      {ActionCloseModal, "Close", "Navigation"},
	ActionEditorExit:      {ActionEditorExit, "Leave editor", "Editor"},
	ActionToggleLineNums:  {ActionToggleLineNums, "Toggle line numbers", "View"},
	ActionRunSSA:          {ActionRunSSA, "Show SSA", "Analysis"},
	ActionRunCFSM:         {ActionRunCFSM, "Extract CFSMs", "Analysis"},
	ActionRunMiGo:         {ActionRunMiGo, "Infer MiGo types", "Analysis"},
	ActionRunGong:         {ActionRunGong, "Run Gong (needs MiGo)", "Analysis"},
	ActionRunSynthesis:    {ActionRunSynthesis, "Synthesise (needs CFSM)", "Analysis"},
	ActionEditSource:      {ActionEditSource, "Edit source", "Editor"},
	ActionOpenExamples:    {ActionOpenExamples, "Load example", "Workbench"},
	ActionOpenChannels:    {ActionOpenChannels, "Select channel count", "Workbench"},
	ActionRefreshCatalog:  {ActionRefreshCatalog, "Refresh examples", "Workbench"},
	ActionCopyToClipboard: {ActionCopyToClipboard, "Copy output", "Output"},
	ActionSaveGraph:       {ActionSaveGraph, "Save graph", "Output"},
	ActionShowOverlay:     {ActionShowOverlay, "Reopen overlay", "Output"},
	ActionOpenHistory:     {ActionOpenHistory, "History", "Information"},
	ActionOpenHelp:        {ActionOpenHelp, "Help", "Information"},
	ActionOpenErrorDetail: {ActionOpenErrorDetail, "Error detail", "Information"},
	ActionHistoryView:     {ActionHistoryView, "View entry", "History"},
	ActionHistoryDelete:   {ActionHistoryDelete, "Delete entry", "History"},
	ActionHistoryClear:    {ActionHistoryClear, "Clear history", "History"},
	ActionNoOp:            {ActionNoOp, "Ignore key", "Other"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is one the workbench handles
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	return action == ActionQuitForce
}
