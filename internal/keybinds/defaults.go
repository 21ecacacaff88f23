package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNormalModeBindings(r)
	registerEditorBindings(r)
	registerOverlayBindings(r)
	registerPickerBindings(r)
	registerHistoryBindings(r)
	registerHelpBindings(r)
	registerModalBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerScrollBindings sets up scrolling shared by every viewer
func registerScrollBindings(r *Registry, ctx Context) {
	r.RegisterMultiple(ctx, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ctx, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ctx, "pgup", ActionPageUp)
	r.Register(ctx, "pgdown", ActionPageDown)
	r.Register(ctx, "ctrl+u", ActionHalfPageUp)
	r.Register(ctx, "ctrl+d", ActionHalfPageDown)
	r.RegisterMultiple(ctx, []string{"gg", "home"}, ActionGoToTop)
	r.RegisterMultiple(ctx, []string{"G", "end"}, ActionGoToBottom)
}

// registerNormalModeBindings sets up keybindings for the main view
func registerNormalModeBindings(r *Registry) {
	r.Register(ContextNormal, "q", ActionQuit)
	r.Register(ContextNormal, "tab", ActionSwitchFocus)
	registerScrollBindings(r, ContextNormal)

	r.Register(ContextNormal, "1", ActionRunSSA)
	r.Register(ContextNormal, "2", ActionRunCFSM)
	r.Register(ContextNormal, "3", ActionRunMiGo)
	r.Register(ContextNormal, "4", ActionRunGong)
	r.Register(ContextNormal, "5", ActionRunSynthesis)

	r.RegisterMultiple(ContextNormal, []string{"e", "i"}, ActionEditSource)
	r.Register(ContextNormal, "l", ActionOpenExamples)
	r.Register(ContextNormal, "n", ActionOpenChannels)
	r.Register(ContextNormal, "r", ActionRefreshCatalog)
	r.Register(ContextNormal, "c", ActionCopyToClipboard)
	r.Register(ContextNormal, "s", ActionSaveGraph)
	r.Register(ContextNormal, "o", ActionShowOverlay)
	r.Register(ContextNormal, "#", ActionToggleLineNums)
	r.Register(ContextNormal, "H", ActionOpenHistory)
	r.Register(ContextNormal, "?", ActionOpenHelp)
	r.Register(ContextNormal, "E", ActionOpenErrorDetail)
}

// registerEditorBindings leaves every other key to the textarea
func registerEditorBindings(r *Registry) {
	r.Register(ContextEditor, "esc", ActionEditorExit)
}

func registerOverlayBindings(r *Registry) {
	r.RegisterMultiple(ContextOverlay, []string{"esc", "q"}, ActionCloseModal)
	r.Register(ContextOverlay, "tab", ActionSwitchView)
	r.Register(ContextOverlay, "c", ActionCopyToClipboard)
	r.Register(ContextOverlay, "s", ActionSaveGraph)
	registerScrollBindings(r, ContextOverlay)
}

// registerPickerBindings leaves printable keys to the filter input
func registerPickerBindings(r *Registry) {
	r.Register(ContextPicker, "esc", ActionCloseModal)
	r.Register(ContextPicker, "enter", ActionSelect)
	r.RegisterMultiple(ContextPicker, []string{"up", "ctrl+p"}, ActionNavigateUp)
	r.RegisterMultiple(ContextPicker, []string{"down", "ctrl+n"}, ActionNavigateDown)
	r.Register(ContextPicker, "pgup", ActionPageUp)
	r.Register(ContextPicker, "pgdown", ActionPageDown)
}

func registerHistoryBindings(r *Registry) {
	r.RegisterMultiple(ContextHistory, []string{"esc", "H", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextHistory, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHistory, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextHistory, "enter", ActionHistoryView)
	r.Register(ContextHistory, "d", ActionHistoryDelete)
	r.Register(ContextHistory, "C", ActionHistoryClear)
}

func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "?", "q"}, ActionCloseModal)
	registerScrollBindings(r, ContextHelp)
}

func registerModalBindings(r *Registry) {
	r.RegisterMultiple(ContextModal, []string{"esc", "q", "enter"}, ActionCloseModal)
	registerScrollBindings(r, ContextModal)
}
