/*
Package tui implements the terminal front end of the workbench.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: owns a workbench.Workbench plus the panes and selectors around it
  - Update: processes key presses and action completions
  - View: renders the source pane, the output pane, the timing line and overlays

# Key Components

  - model.go: Model struct, modes and message types
  - keys.go: keyboard input handling and keybind routing
  - actions.go: side effects (dispatch, history, clipboard, exports)
  - render.go, modals.go, help.go: view rendering

# Action Lifecycle

Every analysis goes through three steps:
  - Begin runs on the event loop. A chained action whose required output
    is not displayed is refused here and nothing else happens.
  - Dispatch runs in a tea.Cmd goroutine and only performs the HTTP call.
  - Complete runs on the event loop when actionDoneMsg arrives. Replies
    older than the latest request of their lane are dropped.

Gong and synthesis results open overlays. Each overlay is dismissed on its
own; the other one stays visible.

# Threading Model

Only the request and the dispatcher are touched off the event loop. Display
regions, the artifact kind and the overlays are read and written from
Update alone, so they carry no locks. HistoryState keeps its own sync.RWMutex.
*/
package tui
