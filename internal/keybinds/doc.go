/*
Package keybinds provides customizable keyboard binding management.

# Overview

Bindings are grouped by context. The TUI asks the registry for the action
bound to a key in its current context; unmatched keys fall back to the
global context.

Contexts:
  - global: available everywhere (ctrl+c)
  - normal: main view with the source and output panes
  - editor: source editing; every key but esc goes to the textarea
  - overlay: Gong and synthesis overlays
  - picker: example and channel pickers; printable keys go to the filter
  - history, help, modal: viewers

# Multi-key sequences

A binding made of one key repeated ("gg") is matched in two strokes.
The first stroke is held as partial state by MatchMultiKey.

# Configuration File Format

~/.workbench/keybinds.json maps keys to action names per context. Comments
and trailing commas are allowed:

	{
	  "version": "1.0",
	  "normal": {
	    "x": "run_cfsm",   // extract CFSMs with x
	    "2": "noop",
	  },
	  "overlay": {
	    "backspace": "close_modal"
	  }
	}

User bindings are applied over the defaults. Validator reports printable keys
bound in text-input contexts as conflicts, and warns about shadowed global
keys, unreachable single keys and unknown actions.
*/
package keybinds
