package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/studiowebux/workbench/internal/keybinds"
)

// helpSections lists the contexts shown in the help viewer, in order
var helpSections = []struct {
	title   string
	context keybinds.Context
}{
	{"Main view", keybinds.ContextNormal},
	{"Source editor", keybinds.ContextEditor},
	{"Result overlays", keybinds.ContextOverlay},
	{"Example and channel pickers", keybinds.ContextPicker},
	{"History", keybinds.ContextHistory},
}

const helpIntro = `# Analysis Workbench

Edit a Go program in the source pane and send it to the analysis server.
The output pane is tagged with the kind of result it shows:

| Tag | Produced by | Unlocks |
|-----|-------------|---------|
| Go SSA | SSA extraction | |
| CFSM | state machine extraction | synthesis |
| MiGo | MiGo type inference | Gong |

Gong and synthesis always read the output pane as it is displayed, so they
are only available while it holds the matching kind. Loading an example
replaces the source and clears the output.
`

// helpMarkdown builds the help page from the live key bindings
func helpMarkdown(r *keybinds.Registry) string {
	var b strings.Builder
	b.WriteString(helpIntro)

	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n## %s\n\n| Keys | Action |\n|------|--------|\n", s.title)
		seen := make(map[keybinds.Action]bool)
		for _, binding := range r.ListBindings(s.context) {
			if seen[binding.Action] || binding.Action == keybinds.ActionNoOp {
				continue
			}
			seen[binding.Action] = true
			keys := r.GetBindingString(s.context, binding.Action)
			fmt.Fprintf(&b, "| `%s` | %s |\n", strings.ReplaceAll(keys, "|", "\\|"), keybinds.GetActionInfo(binding.Action).Description)
		}
	}
	return b.String()
}

// updateHelpView renders the help markdown for the current width
func (m *Model) updateHelpView() {
	md := helpMarkdown(m.keybinds)

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.helpView.Width),
	)
	if err != nil {
		m.helpView.SetContent(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		m.logger.Debug("help rendering failed", "error", err)
		out = md
	}
	m.helpView.SetContent(out)
	m.helpView.GotoTop()
}
