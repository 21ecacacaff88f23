package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightLanguage  = "go"
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// highlightSource colours Go source for the source pane.
// On any highlighter error the text is returned as is.
func highlightSource(src string) string {
	var sb strings.Builder
	if err := quick.Highlight(&sb, src, highlightLanguage, highlightFormatter, highlightStyle); err != nil {
		return src
	}
	out := sb.String()

	// The formatter may drop or add a final newline; keep the buffer's line count
	if strings.HasSuffix(src, "\n") != strings.HasSuffix(out, "\n") {
		if strings.HasSuffix(src, "\n") {
			out += "\n"
		} else {
			out = strings.TrimSuffix(out, "\n")
		}
	}
	return out
}
