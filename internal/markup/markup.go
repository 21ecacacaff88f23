// Package markup converts the small HTML subset the analysis server embeds in its
// output (coloured spans, bold, italic) into terminal styles.
package markup

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
)

// knownOpeners are the tag prefixes the server is known to emit
var knownOpeners = []string{"<span", "<b>", "<i>", "<strong>", "<em>", "<br"}

// HasMarkup reports whether s contains any tag the converter understands.
// Text without them is returned unchanged by Convert.
func HasMarkup(s string) bool {
	for _, o := range knownOpeners {
		if strings.Contains(s, o) {
			return true
		}
	}
	return false
}

// Converter renders markup with a lipgloss renderer
type Converter struct {
	renderer *lipgloss.Renderer
}

// New creates a converter. A nil renderer uses lipgloss' default renderer.
func New(renderer *lipgloss.Renderer) *Converter {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	return &Converter{renderer: renderer}
}

type frame struct {
	tag   string
	style lipgloss.Style
}

// Convert returns s with known tags replaced by terminal styles.
// Line boundaries are preserved, so the result splits into the same number of lines as Strip(s).
func (c *Converter) Convert(s string) string {
	if !HasMarkup(s) {
		return s
	}
	return walk(s, c.renderer.NewStyle(), func(text string, style lipgloss.Style) string {
		segments := strings.Split(text, "\n")
		for i, seg := range segments {
			if seg != "" {
				segments[i] = style.Render(seg)
			}
		}
		return strings.Join(segments, "\n")
	})
}

// Strip removes known tags and unescapes entities, keeping only the text
func Strip(s string) string {
	if !HasMarkup(s) {
		return s
	}
	return walk(s, lipgloss.NewStyle(), func(text string, _ lipgloss.Style) string {
		return text
	})
}

// walk tokenizes s and calls emit for each text run with the style in effect
func walk(s string, base lipgloss.Style, emit func(string, lipgloss.Style) string) string {
	var sb strings.Builder
	stack := []frame{{tag: "", style: base}}
	z := html.NewTokenizer(strings.NewReader(s))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return sb.String()
			}
			// Unparseable input: keep what was read so far plus the raw remainder
			sb.Write(z.Raw())
			return sb.String()

		case html.TextToken:
			sb.WriteString(emit(string(z.Text()), stack[len(stack)-1].style))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "br" {
				sb.WriteString("\n")
				continue
			}
			style := stack[len(stack)-1].style
			switch tag {
			case "b", "strong":
				style = style.Bold(true)
			case "i", "em":
				style = style.Italic(true)
			case "span":
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "style" {
						style = applyCSS(style, string(val))
					}
				}
			}
			if tt == html.StartTagToken {
				stack = append(stack, frame{tag: tag, style: style})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			// Pop to the matching opener; unmatched closers are ignored
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// applyCSS understands color, font-weight and font-style declarations
func applyCSS(style lipgloss.Style, css string) lipgloss.Style {
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)

		switch prop {
		case "color":
			style = style.Foreground(lipgloss.Color(value))
		case "background", "background-color":
			style = style.Background(lipgloss.Color(value))
		case "font-weight":
			style = style.Bold(value == "bold" || value == "700")
		case "font-style":
			style = style.Italic(value == "italic")
		case "text-decoration":
			style = style.Underline(strings.Contains(value, "underline"))
		}
	}
	return style
}
