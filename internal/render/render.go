// Package render writes multi-line text into named display regions.
package render

import (
	"strconv"
	"strings"
)

// LineSeparator splits text into renderable units
const LineSeparator = "\n"

// Region is a named display area holding one unit per line
type Region struct {
	name  string
	units []string
}

// NewRegion creates an empty region
func NewRegion(name string) *Region {
	return &Region{name: name, units: []string{""}}
}

// Name returns the region name
func (r *Region) Name() string {
	return r.name
}

// Render replaces the region contents with the lines of text.
// Text is not escaped.
func (r *Region) Render(text string) {
	r.units = Lines(text)
}

// Units returns a copy of the rendered units
func (r *Region) Units() []string {
	out := make([]string, len(r.units))
	copy(out, r.units)
	return out
}

// Len returns the number of rendered units
func (r *Region) Len() int {
	return len(r.units)
}

// Text re-joins the units, reproducing the rendered text exactly
func (r *Region) Text() string {
	return Join(r.units)
}

// Lines splits text on line boundaries.
// A trailing newline yields a trailing empty unit, and the empty string yields one empty unit.
func Lines(text string) []string {
	return strings.Split(text, LineSeparator)
}

// Join is the inverse of Lines
func Join(units []string) string {
	return strings.Join(units, LineSeparator)
}

// Numbered prefixes each unit with its 1-based line number, right-aligned
func Numbered(units []string) []string {
	width := len(strconv.Itoa(len(units)))
	out := make([]string, len(units))
	for i, u := range units {
		n := strconv.Itoa(i + 1)
		out[i] = strings.Repeat(" ", width-len(n)) + n + " │ " + u
	}
	return out
}
