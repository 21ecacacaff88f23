package render

import (
	"strings"
	"testing"
)

func TestRender_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		units int
	}{
		{name: "empty", text: "", units: 1},
		{name: "single line", text: "package main", units: 1},
		{name: "multi line", text: "a\nb\nc", units: 3},
		{name: "trailing newline", text: "a\nb\n", units: 3},
		{name: "only newlines", text: "\n\n", units: 3},
		{name: "markup", text: "<b>ch</b> <- 42\n<span style='color: red'>False</span>", units: 2},
		{name: "carriage return kept", text: "a\r\nb", units: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegion("out")
			r.Render(tt.text)

			if r.Len() != tt.units {
				t.Errorf("Len() = %d, want %d", r.Len(), tt.units)
			}
			if r.Len() != strings.Count(tt.text, LineSeparator)+1 {
				t.Errorf("Len() = %d, want line boundaries + 1", r.Len())
			}
			if got := r.Text(); got != tt.text {
				t.Errorf("Text() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestRender_ReplacesPriorContents(t *testing.T) {
	r := NewRegion("out")
	r.Render("one\ntwo\nthree")
	r.Render("four")

	units := r.Units()
	if len(units) != 1 || units[0] != "four" {
		t.Errorf("Units() = %q, want [four]", units)
	}
}

func TestRender_Idempotent(t *testing.T) {
	r := NewRegion("out")
	r.Render("x\ny\n")
	first := r.Units()
	r.Render("x\ny\n")
	second := r.Units()

	if Join(first) != Join(second) || len(first) != len(second) {
		t.Errorf("second render differs: %q vs %q", first, second)
	}
}

func TestRegion_UnitsIsCopy(t *testing.T) {
	r := NewRegion("out")
	r.Render("a\nb")
	units := r.Units()
	units[0] = "mutated"

	if r.Text() != "a\nb" {
		t.Errorf("Text() = %q, region mutated through Units()", r.Text())
	}
}

func TestNewRegion_Empty(t *testing.T) {
	r := NewRegion("go")
	if r.Name() != "go" {
		t.Errorf("Name() = %q, want go", r.Name())
	}
	if r.Text() != "" {
		t.Errorf("Text() = %q, want empty", r.Text())
	}
}

func TestNumbered(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "x"
	}
	got := Numbered(lines)

	if got[0] != " 1 │ x" {
		t.Errorf("Numbered()[0] = %q", got[0])
	}
	if got[9] != "10 │ x" {
		t.Errorf("Numbered()[9] = %q", got[9])
	}
}
