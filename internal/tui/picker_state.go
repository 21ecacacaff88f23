package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/workbench/internal/executor"
)

// pickerKind selects what a picker chooses
type pickerKind int

const (
	pickExample pickerKind = iota
	pickChannel
)

func (k pickerKind) title() string {
	if k == pickChannel {
		return "Select Channel"
	}
	return "Load Example"
}

// PickerState is a fuzzy-filtered list of options
type PickerState struct {
	kind    pickerKind
	options []executor.Option
	matches []executor.Option
	index   int
	input   textinput.Model
	current string // value marked as active
}

// NewPickerState creates an empty picker
func NewPickerState() *PickerState {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "> "
	ti.CharLimit = 64
	return &PickerState{input: ti}
}

// Reset fills the picker and clears the query. Options listed in first are moved to the front.
func (p *PickerState) Reset(kind pickerKind, options []executor.Option, current string, first []string) {
	p.kind = kind
	p.current = current
	p.options = orderFirst(options, first)
	p.input.SetValue("")
	p.input.Focus()
	p.filter()
}

// Query returns the filter text
func (p *PickerState) Query() string {
	return p.input.Value()
}

// SetQuery replaces the filter text
func (p *PickerState) SetQuery(q string) {
	p.input.SetValue(q)
	p.filter()
}

// Matches returns the options matching the query, best first
func (p *PickerState) Matches() []executor.Option {
	return p.matches
}

// Index returns the selected position in Matches
func (p *PickerState) Index() int {
	return p.index
}

// Navigate moves the selection by delta, clamped to the match list
func (p *PickerState) Navigate(delta int) {
	if len(p.matches) == 0 {
		return
	}
	p.index += delta
	if p.index < 0 {
		p.index = 0
	}
	if p.index >= len(p.matches) {
		p.index = len(p.matches) - 1
	}
}

// Selected returns the highlighted option
func (p *PickerState) Selected() (executor.Option, bool) {
	if p.index < 0 || p.index >= len(p.matches) {
		return executor.Option{}, false
	}
	return p.matches[p.index], true
}

type optionLabels []executor.Option

func (o optionLabels) String(i int) string { return o[i].Label }
func (o optionLabels) Len() int            { return len(o) }

func (p *PickerState) filter() {
	p.index = 0
	q := p.input.Value()
	if q == "" {
		p.matches = p.options
		return
	}

	found := fuzzy.FindFrom(q, optionLabels(p.options))
	p.matches = make([]executor.Option, 0, len(found))
	for _, f := range found {
		p.matches = append(p.matches, p.options[f.Index])
	}
}

func orderFirst(options []executor.Option, first []string) []executor.Option {
	if len(first) == 0 {
		return options
	}
	out := make([]executor.Option, 0, len(options))
	used := make(map[int]bool)
	for _, v := range first {
		for i, o := range options {
			if !used[i] && o.Value == v {
				out = append(out, o)
				used[i] = true
				break
			}
		}
	}
	for i, o := range options {
		if !used[i] {
			out = append(out, o)
		}
	}
	return out
}
