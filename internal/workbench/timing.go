package workbench

// TimingPrefix precedes the elapsed time in the timing line
const TimingPrefix = "Last operation completed in "

// Reporter displays or clears the elapsed time of the most recent operation
type Reporter interface {
	Report(elapsed string)
}

// Timing is the default Reporter, holding the text of the timing line
type Timing struct {
	text string
}

// Report sets the timing line, or clears it when elapsed is empty
func (t *Timing) Report(elapsed string) {
	if elapsed == "" {
		t.text = ""
		return
	}
	t.text = TimingPrefix + elapsed
}

// Text returns the current timing line
func (t *Timing) Text() string {
	return t.text
}
