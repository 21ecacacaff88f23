package workbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTiming(t *testing.T) {
	var tm Timing
	assert.Equal(t, "", tm.Text())

	tm.Report("12ms")
	assert.Equal(t, "Last operation completed in 12ms", tm.Text())

	tm.Report("")
	assert.Equal(t, "", tm.Text())
}
