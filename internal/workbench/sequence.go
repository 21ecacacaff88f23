package workbench

import (
	"fmt"

	"github.com/studiowebux/workbench/internal/types"
)

// Ordering decides what happens to completions that arrive out of dispatch order
type Ordering string

const (
	// OrderingDropStale drops a completion when a newer request on the same lane was dispatched
	OrderingDropStale Ordering = "drop-stale"

	// OrderingLastWriterWins applies every completion; the last to arrive overwrites
	OrderingLastWriterWins Ordering = "last-writer-wins"
)

// ParseOrdering validates an ordering name. Empty means OrderingDropStale.
func ParseOrdering(s string) (Ordering, error) {
	switch Ordering(s) {
	case "", OrderingDropStale:
		return OrderingDropStale, nil
	case OrderingLastWriterWins:
		return OrderingLastWriterWins, nil
	default:
		return "", fmt.Errorf("unknown ordering %q (want %s or %s)", s, OrderingDropStale, OrderingLastWriterWins)
	}
}

// sequencer hands out monotonic sequence numbers per lane
type sequencer struct {
	latest map[types.Lane]uint64
}

func newSequencer() *sequencer {
	return &sequencer{latest: make(map[types.Lane]uint64)}
}

func (s *sequencer) next(lane types.Lane) uint64 {
	s.latest[lane]++
	return s.latest[lane]
}

func (s *sequencer) isCurrent(lane types.Lane, seq uint64) bool {
	return s.latest[lane] == seq
}
