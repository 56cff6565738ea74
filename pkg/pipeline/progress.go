package pipeline

import (
	"fmt"
	"io"
)

// Verbosity levels. Level 0 is silent, 1 narrates stage boundaries, 2 adds
// top-ranked result summaries, 3 adds per-chain detail. Verbosity only ever
// affects narration, never error content.
const (
	VerbositySilent  = 0
	VerbosityStages  = 1
	VerbositySummary = 2
	VerbosityDetail  = 3
)

// narrationRank is the summary length printed at VerbositySummary and above.
const narrationRank = 5

// Narrator writes progress lines gated by the run's verbosity level.
type Narrator struct {
	w     io.Writer
	level int
}

// NewNarrator builds a narrator over w. A nil writer silences all output.
func NewNarrator(w io.Writer, level int) *Narrator {
	return &Narrator{w: w, level: level}
}

// Printf writes one narration line when the run's verbosity is at least
// level.
func (n *Narrator) Printf(level int, format string, args ...any) {
	if n == nil || n.w == nil || n.level < level {
		return
	}
	fmt.Fprintf(n.w, format+"\n", args...)
}

// Lines writes a block of indented lines at the given level.
func (n *Narrator) Lines(level int, lines []string) {
	for _, line := range lines {
		n.Printf(level, "  %s", line)
	}
}
