package extract

import (
	"fmt"
	"io"
)

// Warning is a recoverable issue found while scanning sources or processing
// records. Warnings never halt a run; they are accumulated and surfaced once
// at the end, and can be promoted to a failing exit code.
type Warning struct {
	Position string
	Message  string
}

func (w Warning) String() string {
	if w.Position == "" {
		return w.Message
	}
	return w.Position + ": " + w.Message
}

// Warnings collects warnings for one run.
type Warnings struct {
	list []Warning
}

// Addf records a warning at the given position.
func (w *Warnings) Addf(position, format string, args ...any) {
	w.list = append(w.list, Warning{Position: position, Message: fmt.Sprintf(format, args...)})
}

// Count returns the number of warnings collected so far.
func (w *Warnings) Count() int { return len(w.list) }

// All returns the collected warnings in order.
func (w *Warnings) All() []Warning { return w.list }

// Print writes every warning to out, one per line.
func (w *Warnings) Print(out io.Writer) {
	for _, warn := range w.list {
		fmt.Fprintf(out, "warning: %s\n", warn)
	}
}
