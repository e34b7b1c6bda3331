package extract

import (
	"strings"

	"intlpipe/internal/icu"
	"intlpipe/internal/interchange"
	"intlpipe/internal/message"
)

// Normalizer converts extracted messages into interchange records.
type Normalizer struct {
	// SuppressMetadata drops context and notes, emitting only the
	// translation text.
	SuppressMetadata bool
}

// Record renders m to its interchange form. ok is false when the message has
// no pieces: nothing to emit, filtered rather than failed. A malformed piece
// is an *icu.IllegalInterpolationError, which is fatal for the whole run.
func (n *Normalizer) Record(m *message.Message) (interchange.Record, bool, error) {
	if len(m.Pieces) == 0 {
		return interchange.Record{}, false, nil
	}
	text, err := icu.Render(m)
	if err != nil {
		return interchange.Record{}, false, err
	}
	rec := interchange.Record{Translation: text}
	if !n.SuppressMetadata {
		if m.Description != "" {
			rec.Context = m.Description
		}
		rec.Notes = notes(m)
	}
	return rec, true, nil
}

// notes builds the translator notes block: for each argument that has
// examples, a header line followed by one line per example value, all joined
// with newlines. Arguments are visited in declaration order.
func notes(m *message.Message) string {
	var lines []string
	for _, arg := range m.Arguments {
		examples := m.Examples[arg]
		if len(examples) == 0 {
			continue
		}
		lines = append(lines, "Examples for "+arg+":")
		lines = append(lines, examples...)
	}
	return strings.Join(lines, "\n")
}
