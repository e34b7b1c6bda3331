// Package message defines the translatable-message model shared by the
// extraction and generation pipelines.
//
// A Message is an ordered sequence of pieces. Each piece is either a literal
// string, a positional placeholder into the message's argument list, or a
// nested sub-message (a plural/gender/select construct whose cases are
// themselves piece sequences). Pieces are a tagged variant so that rendering
// and reconstruction can switch over Kind exhaustively.
package message

import (
	"errors"
	"fmt"
)

// PieceKind discriminates the variants of a Piece.
type PieceKind int

const (
	// Literal is a verbatim text fragment.
	Literal PieceKind = iota
	// Placeholder is a 0-based index into the message's Arguments.
	Placeholder
	// Sub is a nested plural/gender/select construct.
	Sub
)

func (k PieceKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Placeholder:
		return "placeholder"
	case Sub:
		return "submessage"
	default:
		return fmt.Sprintf("piecekind(%d)", int(k))
	}
}

// Piece is one fragment of a message body. Exactly one of the payload fields
// is meaningful, selected by Kind.
type Piece struct {
	Kind  PieceKind
	Text  string      // Kind == Literal
	Index int         // Kind == Placeholder
	Sub   *SubMessage // Kind == Sub
}

// Lit returns a literal piece.
func Lit(text string) Piece { return Piece{Kind: Literal, Text: text} }

// Arg returns a placeholder piece referencing argument index i.
func Arg(i int) Piece { return Piece{Kind: Placeholder, Index: i} }

// Nested returns a sub-message piece.
func Nested(sub *SubMessage) Piece { return Piece{Kind: Sub, Sub: sub} }

// SelectorType names the flavor of a sub-message.
type SelectorType string

const (
	SelectorPlural SelectorType = "plural"
	SelectorGender SelectorType = "gender"
	SelectorSelect SelectorType = "select"
)

// SubMessage is a selector construct. The controlling argument is referenced
// by index, like a placeholder. Cases are kept in source order so rendering
// is deterministic.
type SubMessage struct {
	Type  SelectorType
	Arg   int
	Cases []Case
}

// Case is one selector category and its piece sequence.
type Case struct {
	Category string
	Pieces   []Piece
}

// Message is one translatable unit, identified by a project-unique id.
type Message struct {
	// ID is the stable identity used as the interchange key.
	ID string

	// Pieces is the ordered message body. A message with no pieces is
	// invalid and is filtered out rather than emitted.
	Pieces []Piece

	// Arguments lists argument names in order; placeholder pieces index
	// into it.
	Arguments []string

	// Description is optional translator context.
	Description string

	// Examples maps an argument name to example values shown to
	// translators.
	Examples map[string][]string

	// Position records where the message was extracted from
	// (pkgpath/file.go:line:col), empty for reconstructed messages.
	Position string
}

// ErrEmpty reports a message with no pieces.
var ErrEmpty = errors.New("message has no pieces")

// Validate checks the structural invariants: at least one piece, and every
// placeholder index (including those inside sub-messages) within the
// argument list.
func (m *Message) Validate() error {
	if len(m.Pieces) == 0 {
		return fmt.Errorf("message %q: %w", m.ID, ErrEmpty)
	}
	return validPieces(m.ID, m.Pieces, len(m.Arguments))
}

func validPieces(id string, pieces []Piece, nargs int) error {
	for _, p := range pieces {
		switch p.Kind {
		case Literal:
		case Placeholder:
			if p.Index < 0 || p.Index >= nargs {
				return fmt.Errorf("message %q: placeholder index %d out of range (%d arguments)", id, p.Index, nargs)
			}
		case Sub:
			if p.Sub == nil {
				return fmt.Errorf("message %q: nil submessage", id)
			}
			if p.Sub.Arg < 0 || p.Sub.Arg >= nargs {
				return fmt.Errorf("message %q: selector argument index %d out of range (%d arguments)", id, p.Sub.Arg, nargs)
			}
			for _, c := range p.Sub.Cases {
				if err := validPieces(id, c.Pieces, nargs); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("message %q: unknown piece kind %v", id, p.Kind)
		}
	}
	return nil
}

// PlaceholderCount returns the number of placeholder pieces, including those
// nested in sub-message cases.
func (m *Message) PlaceholderCount() int {
	return countPlaceholders(m.Pieces)
}

func countPlaceholders(pieces []Piece) int {
	n := 0
	for _, p := range pieces {
		switch p.Kind {
		case Placeholder:
			n++
		case Sub:
			if p.Sub != nil {
				for _, c := range p.Sub.Cases {
					n += countPlaceholders(c.Pieces)
				}
			}
		}
	}
	return n
}

// HasSelector reports whether any piece (at any depth) is a sub-message.
func (m *Message) HasSelector() bool {
	for _, p := range m.Pieces {
		if p.Kind == Sub {
			return true
		}
	}
	return false
}
