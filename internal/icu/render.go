// Package icu renders message piece sequences to ICU message syntax and
// parses ICU text back into pieces.
//
// The renderer and parser are deliberately asymmetric: rendering starts from
// a validated message with an argument list, while parsing recovers the
// argument list from the text itself (arguments are interned in order of
// first appearance).
package icu

import (
	"fmt"
	"strings"

	"intlpipe/internal/message"
)

// IllegalInterpolationError reports a structurally malformed piece found
// while rendering: a placeholder out of range of the argument list, a nil
// sub-message, or an unknown piece kind. It is fatal for the whole run.
type IllegalInterpolationError struct {
	MessageID string
	Piece     message.Piece
	Reason    string
}

func (e *IllegalInterpolationError) Error() string {
	return fmt.Sprintf("illegal interpolation in message %q: %s (piece kind %v)", e.MessageID, e.Reason, e.Piece.Kind)
}

// Render produces the ICU text for m. Literal fragments pass through
// unescaped at the top level; inside a selector body every descendant is
// escaped, since it sits inside ICU syntax.
func Render(m *message.Message) (string, error) {
	var b strings.Builder
	if err := renderPieces(&b, m, m.Pieces, false); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderPieces(b *strings.Builder, m *message.Message, pieces []message.Piece, escape bool) error {
	for _, p := range pieces {
		switch p.Kind {
		case message.Literal:
			if escape {
				escapeTo(b, p.Text)
			} else {
				b.WriteString(p.Text)
			}
		case message.Placeholder:
			name, err := argName(m, p, p.Index)
			if err != nil {
				return err
			}
			b.WriteByte('{')
			b.WriteString(name)
			b.WriteByte('}')
		case message.Sub:
			if p.Sub == nil {
				return &IllegalInterpolationError{MessageID: m.ID, Piece: p, Reason: "nil submessage"}
			}
			name, err := argName(m, p, p.Sub.Arg)
			if err != nil {
				return err
			}
			b.WriteByte('{')
			b.WriteString(name)
			b.WriteByte(',')
			b.WriteString(keyword(p.Sub.Type))
			b.WriteByte(',')
			for _, c := range p.Sub.Cases {
				b.WriteByte(' ')
				b.WriteString(c.Category)
				b.WriteByte('{')
				// Everything below a selector is inside ICU syntax,
				// so escaping stays on for all descendants.
				if err := renderPieces(b, m, c.Pieces, true); err != nil {
					return err
				}
				b.WriteByte('}')
			}
			b.WriteByte('}')
		default:
			return &IllegalInterpolationError{MessageID: m.ID, Piece: p, Reason: "unrecognized piece kind"}
		}
	}
	return nil
}

func argName(m *message.Message, p message.Piece, idx int) (string, error) {
	if idx < 0 || idx >= len(m.Arguments) {
		return "", &IllegalInterpolationError{
			MessageID: m.ID,
			Piece:     p,
			Reason:    fmt.Sprintf("argument index %d out of range (%d arguments)", idx, len(m.Arguments)),
		}
	}
	return m.Arguments[idx], nil
}

// keyword maps a selector type to its ICU keyword. Gender messages are ICU
// select constructs.
func keyword(t message.SelectorType) string {
	if t == message.SelectorGender {
		return string(message.SelectorSelect)
	}
	return string(t)
}

// Escape quotes the ICU metacharacters in s: ' doubles, braces are wrapped
// in apostrophe pairs. It is applied once per nesting level and is not
// idempotent.
func Escape(s string) string {
	if !strings.ContainsAny(s, "'{}") {
		return s
	}
	var b strings.Builder
	escapeTo(&b, s)
	return b.String()
}

func escapeTo(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("''")
		case '{':
			b.WriteString("'{'")
		case '}':
			b.WriteString("'}'")
		default:
			b.WriteRune(r)
		}
	}
}
