package icu

import (
	"fmt"
	"strings"

	"intlpipe/internal/message"
)

// Parsed is the result of parsing ICU text: the recovered piece sequence and
// the argument names in order of first appearance. Placeholder pieces index
// into Args.
type Parsed struct {
	Pieces []message.Piece
	Args   []string
}

// EmptyLiteral reports whether the parse matched nothing meaningful: no
// pieces, or a single empty literal. The full grammar degenerates to this on
// some plain-text inputs, which is the caller's cue to retry with
// ParseLiteral.
func (p *Parsed) EmptyLiteral() bool {
	if len(p.Pieces) == 0 {
		return true
	}
	return len(p.Pieces) == 1 && p.Pieces[0].Kind == message.Literal && p.Pieces[0].Text == ""
}

// Message converts the parse result into a Message with the given id.
func (p *Parsed) Message(id string) *message.Message {
	return &message.Message{ID: id, Pieces: p.Pieces, Arguments: p.Args}
}

// ParseError reports malformed ICU syntax with the byte offset of the
// failure.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("icu: parse error at offset %d: %s", e.Pos, e.Msg)
}

// selectorKeywords maps ICU keywords to selector types. "selectordinal" is
// accepted on input and treated as a plural.
var selectorKeywords = map[string]message.SelectorType{
	"plural":        message.SelectorPlural,
	"select":        message.SelectorSelect,
	"gender":        message.SelectorGender,
	"selectordinal": message.SelectorPlural,
}

// ParseFull parses text with the full ICU message grammar: quoted literals,
// {arg} placeholders, and nested {arg, plural|select|gender, cat {...} ...}
// selectors.
func ParseFull(text string) (*Parsed, error) {
	p := &parser{input: text, argIdx: map[string]int{}}
	pieces, err := p.parseMessage(0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.input) {
		return nil, &ParseError{Pos: p.pos, Msg: "unmatched '}'"}
	}
	return &Parsed{Pieces: pieces, Args: p.args}, nil
}

// ParseLiteral parses text as plain content with placeholder substitution
// only: {name} becomes a placeholder, everything else (including apostrophes
// and stray braces) is literal. It cannot fail.
func ParseLiteral(text string) *Parsed {
	p := &parser{input: text, argIdx: map[string]int{}}
	var pieces []message.Piece
	var lit strings.Builder
	for p.pos < len(p.input) {
		if p.input[p.pos] == '{' {
			if name, end, ok := scanPlaceholder(p.input, p.pos); ok {
				if lit.Len() > 0 {
					pieces = append(pieces, message.Lit(lit.String()))
					lit.Reset()
				}
				pieces = append(pieces, message.Arg(p.intern(name)))
				p.pos = end
				continue
			}
		}
		lit.WriteByte(p.input[p.pos])
		p.pos++
	}
	if lit.Len() > 0 {
		pieces = append(pieces, message.Lit(lit.String()))
	}
	return &Parsed{Pieces: pieces, Args: p.args}
}

// scanPlaceholder matches {ident} starting at pos and returns the name and
// the offset past the closing brace.
func scanPlaceholder(s string, pos int) (string, int, bool) {
	i := pos + 1
	start := i
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i == start || i >= len(s) || s[i] != '}' {
		return "", 0, false
	}
	return s[start:i], i + 1, true
}

type parser struct {
	input  string
	pos    int
	args   []string
	argIdx map[string]int
}

// intern returns the index for an argument name, appending it on first use.
func (p *parser) intern(name string) int {
	if i, ok := p.argIdx[name]; ok {
		return i
	}
	i := len(p.args)
	p.argIdx[name] = i
	p.args = append(p.args, name)
	return i
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

// parseMessage consumes pieces until end of input or, at depth > 0, an
// unconsumed '}' closing the enclosing case.
func (p *parser) parseMessage(depth int) ([]message.Piece, error) {
	var pieces []message.Piece
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			pieces = append(pieces, message.Lit(lit.String()))
			lit.Reset()
		}
	}
	for p.pos < len(p.input) {
		switch c := p.input[p.pos]; c {
		case '}':
			if depth > 0 {
				flush()
				return pieces, nil
			}
			return nil, &ParseError{Pos: p.pos, Msg: "unmatched '}'"}
		case '{':
			flush()
			piece, err := p.parseArgument()
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, piece)
		case '\'':
			text, err := p.parseQuoted()
			if err != nil {
				return nil, err
			}
			lit.WriteString(text)
		default:
			lit.WriteByte(c)
			p.pos++
		}
	}
	if depth > 0 {
		return nil, &ParseError{Pos: p.pos, Msg: "unexpected end of input inside submessage"}
	}
	flush()
	return pieces, nil
}

// parseQuoted handles the apostrophe rules: '' is a literal apostrophe; an
// apostrophe before an ICU metacharacter opens a quoted span that runs to
// the next single apostrophe; any other apostrophe is literal.
func (p *parser) parseQuoted() (string, error) {
	p.pos++ // opening '
	if p.pos >= len(p.input) {
		return "'", nil
	}
	if p.input[p.pos] == '\'' {
		p.pos++
		return "'", nil
	}
	if c := p.input[p.pos]; c != '{' && c != '}' && c != '#' {
		return "'", nil
	}
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\'' {
			if p.pos+1 < len(p.input) && p.input[p.pos+1] == '\'' {
				b.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", &ParseError{Pos: p.pos, Msg: "unterminated quote"}
}

// parseArgument consumes a {name} placeholder or a selector construct,
// starting at the opening brace.
func (p *parser) parseArgument() (message.Piece, error) {
	start := p.pos
	p.pos++ // opening {
	p.skipSpace()
	name := p.scanName()
	if name == "" {
		return message.Piece{}, &ParseError{Pos: p.pos, Msg: "expected argument name after '{'"}
	}
	p.skipSpace()
	switch p.peek() {
	case '}':
		p.pos++
		return message.Arg(p.intern(name)), nil
	case ',':
		p.pos++
	default:
		return message.Piece{}, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("expected '}' or ',' in argument started at offset %d", start)}
	}
	p.skipSpace()
	kw := p.scanName()
	sel, ok := selectorKeywords[kw]
	if !ok {
		return message.Piece{}, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unknown selector keyword %q", kw)}
	}
	p.skipSpace()
	if p.peek() != ',' {
		return message.Piece{}, &ParseError{Pos: p.pos, Msg: "expected ',' after selector keyword"}
	}
	p.pos++
	sub := &message.SubMessage{Type: sel, Arg: p.intern(name)}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			break
		}
		cat := p.scanCategory()
		if cat == "" {
			return message.Piece{}, &ParseError{Pos: p.pos, Msg: "expected selector category"}
		}
		p.skipSpace()
		if p.peek() != '{' {
			return message.Piece{}, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("expected '{' after category %q", cat)}
		}
		p.pos++
		body, err := p.parseMessage(1)
		if err != nil {
			return message.Piece{}, err
		}
		if p.peek() != '}' {
			return message.Piece{}, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unterminated case %q", cat)}
		}
		p.pos++
		sub.Cases = append(sub.Cases, message.Case{Category: cat, Pieces: body})
	}
	if len(sub.Cases) == 0 {
		return message.Piece{}, &ParseError{Pos: start, Msg: "selector with no cases"}
	}
	return message.Nested(sub), nil
}

func (p *parser) scanName() string {
	start := p.pos
	for p.pos < len(p.input) && isNameByte(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

// scanCategory accepts an identifier or an explicit-value category like =0.
func (p *parser) scanCategory() string {
	if p.peek() == '=' {
		start := p.pos
		p.pos++
		for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
		if p.pos == start+1 {
			p.pos = start
			return ""
		}
		return p.input[start:p.pos]
	}
	return p.scanName()
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
