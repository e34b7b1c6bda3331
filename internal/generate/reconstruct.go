package generate

import (
	"intlpipe/internal/extract"
	"intlpipe/internal/icu"
	"intlpipe/internal/message"
)

// Translated is a reconstructed message for one locale, with its origin
// definitions resolved.
type Translated struct {
	ID     string
	Locale string

	// Msg holds the pieces and argument names recovered from the ICU
	// text.
	Msg *message.Message

	// Origins are the source-language definitions for ID, resolved
	// eagerly when the message is reconstructed. Empty when the id was
	// never extracted.
	Origins []*message.Message
}

// Reconstructor inverts ICU translation text back into structured messages.
type Reconstructor struct {
	Origins  *OriginIndex
	Warnings *extract.Warnings
}

// Reconstruct parses the ICU text for id. ok is false when the text yields
// no content; that is a skip, not an error. The full grammar is tried first;
// when it matches nothing meaningful (or does not parse at all, which plain
// prose with stray braces legitimately may not), the text is re-read as a
// literal with placeholder substitution only.
func (r *Reconstructor) Reconstruct(id, text, locale string) (*Translated, bool) {
	parsed, err := icu.ParseFull(text)
	if err != nil || parsed.EmptyLiteral() {
		parsed = icu.ParseLiteral(text)
	}
	if parsed.EmptyLiteral() {
		return nil, false
	}

	t := &Translated{
		ID:      id,
		Locale:  locale,
		Msg:     parsed.Message(id),
		Origins: r.Origins.Lookup(id),
	}
	r.checkArguments(t)
	return t, true
}

// checkArguments warns when a translation references argument names the
// original message never declared. The origin index is what recovers the
// original names; without an origin there is nothing to check against.
func (r *Reconstructor) checkArguments(t *Translated) {
	if len(t.Origins) == 0 {
		if r.Warnings != nil {
			r.Warnings.Addf("", "message %q (%s): no original definition found", t.ID, t.Locale)
		}
		return
	}
	known := make(map[string]bool)
	for _, origin := range t.Origins {
		for _, arg := range origin.Arguments {
			known[arg] = true
		}
	}
	for _, arg := range t.Msg.Arguments {
		if !known[arg] {
			if r.Warnings != nil {
				r.Warnings.Addf("", "message %q (%s): translation references unknown argument %q", t.ID, t.Locale, arg)
			}
		}
	}
}
