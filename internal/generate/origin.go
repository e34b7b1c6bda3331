// Package generate implements the generation pipeline: read translated
// interchange files, reconstruct structured messages from their ICU text,
// group them by locale, and emit Go lookup code per locale.
package generate

import (
	"intlpipe/internal/message"
)

// OriginIndex maps message ids to their original (source-language)
// definitions. It is built once, up front, from a scan of the original
// sources and is immutable afterwards; reconstruction resolves against it in
// a single eager pass. The same id may carry several definitions when it
// appears in more than one source file.
type OriginIndex struct {
	byID map[string][]*message.Message
}

// BuildOriginIndex indexes definitions by id, preserving encounter order
// within each id.
func BuildOriginIndex(defs []*message.Message) *OriginIndex {
	ix := &OriginIndex{byID: make(map[string][]*message.Message, len(defs))}
	for _, d := range defs {
		ix.byID[d.ID] = append(ix.byID[d.ID], d)
	}
	return ix
}

// Lookup returns all definitions recorded for id, or nil.
func (ix *OriginIndex) Lookup(id string) []*message.Message {
	return ix.byID[id]
}

// Primary returns the first definition recorded for id, or nil.
func (ix *OriginIndex) Primary(id string) *message.Message {
	if defs := ix.byID[id]; len(defs) > 0 {
		return defs[0]
	}
	return nil
}

// Len returns the number of distinct ids in the index.
func (ix *OriginIndex) Len() int { return len(ix.byID) }
