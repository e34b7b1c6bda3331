// Package interchange implements the on-disk JSON contract between the
// extraction and generation pipelines: one top-level object per file, keyed
// by message id, with per-id records carrying the ICU translation text and
// optional translator metadata.
package interchange

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Record is the per-message payload. Only Translation is consumed on the
// generation side; Context and Notes exist for translators.
type Record struct {
	Translation string `json:"translation"`
	Context     string `json:"context,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Document is a parsed interchange file. Values are kept raw so that
// metadata-only entries (null or non-string translation, non-object
// payloads) can be recognized and skipped instead of failing the decode.
type Document map[string]json.RawMessage

// Parse decodes an interchange file. Malformed JSON is an error; malformed
// individual records are not (they surface as skips via Record).
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("interchange: %w", err)
	}
	return doc, nil
}

// ParseFile reads and decodes the interchange file at path.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Record extracts the record for id. ok is false when the entry is
// metadata-only: the payload is not a JSON object, or its translation field
// is absent, null, or not a string. Those entries are skipped, not errors.
func (d Document) Record(id string) (Record, bool) {
	raw, exists := d[id]
	if !exists {
		return Record{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, false
	}
	trans, exists := fields["translation"]
	// Unmarshal treats null as a no-op, so it needs its own check.
	if !exists || string(trans) == "null" {
		return Record{}, false
	}
	var r Record
	if err := json.Unmarshal(trans, &r.Translation); err != nil {
		// Non-string translation: metadata-only.
		return Record{}, false
	}
	if ctx, ok := fields["context"]; ok {
		json.Unmarshal(ctx, &r.Context)
	}
	if notes, ok := fields["notes"]; ok {
		json.Unmarshal(notes, &r.Notes)
	}
	return r, true
}

// IDs returns the document's message ids in sorted order, so that callers
// iterating a document behave deterministically.
func (d Document) IDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Encode serializes an id→record map as pretty-printed JSON with two-space
// indentation.
func Encode(records map[string]Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("interchange: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile encodes records and writes them to path, creating or
// overwriting it. The write is whole-file and not atomic; a crash mid-write
// can truncate the output, which is acceptable for a build-time tool.
func WriteFile(path string, records map[string]Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("interchange: write %s: %w", path, err)
	}
	return nil
}
