package interchange

import (
	"path/filepath"
	"strings"
)

// Locale derives the locale tag from a translated file's name: strip the
// extension, split on '_', drop the first segment, rejoin the rest.
// "app_messages_fr.json" yields "messages_fr". File names with underscores
// before the locale suffix therefore misparse; that behavior is a documented
// contract consumers rely on, so it is preserved rather than fixed. A name
// with no underscore yields "".
func Locale(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], "_")
}

// Translation is one id/text pair attributed to the file it came from.
type Translation struct {
	ID   string
	Text string
	File string
}

// Input pairs a translated file path with its parsed document.
type Input struct {
	Path string
	Doc  Document
}

// GroupByLocale merges all inputs sharing a locale. Within a locale, files
// contribute in input order and ids within a file in sorted order. A message
// id duplicated across files of one locale appends a second entry; there are
// no override semantics.
func GroupByLocale(inputs []Input) map[string][]Translation {
	grouped := make(map[string][]Translation)
	for _, in := range inputs {
		locale := Locale(in.Path)
		for _, id := range in.Doc.IDs() {
			rec, ok := in.Doc.Record(id)
			if !ok {
				continue
			}
			grouped[locale] = append(grouped[locale], Translation{ID: id, Text: rec.Translation, File: in.Path})
		}
	}
	return grouped
}
