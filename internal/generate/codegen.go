package generate

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"intlpipe/internal/extract"
	"intlpipe/internal/icu"
)

// Emitter writes the generated Go lookup sources: one file per locale plus
// one index file that registers every locale.
type Emitter struct {
	// Dir is the output directory, created if missing.
	Dir string

	// Prefix names the generated files: <prefix>_<locale>.go and
	// <prefix>_all.go. Defaults to "messages".
	Prefix string

	// Package is the package clause of the generated files. Defaults to
	// Prefix.
	Package string

	// Mode is "release" or "debug"; debug annotates every entry with the
	// source position of its original definition.
	Mode string

	// Lazy selects the loading strategy: eager registration from init
	// functions, or loader functions invoked on first lookup.
	Lazy bool

	Warnings *extract.Warnings
}

const generatedHeader = "// Code generated by intlgen. DO NOT EDIT.\n\n"

func (e *Emitter) prefix() string {
	if e.Prefix == "" {
		return "messages"
	}
	return e.Prefix
}

func (e *Emitter) pkg() string {
	if e.Package == "" {
		return e.prefix()
	}
	return e.Package
}

// EmitLocale writes the lookup table for one locale and returns the file
// path. Entries are emitted in slice order as individual assignments, so an
// id duplicated within a locale produces duplicate entries (the later one
// wins at runtime), mirroring the append-only merge of the inputs.
func (e *Emitter) EmitLocale(locale string, msgs []*Translated) (string, error) {
	if len(msgs) == 0 && e.Warnings != nil {
		e.Warnings.Addf("", "locale %s: no translations survived reconstruction", locale)
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", e.pkg())

	fn := "load_" + identifier(locale)
	fmt.Fprintf(&b, "// Translations for locale %s.%s\n", locale, bcp47Note(locale))
	if e.Lazy {
		fmt.Fprintf(&b, "func init() {\n\tregisterLoader(%q, %s)\n}\n\n", locale, fn)
		fmt.Fprintf(&b, "func %s() map[string]string {\n", fn)
	} else {
		b.WriteString("func init() {\n")
	}
	fmt.Fprintf(&b, "\ttable := make(map[string]string, %d)\n", len(msgs))
	for _, t := range msgs {
		text, err := icu.Render(t.Msg)
		if err != nil {
			return "", fmt.Errorf("generate: locale %s: %w", locale, err)
		}
		if e.Mode == ModeDebug {
			for _, origin := range t.Origins {
				fmt.Fprintf(&b, "\t// %s\n", origin.Position)
			}
		}
		fmt.Fprintf(&b, "\ttable[%s] = %s\n", strconv.Quote(t.ID), strconv.Quote(text))
	}
	if e.Lazy {
		b.WriteString("\treturn table\n}\n")
	} else {
		fmt.Fprintf(&b, "\tregister(%q, table)\n}\n", locale)
	}

	path := filepath.Join(e.Dir, fmt.Sprintf("%s_%s.go", e.prefix(), identifier(locale)))
	if err := e.write(path, b.String()); err != nil {
		return "", err
	}
	return path, nil
}

// EmitIndex writes the aggregating file: the registry shared by all locale
// files and the public lookup surface.
func (e *Emitter) EmitIndex(locales []string) (string, error) {
	sorted := append([]string(nil), locales...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "// Package %s provides generated message lookup tables for %d locales.\n", e.pkg(), len(sorted))
	fmt.Fprintf(&b, "package %s\n\n", e.pkg())

	if e.Lazy {
		b.WriteString("import \"sync\"\n\n")
		b.WriteString("var (\n")
		b.WriteString("\tmu       sync.Mutex\n")
		b.WriteString("\tloaders  = map[string]func() map[string]string{}\n")
		b.WriteString("\tcatalogs = map[string]map[string]string{}\n")
		b.WriteString(")\n\n")
		b.WriteString("func registerLoader(locale string, load func() map[string]string) {\n\tloaders[locale] = load\n}\n\n")
		b.WriteString("// Lookup returns the translation for id in locale, loading the locale's\n")
		b.WriteString("// table on first use.\n")
		b.WriteString("func Lookup(locale, id string) (string, bool) {\n")
		b.WriteString("\tmu.Lock()\n\tdefer mu.Unlock()\n")
		b.WriteString("\ttable, ok := catalogs[locale]\n")
		b.WriteString("\tif !ok {\n")
		b.WriteString("\t\tload, exists := loaders[locale]\n")
		b.WriteString("\t\tif !exists {\n\t\t\treturn \"\", false\n\t\t}\n")
		b.WriteString("\t\ttable = load()\n")
		b.WriteString("\t\tcatalogs[locale] = table\n")
		b.WriteString("\t}\n")
		b.WriteString("\ttext, ok := table[id]\n\treturn text, ok\n}\n\n")
		b.WriteString("// Locales lists every generated locale tag.\n")
		b.WriteString("func Locales() []string {\n")
		writeLocaleSlice(&b, sorted)
		b.WriteString("}\n")
	} else {
		b.WriteString("var catalogs = map[string]map[string]string{}\n\n")
		b.WriteString("func register(locale string, table map[string]string) {\n\tcatalogs[locale] = table\n}\n\n")
		b.WriteString("// Lookup returns the translation for id in locale.\n")
		b.WriteString("func Lookup(locale, id string) (string, bool) {\n")
		b.WriteString("\ttable, ok := catalogs[locale]\n")
		b.WriteString("\tif !ok {\n\t\treturn \"\", false\n\t}\n")
		b.WriteString("\ttext, ok := table[id]\n\treturn text, ok\n}\n\n")
		b.WriteString("// Locales lists every generated locale tag.\n")
		b.WriteString("func Locales() []string {\n")
		writeLocaleSlice(&b, sorted)
		b.WriteString("}\n")
	}

	path := filepath.Join(e.Dir, fmt.Sprintf("%s_all.go", e.prefix()))
	if err := e.write(path, b.String()); err != nil {
		return "", err
	}
	return path, nil
}

func writeLocaleSlice(b *strings.Builder, locales []string) {
	b.WriteString("\treturn []string{")
	for i, l := range locales {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(l))
	}
	b.WriteString("}\n")
}

func (e *Emitter) write(path, src string) error {
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return fmt.Errorf("generate: format %s: %w", path, err)
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return fmt.Errorf("generate: write %s: %w", path, err)
	}
	return nil
}

// bcp47Note renders the canonical BCP 47 form of a locale tag for the
// generated file header, when the tag parses as one. Locale tags derived
// from file names often do not (e.g. "messages_fr"); those get no note.
func bcp47Note(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	if canonical := tag.String(); canonical != locale {
		return fmt.Sprintf(" BCP 47: %s.", canonical)
	}
	return ""
}

// identifier rewrites a locale tag so it is safe inside a Go identifier and
// file name.
func identifier(locale string) string {
	var b strings.Builder
	for _, r := range locale {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
