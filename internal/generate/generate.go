package generate

import (
	"fmt"
	"sort"

	"intlpipe/internal/extract"
	"intlpipe/internal/interchange"
)

// Generation modes.
const (
	ModeRelease = "release"
	ModeDebug   = "debug"
)

// Options configures one generation run.
type Options struct {
	// Files are the translated JSON inputs. Locale tags derive from their
	// names.
	Files []string

	// SourcePatterns are the Go packages holding the original translation
	// call-sites; they are rescanned to build the origin index.
	SourcePatterns []string

	// Functions is the translation call-site set, as for extraction.
	Functions []string

	Dir     string
	Prefix  string
	Package string
	Mode    string
	Lazy    bool
}

// Result reports what one run produced.
type Result struct {
	LocaleFiles []string
	IndexFile   string
	Locales     []string
	Warnings    *extract.Warnings
}

// Run executes the generation pipeline. All inputs are read eagerly before
// any processing; a file that is not valid JSON is fatal, while individual
// metadata-only or malformed records are skipped silently.
func Run(opts Options) (*Result, error) {
	if opts.Mode != "" && opts.Mode != ModeRelease && opts.Mode != ModeDebug {
		return nil, fmt.Errorf("generate: unknown mode %q", opts.Mode)
	}
	warnings := &extract.Warnings{}

	inputs := make([]interchange.Input, 0, len(opts.Files))
	for _, path := range opts.Files {
		doc, err := interchange.ParseFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, interchange.Input{Path: path, Doc: doc})
	}

	// Build the origin index before touching any translation, so back
	// references resolve in one pass.
	scanner := &extract.Scanner{Functions: opts.Functions, Warnings: warnings}
	defs, err := scanner.Scan(opts.SourcePatterns)
	if err != nil {
		return nil, err
	}
	origins := BuildOriginIndex(defs)
	rec := &Reconstructor{Origins: origins, Warnings: warnings}

	grouped := interchange.GroupByLocale(inputs)
	locales := make([]string, 0, len(grouped))
	for locale := range grouped {
		if locale == "" {
			warnings.Addf("", "cannot derive a locale tag from input file name; skipping %d translations", len(grouped[locale]))
			continue
		}
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	emitter := &Emitter{
		Dir:      opts.Dir,
		Prefix:   opts.Prefix,
		Package:  opts.Package,
		Mode:     opts.Mode,
		Lazy:     opts.Lazy,
		Warnings: warnings,
	}

	result := &Result{Locales: locales, Warnings: warnings}
	for _, locale := range locales {
		var msgs []*Translated
		for _, tr := range grouped[locale] {
			t, ok := rec.Reconstruct(tr.ID, tr.Text, locale)
			if !ok {
				continue
			}
			msgs = append(msgs, t)
		}
		path, err := emitter.EmitLocale(locale, msgs)
		if err != nil {
			return nil, err
		}
		result.LocaleFiles = append(result.LocaleFiles, path)
	}

	index, err := emitter.EmitIndex(locales)
	if err != nil {
		return nil, err
	}
	result.IndexFile = index
	return result, nil
}
