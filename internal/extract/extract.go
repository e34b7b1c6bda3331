package extract

import (
	"intlpipe/internal/interchange"
	"intlpipe/internal/message"
)

// Options configures one extraction run.
type Options struct {
	// Patterns are the Go package patterns to scan; empty means ".".
	Patterns []string

	// Out is the interchange file to write.
	Out string

	// Functions is the translation call-site set for the scanner.
	Functions []string

	SuppressMetadata   bool
	RequireDescription bool
}

// Result reports what one run produced.
type Result struct {
	// Records is the merged id→record map that was written.
	Records map[string]interchange.Record

	// Definitions holds every scanned message in encounter order,
	// including duplicates of the same id.
	Definitions []*message.Message

	// Warnings accumulated during the run.
	Warnings *Warnings
}

// Run executes the extraction pipeline: scan, normalize, write. Messages
// sharing an id overwrite earlier ones (later ids win; there is no merge).
// Empty messages are filtered. An illegal interpolation aborts the run with
// no output file written beyond what the OS already flushed.
func Run(opts Options) (*Result, error) {
	warnings := &Warnings{}
	scanner := &Scanner{
		Functions:          opts.Functions,
		RequireDescription: opts.RequireDescription,
		Warnings:           warnings,
	}
	defs, err := scanner.Scan(opts.Patterns)
	if err != nil {
		return nil, err
	}

	norm := &Normalizer{SuppressMetadata: opts.SuppressMetadata}
	records := make(map[string]interchange.Record, len(defs))
	for _, msg := range defs {
		rec, ok, err := norm.Record(msg)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		records[msg.ID] = rec
	}

	if opts.Out != "" {
		if err := interchange.WriteFile(opts.Out, records); err != nil {
			return nil, err
		}
	}
	return &Result{Records: records, Definitions: defs, Warnings: warnings}, nil
}
