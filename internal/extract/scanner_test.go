package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"intlpipe/internal/message"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"go.mod": "module example.com/fixture\n\ngo 1.21\n",
		"intl/intl.go": `package intl

func T(id, format string, args ...any) string { return format }

type Printer struct{}

func (p Printer) T(id, format string, args ...any) string { return format }
`,
		"main.go": `package main

import "example.com/fixture/intl"

var p intl.Printer

func main() {
	name := "x"

	// Greeting on the start screen.
	// Example name: Alice
	_ = intl.T("greeting", "Hello {name}", name)

	// Farewell shown at exit.
	_ = p.T("farewell", "Bye {name}", name)

	format := "Hi " + name
	_ = intl.T("dynamic", format)

	_ = intl.T("plain", "No comment here")
}
`,
	}
	for name, src := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScan(t *testing.T) {
	warnings := &Warnings{}
	s := &Scanner{
		Functions:          []string{"intl.T", "intl.Printer.T"},
		RequireDescription: true,
		Dir:                writeFixture(t),
		Warnings:           warnings,
	}
	msgs, err := s.Scan([]string{"./..."})
	if err != nil {
		t.Fatal(err)
	}

	byID := map[string]*message.Message{}
	for _, m := range msgs {
		byID[m.ID] = m
	}
	if len(byID) != 3 {
		t.Fatalf("scanned ids = %v, want greeting, farewell, plain", keys(byID))
	}

	greeting := byID["greeting"]
	if greeting == nil {
		t.Fatal("greeting not found")
	}
	if greeting.Description != "Greeting on the start screen." {
		t.Errorf("Description = %q", greeting.Description)
	}
	if !reflect.DeepEqual(greeting.Examples, map[string][]string{"name": {"Alice"}}) {
		t.Errorf("Examples = %v", greeting.Examples)
	}
	if !reflect.DeepEqual(greeting.Arguments, []string{"name"}) {
		t.Errorf("Arguments = %v", greeting.Arguments)
	}
	if !strings.Contains(greeting.Position, "main.go:") {
		t.Errorf("Position = %q", greeting.Position)
	}

	// Method call-sites match as pkg.Type.Method.
	farewell := byID["farewell"]
	if farewell == nil {
		t.Fatal("method call-site not matched")
	}
	if farewell.Description != "Farewell shown at exit." {
		t.Errorf("Description = %q", farewell.Description)
	}

	if byID["dynamic"] != nil {
		t.Error("non-constant format should be skipped, not extracted")
	}

	// One warning for the non-constant format, one for the undocumented
	// call.
	if warnings.Count() != 2 {
		t.Fatalf("warnings = %v", warnings.All())
	}
	var joined string
	for _, w := range warnings.All() {
		joined += w.String() + "\n"
	}
	if !strings.Contains(joined, `"dynamic"`) || !strings.Contains(joined, `"plain"`) {
		t.Errorf("warnings = %q", joined)
	}
}

func keys(m map[string]*message.Message) []string {
	var ids []string
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

func TestSplitComment(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantDesc     string
		wantExamples map[string][]string
	}{
		{
			name: "empty",
		},
		{
			name:     "description only",
			in:       "Shown on the start screen.",
			wantDesc: "Shown on the start screen.",
		},
		{
			name:     "examples split out",
			in:       "Inventory summary.\nExample name: Alice\nExample name: Bob\nExample count: 3",
			wantDesc: "Inventory summary.",
			wantExamples: map[string][]string{
				"name":  {"Alice", "Bob"},
				"count": {"3"},
			},
		},
		{
			name:     "multi-line description joins",
			in:       "First line.\nSecond line.",
			wantDesc: "First line. Second line.",
		},
		{
			name:     "example without colon stays in description",
			in:       "Example of usage",
			wantDesc: "Example of usage",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, examples := splitComment(tt.in)
			if desc != tt.wantDesc {
				t.Errorf("description = %q, want %q", desc, tt.wantDesc)
			}
			if !reflect.DeepEqual(examples, tt.wantExamples) {
				t.Errorf("examples = %v, want %v", examples, tt.wantExamples)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	var w Warnings
	if w.Count() != 0 {
		t.Fatal("fresh collector not empty")
	}
	w.Addf("pkg/a.go:3:1", "message %q has no description", "greeting")
	w.Addf("", "loose warning")
	if w.Count() != 2 {
		t.Fatalf("Count = %d", w.Count())
	}
	if got := w.All()[0].String(); got != `pkg/a.go:3:1: message "greeting" has no description` {
		t.Errorf("String() = %q", got)
	}
	if got := w.All()[1].String(); got != "loose warning" {
		t.Errorf("String() = %q", got)
	}
}
