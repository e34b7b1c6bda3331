package generate

import (
	"os"
	"strings"
	"testing"

	"intlpipe/internal/extract"
	"intlpipe/internal/message"
)

func translatedGreeting() *Translated {
	origin := originGreeting()
	return &Translated{
		ID:     "greeting",
		Locale: "fr",
		Msg: &message.Message{
			ID:        "greeting",
			Pieces:    []message.Piece{message.Lit("Bonjour "), message.Arg(0)},
			Arguments: []string{"name"},
		},
		Origins: []*message.Message{origin},
	}
}

func readGenerated(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestEmitLocaleEager(t *testing.T) {
	e := &Emitter{Dir: t.TempDir(), Warnings: &extract.Warnings{}}
	path, err := e.EmitLocale("fr", []*Translated{translatedGreeting()})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "messages_fr.go") {
		t.Errorf("path = %q", path)
	}
	src := readGenerated(t, path)
	if !strings.HasPrefix(src, "// Code generated by intlgen. DO NOT EDIT.") {
		t.Errorf("missing generated header:\n%s", src)
	}
	if !strings.Contains(src, "package messages") {
		t.Errorf("wrong package clause:\n%s", src)
	}
	if !strings.Contains(src, `table["greeting"] = "Bonjour {name}"`) {
		t.Errorf("missing table entry:\n%s", src)
	}
	if !strings.Contains(src, `register("fr", table)`) {
		t.Errorf("eager mode should register from init:\n%s", src)
	}
	if strings.Contains(src, "registerLoader") {
		t.Errorf("eager mode emitted a loader:\n%s", src)
	}
}

func TestEmitLocaleLazy(t *testing.T) {
	e := &Emitter{Dir: t.TempDir(), Lazy: true, Warnings: &extract.Warnings{}}
	path, err := e.EmitLocale("fr", []*Translated{translatedGreeting()})
	if err != nil {
		t.Fatal(err)
	}
	src := readGenerated(t, path)
	if !strings.Contains(src, `registerLoader("fr", load_fr)`) {
		t.Errorf("missing loader registration:\n%s", src)
	}
	if !strings.Contains(src, "func load_fr() map[string]string {") {
		t.Errorf("missing loader function:\n%s", src)
	}
}

func TestEmitLocaleDebugAnnotations(t *testing.T) {
	e := &Emitter{Dir: t.TempDir(), Mode: ModeDebug, Warnings: &extract.Warnings{}}
	path, err := e.EmitLocale("fr", []*Translated{translatedGreeting()})
	if err != nil {
		t.Fatal(err)
	}
	src := readGenerated(t, path)
	if !strings.Contains(src, "// example.com/app/main.go:10:2") {
		t.Errorf("debug mode should annotate origins:\n%s", src)
	}
}

func TestEmitLocaleEmptyWarns(t *testing.T) {
	w := &extract.Warnings{}
	e := &Emitter{Dir: t.TempDir(), Warnings: w}
	path, err := e.EmitLocale("fr", nil)
	if err != nil {
		t.Fatal(err)
	}
	if w.Count() != 1 {
		t.Errorf("warnings = %v", w.All())
	}
	// The empty table still compiles and registers.
	if src := readGenerated(t, path); !strings.Contains(src, `register("fr", table)`) {
		t.Errorf("empty locale file missing registration:\n%s", src)
	}
}

func TestEmitLocaleDuplicateIDs(t *testing.T) {
	first := translatedGreeting()
	second := translatedGreeting()
	second.Msg.Pieces = []message.Piece{message.Lit("Salut "), message.Arg(0)}

	e := &Emitter{Dir: t.TempDir(), Warnings: &extract.Warnings{}}
	path, err := e.EmitLocale("fr", []*Translated{first, second})
	if err != nil {
		t.Fatal(err)
	}
	src := readGenerated(t, path)
	// Both assignments survive formatting; the later one wins when the
	// init function runs.
	if strings.Count(src, `table["greeting"] =`) != 2 {
		t.Errorf("expected two assignments for the duplicated id:\n%s", src)
	}
	if strings.Index(src, `"Bonjour {name}"`) > strings.Index(src, `"Salut {name}"`) {
		t.Errorf("entries out of input order:\n%s", src)
	}
}

func TestEmitIndexEager(t *testing.T) {
	e := &Emitter{Dir: t.TempDir(), Warnings: &extract.Warnings{}}
	path, err := e.EmitIndex([]string{"fr", "de"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "messages_all.go") {
		t.Errorf("path = %q", path)
	}
	src := readGenerated(t, path)
	for _, want := range []string{
		"func Lookup(locale, id string) (string, bool)",
		"func Locales() []string",
		`[]string{"de", "fr"}`,
		"func register(locale string, table map[string]string)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in:\n%s", want, src)
		}
	}
	if strings.Contains(src, "sync.Mutex") {
		t.Errorf("eager index should not synchronize:\n%s", src)
	}
}

func TestEmitIndexLazy(t *testing.T) {
	e := &Emitter{Dir: t.TempDir(), Lazy: true, Warnings: &extract.Warnings{}}
	path, err := e.EmitIndex([]string{"fr"})
	if err != nil {
		t.Fatal(err)
	}
	src := readGenerated(t, path)
	for _, want := range []string{"sync.Mutex", "registerLoader", "catalogs[locale] = table"} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in:\n%s", want, src)
		}
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct{ in, want string }{
		{"fr", "fr"},
		{"pt_BR", "pt_BR"},
		{"sr-Latn", "sr_Latn"},
		{"messages_fr", "messages_fr"},
	}
	for _, tt := range tests {
		if got := identifier(tt.in); got != tt.want {
			t.Errorf("identifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBCP47Note(t *testing.T) {
	if note := bcp47Note("messages_fr"); note != "" {
		t.Errorf("unparseable tag should get no note, got %q", note)
	}
	if note := bcp47Note("sr-latn"); !strings.Contains(note, "sr-Latn") {
		t.Errorf("note = %q, want canonical form", note)
	}
}
