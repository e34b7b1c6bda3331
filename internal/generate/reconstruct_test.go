package generate

import (
	"strings"
	"testing"

	"intlpipe/internal/extract"
	"intlpipe/internal/icu"
	"intlpipe/internal/message"
)

func originGreeting() *message.Message {
	return &message.Message{
		ID:        "greeting",
		Pieces:    []message.Piece{message.Lit("Hello "), message.Arg(0)},
		Arguments: []string{"name"},
		Position:  "example.com/app/main.go:10:2",
	}
}

func TestReconstructPlaceholder(t *testing.T) {
	r := &Reconstructor{
		Origins:  BuildOriginIndex([]*message.Message{originGreeting()}),
		Warnings: &extract.Warnings{},
	}
	tr, ok := r.Reconstruct("greeting", "Hi {name}", "fr")
	if !ok {
		t.Fatal("reconstruction skipped")
	}
	if tr.Msg.PlaceholderCount() != 1 {
		t.Errorf("placeholder count = %d, want 1", tr.Msg.PlaceholderCount())
	}
	if len(tr.Msg.Arguments) != 1 || tr.Msg.Arguments[0] != "name" {
		t.Errorf("arguments = %v, want [name]", tr.Msg.Arguments)
	}
	if tr.Msg.HasSelector() {
		t.Error("plain text reconstructed with a selector")
	}
	if len(tr.Origins) != 1 || tr.Origins[0].ID != "greeting" {
		t.Errorf("origins = %+v", tr.Origins)
	}
	if r.Warnings.Count() != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings.All())
	}
}

func TestReconstructEmptySkipped(t *testing.T) {
	r := &Reconstructor{Origins: BuildOriginIndex(nil), Warnings: &extract.Warnings{}}
	if _, ok := r.Reconstruct("greeting", "", "fr"); ok {
		t.Error("empty translation should be skipped")
	}
}

func TestReconstructLiteralFallback(t *testing.T) {
	// Plain prose with a stray brace fails the full grammar; the literal
	// parse takes over and keeps the text verbatim.
	r := &Reconstructor{Origins: BuildOriginIndex([]*message.Message{originGreeting()}), Warnings: &extract.Warnings{}}
	tr, ok := r.Reconstruct("greeting", "50% off} for {name today", "fr")
	if !ok {
		t.Fatal("fallback parse skipped")
	}
	if tr.Msg.HasSelector() {
		t.Error("literal fallback produced a selector")
	}
	text := ""
	for _, p := range tr.Msg.Pieces {
		if p.Kind == message.Literal {
			text += p.Text
		}
	}
	if !strings.Contains(text, "}") {
		t.Errorf("stray brace lost in fallback: %+v", tr.Msg.Pieces)
	}
}

func TestReconstructUnknownArgumentWarns(t *testing.T) {
	r := &Reconstructor{Origins: BuildOriginIndex([]*message.Message{originGreeting()}), Warnings: &extract.Warnings{}}
	if _, ok := r.Reconstruct("greeting", "Hi {nome}", "pt"); !ok {
		t.Fatal("reconstruction skipped")
	}
	if r.Warnings.Count() != 1 {
		t.Fatalf("warnings = %v", r.Warnings.All())
	}
	if !strings.Contains(r.Warnings.All()[0].Message, `"nome"`) {
		t.Errorf("warning should name the argument: %v", r.Warnings.All()[0])
	}
}

func TestReconstructMissingOriginWarns(t *testing.T) {
	r := &Reconstructor{Origins: BuildOriginIndex(nil), Warnings: &extract.Warnings{}}
	tr, ok := r.Reconstruct("ghost", "Boo", "fr")
	if !ok {
		t.Fatal("reconstruction skipped")
	}
	if len(tr.Origins) != 0 {
		t.Errorf("origins = %+v", tr.Origins)
	}
	if r.Warnings.Count() != 1 {
		t.Errorf("warnings = %v", r.Warnings.All())
	}
}

func TestOriginIndex(t *testing.T) {
	first := originGreeting()
	second := originGreeting()
	second.Position = "example.com/app/other.go:4:2"
	ix := BuildOriginIndex([]*message.Message{first, second})

	if ix.Len() != 1 {
		t.Errorf("Len = %d, want 1", ix.Len())
	}
	if got := ix.Lookup("greeting"); len(got) != 2 {
		t.Errorf("Lookup returned %d defs, want 2", len(got))
	}
	if ix.Primary("greeting") != first {
		t.Error("Primary should return the first definition")
	}
	if ix.Primary("missing") != nil {
		t.Error("Primary for unknown id should be nil")
	}
}

// Round trip through the two pipelines: normalize, then reconstruct the
// rendered text, and compare structure for a selector-free message.
func TestNormalizeReconstructRoundTrip(t *testing.T) {
	origin := &message.Message{
		ID:        "items",
		Pieces:    []message.Piece{message.Lit("Hello "), message.Arg(0), message.Lit(", you have "), message.Arg(1), message.Lit(" items")},
		Arguments: []string{"name", "count"},
	}
	text, err := icu.Render(origin)
	if err != nil {
		t.Fatal(err)
	}
	r := &Reconstructor{Origins: BuildOriginIndex([]*message.Message{origin}), Warnings: &extract.Warnings{}}
	tr, ok := r.Reconstruct("items", text, "en")
	if !ok {
		t.Fatal("round trip skipped")
	}
	if tr.Msg.PlaceholderCount() != origin.PlaceholderCount() {
		t.Errorf("placeholder count %d, want %d", tr.Msg.PlaceholderCount(), origin.PlaceholderCount())
	}
	back, err := icu.Render(tr.Msg)
	if err != nil {
		t.Fatal(err)
	}
	if back != text {
		t.Errorf("re-render = %q, want %q", back, text)
	}
}
