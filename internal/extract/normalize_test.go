package extract

import (
	"errors"
	"testing"

	"intlpipe/internal/icu"
	"intlpipe/internal/message"
)

func itemsMessage() *message.Message {
	m := &message.Message{
		ID:        "items",
		Pieces:    []message.Piece{message.Lit("Hello "), message.Arg(0), message.Lit(", you have "), message.Arg(1), message.Lit(" items")},
		Arguments: []string{"name", "count"},
	}
	m.Description = "Inventory summary"
	m.Examples = map[string][]string{
		"name":  {"Alice", "Bob"},
		"count": {"3"},
	}
	return m
}

func TestNormalizerRecord(t *testing.T) {
	n := &Normalizer{}
	rec, ok, err := n.Record(itemsMessage())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("message was filtered")
	}
	if rec.Translation != "Hello {name}, you have {count} items" {
		t.Errorf("Translation = %q", rec.Translation)
	}
	if rec.Context != "Inventory summary" {
		t.Errorf("Context = %q", rec.Context)
	}
	wantNotes := "Examples for name:\nAlice\nBob\nExamples for count:\n3"
	if rec.Notes != wantNotes {
		t.Errorf("Notes = %q, want %q", rec.Notes, wantNotes)
	}
}

func TestNormalizerSuppressMetadata(t *testing.T) {
	n := &Normalizer{SuppressMetadata: true}
	rec, ok, err := n.Record(itemsMessage())
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if rec.Context != "" || rec.Notes != "" {
		t.Errorf("metadata not suppressed: %+v", rec)
	}
	if rec.Translation == "" {
		t.Error("translation missing")
	}
}

func TestNormalizerSkipsEmptyMessage(t *testing.T) {
	n := &Normalizer{}
	_, ok, err := n.Record(&message.Message{ID: "empty"})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("empty message should be filtered, not emitted")
	}
}

func TestNormalizerIllegalInterpolationIsFatal(t *testing.T) {
	n := &Normalizer{}
	bad := &message.Message{
		ID:        "bad",
		Pieces:    []message.Piece{message.Arg(9)},
		Arguments: []string{"name"},
	}
	_, _, err := n.Record(bad)
	var illegal *icu.IllegalInterpolationError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalInterpolationError, got %v", err)
	}
}

func TestNormalizerNoExamplesNoNotes(t *testing.T) {
	n := &Normalizer{}
	msg := &message.Message{
		ID:     "plain",
		Pieces: []message.Piece{message.Lit("hi")},
	}
	rec, ok, err := n.Record(msg)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if rec.Notes != "" || rec.Context != "" {
		t.Errorf("unexpected metadata: %+v", rec)
	}
}
