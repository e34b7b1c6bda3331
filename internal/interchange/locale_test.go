package interchange

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLocale(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"messages_fr.json", "fr"},
		{"messages_pt_BR.json", "pt_BR"},
		// Underscores before the locale suffix misparse; this is contract,
		// not a bug to fix.
		{"app_messages_fr.json", "messages_fr"},
		{"/some/dir/messages_de.json", "de"},
		{"messages.json", ""},
		{"messages_fr.arb", "fr"},
	}
	for _, tt := range tests {
		if got := Locale(tt.path); got != tt.want {
			t.Errorf("Locale(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func mustDoc(t *testing.T, src string) Document {
	t.Helper()
	var doc Document
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestGroupByLocale(t *testing.T) {
	inputs := []Input{
		{Path: "app_fr.json", Doc: mustDoc(t, `{"greeting": {"translation": "Salut"}, "@meta": {"type": "text"}}`)},
		{Path: "extra_fr.json", Doc: mustDoc(t, `{"greeting": {"translation": "Bonjour"}}`)},
		{Path: "app_de.json", Doc: mustDoc(t, `{"greeting": {"translation": "Hallo"}}`)},
	}
	grouped := GroupByLocale(inputs)

	if len(grouped) != 2 {
		t.Fatalf("expected 2 locales, got %v", grouped)
	}
	// Duplicated ids append; later files do not override earlier ones.
	fr := grouped["fr"]
	wantFr := []Translation{
		{ID: "greeting", Text: "Salut", File: "app_fr.json"},
		{ID: "greeting", Text: "Bonjour", File: "extra_fr.json"},
	}
	if !reflect.DeepEqual(fr, wantFr) {
		t.Errorf("fr = %+v, want %+v", fr, wantFr)
	}
	if len(grouped["de"]) != 1 {
		t.Errorf("de = %+v", grouped["de"])
	}
}
