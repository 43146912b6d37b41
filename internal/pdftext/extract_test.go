package pdftext

import "testing"

func TestTextFromContentStream(t *testing.T) {
	stream := []byte(`BT /F1 24 Tf 72 720 Td (Hello World) Tj ET
BT 72 700 Td [(Sec)(ond)] TJ ET`)

	got := textFromContentStream(stream)
	want := "Hello World Sec ond"
	if got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestTextFromContentStreamKeepsQuoteOperators(t *testing.T) {
	// ' and " show text just like Tj; line-per-string generators rely on
	// them.
	stream := []byte(`BT (first) Tj (second) ' 2 1 (third) " ET`)

	got := textFromContentStream(stream)
	want := "first second third"
	if got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestTextFromContentStreamEscapes(t *testing.T) {
	stream := []byte(`BT (a \(nested\) literal \\ end) Tj ET`)

	got := textFromContentStream(stream)
	want := `a (nested) literal \ end`
	if got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestTextFromContentStreamIgnoresNonTextStrings(t *testing.T) {
	// Strings consumed by non-text operators must not leak into output.
	stream := []byte(`(ignored) Tz BT (kept) Tj ET`)

	got := textFromContentStream(stream)
	if got != "kept" {
		t.Fatalf("text = %q, want %q", got, "kept")
	}
}

func TestTextFromContentStreamSkipsHexStrings(t *testing.T) {
	stream := []byte(`BT <48656C6C6F> Tj (plain) Tj ET`)

	got := textFromContentStream(stream)
	if got != "plain" {
		t.Fatalf("text = %q, want %q", got, "plain")
	}
}
