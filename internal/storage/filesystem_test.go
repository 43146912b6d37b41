package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"deckgen/internal/domain"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()

	payload := []byte("presentation bytes")
	key, err := store.Write(ctx, "decks/report.pptx", payload)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "decks/report.pptx" {
		t.Fatalf("key = %q, want %q", key, "decks/report.pptx")
	}

	got, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Read = %q, want %q", got, payload)
	}
}

func TestReadUnknownKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Read(context.Background(), "missing.pptx"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Read unknown = %v, want ErrNotFound", err)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape.pptx", []byte("x")); err == nil {
		t.Fatal("Write must reject keys escaping the root")
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Quarterly Review 2026", "quarterly-review-2026"},
		{"Présentation générale", "presentation-generale"},
		{"  --  ", "presentation"},
		{"", "presentation"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Fatalf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
