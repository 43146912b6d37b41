package schema

import (
	"errors"
	"testing"

	"deckgen/internal/domain"
)

func TestDecodeDeckAcceptsValidSubmission(t *testing.T) {
	body := []byte(`{
		"title": "Roadmap",
		"author": "Ada",
		"theme": "dark",
		"slides": [
			{"type": "title", "title": "Welcome"},
			{"type": "bullet_points", "title": "Goals", "bullet_points": ["a", "b"]}
		]
	}`)

	deck, err := DecodeDeck(body)
	if err != nil {
		t.Fatalf("DecodeDeck returned error: %v", err)
	}
	if deck.Title != "Roadmap" || len(deck.Slides) != 2 {
		t.Fatalf("decoded deck = %+v", deck)
	}
	if deck.Slides[1].Type != domain.SlideBulletPoints || len(deck.Slides[1].Bullets) != 2 {
		t.Fatalf("bullet slide decoded as %+v", deck.Slides[1])
	}
}

func TestDecodeDeckRejectsUnknownSlideType(t *testing.T) {
	body := []byte(`{"title": "t", "slides": [{"type": "pie_chart", "title": "x"}]}`)

	_, err := DecodeDeck(body)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestDecodeDeckRejectsMissingTitle(t *testing.T) {
	body := []byte(`{"slides": []}`)

	if _, err := DecodeDeck(body); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestDecodeDeckRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeDeck([]byte(`{"title":`)); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestDecodeDeckClearsCrossVariantFields(t *testing.T) {
	body := []byte(`{
		"title": "t",
		"slides": [{"type": "image", "title": "diagram", "content": "stray", "column1": "stray"}]
	}`)

	deck, err := DecodeDeck(body)
	if err != nil {
		t.Fatalf("DecodeDeck returned error: %v", err)
	}
	s := deck.Slides[0]
	if s.Content != "" || s.Column1 != "" || s.Bullets != nil {
		t.Fatalf("cross-variant fields not cleared: %+v", s)
	}
}
