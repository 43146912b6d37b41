// Package compose turns a structured deck into encoded presentation bytes.
// The binary format itself is a capability behind the Encoder interface; the
// composer only decides which layout each slide gets and which fields bind
// into it.
package compose

import (
	"fmt"

	"deckgen/internal/domain"
)

// Encoder builds one presentation document. Implementations are append-only
// slide builders; Bytes serializes the accumulated document and is the only
// operation that can fail.
type Encoder interface {
	AddTitleSlide(title, subtitle string)
	AddContentSlide(title, body string)
	AddBulletSlide(title string, bullets []string)
	AddTwoColumnSlide(title, left, right string)
	AddTitleOnlySlide(title string)
	Bytes() ([]byte, error)
}

// EncoderFactory creates a fresh Encoder for the given symbolic theme key.
// Unknown themes must fall back to the encoder's default scheme.
type EncoderFactory func(theme string) Encoder

// Composer is a deterministic deck-to-bytes transformation. Identical input
// against the same encoder capability yields structurally identical output.
type Composer struct {
	newEncoder EncoderFactory
}

// New returns a Composer producing documents via factory.
func New(factory EncoderFactory) *Composer {
	return &Composer{newEncoder: factory}
}

// Compose renders the deck. A cover slide from the deck title/author is
// always emitted first, regardless of the first slide's type. Slides follow
// in request order. Missing optional fields degrade to emptier slides; the
// only failure mode is the encoder refusing to serialize.
func (c *Composer) Compose(deck domain.Deck) ([]byte, error) {
	enc := c.newEncoder(deck.Theme)

	subtitle := ""
	if deck.Author != "" {
		subtitle = "By " + deck.Author
	}
	enc.AddTitleSlide(deck.Title, subtitle)

	for _, s := range deck.Slides {
		switch s.Type {
		case domain.SlideTitle:
			enc.AddTitleSlide(s.Title, s.Content)
		case domain.SlideContent:
			enc.AddContentSlide(s.Title, s.Content)
		case domain.SlideBulletPoints:
			enc.AddBulletSlide(s.Title, s.Bullets)
		case domain.SlideTwoColumn:
			enc.AddTwoColumnSlide(s.Title, s.Column1, s.Column2)
		case domain.SlideImage:
			// Image embedding is not implemented: the slide renders its
			// title only. Documented limitation, not an error.
			enc.AddTitleOnlySlide(s.Title)
		default:
			enc.AddTitleOnlySlide(s.Title)
		}
	}

	data, err := enc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode presentation: %w", err)
	}
	return data, nil
}
