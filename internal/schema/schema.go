// Package schema validates deck submissions before a job is created.
// Validation failures are rejected synchronously; nothing invalid is ever
// enqueued.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"deckgen/internal/domain"
)

const deckSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title", "slides"],
  "properties": {
    "title": {"type": "string", "minLength": 1, "maxLength": 300},
    "author": {"type": "string", "maxLength": 200},
    "theme": {"type": "string", "maxLength": 60},
    "slides": {
      "type": "array",
      "maxItems": 200,
      "items": {
        "type": "object",
        "required": ["type", "title"],
        "properties": {
          "type": {"enum": ["title", "content", "bullet_points", "two_column", "image"]},
          "title": {"type": "string", "maxLength": 300},
          "content": {"type": "string"},
          "bullet_points": {"type": "array", "items": {"type": "string"}, "maxItems": 100},
          "column1": {"type": "string"},
          "column2": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var deckSchema = jsonschema.MustCompileString("deck.schema.json", deckSchemaJSON)

// DecodeDeck validates the raw submission body against the deck schema and
// decodes it. Schema violations wrap domain.ErrInvalidRequest so handlers
// can map them to a client error.
func DecodeDeck(body []byte) (*domain.Deck, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w: malformed json: %v", domain.ErrInvalidRequest, err)
	}
	if err := deckSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, validationDetail(err))
	}
	var deck domain.Deck
	if err := json.Unmarshal(body, &deck); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	// The schema enforces the tagged union's shape; cross-variant fields
	// that survive decoding are cleared so no variant sees another's data.
	for i := range deck.Slides {
		normalizeVariant(&deck.Slides[i])
	}
	return &deck, nil
}

func normalizeVariant(s *domain.SlideSpec) {
	switch s.Type {
	case domain.SlideTitle, domain.SlideContent:
		s.Bullets, s.Column1, s.Column2 = nil, "", ""
	case domain.SlideBulletPoints:
		s.Content, s.Column1, s.Column2 = "", "", ""
	case domain.SlideTwoColumn:
		s.Content, s.Bullets = "", nil
	case domain.SlideImage:
		s.Content, s.Bullets, s.Column1, s.Column2 = "", nil, "", ""
	}
}

// validationDetail flattens the validator's error tree into one line usable
// in an API response.
func validationDetail(err error) string {
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if loc == "" {
			return leaf.Message
		}
		return fmt.Sprintf("%s: %s", loc, leaf.Message)
	}
	return err.Error()
}
