// Package synth turns raw extracted text into a structured slide list. It is
// an external capability from the pipeline's point of view: the worker only
// sees the Synthesizer contract.
package synth

import (
	"context"

	"deckgen/internal/domain"
)

// Request carries the raw text plus synthesis parameters.
type Request struct {
	Text      string
	NumSlides int
	Title     string
}

// Result is a synthesized slide outline. Title may refine the requested one;
// callers keep their own title when it is already set.
type Result struct {
	Title  string
	Slides []domain.SlideSpec
}

// Synthesizer produces a slide outline for raw text.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
}

const (
	// DefaultSlideCount applies when the request does not name a target.
	DefaultSlideCount = 5
	maxSlideCount     = 30
)

func clampSlideCount(n int) int {
	if n <= 0 {
		return DefaultSlideCount
	}
	if n > maxSlideCount {
		return maxSlideCount
	}
	return n
}
