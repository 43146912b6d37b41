package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deckgen/internal/domain"
)

// StaticSynthesizer builds an outline with a deterministic heuristic: the
// text is split into sentences and distributed evenly over bullet slides. It
// needs no network or credentials, which makes it the fallback of last
// resort and the default in development.
type StaticSynthesizer struct{}

// NewStaticSynthesizer returns the heuristic synthesizer.
func NewStaticSynthesizer() *StaticSynthesizer {
	return &StaticSynthesizer{}
}

const maxBulletRunes = 160

func (s *StaticSynthesizer) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sentences := splitSentences(req.Text)
	if len(sentences) == 0 {
		return nil, errors.New("no usable text to synthesize from")
	}

	count := clampSlideCount(req.NumSlides)
	if count > len(sentences) {
		count = len(sentences)
	}

	title := req.Title
	if title == "" {
		title = truncate(sentences[0], 80)
	}

	slides := make([]domain.SlideSpec, 0, count)
	per := len(sentences) / count
	rem := len(sentences) % count
	idx := 0
	for i := 0; i < count; i++ {
		n := per
		if i < rem {
			n++
		}
		chunk := sentences[idx : idx+n]
		idx += n

		bullets := make([]string, 0, len(chunk))
		for _, sentence := range chunk {
			bullets = append(bullets, truncate(sentence, maxBulletRunes))
		}
		slides = append(slides, domain.SlideSpec{
			Type:    domain.SlideBulletPoints,
			Title:   fmt.Sprintf("Key Points %d", i+1),
			Bullets: bullets,
		})
	}

	return &Result{Title: title, Slides: slides}, nil
}

func splitSentences(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	sentences := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Join(strings.Fields(f), " ")
		if f != "" {
			sentences = append(sentences, f)
		}
	}
	return sentences
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}

var _ Synthesizer = (*StaticSynthesizer)(nil)
