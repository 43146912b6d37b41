package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"deckgen/internal/domain"
)

const (
	geminiDefaultTimeout = 30 * time.Second
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel   = "gemini-1.5-flash"
)

// GeminiOptions configures the Gemini-backed synthesizer.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Synthesizer
	// OnFallback is invoked with a short reason whenever the provider call
	// fails and the fallback takes over.
	OnFallback func(reason string, err error)
}

// GeminiSynthesizer asks a Gemini model for a JSON slide outline. Any
// provider failure falls through to the configured fallback so the pipeline
// keeps working without the remote capability.
type GeminiSynthesizer struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	fallback   Synthesizer
	onFallback func(reason string, err error)
}

// NewGeminiSynthesizer validates the options and builds the client.
func NewGeminiSynthesizer(opts GeminiOptions) (*GeminiSynthesizer, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = geminiDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiSynthesizer{
		apiKey:     opts.APIKey,
		model:      model,
		baseURL:    baseURL,
		client:     client,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}, nil
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type outlinePayload struct {
	Title  string `json:"title"`
	Slides []struct {
		Type    string   `json:"type"`
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Bullets []string `json:"bullet_points"`
		Column1 string   `json:"column1"`
		Column2 string   `json:"column2"`
	} `json:"slides"`
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, req Request) (*Result, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: g.buildPrompt(req)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.4,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return g.useFallback(ctx, req, "encode_request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, url.QueryEscape(g.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return g.useFallback(ctx, req, "build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return g.useFallback(ctx, req, "http_request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return g.useFallback(ctx, req, "http_status", fmt.Errorf("gemini status %d", resp.StatusCode))
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return g.useFallback(ctx, req, "decode_response", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return g.useFallback(ctx, req, "empty_response", errors.New("no candidates"))
	}

	var outline outlinePayload
	text := decoded.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &outline); err != nil {
		return g.useFallback(ctx, req, "decode_outline", err)
	}
	result := outlineToResult(outline, req)
	if len(result.Slides) == 0 {
		return g.useFallback(ctx, req, "empty_outline", errors.New("no slides in outline"))
	}
	return result, nil
}

func (g *GeminiSynthesizer) buildPrompt(req Request) string {
	var sb strings.Builder
	count := clampSlideCount(req.NumSlides)
	fmt.Fprintf(&sb, "Summarize the following document into a presentation outline of exactly %d slides. ", count)
	sb.WriteString(`Respond with JSON only, shaped as {"title": string, "slides": [{"type": "title"|"content"|"bullet_points"|"two_column", "title": string, "content": string, "bullet_points": [string], "column1": string, "column2": string}]}. `)
	sb.WriteString("Prefer bullet_points slides. Do not invent facts.\n\nDocument:\n")
	sb.WriteString(req.Text)
	return sb.String()
}

func outlineToResult(outline outlinePayload, req Request) *Result {
	title := req.Title
	if title == "" {
		title = strings.TrimSpace(outline.Title)
	}
	slides := make([]domain.SlideSpec, 0, len(outline.Slides))
	for _, s := range outline.Slides {
		spec := domain.SlideSpec{
			Title:   strings.TrimSpace(s.Title),
			Content: strings.TrimSpace(s.Content),
			Column1: strings.TrimSpace(s.Column1),
			Column2: strings.TrimSpace(s.Column2),
		}
		switch domain.SlideType(s.Type) {
		case domain.SlideTitle, domain.SlideContent, domain.SlideTwoColumn, domain.SlideImage:
			spec.Type = domain.SlideType(s.Type)
		case domain.SlideBulletPoints:
			spec.Type = domain.SlideBulletPoints
		default:
			// Unknown type from the model degrades to a content slide.
			spec.Type = domain.SlideContent
		}
		if spec.Type == domain.SlideBulletPoints {
			for _, b := range s.Bullets {
				if b = strings.TrimSpace(b); b != "" {
					spec.Bullets = append(spec.Bullets, b)
				}
			}
		}
		if spec.Title == "" && spec.Content == "" && len(spec.Bullets) == 0 {
			continue
		}
		slides = append(slides, spec)
	}
	return &Result{Title: title, Slides: slides}
}

func (g *GeminiSynthesizer) useFallback(ctx context.Context, req Request, reason string, cause error) (*Result, error) {
	if g.onFallback != nil {
		g.onFallback(reason, cause)
	}
	if g.fallback == nil {
		return nil, fmt.Errorf("gemini synthesis (%s): %w", reason, cause)
	}
	return g.fallback.Synthesize(ctx, req)
}

var _ Synthesizer = (*GeminiSynthesizer)(nil)
