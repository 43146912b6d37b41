package domain

// SlideType tags the SlideSpec variants. The set is closed; the composer
// switches over it exhaustively.
type SlideType string

const (
	SlideTitle        SlideType = "title"
	SlideContent      SlideType = "content"
	SlideBulletPoints SlideType = "bullet_points"
	SlideTwoColumn    SlideType = "two_column"
	SlideImage        SlideType = "image"
)

// SlideSpec is a tagged union: only the fields of the tagged variant are
// meaningful, the rest stay empty.
//
//	title:         Title, Content (subtitle)
//	content:       Title, Content (body)
//	bullet_points: Title, Bullets
//	two_column:    Title, Column1, Column2
//	image:         Title (image embedding not implemented; renders title only)
type SlideSpec struct {
	Type    SlideType `json:"type"`
	Title   string    `json:"title"`
	Content string    `json:"content,omitempty"`
	Bullets []string  `json:"bullet_points,omitempty"`
	Column1 string    `json:"column1,omitempty"`
	Column2 string    `json:"column2,omitempty"`
}

// Deck is a fully structured presentation request. Slide order is the
// rendering order and is preserved end to end.
type Deck struct {
	Title  string      `json:"title"`
	Author string      `json:"author"`
	Theme  string      `json:"theme,omitempty"`
	Slides []SlideSpec `json:"slides"`
}

// RawTextRequest asks the content synthesizer to derive slides from raw text
// before composition. Title, when empty, may be filled by the synthesizer.
type RawTextRequest struct {
	Text      string `json:"text"`
	NumSlides int    `json:"num_slides"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Theme     string `json:"theme,omitempty"`
}

// GenerationRequest is the normalized submission payload carried by a job.
// Exactly one of Deck or RawText is set.
type GenerationRequest struct {
	Deck    *Deck           `json:"deck,omitempty"`
	RawText *RawTextRequest `json:"raw_text,omitempty"`
}

// FromRawText reports whether the request takes the synthesis path.
func (r GenerationRequest) FromRawText() bool {
	return r.RawText != nil
}
