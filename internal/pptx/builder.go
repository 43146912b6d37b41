// Package pptx encodes slide decks as PresentationML (.pptx) documents. It
// covers exactly the layouts the composer needs: title, title+body,
// title+bullets, title+two columns and title-only.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
)

type layout int

const (
	layoutTitle layout = iota
	layoutContent
	layoutBullets
	layoutTwoColumn
	layoutTitleOnly
)

type slide struct {
	layout   layout
	title    string
	body     string
	bullets  []string
	col1     string
	col2     string
}

// Builder accumulates slides and serializes them on Bytes. It implements
// compose.Encoder.
type Builder struct {
	theme  Theme
	slides []slide
}

// New returns a Builder using the named theme, falling back to the default
// scheme for unknown keys.
func New(theme string) *Builder {
	return &Builder{theme: themeByName(theme)}
}

func (b *Builder) AddTitleSlide(title, subtitle string) {
	b.slides = append(b.slides, slide{layout: layoutTitle, title: title, body: subtitle})
}

func (b *Builder) AddContentSlide(title, body string) {
	b.slides = append(b.slides, slide{layout: layoutContent, title: title, body: body})
}

func (b *Builder) AddBulletSlide(title string, bullets []string) {
	copied := append([]string(nil), bullets...)
	b.slides = append(b.slides, slide{layout: layoutBullets, title: title, bullets: copied})
}

func (b *Builder) AddTwoColumnSlide(title, left, right string) {
	b.slides = append(b.slides, slide{layout: layoutTwoColumn, title: title, col1: left, col2: right})
}

func (b *Builder) AddTitleOnlySlide(title string) {
	b.slides = append(b.slides, slide{layout: layoutTitleOnly, title: title})
}

// SlideCount reports the number of accumulated slides.
func (b *Builder) SlideCount() int {
	return len(b.slides)
}

// Bytes assembles the OPC package. Parts are written in a fixed order with
// zeroed timestamps, so identical input produces identical archives.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML(len(b.slides))},
		{"_rels/.rels", rootRelsXML},
		{"ppt/presentation.xml", presentationXML(len(b.slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(b.slides))},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML(b.theme)},
	}
	for i, s := range b.slides {
		n := i + 1
		parts = append(parts,
			struct {
				name string
				data string
			}{fmt.Sprintf("ppt/slides/slide%d.xml", n), slideXML(s)},
			struct {
				name string
				data string
			}{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRelsXML},
		)
	}

	for _, part := range parts {
		hdr := &zip.FileHeader{Name: part.name, Method: zip.Deflate}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			return nil, fmt.Errorf("write part %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize package: %w", err)
	}
	return buf.Bytes(), nil
}
