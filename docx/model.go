// Package docx contains minimal WordprocessingML document model and its
// serializer.
package docx

import (
	"github.com/google/uuid"
)

// Document is a tree of sections. Values are never changed by serializers.
type Document struct {
	Title    string
	Creator  string
	Language string    // BCP 47 tag applied to every run
	ID       uuid.UUID // generated during serialization when zero
	Sections []Section
}

// PageSize in twips.
type PageSize struct {
	Width, Height int
}

// Margins in twips.
type Margins struct {
	Top, Right, Bottom, Left int
}

type Section struct {
	PageSize   PageSize
	Margins    Margins
	Paragraphs []Paragraph
}

// Paragraph spacing and indent are in twips, zero means not set.
type Paragraph struct {
	SpacingBefore int
	SpacingAfter  int
	Indent        int
	Content       []Inline
}

// Inline is either Run or Hyperlink.
type Inline interface {
	inline()
}

// Run is a piece of text with uniform formatting. Size is in half-points,
// Color is RRGGBB. Line breaks and tabs in Text are kept.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Size      int
	Font      string
	Color     string
}

// Hyperlink points to external Target.
type Hyperlink struct {
	Target string
	Runs   []Run
}

func (Run) inline()       {}
func (Hyperlink) inline() {}

// Text returns paragraph text without formatting.
func (p *Paragraph) Text() string {
	var buf []byte
	for _, in := range p.Content {
		switch v := in.(type) {
		case Run:
			buf = append(buf, v.Text...)
		case Hyperlink:
			for _, r := range v.Runs {
				buf = append(buf, r.Text...)
			}
		}
	}
	return string(buf)
}
