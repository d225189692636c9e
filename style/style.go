// Package style holds immutable styling value used to build documents.
package style

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"wordgen/config"
	"wordgen/segment"
)

// ErrInvalidStyle is returned (wrapped) when style value cannot be used.
var ErrInvalidStyle = errors.New("invalid style")

// Colors are RRGGBB hex triples.
type Colors struct {
	Heading string
	Body    string
	Link    string
}

// Sizes are in half-points.
type Sizes struct {
	Title          int
	SectionHeading int
	Body           int
}

// Spacing values are in twips.
type Spacing struct {
	TitleAfter    int
	MetadataAfter int
	SectionBefore int
	SectionAfter  int
	LabelAfter    int
	BodyAfter     int
	LargeGap      int
	Spacer        int
}

type Margins struct {
	Top, Right, Bottom, Left int
}

// Page size and margins in twips.
type Page struct {
	Width   int
	Height  int
	Margins Margins
}

// Style is passed by value, callers change a copy to override anything.
type Style struct {
	Font          string
	LinkUnderline bool
	Colors        Colors
	Sizes         Sizes
	Spacing       Spacing
	Indent        int // content indent, twips
	Page          Page
	Language      string // BCP 47
}

// Default returns style with built-in values: Calibri, A4 with one inch
// margins, Danish language.
func Default() Style {
	return Style{
		Font:          segment.DefaultFont,
		LinkUnderline: true,
		Colors: Colors{
			Heading: "003D5C",
			Body:    segment.DefaultColor,
			Link:    segment.DefaultLinkColor,
		},
		Sizes: Sizes{
			Title:          32,
			SectionHeading: 28,
			Body:           segment.DefaultSize,
		},
		Spacing: Spacing{
			TitleAfter:    400,
			MetadataAfter: 150,
			SectionBefore: 400,
			SectionAfter:  200,
			LabelAfter:    100,
			BodyAfter:     200,
			LargeGap:      600,
			Spacer:        200,
		},
		Indent: 300,
		Page: Page{
			Width:   11906,
			Height:  16838,
			Margins: Margins{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440},
		},
		Language: "da-DK",
	}
}

// FromConfig converts configuration sections to style value. Language tag is
// stored in canonical form.
func FromConfig(sc *config.StyleConfig, pc *config.PageConfig, lang string) (Style, error) {
	s := Style{
		Font:          sc.Font,
		LinkUnderline: sc.LinkUnderline,
		Colors: Colors{
			Heading: sc.Colors.Heading,
			Body:    sc.Colors.Body,
			Link:    sc.Colors.Link,
		},
		Sizes: Sizes{
			Title:          sc.Sizes.Title,
			SectionHeading: sc.Sizes.SectionHeading,
			Body:           sc.Sizes.Body,
		},
		Spacing: Spacing(sc.Spacing),
		Indent:  sc.Indent.Content,
		Page: Page{
			Width:   pc.Width,
			Height:  pc.Height,
			Margins: Margins(pc.Margins),
		},
		Language: lang,
	}
	if err := s.Validate(); err != nil {
		return Style{}, err
	}
	tag, _ := language.Parse(s.Language)
	s.Language = tag.String()
	return s, nil
}

// Validate checks that every value could be put into document as is.
func (s Style) Validate() error {
	if s.Font == "" {
		return fmt.Errorf("%w: font is empty", ErrInvalidStyle)
	}
	colors := []struct{ name, val string }{
		{"heading", s.Colors.Heading},
		{"body", s.Colors.Body},
		{"link", s.Colors.Link},
	}
	for _, c := range colors {
		if !isColor(c.val) {
			return fmt.Errorf("%w: %s color %q is not RRGGBB", ErrInvalidStyle, c.name, c.val)
		}
	}
	sizes := []struct {
		name string
		val  int
	}{
		{"title", s.Sizes.Title},
		{"section heading", s.Sizes.SectionHeading},
		{"body", s.Sizes.Body},
	}
	for _, sz := range sizes {
		if sz.val <= 0 {
			return fmt.Errorf("%w: %s size must be positive, got %d", ErrInvalidStyle, sz.name, sz.val)
		}
	}
	sp := s.Spacing
	for _, v := range []int{sp.TitleAfter, sp.MetadataAfter, sp.SectionBefore, sp.SectionAfter, sp.LabelAfter, sp.BodyAfter, sp.LargeGap, sp.Spacer} {
		if v < 0 {
			return fmt.Errorf("%w: negative spacing %d", ErrInvalidStyle, v)
		}
	}
	if s.Indent < 0 {
		return fmt.Errorf("%w: negative indent %d", ErrInvalidStyle, s.Indent)
	}
	m := s.Page.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return fmt.Errorf("%w: negative page margin %+v", ErrInvalidStyle, m)
	}
	if s.Page.Width <= 0 || s.Page.Height <= 0 {
		return fmt.Errorf("%w: page size %dx%d", ErrInvalidStyle, s.Page.Width, s.Page.Height)
	}
	if _, err := language.Parse(s.Language); err != nil {
		return fmt.Errorf("%w: language %q: %w", ErrInvalidStyle, s.Language, err)
	}
	return nil
}

// Body returns segmentation style for body text and values.
func (s Style) Body() segment.Style {
	return segment.Style{
		Size:        s.Sizes.Body,
		Font:        s.Font,
		Color:       s.Colors.Body,
		LinkColor:   s.Colors.Link,
		NoUnderline: !s.LinkUnderline,
	}
}

func isColor(c string) bool {
	if len(c) != 6 {
		return false
	}
	for i := 0; i < len(c); i++ {
		switch ch := c[i]; {
		case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}
