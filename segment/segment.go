// Package segment splits text into plain and hyperlink spans so URLs found in
// free text end up as clickable links in the generated document.
package segment

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Defaults used when Style fields are left empty.
const (
	DefaultSize      = 22 // half-points, 11pt
	DefaultFont      = "Calibri"
	DefaultColor     = "000000"
	DefaultLinkColor = "0563C1"

	// NoContent is placeholder text callers put into empty fields. It is
	// never scanned for links.
	NoContent = "Ingen noter"
)

// urlPattern is an ECMAScript expression so \s covers exactly the same set of
// white space characters as in browsers (NBSP, U+2028, U+FEFF, etc). Anything
// up to the next white space belongs to the link, including trailing
// punctuation.
const urlPattern = `https?://[^\s]+`

// Kind distinguishes span variants.
type Kind int

const (
	Plain Kind = iota
	Link
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Link:
		return "link"
	default:
		return "unknown"
	}
}

// Style describes how spans are rendered. Zero values are replaced with
// package defaults.
type Style struct {
	Size        int // half-points
	Font        string
	Color       string // RRGGBB for plain text
	LinkColor   string // RRGGBB for hyperlinks
	NoUnderline bool   // links are underlined unless set
}

func (s Style) resolve() Style {
	if s.Size <= 0 {
		s.Size = DefaultSize
	}
	if s.Font == "" {
		s.Font = DefaultFont
	}
	if s.Color == "" {
		s.Color = DefaultColor
	}
	if s.LinkColor == "" {
		s.LinkColor = DefaultLinkColor
	}
	return s
}

func (s Style) plain(text string) Span {
	return Span{Kind: Plain, Text: text, Size: s.Size, Font: s.Font, Color: s.Color}
}

func (s Style) link(text string) Span {
	return Span{Kind: Link, Text: text, Target: text, Size: s.Size, Font: s.Font, Color: s.LinkColor, Underline: !s.NoUnderline}
}

// Span is a contiguous piece of text with fully resolved rendering
// attributes. Target and Underline are only meaningful for links.
type Span struct {
	Kind      Kind
	Text      string
	Target    string
	Size      int
	Font      string
	Color     string
	Underline bool
}

// Segmenter splits text into spans. It holds no mutable state and may be
// shared between goroutines.
type Segmenter struct {
	noContent string
	re        *regexp2.Regexp
}

// New returns segmenter which treats noContent as a literal placeholder to be
// returned as is.
func New(noContent string) *Segmenter {
	return &Segmenter{
		noContent: noContent,
		re:        regexp2.MustCompile(urlPattern, regexp2.ECMAScript),
	}
}

var std = New(NoContent)

// Split partitions text using default placeholder, see Segmenter.Split.
func Split(text string, base Style) []Span {
	return std.Split(text, base)
}

// Split partitions text into ordered spans. Every URL becomes a link span
// whose target equals its text, everything in between becomes plain spans.
// Result is never empty and concatenation of span texts always reproduces
// the input byte for byte.
func (s *Segmenter) Split(text string, base Style) []Span {
	st := base.resolve()

	if text == "" || text == s.noContent {
		return []Span{st.plain(text)}
	}

	// regexp2 works on runes, keep byte offsets of every rune so we could cut
	// original string - it may be invalid UTF-8 and must survive unchanged.
	runes := make([]rune, 0, len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	var (
		spans  []Span
		cursor int
	)
	// without match timeout the only possible error is never returned, in
	// any case the rest of the text goes out as plain
	m, err := s.re.FindRunesMatch(runes)
	for ; m != nil && err == nil; m, err = s.re.FindNextMatch(m) {
		start, end := offsets[m.Index], offsets[m.Index+m.Length]
		if start > cursor {
			spans = append(spans, st.plain(text[cursor:start]))
		}
		spans = append(spans, st.link(text[start:end]))
		cursor = end
	}
	if cursor < len(text) {
		spans = append(spans, st.plain(text[cursor:]))
	}
	return spans
}

// Text concatenates text of all spans.
func Text(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
