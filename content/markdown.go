package content

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// LoadMarkdown maps Markdown document to blocks:
//
//   - first level one heading is the title, other headings are section
//     headings;
//   - paragraph which is a single emphasis is a status line;
//   - paragraph starting with strong text ending with colon is a field;
//   - "Label: value" list items before first section heading are metadata,
//     other list items are body text;
//   - thematic break is a large gap;
//   - raw HTML blocks are body text with tags stripped;
//   - everything else is body text.
func LoadMarkdown(src []byte) (*Outline, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	m := &mdMapper{src: src}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		m.block(n)
	}
	return &Outline{Blocks: m.blocks}, nil
}

type mdMapper struct {
	src        []byte
	blocks     []Block
	haveTitle  bool
	inSections bool
}

func (m *mdMapper) add(b Block) {
	m.blocks = append(m.blocks, b)
}

func (m *mdMapper) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		t := m.inline(n)
		if n.Level == 1 && !m.haveTitle {
			m.haveTitle = true
			m.add(Block{Kind: Title, Text: t})
			return
		}
		m.inSections = true
		m.add(Block{Kind: Heading, Text: t})

	case *ast.Paragraph:
		m.paragraph(n)

	case *ast.List:
		for li := n.FirstChild(); li != nil; li = li.NextSibling() {
			t := m.blockText(li)
			if !m.inSections {
				if label, value, ok := metadata(t); ok {
					m.add(Block{Kind: Metadata, Label: label, Text: value})
					continue
				}
			}
			m.add(Block{Kind: Body, Text: t})
		}

	case *ast.ThematicBreak:
		m.add(Block{Kind: Spacer, Twips: LargeGap})

	case *ast.CodeBlock, *ast.FencedCodeBlock:
		m.add(Block{Kind: Body, Text: strings.TrimSuffix(m.lines(n), "\n")})

	case *ast.Blockquote:
		m.add(Block{Kind: Body, Text: m.blockText(n)})

	case *ast.HTMLBlock:
		raw := m.lines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(m.src))
		}
		if t := htmlText([]byte(raw)); len(t) > 0 {
			m.add(Block{Kind: Body, Text: t})
		}
	}
}

func (m *mdMapper) paragraph(p *ast.Paragraph) {
	first := p.FirstChild()
	if em, ok := first.(*ast.Emphasis); ok {
		switch {
		case em.Level == 1 && first.NextSibling() == nil:
			m.add(Block{Kind: Status, Text: m.inline(em)})
			return
		case em.Level == 2:
			label := strings.TrimSpace(m.inline(em))
			if strings.HasSuffix(label, ":") {
				var buf strings.Builder
				for c := first.NextSibling(); c != nil; c = c.NextSibling() {
					m.writeInline(&buf, c)
				}
				m.add(Block{
					Kind:  Field,
					Label: strings.TrimSpace(strings.TrimSuffix(label, ":")),
					Text:  strings.TrimSpace(buf.String()),
				})
				return
			}
		}
	}
	m.add(Block{Kind: Body, Text: m.inline(p)})
}

// metadata splits "Label: value" where label is a single line.
func metadata(s string) (label, value string, ok bool) {
	label, value, ok = strings.Cut(s, ": ")
	if !ok || label == "" || strings.ContainsAny(label, "\n") {
		return "", "", false
	}
	return strings.TrimSpace(label), strings.TrimSpace(value), true
}

// blockText joins text of child blocks with line breaks.
func (m *mdMapper) blockText(n ast.Node) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.List:
			for li := c.FirstChild(); li != nil; li = li.NextSibling() {
				parts = append(parts, m.blockText(li))
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			parts = append(parts, strings.TrimSuffix(m.lines(c), "\n"))
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			parts = append(parts, m.inline(c))
		default:
			parts = append(parts, m.blockText(c))
		}
	}
	return strings.Join(parts, "\n")
}

func (m *mdMapper) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(m.src))
	}
	return buf.String()
}

func (m *mdMapper) inline(n ast.Node) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		m.writeInline(&buf, c)
	}
	return strings.TrimSpace(buf.String())
}

func (m *mdMapper) writeInline(buf *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		if n.IsRaw() {
			buf.Write(n.Segment.Value(m.src))
		} else {
			buf.Write(unescape(n.Segment.Value(m.src)))
		}
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}
	case *ast.String:
		if n.IsRaw() || n.IsCode() {
			buf.Write(n.Value)
		} else {
			buf.Write(unescape(n.Value))
		}
	case *ast.CodeSpan:
		// code is literal, no escapes or entities
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				buf.Write(c.Segment.Value(m.src))
			case *ast.String:
				buf.Write(c.Value)
			}
		}
	case *ast.AutoLink:
		buf.Write(n.URL(m.src))
	case *ast.Link:
		label := m.inline(n)
		dest := string(unescape(n.Destination))
		// keep destination in text so it ends up as hyperlink
		if label == "" || label == dest {
			buf.WriteString(dest)
		} else {
			buf.WriteString(label + ": " + dest)
		}
	case *ast.Image:
		buf.WriteString(m.inline(n))
	case *ast.RawHTML:
		// only line breaks survive from inline tags
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			if isBreakTag(seg.Value(m.src)) {
				buf.WriteByte('\n')
			}
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			m.writeInline(buf, c)
		}
	}
}

// unescape resolves backslash escapes and character references the same way
// goldmark does when rendering text.
func unescape(b []byte) []byte {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return util.ResolveEntityNames(b)
}

func isBreakTag(tag []byte) bool {
	t := strings.ToLower(strings.Join(strings.Fields(string(tag)), ""))
	return t == "<br>" || t == "<br/>"
}
