package content

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlText extracts readable text from HTML fragment. Anchor targets are kept
// after anchor text the same way Markdown links are, block level elements and
// <br> start new lines, script and style content is dropped.
func htmlText(src []byte) string {
	var (
		buf   strings.Builder
		skip  int
		links []string
		texts []int
	)
	newline := func() {
		s := buf.String()
		if len(s) > 0 && !strings.HasSuffix(s, "\n") {
			buf.WriteByte('\n')
		}
	}

	z := html.NewTokenizer(bytes.NewReader(src))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed tail, either way we are done
			return strings.TrimSpace(collapseBlank(buf.String()))

		case html.TextToken:
			if skip > 0 {
				continue
			}
			t := squash(string(z.Text()))
			if cur := buf.String(); len(cur) == 0 || strings.HasSuffix(cur, " ") || strings.HasSuffix(cur, "\n") {
				t = strings.TrimLeft(t, " ")
			}
			buf.WriteString(t)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch a := atom.Lookup(name); a {
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skip++
				}
			case atom.Br:
				buf.WriteByte('\n')
			case atom.A:
				if tt == html.SelfClosingTagToken {
					continue
				}
				var href string
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = string(val)
					}
				}
				links = append(links, href)
				texts = append(texts, buf.Len())
			default:
				if isBlockElement(a) {
					newline()
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch a := atom.Lookup(name); a {
			case atom.Script, atom.Style:
				if skip > 0 {
					skip--
				}
			case atom.A:
				if len(links) == 0 {
					continue
				}
				href, start := links[len(links)-1], texts[len(texts)-1]
				links, texts = links[:len(links)-1], texts[:len(texts)-1]
				if len(href) == 0 {
					continue
				}
				label := strings.TrimSpace(buf.String()[start:])
				switch {
				case label == "":
					buf.WriteString(href)
				case label != href:
					buf.WriteString(": " + href)
				}
			default:
				if isBlockElement(a) {
					newline()
				}
			}
		}
	}
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Table, atom.Tr,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre, atom.Section, atom.Article, atom.Header, atom.Footer:
		return true
	}
	return false
}

// squash collapses whitespace runs into single space.
func squash(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		if len(s) > 0 {
			return " "
		}
		return ""
	}
	out := strings.Join(f, " ")
	if r, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(r) {
		out = " " + out
	}
	if r, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(r) {
		out += " "
	}
	return out
}

// collapseBlank trims lines and removes empty ones.
func collapseBlank(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); len(l) > 0 {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
