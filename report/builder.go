// Package report assembles styled documents from a fixed set of paragraph
// kinds: title, metadata, status line, section heading, labeled value, body
// text and spacer. URLs in values and body text become hyperlinks.
package report

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wordgen/docx"
	"wordgen/segment"
	"wordgen/style"
)

// DefaultFileName is used by Download when no name is known.
const DefaultFileName = "dokument.docx"

// Serializer turns document into .docx bytes.
type Serializer interface {
	Serialize(ctx context.Context, doc *docx.Document) ([]byte, error)
}

// Persister saves serialized document under requested name and returns
// location where it ended up.
type Persister interface {
	Persist(ctx context.Context, data []byte, name string) (string, error)
}

// Builder accumulates paragraphs. Add methods return the same builder so
// calls could be chained. Builder is not safe for concurrent use.
type Builder struct {
	serializer Serializer
	persister  Persister
	style      style.Style
	seg        *segment.Segmenter
	log        *zap.Logger
	noContent  string
	fileName   string
	creator    string

	title      string
	paragraphs []docx.Paragraph
}

// New creates builder. Serializer is required, persister is only needed for
// Download.
func New(ser Serializer, opts ...Option) (*Builder, error) {
	if ser == nil {
		return nil, ErrNoSerializer
	}
	b := &Builder{
		serializer: ser,
		style:      style.Default(),
		log:        zap.NewNop(),
		noContent:  segment.NoContent,
		fileName:   DefaultFileName,
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.style.Validate(); err != nil {
		return nil, err
	}
	b.seg = segment.New(b.noContent)
	return b, nil
}

func (b *Builder) add(p docx.Paragraph) *Builder {
	b.paragraphs = append(b.paragraphs, p)
	return b
}

func (b *Builder) run(text string, size int, color string) docx.Run {
	return docx.Run{Text: text, Size: size, Font: b.style.Font, Color: color}
}

// AddTitle adds bold heading colored title. First title also becomes
// document title in its properties.
func (b *Builder) AddTitle(text string) *Builder {
	if b.title == "" {
		b.title = text
	}
	r := b.run(text, b.style.Sizes.Title, b.style.Colors.Heading)
	r.Bold = true
	return b.add(docx.Paragraph{
		SpacingAfter: b.style.Spacing.TitleAfter,
		Content:      []docx.Inline{r},
	})
}

// AddMetadata adds "label: value" line with bold label.
func (b *Builder) AddMetadata(label, value string) *Builder {
	l := b.run(label+": ", b.style.Sizes.Body, b.style.Colors.Body)
	l.Bold = true
	return b.add(docx.Paragraph{
		SpacingAfter: b.style.Spacing.MetadataAfter,
		Content:      []docx.Inline{l, b.run(value, b.style.Sizes.Body, b.style.Colors.Body)},
	})
}

// AddStatusLine adds italic line followed by large gap.
func (b *Builder) AddStatusLine(text string) *Builder {
	r := b.run(text, b.style.Sizes.Body, b.style.Colors.Body)
	r.Italic = true
	return b.add(docx.Paragraph{
		SpacingAfter: b.style.Spacing.LargeGap,
		Content:      []docx.Inline{r},
	})
}

func (b *Builder) AddSectionHeading(text string) *Builder {
	r := b.run(text, b.style.Sizes.SectionHeading, b.style.Colors.Heading)
	r.Bold = true
	return b.add(docx.Paragraph{
		SpacingBefore: b.style.Spacing.SectionBefore,
		SpacingAfter:  b.style.Spacing.SectionAfter,
		Content:       []docx.Inline{r},
	})
}

// AddLabelValue adds two paragraphs: bold "label:" and indented value with
// URLs turned into hyperlinks.
func (b *Builder) AddLabelValue(label, value string) *Builder {
	l := b.run(label+":", b.style.Sizes.Body, b.style.Colors.Body)
	l.Bold = true
	b.add(docx.Paragraph{
		SpacingAfter: b.style.Spacing.LabelAfter,
		Content:      []docx.Inline{l},
	})
	return b.AddBodyText(value)
}

// AddBodyText adds indented paragraph with URLs turned into hyperlinks.
func (b *Builder) AddBodyText(text string) *Builder {
	return b.add(docx.Paragraph{
		SpacingAfter: b.style.Spacing.BodyAfter,
		Indent:       b.style.Indent,
		Content:      Inlines(b.seg.Split(text, b.style.Body())),
	})
}

// AddSpacer adds empty paragraph, twips <= 0 means default spacer size.
func (b *Builder) AddSpacer(twips int) *Builder {
	if twips <= 0 {
		twips = b.style.Spacing.Spacer
	}
	return b.add(docx.Paragraph{SpacingAfter: twips})
}

// Len returns number of accumulated paragraphs.
func (b *Builder) Len() int {
	return len(b.paragraphs)
}

// Build returns document with a single section holding copy of all
// paragraphs added so far.
func (b *Builder) Build() *docx.Document {
	m := b.style.Page.Margins
	return &docx.Document{
		Title:    b.title,
		Creator:  b.creator,
		Language: b.style.Language,
		Sections: []docx.Section{{
			PageSize:   docx.PageSize{Width: b.style.Page.Width, Height: b.style.Page.Height},
			Margins:    docx.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left},
			Paragraphs: append([]docx.Paragraph(nil), b.paragraphs...),
		}},
	}
}

// Bytes builds and serializes document.
func (b *Builder) Bytes(ctx context.Context) ([]byte, error) {
	data, err := b.serializer.Serialize(ctx, b.Build())
	if err != nil {
		return nil, fmt.Errorf("unable to serialize document: %w", err)
	}
	return data, nil
}

// Download builds, serializes and persists document under name (default
// name when empty). Returns location reported by persister.
func (b *Builder) Download(ctx context.Context, name string) (string, error) {
	if b.persister == nil {
		return "", ErrNoPersister
	}
	if name == "" {
		name = b.fileName
	}
	data, err := b.Bytes(ctx)
	if err != nil {
		return "", err
	}
	location, err := b.persister.Persist(ctx, data, name)
	if err != nil {
		return "", fmt.Errorf("unable to save document %s: %w", name, err)
	}
	b.log.Info("Document saved",
		zap.String("location", location),
		zap.Int("paragraphs", len(b.paragraphs)),
		zap.Int("size", len(data)))
	return location, nil
}

// Inlines converts spans to document inline content: plain spans become
// runs, links become hyperlinks with single run.
func Inlines(spans []segment.Span) []docx.Inline {
	out := make([]docx.Inline, 0, len(spans))
	for _, s := range spans {
		r := docx.Run{Text: s.Text, Size: s.Size, Font: s.Font, Color: s.Color}
		if s.Kind == segment.Link {
			r.Underline = s.Underline
			out = append(out, docx.Hyperlink{Target: s.Target, Runs: []docx.Run{r}})
			continue
		}
		out = append(out, r)
	}
	return out
}

// Style returns style builder uses.
func (b *Builder) Style() style.Style {
	return b.style
}
