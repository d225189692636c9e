// Package ooxml serializes documents with baliance.com/gooxml.
package ooxml

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"baliance.com/gooxml"
	"baliance.com/gooxml/color"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/ofc/sharedTypes"
	"baliance.com/gooxml/schema/soo/wml"
	"go.uber.org/zap"

	"wordgen/docx"
)

// Packer implements report.Serializer on top of gooxml document model.
type Packer struct {
	Log *zap.Logger
}

// Serialize converts document tree to gooxml document and saves it. gooxml
// supports single body section only, page setup of the last section is used.
func (p *Packer) Serialize(ctx context.Context, doc *docx.Document) ([]byte, error) {
	if doc == nil {
		return nil, docx.ErrNoDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	out := document.New()
	if doc.Title != "" {
		out.CoreProperties.SetTitle(doc.Title)
	}
	if doc.Creator != "" {
		out.CoreProperties.SetAuthor(doc.Creator)
	}

	var links int
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		for j := range sec.Paragraphs {
			links += addParagraph(out, &sec.Paragraphs[j], doc.Language)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if n := len(doc.Sections); n > 0 {
		setupPage(out.BodySection(), &doc.Sections[n-1])
	}

	var buf bytes.Buffer
	if err := out.Save(&buf); err != nil {
		return nil, fmt.Errorf("unable to save document: %w", err)
	}
	log.Debug("Document serialized with gooxml",
		zap.Int("sections", len(doc.Sections)),
		zap.Int("links", links),
		zap.Int("size", buf.Len()))
	return buf.Bytes(), nil
}

func addParagraph(out *document.Document, p *docx.Paragraph, lang string) (links int) {
	para := out.AddParagraph()
	if p.SpacingBefore > 0 {
		para.Properties().Spacing().SetBefore(measurement.Distance(p.SpacingBefore) * measurement.Twips)
	}
	if p.SpacingAfter > 0 {
		para.Properties().Spacing().SetAfter(measurement.Distance(p.SpacingAfter) * measurement.Twips)
	}
	if p.Indent > 0 {
		para.Properties().SetStartIndent(measurement.Distance(p.Indent) * measurement.Twips)
	}

	for _, in := range p.Content {
		switch v := in.(type) {
		case docx.Run:
			formatRun(para.AddRun(), &v, lang)
		case docx.Hyperlink:
			hl := para.AddHyperLink()
			hl.SetTarget(v.Target)
			for i := range v.Runs {
				formatRun(hl.AddRun(), &v.Runs[i], lang)
			}
			links++
		}
	}
	return links
}

func formatRun(run document.Run, r *docx.Run, lang string) {
	props := run.Properties()
	if r.Font != "" {
		props.SetFontFamily(r.Font)
	}
	if r.Bold {
		props.SetBold(true)
	}
	if r.Italic {
		props.SetItalic(true)
	}
	if r.Color != "" {
		props.SetColor(color.FromHex(r.Color))
	}
	if r.Size > 0 {
		props.SetSize(measurement.Distance(r.Size) * measurement.HalfPoint)
	}
	if r.Underline {
		props.SetUnderline(wml.ST_UnderlineSingle, color.Auto)
	}
	if lang != "" {
		props.X().Lang = wml.NewCT_Language()
		props.X().Lang.ValAttr = gooxml.String(lang)
	}

	lines := strings.Split(strings.ReplaceAll(r.Text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			run.AddBreak()
		}
		tabs := strings.Split(line, "\t")
		for j, t := range tabs {
			if j > 0 {
				run.AddTab()
			}
			if t != "" {
				run.AddText(t)
			}
		}
	}
}

func setupPage(s document.Section, sec *docx.Section) {
	m := sec.Margins
	s.SetPageMargins(
		measurement.Distance(m.Top)*measurement.Twips,
		measurement.Distance(m.Right)*measurement.Twips,
		measurement.Distance(m.Bottom)*measurement.Twips,
		measurement.Distance(m.Left)*measurement.Twips,
		708*measurement.Twips,
		708*measurement.Twips,
		0,
	)
	if sec.PageSize.Width <= 0 || sec.PageSize.Height <= 0 {
		return
	}
	sz := wml.NewCT_PageSz()
	sz.WAttr = &sharedTypes.ST_TwipsMeasure{ST_UnsignedDecimalNumber: gooxml.Uint64(uint64(sec.PageSize.Width))}
	sz.HAttr = &sharedTypes.ST_TwipsMeasure{ST_UnsignedDecimalNumber: gooxml.Uint64(uint64(sec.PageSize.Height))}
	s.X().PgSz = sz
}
