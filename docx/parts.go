package docx

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"wordgen/misc"
)

const (
	nsW    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT   = "http://schemas.openxmlformats.org/package/2006/content-types"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relAppProps       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	// styles and settings take rId1 and rId2 in document relationships
	firstLinkRel = 3

	headerFooterMargin = 708
)

func newXML() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func (s *pack) contentTypes() *etree.Document {
	doc := newXML()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsCT)

	for _, d := range [][2]string{
		{"rels", "application/vnd.openxmlformats-package.relationships+xml"},
		{"xml", "application/xml"},
	} {
		def := types.CreateElement("Default")
		def.CreateAttr("Extension", d[0])
		def.CreateAttr("ContentType", d[1])
	}
	for _, o := range [][2]string{
		{"/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{"/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
		{"/word/settings.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"},
		{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
		{"/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
	} {
		over := types.CreateElement("Override")
		over.CreateAttr("PartName", o[0])
		over.CreateAttr("ContentType", o[1])
	}
	return doc
}

func relationships() (*etree.Document, *etree.Element) {
	doc := newXML()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRels)
	return doc, rels
}

func addRel(rels *etree.Element, id int, typ, target string) *etree.Element {
	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", relID(id))
	rel.CreateAttr("Type", typ)
	rel.CreateAttr("Target", target)
	return rel
}

func relID(n int) string {
	return "rId" + strconv.Itoa(n)
}

func (s *pack) packageRels() *etree.Document {
	doc, rels := relationships()
	addRel(rels, 1, relOfficeDocument, "word/document.xml")
	addRel(rels, 2, relCoreProps, "docProps/core.xml")
	addRel(rels, 3, relAppProps, "docProps/app.xml")
	return doc
}

func (s *pack) documentRels() *etree.Document {
	doc, rels := relationships()
	addRel(rels, 1, relStyles, "styles.xml")
	addRel(rels, 2, relSettings, "settings.xml")
	for i, target := range s.links {
		addRel(rels, firstLinkRel+i, relHyperlink, target).CreateAttr("TargetMode", "External")
	}
	return doc
}

// collectLinks assigns relationships to all hyperlink targets in document
// order, the same target shares single relationship.
func (s *pack) collectLinks() {
	s.links, s.rels = nil, make(map[string]int)
	for i := range s.doc.Sections {
		for j := range s.doc.Sections[i].Paragraphs {
			for _, in := range s.doc.Sections[i].Paragraphs[j].Content {
				h, ok := in.(Hyperlink)
				if !ok {
					continue
				}
				if _, seen := s.rels[h.Target]; !seen {
					s.rels[h.Target] = len(s.links)
					s.links = append(s.links, h.Target)
				}
			}
		}
	}
}

// linkRel returns relationship id assigned to hyperlink target by
// collectLinks.
func (s *pack) linkRel(target string) string {
	return relID(firstLinkRel + s.rels[target])
}

func (s *pack) document() *etree.Document {
	doc := newXML()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	body := root.CreateElement("w:body")

	sections := s.doc.Sections
	if len(sections) == 0 {
		sections = []Section{{}}
	}
	for i := range sections {
		sec := &sections[i]
		for j := range sec.Paragraphs {
			s.paragraph(body, &sec.Paragraphs[j])
		}
		if i == len(sections)-1 {
			writeSectPr(body, sec)
			break
		}
		// all but last section end with paragraph carrying its properties
		writeSectPr(body.CreateElement("w:p").CreateElement("w:pPr"), sec)
	}
	return doc
}

func (s *pack) paragraph(parent *etree.Element, p *Paragraph) {
	para := parent.CreateElement("w:p")
	if p.SpacingBefore > 0 || p.SpacingAfter > 0 || p.Indent > 0 {
		ppr := para.CreateElement("w:pPr")
		if p.SpacingBefore > 0 || p.SpacingAfter > 0 {
			sp := ppr.CreateElement("w:spacing")
			if p.SpacingBefore > 0 {
				sp.CreateAttr("w:before", strconv.Itoa(p.SpacingBefore))
			}
			if p.SpacingAfter > 0 {
				sp.CreateAttr("w:after", strconv.Itoa(p.SpacingAfter))
			}
		}
		if p.Indent > 0 {
			ppr.CreateElement("w:ind").CreateAttr("w:left", strconv.Itoa(p.Indent))
		}
	}

	for _, in := range p.Content {
		switch v := in.(type) {
		case Run:
			s.run(para, &v, false)
		case Hyperlink:
			link := para.CreateElement("w:hyperlink")
			link.CreateAttr("r:id", s.linkRel(v.Target))
			link.CreateAttr("w:history", "1")
			for i := range v.Runs {
				s.run(link, &v.Runs[i], true)
			}
		}
	}
}

func (s *pack) run(parent *etree.Element, r *Run, link bool) {
	run := parent.CreateElement("w:r")
	rpr := run.CreateElement("w:rPr")
	if link {
		rpr.CreateElement("w:rStyle").CreateAttr("w:val", "Hyperlink")
	}
	if r.Font != "" {
		fonts := rpr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", r.Font)
		fonts.CreateAttr("w:hAnsi", r.Font)
		fonts.CreateAttr("w:cs", r.Font)
	}
	if r.Bold {
		rpr.CreateElement("w:b")
	}
	if r.Italic {
		rpr.CreateElement("w:i")
	}
	if r.Color != "" {
		rpr.CreateElement("w:color").CreateAttr("w:val", r.Color)
	}
	if r.Size > 0 {
		rpr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(r.Size))
		rpr.CreateElement("w:szCs").CreateAttr("w:val", strconv.Itoa(r.Size))
	}
	if r.Underline {
		rpr.CreateElement("w:u").CreateAttr("w:val", "single")
	}
	if s.doc.Language != "" {
		rpr.CreateElement("w:lang").CreateAttr("w:val", s.doc.Language)
	}
	if len(rpr.ChildElements()) == 0 {
		run.RemoveChild(rpr)
	}
	writeText(run, r.Text)
}

// writeText turns line breaks and tabs into their own elements, everything
// else goes to w:t with preserved spaces.
func writeText(run *etree.Element, text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for len(text) > 0 {
		i := strings.IndexAny(text, "\n\r\t")
		if i < 0 {
			i = len(text)
		}
		if i > 0 {
			t := run.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(text[:i])
		}
		if i == len(text) {
			break
		}
		if text[i] == '\t' {
			run.CreateElement("w:tab")
		} else {
			run.CreateElement("w:br")
		}
		text = text[i+1:]
	}
}

func writeSectPr(parent *etree.Element, sec *Section) {
	size, margins := sec.PageSize, sec.Margins
	if size.Width <= 0 || size.Height <= 0 {
		size = PageSize{Width: 11906, Height: 16838}
	}

	sect := parent.CreateElement("w:sectPr")
	pgSz := sect.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", strconv.Itoa(size.Width))
	pgSz.CreateAttr("w:h", strconv.Itoa(size.Height))
	if size.Width > size.Height {
		pgSz.CreateAttr("w:orient", "landscape")
	}

	pgMar := sect.CreateElement("w:pgMar")
	pgMar.CreateAttr("w:top", strconv.Itoa(margins.Top))
	pgMar.CreateAttr("w:right", strconv.Itoa(margins.Right))
	pgMar.CreateAttr("w:bottom", strconv.Itoa(margins.Bottom))
	pgMar.CreateAttr("w:left", strconv.Itoa(margins.Left))
	pgMar.CreateAttr("w:header", strconv.Itoa(headerFooterMargin))
	pgMar.CreateAttr("w:footer", strconv.Itoa(headerFooterMargin))
	pgMar.CreateAttr("w:gutter", "0")

	sect.CreateElement("w:cols").CreateAttr("w:space", "708")
	sect.CreateElement("w:docGrid").CreateAttr("w:linePitch", "360")
}

func (s *pack) styles() *etree.Document {
	doc := newXML()
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)

	rpr := root.CreateElement("w:docDefaults").CreateElement("w:rPrDefault").CreateElement("w:rPr")
	if s.doc.Language != "" {
		lang := rpr.CreateElement("w:lang")
		lang.CreateAttr("w:val", s.doc.Language)
		lang.CreateAttr("w:eastAsia", s.doc.Language)
		lang.CreateAttr("w:bidi", "ar-SA")
	}

	normal := root.CreateElement("w:style")
	normal.CreateAttr("w:type", "paragraph")
	normal.CreateAttr("w:default", "1")
	normal.CreateAttr("w:styleId", "Normal")
	normal.CreateElement("w:name").CreateAttr("w:val", "Normal")
	normal.CreateElement("w:qFormat")

	link := root.CreateElement("w:style")
	link.CreateAttr("w:type", "character")
	link.CreateAttr("w:styleId", "Hyperlink")
	link.CreateElement("w:name").CreateAttr("w:val", "Hyperlink")
	link.CreateElement("w:uiPriority").CreateAttr("w:val", "99")
	link.CreateElement("w:unhideWhenUsed")
	return doc
}

func (s *pack) settings() *etree.Document {
	doc := newXML()
	root := doc.CreateElement("w:settings")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:mc", "http://schemas.openxmlformats.org/markup-compatibility/2006")
	root.CreateAttr("xmlns:w15", "http://schemas.microsoft.com/office/word/2012/wordml")
	root.CreateAttr("mc:Ignorable", "w15")

	root.CreateElement("w:defaultTabStop").CreateAttr("w:val", "720")
	root.CreateElement("w:characterSpacingControl").CreateAttr("w:val", "doNotCompress")
	compat := root.CreateElement("w:compat").CreateElement("w:compatSetting")
	compat.CreateAttr("w:name", "compatibilityMode")
	compat.CreateAttr("w:uri", "http://schemas.microsoft.com/office/word")
	compat.CreateAttr("w:val", "15")
	root.CreateElement("w15:docId").CreateAttr("w15:val", "{"+strings.ToUpper(s.id.String())+"}")
	return doc
}

func (s *pack) coreProps() *etree.Document {
	doc := newXML()
	root := doc.CreateElement("cp:coreProperties")
	root.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	root.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	root.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	root.CreateAttr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	root.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	if s.doc.Title != "" {
		root.CreateElement("dc:title").SetText(s.doc.Title)
	}
	if s.doc.Creator != "" {
		root.CreateElement("dc:creator").SetText(s.doc.Creator)
		root.CreateElement("cp:lastModifiedBy").SetText(s.doc.Creator)
	}
	root.CreateElement("dc:identifier").SetText("urn:uuid:" + s.id.String())
	if s.doc.Language != "" {
		root.CreateElement("dc:language").SetText(s.doc.Language)
	}
	stamp := s.now.Format(time.RFC3339)
	for _, name := range []string{"dcterms:created", "dcterms:modified"} {
		el := root.CreateElement(name)
		el.CreateAttr("xsi:type", "dcterms:W3CDTF")
		el.SetText(stamp)
	}
	return doc
}

func (s *pack) appProps() *etree.Document {
	doc := newXML()
	root := doc.CreateElement("Properties")
	root.CreateAttr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	root.CreateAttr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")
	root.CreateElement("Application").SetText(misc.GetAppName() + " " + misc.GetVersion())
	root.CreateElement("DocSecurity").SetText("0")
	return doc
}
