package ooxml

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"baliance.com/gooxml/document"
	"github.com/beevik/etree"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"wordgen/docx"
)

func sampleDocument() *docx.Document {
	return &docx.Document{
		Title:    "Status",
		Language: "da-DK",
		Sections: []docx.Section{{
			PageSize: docx.PageSize{Width: 11906, Height: 16838},
			Margins:  docx.Margins{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440},
			Paragraphs: []docx.Paragraph{
				{SpacingAfter: 400, Content: []docx.Inline{docx.Run{Text: "Status", Bold: true, Size: 32, Font: "Calibri", Color: "003D5C"}}},
				{SpacingAfter: 200, Indent: 300, Content: []docx.Inline{
					docx.Run{Text: "Se ", Size: 22},
					docx.Hyperlink{Target: "https://a.dk", Runs: []docx.Run{{Text: "https://a.dk", Color: "0563C1", Underline: true}}},
					docx.Run{Text: " nu"},
				}},
			},
		}},
	}
}

func readPart(t *testing.T, data []byte, name string) *etree.Document {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("result is not a zip archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", name, err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("unable to read %s: %v", name, err)
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(raw); err != nil {
			t.Fatalf("%s is not valid XML: %v", name, err)
		}
		return doc
	}
	t.Fatalf("archive has no %s", name)
	return nil
}

func TestSerialize(t *testing.T) {
	p := &Packer{Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller()))}
	data, err := p.Serialize(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("document.Read() error = %v", err)
	}
	paras := doc.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("read back %d paragraphs, want 2", len(paras))
	}
	if runs := paras[0].Runs(); len(runs) != 1 || runs[0].Text() != "Status" {
		t.Error("title read back wrong")
	}

	body := readPart(t, data, "word/document.xml")
	links := body.FindElements("//w:hyperlink")
	if len(links) != 1 {
		t.Fatalf("document has %d hyperlinks, want 1", len(links))
	}
	id := links[0].SelectAttrValue("r:id", "")

	rels := readPart(t, data, "word/_rels/document.xml.rels")
	var found bool
	for _, rel := range rels.FindElements("//Relationship") {
		if rel.SelectAttrValue("Id", "") == id {
			found = true
			if rel.SelectAttrValue("Target", "") != "https://a.dk" || rel.SelectAttrValue("TargetMode", "") != "External" {
				t.Errorf("hyperlink relationship = %v", rel.Attr)
			}
		}
	}
	if !found {
		t.Errorf("relationship %s not found", id)
	}

	if body.FindElement("//w:pgMar") == nil || body.FindElement("//w:pgSz") == nil {
		t.Error("page setup is missing")
	}
	if body.FindElement("//w:ind") == nil {
		t.Error("indent is missing")
	}
}

func TestSerialize_Errors(t *testing.T) {
	p := &Packer{}
	if _, err := p.Serialize(context.Background(), nil); !errors.Is(err, docx.ErrNoDocument) {
		t.Errorf("Serialize(nil) error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Serialize(ctx, sampleDocument()); !errors.Is(err, context.Canceled) {
		t.Errorf("Serialize() with cancelled context error = %v", err)
	}
}
