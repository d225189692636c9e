package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"
)

// Packer serializes documents to .docx archives using built-in
// WordprocessingML writer.
type Packer struct {
	// FixZip rewrites resulting archive without data descriptors.
	FixZip bool
	// Now is used for archive entry times and document properties,
	// time.Now when nil.
	Now func() time.Time
	Log *zap.Logger
}

// ErrNoDocument is returned when nil document is passed for serialization.
var ErrNoDocument = errors.New("no document to serialize")

type part struct {
	name  string
	build func(*pack) *etree.Document
}

// Order matters, some readers detect format by looking at first entries.
// Parts are independent of each other, hyperlink relationships are assigned
// before any part is written.
var parts = []part{
	{"[Content_Types].xml", (*pack).contentTypes},
	{"_rels/.rels", (*pack).packageRels},
	{"word/document.xml", (*pack).document},
	{"word/_rels/document.xml.rels", (*pack).documentRels},
	{"word/styles.xml", (*pack).styles},
	{"word/settings.xml", (*pack).settings},
	{"docProps/core.xml", (*pack).coreProps},
	{"docProps/app.xml", (*pack).appProps},
}

// pack is serialization state of a single document.
type pack struct {
	doc   *Document
	id    uuid.UUID
	now   time.Time
	links []string       // hyperlink targets in relationship order
	rels  map[string]int // target -> index in links
}

// Serialize implements report.Serializer.
func (p *Packer) Serialize(ctx context.Context, doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &pack{doc: doc, id: doc.ID}
	s.collectLinks()
	if p.Now != nil {
		s.now = p.Now()
	} else {
		s.now = time.Now()
	}
	s.now = s.now.UTC().Truncate(time.Second)
	if s.id == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("unable to generate document id: %w", err)
		}
		s.id = id
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, pt := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeXMLToZip(zw, pt.name, s.now, pt.build(s)); err != nil {
			return nil, fmt.Errorf("unable to write %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("unable to close archive: %w", err)
	}

	data := buf.Bytes()
	if p.FixZip {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		if data, err = withoutDataDescriptors(data); err != nil {
			return nil, err
		}
	}

	log.Debug("Document serialized",
		zap.Stringer("id", s.id),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("links", len(s.links)),
		zap.Int("size", len(data)),
		zap.Bool("fixzip", p.FixZip))
	return data, nil
}

func writeXMLToZip(zw *zip.Writer, name string, t time.Time, doc *etree.Document) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}

func withoutDataDescriptors(data []byte) ([]byte, error) {
	r, err := fixzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to read archive: %w", err)
	}

	var buf bytes.Buffer
	w := fixzip.NewWriter(&buf)
	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		if err := w.CopyFile(file); err != nil {
			return nil, fmt.Errorf("unable to copy archive entry (%s): %w", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("unable to close archive: %w", err)
	}
	return buf.Bytes(), nil
}
