// Package content loads document content from YAML outlines and Markdown
// files and replays it on report builder.
package content

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"wordgen/report"
)

// Kind is a builder call a block turns into.
type Kind int

const (
	Title Kind = iota
	Metadata
	Status
	Heading
	Field
	Body
	Spacer
)

func (k Kind) String() string {
	switch k {
	case Title:
		return "title"
	case Metadata:
		return "metadata"
	case Status:
		return "status"
	case Heading:
		return "heading"
	case Field:
		return "field"
	case Body:
		return "body"
	case Spacer:
		return "spacer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Block is a single builder call. Label is used by metadata and fields only,
// Twips by spacers only (0 means default spacer, LargeGap means large gap
// from the style).
type Block struct {
	Kind  Kind
	Label string
	Text  string
	Twips int
}

// LargeGap requests spacer of style's large gap size.
const LargeGap = -1

// Outline is an ordered list of blocks with optional name for resulting
// document.
type Outline struct {
	FileName string
	Blocks   []Block
}

// Apply replays outline on builder and returns it.
func (o *Outline) Apply(b *report.Builder) *report.Builder {
	for _, blk := range o.Blocks {
		switch blk.Kind {
		case Title:
			b.AddTitle(blk.Text)
		case Metadata:
			b.AddMetadata(blk.Label, blk.Text)
		case Status:
			b.AddStatusLine(blk.Text)
		case Heading:
			b.AddSectionHeading(blk.Text)
		case Field:
			b.AddLabelValue(blk.Label, blk.Text)
		case Body:
			b.AddBodyText(blk.Text)
		case Spacer:
			twips := blk.Twips
			if twips == LargeGap {
				twips = b.Style().Spacing.LargeGap
			}
			b.AddSpacer(twips)
		}
	}
	return b
}

// Load detects content format by file name extension. Input which is not
// UTF-8 text is rejected early.
func Load(name string, data []byte) (*Outline, error) {
	if !isText(data) {
		if kind, _ := filetype.Match(data); kind != filetype.Unknown {
			return nil, fmt.Errorf("%s: binary input is not supported (%s)", name, kind.MIME.Value)
		}
		return nil, fmt.Errorf("%s: binary input is not supported", name)
	}

	var (
		o   *Outline
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		o, err = LoadOutline(bytes.NewReader(data))
	case ".md", ".markdown":
		o, err = LoadMarkdown(data)
	default:
		return nil, fmt.Errorf("%s: unsupported content type %q", name, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return o, nil
}

func isText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}
