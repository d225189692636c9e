package content

import (
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"
)

type pair struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// item has exactly one field set.
type item struct {
	Title    *string `yaml:"title"`
	Metadata *pair   `yaml:"metadata"`
	Status   *string `yaml:"status"`
	Heading  *string `yaml:"heading"`
	Field    *pair   `yaml:"field"`
	Body     *string `yaml:"body"`
	Spacer   *int    `yaml:"spacer"`
}

type outlineFile struct {
	FileName string `yaml:"file_name"`
	Blocks   []item `yaml:"blocks"`
}

// LoadOutline reads YAML outline:
//
//	file_name: rapport.docx
//	blocks:
//	  - title: Referat
//	  - metadata: {label: Projekt, value: Wordgen}
//	  - heading: 1. Afsnit
//	  - field: {label: Link, value: https://example.dk}
//	  - body: Tekst
//	  - spacer: 400
func LoadOutline(r io.Reader) (*Outline, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f outlineFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("outline is empty")
		}
		return nil, fmt.Errorf("failed to decode outline: %w", err)
	}

	o := &Outline{FileName: f.FileName, Blocks: make([]Block, 0, len(f.Blocks))}
	for i, it := range f.Blocks {
		blk, err := it.block()
		if err != nil {
			return nil, fmt.Errorf("outline block %d: %w", i, err)
		}
		o.Blocks = append(o.Blocks, blk)
	}
	return o, nil
}

func (it *item) block() (Block, error) {
	var (
		blocks []Block
		set    []string
	)
	str := func(name string, kind Kind, v *string) {
		if v != nil {
			blocks = append(blocks, Block{Kind: kind, Text: *v})
			set = append(set, name)
		}
	}
	lv := func(name string, kind Kind, v *pair) {
		if v != nil {
			blocks = append(blocks, Block{Kind: kind, Label: v.Label, Text: v.Value})
			set = append(set, name)
		}
	}
	str("title", Title, it.Title)
	lv("metadata", Metadata, it.Metadata)
	str("status", Status, it.Status)
	str("heading", Heading, it.Heading)
	lv("field", Field, it.Field)
	str("body", Body, it.Body)
	if it.Spacer != nil {
		if *it.Spacer < 0 {
			return Block{}, fmt.Errorf("negative spacer %d", *it.Spacer)
		}
		blocks = append(blocks, Block{Kind: Spacer, Twips: *it.Spacer})
		set = append(set, "spacer")
	}

	switch len(blocks) {
	case 1:
		return blocks[0], nil
	case 0:
		return Block{}, errors.New("block kind is not specified")
	default:
		return Block{}, fmt.Errorf("block has more than one kind: %v", set)
	}
}
