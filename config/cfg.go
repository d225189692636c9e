package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	MarginsConfig struct {
		Top    int `yaml:"top" validate:"gte=0"`
		Right  int `yaml:"right" validate:"gte=0"`
		Bottom int `yaml:"bottom" validate:"gte=0"`
		Left   int `yaml:"left" validate:"gte=0"`
	}

	// PageConfig values are in twips (1/20 of a point).
	PageConfig struct {
		Width   int           `yaml:"width" validate:"min=1440"`
		Height  int           `yaml:"height" validate:"min=1440"`
		Margins MarginsConfig `yaml:"margins"`
	}

	ColorsConfig struct {
		Heading string `yaml:"heading" validate:"len=6,hexadecimal"`
		Body    string `yaml:"body" validate:"len=6,hexadecimal"`
		Link    string `yaml:"link" validate:"len=6,hexadecimal"`
	}

	// SizesConfig values are in half-points.
	SizesConfig struct {
		Title          int `yaml:"title" validate:"min=2"`
		SectionHeading int `yaml:"section_heading" validate:"min=2"`
		Body           int `yaml:"body" validate:"min=2"`
	}

	SpacingConfig struct {
		TitleAfter    int `yaml:"title_after" validate:"gte=0"`
		MetadataAfter int `yaml:"metadata_after" validate:"gte=0"`
		SectionBefore int `yaml:"section_before" validate:"gte=0"`
		SectionAfter  int `yaml:"section_after" validate:"gte=0"`
		LabelAfter    int `yaml:"label_after" validate:"gte=0"`
		BodyAfter     int `yaml:"body_after" validate:"gte=0"`
		LargeGap      int `yaml:"large_gap" validate:"gte=0"`
		Spacer        int `yaml:"spacer" validate:"gte=0"`
	}

	IndentConfig struct {
		Content int `yaml:"content" validate:"gte=0"`
	}

	StyleConfig struct {
		Font          string        `yaml:"font" validate:"required"`
		LinkUnderline bool          `yaml:"link_underline"`
		Colors        ColorsConfig  `yaml:"colors"`
		Sizes         SizesConfig   `yaml:"sizes"`
		Spacing       SpacingConfig `yaml:"spacing"`
		Indent        IndentConfig  `yaml:"indent"`
	}

	DocumentConfig struct {
		Engine                string      `yaml:"engine" validate:"oneof=native gooxml"`
		FixZip                bool        `yaml:"fix_zip"`
		FileName              string      `yaml:"file_name" validate:"required"`
		FileNameTransliterate bool        `yaml:"file_name_transliterate"`
		Creator               string      `yaml:"creator"`
		Language              string      `yaml:"language" validate:"required"`
		NoContent             string      `yaml:"no_content"`
		Page                  PageConfig  `yaml:"page"`
		Style                 StyleConfig `yaml:"style"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// Supported document engines.
const (
	EngineNative = "native"
	EngineGooxml = "gooxml"
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration expands embedded configuration template to get defaults,
// puts values from the file at the given path (if any) on top of it and
// validates the result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
