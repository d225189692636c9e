package style

import (
	"errors"
	"strings"
	"testing"

	"wordgen/config"
	"wordgen/segment"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestDefault_Fresh(t *testing.T) {
	a := Default()
	a.Font = "Arial"
	a.Colors.Link = "FF0000"
	if b := Default(); b.Font != "Calibri" || b.Colors.Link != "0563C1" {
		t.Errorf("Default() returned shared value: %+v", b)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Style)
	}{
		{"empty font", func(s *Style) { s.Font = "" }},
		{"short color", func(s *Style) { s.Colors.Body = "000" }},
		{"not hex color", func(s *Style) { s.Colors.Link = "blue!!" }},
		{"zero size", func(s *Style) { s.Sizes.Title = 0 }},
		{"negative spacing", func(s *Style) { s.Spacing.LargeGap = -1 }},
		{"negative indent", func(s *Style) { s.Indent = -300 }},
		{"negative margin", func(s *Style) { s.Page.Margins.Left = -1 }},
		{"no page", func(s *Style) { s.Page.Width = 0 }},
		{"bad language", func(s *Style) { s.Language = "not a tag" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			err := s.Validate()
			if !errors.Is(err, ErrInvalidStyle) {
				t.Errorf("Validate() error = %v, want ErrInvalidStyle", err)
			}
		})
	}
}

func TestValidate_FirstInvalidNamed(t *testing.T) {
	s := Default()
	s.Colors.Heading = "x"
	s.Colors.Body = "y"
	s.Colors.Link = "z"
	s.Sizes.Title = 0
	s.Sizes.Body = -1
	for i := 0; i < 20; i++ {
		err := s.Validate()
		if err == nil || !strings.Contains(err.Error(), "heading color") {
			t.Fatalf("Validate() error = %v, want heading color reported", err)
		}
	}

	s = Default()
	s.Sizes.SectionHeading = 0
	s.Sizes.Body = 0
	for i := 0; i < 20; i++ {
		err := s.Validate()
		if err == nil || !strings.Contains(err.Error(), "section heading size") {
			t.Fatalf("Validate() error = %v, want section heading size reported", err)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	s, err := FromConfig(&cfg.Document.Style, &cfg.Document.Page, "da-dk")
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if s != Default() {
		t.Errorf("FromConfig(defaults) = %+v\nwant %+v", s, Default())
	}
	if s.Language != "da-DK" {
		t.Errorf("Language = %q, want canonical da-DK", s.Language)
	}

	cfg.Document.Style.Font = ""
	if _, err := FromConfig(&cfg.Document.Style, &cfg.Document.Page, "da-DK"); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("FromConfig() error = %v, want ErrInvalidStyle", err)
	}
}

func TestBody(t *testing.T) {
	s := Default()
	got := s.Body()
	want := segment.Style{Size: 22, Font: "Calibri", Color: "000000", LinkColor: "0563C1"}
	if got != want {
		t.Errorf("Body() = %+v, want %+v", got, want)
	}

	s.LinkUnderline = false
	if !s.Body().NoUnderline {
		t.Error("Body() should disable underline")
	}
}
