package content

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"wordgen/docx"
	"wordgen/report"
)

const sampleOutline = `file_name: referat.docx
blocks:
  - title: Mødereferat
  - metadata: {label: Projektnavn, value: Wordgen}
  - status: "Status: 3/8 trin gennemført (38%)"
  - heading: 1. Første afsnit
  - field:
      label: Link
      value: Se https://example.dk
  - body: Brødtekst
  - spacer: 0
  - spacer: 900
`

func TestLoadOutline(t *testing.T) {
	o, err := LoadOutline(strings.NewReader(sampleOutline))
	if err != nil {
		t.Fatalf("LoadOutline() error = %v", err)
	}
	want := &Outline{
		FileName: "referat.docx",
		Blocks: []Block{
			{Kind: Title, Text: "Mødereferat"},
			{Kind: Metadata, Label: "Projektnavn", Text: "Wordgen"},
			{Kind: Status, Text: "Status: 3/8 trin gennemført (38%)"},
			{Kind: Heading, Text: "1. Første afsnit"},
			{Kind: Field, Label: "Link", Text: "Se https://example.dk"},
			{Kind: Body, Text: "Brødtekst"},
			{Kind: Spacer},
			{Kind: Spacer, Twips: 900},
		},
	}
	if !reflect.DeepEqual(o, want) {
		t.Errorf("LoadOutline() = %+v\nwant %+v", o, want)
	}
}

func TestLoadOutline_Errors(t *testing.T) {
	tests := []struct {
		name, in, msg string
	}{
		{"empty", "", "empty"},
		{"unknown field", "blocks:\n  - quote: x\n", "decode"},
		{"unknown top level", "author: me\n", "decode"},
		{"two kinds", "blocks:\n  - title: a\n    body: b\n", "block 0"},
		{"no kind", "blocks:\n  - title: a\n  - {}\n", "block 1"},
		{"negative spacer", "blocks:\n  - spacer: -5\n", "negative"},
		{"bad yaml", "blocks: [\n", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOutline(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

const sampleMarkdown = `# Mødereferat

- Projektnavn: Wordgen
- Dato: 2026-10-19

*Status: 3/8 trin gennemført*

## 1. Første afsnit

**Beslutning:** Vi fortsætter, se https://example.dk/plan

**Noter:**
Ingen noter

Almindelig tekst med [link](https://a.dk) og <https://b.dk>.

- Punkt: ikke metadata
- andet punkt

---

# Bilag
`

func TestLoadMarkdown(t *testing.T) {
	o, err := LoadMarkdown([]byte(sampleMarkdown))
	if err != nil {
		t.Fatalf("LoadMarkdown() error = %v", err)
	}
	want := []Block{
		{Kind: Title, Text: "Mødereferat"},
		{Kind: Metadata, Label: "Projektnavn", Text: "Wordgen"},
		{Kind: Metadata, Label: "Dato", Text: "2026-10-19"},
		{Kind: Status, Text: "Status: 3/8 trin gennemført"},
		{Kind: Heading, Text: "1. Første afsnit"},
		{Kind: Field, Label: "Beslutning", Text: "Vi fortsætter, se https://example.dk/plan"},
		{Kind: Field, Label: "Noter", Text: "Ingen noter"},
		{Kind: Body, Text: "Almindelig tekst med link: https://a.dk og https://b.dk."},
		{Kind: Body, Text: "Punkt: ikke metadata"},
		{Kind: Body, Text: "andet punkt"},
		{Kind: Spacer, Twips: LargeGap},
		{Kind: Heading, Text: "Bilag"},
	}
	if !reflect.DeepEqual(o.Blocks, want) {
		t.Errorf("LoadMarkdown() blocks:\n%+v\nwant:\n%+v", o.Blocks, want)
	}
}

func TestLoadMarkdown_Code(t *testing.T) {
	o, err := LoadMarkdown([]byte("```\nline one\nline two\n```\n\n> quoted\n> text\n"))
	if err != nil {
		t.Fatalf("LoadMarkdown() error = %v", err)
	}
	want := []Block{
		{Kind: Body, Text: "line one\nline two"},
		{Kind: Body, Text: "quoted text"},
	}
	if !reflect.DeepEqual(o.Blocks, want) {
		t.Errorf("LoadMarkdown() blocks = %+v, want %+v", o.Blocks, want)
	}
}

func TestLoadMarkdown_Escapes(t *testing.T) {
	src := "# T\n\nAT&amp;T \\*not emphasis\\* &copy; &#65; `a\\*b &amp;`\n\n[R&amp;D](https://a.dk/?a=1&amp;b=2)\n"
	o, err := LoadMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("LoadMarkdown() error = %v", err)
	}
	want := []Block{
		{Kind: Title, Text: "T"},
		{Kind: Body, Text: "AT&T *not emphasis* \u00a9 A a\\*b &amp;"},
		{Kind: Body, Text: "R&D: https://a.dk/?a=1&b=2"},
	}
	if !reflect.DeepEqual(o.Blocks, want) {
		t.Errorf("LoadMarkdown() blocks = %+v, want %+v", o.Blocks, want)
	}
}

func TestLoadMarkdown_HTML(t *testing.T) {
	src := "<div>\n<a href=\"https://a.dk\">Site</a>\n</div>\n\n<!-- hidden -->\n\nText<br>more\n"
	o, err := LoadMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("LoadMarkdown() error = %v", err)
	}
	want := []Block{
		{Kind: Body, Text: "Site: https://a.dk"},
		{Kind: Body, Text: "Text\nmore"},
	}
	if !reflect.DeepEqual(o.Blocks, want) {
		t.Errorf("LoadMarkdown() blocks = %+v, want %+v", o.Blocks, want)
	}
}

func TestHTMLText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"anchor", `<p>See <a href="https://a.dk">site</a> now</p>`, "See site: https://a.dk now"},
		{"break", `<div>One<br>Two</div>`, "One\nTwo"},
		{"empty anchor", `<p><a href="https://b.dk"></a></p>`, "https://b.dk"},
		{"anchor is url", `<a href="https://c.dk">https://c.dk</a>`, "https://c.dk"},
		{"no href", `<a name="x">plain</a>`, "plain"},
		{"style dropped", `<style>p{color:red}</style><p>Kept</p>`, "Kept"},
		{"comment", `<!-- note -->`, ""},
		{"list", `<ul><li>a</li><li>b</li></ul>`, "a\nb"},
		{"whitespace", "Hello   <b>big</b>\n  world", "Hello big world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlText([]byte(tt.in)); got != tt.want {
				t.Errorf("htmlText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	if o, err := Load("notes.MD", []byte("# T\n")); err != nil || len(o.Blocks) != 1 {
		t.Errorf("Load(markdown) = %+v, %v", o, err)
	}
	if o, err := Load("outline.yml", []byte(sampleOutline)); err != nil || o.FileName != "referat.docx" {
		t.Errorf("Load(yaml) = %+v, %v", o, err)
	}
	if _, err := Load("notes.txt", []byte("text")); err == nil {
		t.Error("expected error for unsupported extension")
	}

	for _, text := range []string{
		"BMI results for https://a.dk\n",
		"ID3 tags explained\n",
		"MZ-5 camera notes\n",
		"%PDF notes\n",
	} {
		if o, err := Load("notes.md", []byte(text)); err != nil || len(o.Blocks) != 1 {
			t.Errorf("Load(%q) = %+v, %v", text, o, err)
		}
	}
	if _, err := Load("notes.md", []byte("text\x00more")); err == nil || !strings.Contains(err.Error(), "binary") {
		t.Errorf("Load(NUL) error = %v", err)
	}
	if _, err := Load("notes.md", []byte("caf\xe9")); err == nil || !strings.Contains(err.Error(), "binary") {
		t.Errorf("Load(latin1) error = %v", err)
	}

	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	_, err := Load("image.md", png)
	if err == nil || !strings.Contains(err.Error(), "image/png") {
		t.Errorf("Load(png) error = %v", err)
	}
	if _, err := Load("broken.yaml", []byte("blocks: [")); err == nil || !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("Load() error = %v, want file name mentioned", err)
	}
}

func TestApply(t *testing.T) {
	o, err := LoadMarkdown([]byte(sampleMarkdown))
	if err != nil {
		t.Fatalf("LoadMarkdown() error = %v", err)
	}
	b, err := report.New(&docx.Packer{}, report.WithLogger(zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller()))))
	if err != nil {
		t.Fatalf("report.New() error = %v", err)
	}
	if o.Apply(b) != b {
		t.Error("Apply() must return the builder")
	}

	// fields produce two paragraphs each
	if b.Len() != len(o.Blocks)+2 {
		t.Errorf("builder has %d paragraphs, want %d", b.Len(), len(o.Blocks)+2)
	}
	paras := b.Build().Sections[0].Paragraphs
	gap := paras[len(paras)-2]
	if gap.SpacingAfter != 600 || len(gap.Content) != 0 {
		t.Errorf("thematic break paragraph = %+v", gap)
	}
}

func TestKind_String(t *testing.T) {
	if Field.String() != "field" || Kind(42).String() != "Kind(42)" {
		t.Error("unexpected Kind names")
	}
}
