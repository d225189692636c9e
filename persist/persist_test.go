package persist

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newDir(t *testing.T, overwrite, transliterate bool) *Dir {
	t.Helper()
	return &Dir{
		Path:          t.TempDir(),
		Overwrite:     overwrite,
		Transliterate: transliterate,
		Log:           zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller())),
	}
}

func TestDir_Resolve(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		transliterate bool
		want          string
	}{
		{"plain", "rapport.docx", false, "rapport.docx"},
		{"no extension", "rapport", false, "rapport.docx"},
		{"upper extension", "RAPPORT.DOCX", false, "RAPPORT.docx"},
		{"other extension", "notes.md", false, "notes.md.docx"},
		{"empty", "", false, "_bad_file_name_.docx"},
		{"subdirectory", "2026/uge 12/rapport.docx", false, filepath.Join("2026", "uge 12", "rapport.docx")},
		{"parent", "../../etc/rapport.docx", false, filepath.Join("etc", "rapport.docx")},
		{"hidden", ".rapport.docx", false, "rapport.docx"},
		{"transliterate", "Mødereferat København.docx", true, "modereferat-kobenhavn.docx"},
		{"transliterate dirs", "Århus/Møde.docx", true, filepath.Join("arhus", "mode.docx")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dir{Path: "out", Transliterate: tt.transliterate}
			want := filepath.Join("out", tt.want)
			if got := d.resolve(tt.in); got != want {
				t.Errorf("resolve(%q) = %q, want %q", tt.in, got, want)
			}
		})
	}
}

func TestDir_Persist(t *testing.T) {
	d := newDir(t, false, false)
	loc, err := d.Persist(context.Background(), []byte("data"), "sub/rapport.docx")
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if want := filepath.Join(d.Path, "sub", "rapport.docx"); loc != want {
		t.Errorf("location = %q, want %q", loc, want)
	}
	got, err := os.ReadFile(loc)
	if err != nil || string(got) != "data" {
		t.Errorf("file content = %q, %v", got, err)
	}

	// no temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(loc))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestDir_Overwrite(t *testing.T) {
	d := newDir(t, false, false)
	ctx := context.Background()
	if _, err := d.Persist(ctx, []byte("one"), "a.docx"); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if _, err := d.Persist(ctx, []byte("two"), "a.docx"); !errors.Is(err, fs.ErrExist) {
		t.Errorf("Persist() error = %v, want fs.ErrExist", err)
	}
	if got, _ := os.ReadFile(filepath.Join(d.Path, "a.docx")); string(got) != "one" {
		t.Errorf("existing file changed: %q", got)
	}

	d.Overwrite = true
	if _, err := d.Persist(ctx, []byte("two"), "a.docx"); err != nil {
		t.Fatalf("Persist() with overwrite error = %v", err)
	}
	if got, _ := os.ReadFile(filepath.Join(d.Path, "a.docx")); string(got) != "two" {
		t.Errorf("file not replaced: %q", got)
	}
}

func TestDir_Cancelled(t *testing.T) {
	d := newDir(t, false, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Persist(ctx, []byte("x"), "a.docx"); !errors.Is(err, context.Canceled) {
		t.Errorf("Persist() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(d.Path, "a.docx")); !os.IsNotExist(err) {
		t.Error("nothing should be written")
	}
}

func TestWriter_Persist(t *testing.T) {
	var buf bytes.Buffer
	w := &Writer{W: &buf}
	loc, err := w.Persist(context.Background(), []byte("docx"), "ignored.docx")
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if loc != "-" || buf.String() != "docx" {
		t.Errorf("Persist() = %q, wrote %q", loc, buf.String())
	}
}
