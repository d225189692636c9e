// Package persist saves serialized documents.
package persist

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"wordgen/config"
	"wordgen/misc"
)

const docxExt = ".docx"

// Dir writes documents into directory. Names may contain relative
// subdirectories, every path segment is cleaned and optionally
// transliterated.
type Dir struct {
	Path          string // current directory when empty
	Overwrite     bool
	Transliterate bool
	Log           *zap.Logger
}

// Persist implements report.Persister. File is written next to its final
// location and renamed, so partially written documents never appear under
// requested name.
func (d *Dir) Persist(ctx context.Context, data []byte, name string) (string, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	target := d.resolve(name)
	if _, err := os.Stat(target); err == nil {
		if !d.Overwrite {
			return "", fmt.Errorf("output file already exists: %s: %w", target, fs.ErrExist)
		}
		log.Warn("Overwriting existing file", zap.String("file", target))
	} else if !os.IsNotExist(err) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := writeFile(target, data); err != nil {
		return "", err
	}
	log.Debug("Document written", zap.String("file", target), zap.Int("size", len(data)))
	return target, nil
}

func (d *Dir) resolve(name string) string {
	dir := d.Path
	if dir == "" {
		dir = "."
	}

	segments := splitPath(filepath.FromSlash(name))
	if len(segments) == 0 {
		return filepath.Join(dir, d.cleanSegment("")+docxExt)
	}

	last := segments[len(segments)-1]
	if strings.EqualFold(filepath.Ext(last), docxExt) {
		last = last[:len(last)-len(docxExt)]
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dir)
	for _, s := range segments[:len(segments)-1] {
		// never leave destination directory
		if s == ".." || s == "." {
			continue
		}
		parts = append(parts, d.cleanSegment(s))
	}
	parts = append(parts, d.cleanSegment(last)+docxExt)
	return filepath.Join(parts...)
}

func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func (d *Dir) cleanSegment(segment string) string {
	if d.Transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}

func writeFile(target string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+misc.GetAppName()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("unable to set output file permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("unable to move output file in place: %w", err)
	}
	return nil
}

// Writer sends documents to a stream, usually standard output.
type Writer struct {
	W io.Writer
}

// Persist implements report.Persister, name is ignored and "-" is returned
// as location.
func (w *Writer) Persist(ctx context.Context, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := w.W.Write(data); err != nil {
		return "", fmt.Errorf("unable to write document: %w", err)
	}
	return "-", nil
}
