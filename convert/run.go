// Package convert implements build command: content files in, styled .docx
// documents out.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wordgen/archive"
	"wordgen/config"
	"wordgen/content"
	"wordgen/docx"
	"wordgen/docx/ooxml"
	"wordgen/persist"
	"wordgen/report"
	"wordgen/state"
	"wordgen/style"
)

// Stdout as destination sends document to standard output.
const Stdout = "-"

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if engine := cmd.String("engine"); len(engine) > 0 {
		switch engine {
		case config.EngineNative, config.EngineGooxml:
			env.Cfg.Document.Engine = engine
		default:
			log.Warn("Unknown engine requested, using configured one", zap.String("engine", engine), zap.String("using", env.Cfg.Document.Engine))
		}
	}
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("engine", env.Cfg.Document.Engine))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return Process(ctx, src, dst, cmd.String("name"), env, log)
}

// Process builds document from a single content file or every content file
// found under directory. Destination is a directory (current one when
// empty), a .docx file path or Stdout.
func Process(ctx context.Context, src, dst, name string, env *state.LocalEnv, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found: %w", err)
	}
	isArchive := fi.Mode().IsRegular() && strings.EqualFold(filepath.Ext(src), ".zip")
	if fi.Mode().IsRegular() && !isArchive {
		return processFile(ctx, src, dst, name, env, log)
	}
	if !fi.IsDir() && !isArchive {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	if dst == Stdout || isDocxPath(dst) {
		return fmt.Errorf("directory or archive source requires directory destination, got (%s)", dst)
	}
	if len(name) > 0 {
		log.Warn("Document name is ignored when processing multiple files", zap.String("name", name))
	}
	if isArchive {
		return processArchive(ctx, src, dst, env, log)
	}
	return processDir(ctx, src, dst, env, log)
}

// processArchive builds document from every content file packed into zip
// archive keeping relative directory structure in destination.
func processArchive(ctx context.Context, src, dst string, env *state.LocalEnv, log *zap.Logger) error {
	var count, failed int
	err := archive.Walk(src, isContentFile, func(name string, data []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++
		out := dst
		if dir := path.Dir(name); dir != "." {
			out = filepath.Join(dst, filepath.FromSlash(dir))
		}
		env.Rpt.StoreDataCopy("source/"+filepath.Base(src)+"/"+name, data)
		if err := processData(ctx, src+"/"+name, data, out, "", env, log); err != nil {
			failed++
			log.Error("Unable to process archive entry", zap.String("archive", src), zap.String("entry", name), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to process archive (%s): %w", src, err)
	}
	if count == 0 {
		log.Warn("Nothing to process", zap.String("archive", src))
	}
	if failed > 0 {
		return fmt.Errorf("unable to process %d of %d files", failed, count)
	}
	return nil
}

// processDir walks directory tree and builds document from every content
// file keeping relative directory structure in destination.
func processDir(ctx context.Context, dir, dst string, env *state.LocalEnv, log *zap.Logger) error {
	var count, failed int
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() || !isContentFile(path) {
			return nil
		}

		count++
		out := dst
		if rel, err := filepath.Rel(dir, filepath.Dir(path)); err == nil && rel != "." {
			out = filepath.Join(dst, rel)
		}
		if err := processFile(ctx, path, out, "", env, log); err != nil {
			failed++
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if count == 0 {
		log.Warn("Nothing to process", zap.String("dir", dir))
	}
	if failed > 0 {
		return fmt.Errorf("unable to process %d of %d files", failed, count)
	}
	return nil
}

func isContentFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown", ".yaml", ".yml":
		return true
	}
	return false
}

func isDocxPath(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".docx") {
		return false
	}
	fi, err := os.Stat(path)
	return err != nil || !fi.IsDir()
}

func processFile(ctx context.Context, src, dst, name string, env *state.LocalEnv, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read source: %w", err)
	}
	if err := env.Rpt.StoreCopy("source/"+filepath.Base(src), src); err != nil {
		log.Debug("Unable to store source in report", zap.Error(err))
	}
	return processData(ctx, src, data, dst, name, env, log)
}

// processData builds single document from content loaded from src.
func processData(ctx context.Context, src string, data []byte, dst, name string, env *state.LocalEnv, log *zap.Logger) error {
	outline, err := content.Load(filepath.Base(src), data)
	if err != nil {
		return err
	}
	log.Debug("Content loaded", zap.String("file", src), zap.Int("blocks", len(outline.Blocks)))

	per, docName := destination(dst, env, log)
	if len(docName) == 0 {
		docName = documentName(src, name, outline)
	} else if len(name) > 0 {
		log.Warn("Document name is ignored, destination is a file", zap.String("name", name), zap.String("destination", dst))
	}

	b, err := newBuilder(&env.Cfg.Document, per, log)
	if err != nil {
		return err
	}

	location, err := outline.Apply(b).Download(ctx, docName)
	if err != nil {
		return err
	}
	if location != Stdout {
		if err := env.Rpt.StoreCopy("result/"+filepath.Base(location), location); err != nil {
			log.Debug("Unable to store result in report", zap.Error(err))
		}
	}
	log.Info("Document created", zap.String("source", src), zap.String("location", location))
	return nil
}

// documentName selects name of the resulting document: explicit name, name
// from outline or source file name.
func documentName(src, name string, outline *content.Outline) string {
	switch {
	case len(name) > 0:
		return name
	case len(outline.FileName) > 0:
		return outline.FileName
	default:
		return strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
}

// destination returns persister for dst. When dst names a .docx file its
// base name is returned too.
func destination(dst string, env *state.LocalEnv, log *zap.Logger) (report.Persister, string) {
	if dst == Stdout {
		return &persist.Writer{W: os.Stdout}, ""
	}
	dir := &persist.Dir{
		Path:          dst,
		Overwrite:     env.Overwrite,
		Transliterate: env.Cfg.Document.FileNameTransliterate,
		Log:           log,
	}
	if isDocxPath(dst) {
		dir.Path = filepath.Dir(dst)
		return dir, filepath.Base(dst)
	}
	return dir, ""
}

func newSerializer(cfg *config.DocumentConfig, log *zap.Logger) report.Serializer {
	if cfg.Engine == config.EngineGooxml {
		return &ooxml.Packer{Log: log}
	}
	return &docx.Packer{FixZip: cfg.FixZip, Log: log}
}

func newBuilder(cfg *config.DocumentConfig, per report.Persister, log *zap.Logger) (*report.Builder, error) {
	st, err := style.FromConfig(&cfg.Style, &cfg.Page, cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare style: %w", err)
	}
	return report.New(newSerializer(cfg, log),
		report.WithStyle(st),
		report.WithPersister(per),
		report.WithLogger(log),
		report.WithNoContent(cfg.NoContent),
		report.WithFileName(cfg.FileName),
		report.WithCreator(cfg.Creator),
	)
}
