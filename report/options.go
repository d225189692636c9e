package report

import (
	"go.uber.org/zap"

	"wordgen/style"
)

// Option configures a Builder.
type Option func(*Builder)

// WithStyle replaces default style. Style is validated by New.
func WithStyle(st style.Style) Option {
	return func(b *Builder) {
		b.style = st
	}
}

// WithPersister sets destination used by Download.
func WithPersister(p Persister) Option {
	return func(b *Builder) {
		b.persister = p
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithNoContent changes placeholder text which is never scanned for links.
func WithNoContent(text string) Option {
	return func(b *Builder) {
		b.noContent = text
	}
}

// WithFileName changes name used by Download when caller does not provide
// one.
func WithFileName(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.fileName = name
		}
	}
}

// WithCreator sets document author recorded in document properties.
func WithCreator(name string) Option {
	return func(b *Builder) {
		b.creator = name
	}
}
