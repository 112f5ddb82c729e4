package mango

import (
	"io/fs"
	"log/slog"
)

type readConfig struct {
	limits          Limits
	formats         []Format
	verifyChecksums bool
	logger          *slog.Logger
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithFormats restricts decoding to the given encodings, tried in the
// order given. Unknown formats are ignored.
func WithFormats(formats ...Format) ReadOption {
	return func(c *readConfig) { c.formats = formats }
}

// WithVerifyChecksums controls whether decoding recomputes every image
// checksum and rejects mismatches. Enabled by default.
func WithVerifyChecksums(v bool) ReadOption {
	return func(c *readConfig) { c.verifyChecksums = v }
}

func WithReadLogger(l *slog.Logger) ReadOption {
	return func(c *readConfig) { c.logger = l }
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{limits: DefaultLimits(), formats: detectionOrder, verifyChecksums: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	return cfg
}

type writeConfig struct {
	format Format
	mode   fs.FileMode
	logger *slog.Logger
}

type WriteOption func(*writeConfig)

// WithFormat selects the encoding used by Encode and Save.
func WithFormat(f Format) WriteOption {
	return func(c *writeConfig) { c.format = f }
}

// WithFileMode sets the permission bits of files created by Save.
func WithFileMode(mode fs.FileMode) WriteOption {
	return func(c *writeConfig) { c.mode = mode }
}

func WithWriteLogger(l *slog.Logger) WriteOption {
	return func(c *writeConfig) { c.logger = l }
}

func newWriteConfig(opts []WriteOption) writeConfig {
	cfg := writeConfig{format: DefaultFormat, mode: 0o644}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	return cfg
}

var discardLogger = slog.New(slog.DiscardHandler)
