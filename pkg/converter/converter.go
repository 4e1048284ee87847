package converter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/james-see/bank2preset/pkg/midispec"
	"github.com/james-see/bank2preset/pkg/wopl"
)

// Format is an output format
type Format string

const (
	FormatTable    Format = "table"
	FormatPresets  Format = "presets"
	FormatManifest Format = "manifest"
)

var (
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrMissingURIPrefix = errors.New("a URI prefix is required for this format")
	ErrNoInput          = errors.New("no bank file has been specified")
)

// SupportedFormats returns every output format
func SupportedFormats() []Format {
	return []Format{FormatTable, FormatPresets, FormatManifest}
}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Valid reports whether f is one of the supported formats
func (f Format) Valid() bool {
	switch f {
	case FormatTable, FormatPresets, FormatManifest:
		return true
	}
	return false
}

// IsDocument reports whether f is a Turtle document with a shared header
func (f Format) IsDocument() bool {
	return f == FormatPresets || f == FormatManifest
}

// Description is a one-line summary of the format
func (f Format) Description() string {
	switch f {
	case FormatTable:
		return "Embeddable source table"
	case FormatPresets:
		return "LV2 preset document (Turtle)"
	case FormatManifest:
		return "LV2 preset manifest (Turtle)"
	}
	return ""
}

// OutputName returns the file name used when converting source to f
func (f Format) OutputName(source string) string {
	switch f {
	case FormatTable:
		return source + ".h"
	case FormatPresets:
		return source + ".ttl"
	case FormatManifest:
		return source + "-manifest.ttl"
	}
	return source
}

// ContentType is the MIME type of f
func (f Format) ContentType() string {
	if f.IsDocument() {
		return "text/turtle; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Converter runs a batch conversion
type Converter struct {
	format Format
	opts   WriterOptions
	logger *log.Logger
}

// Option configures a Converter
type Option func(*Converter)

// WithURIPrefix sets the namespace of emitted preset identifiers
func WithURIPrefix(prefix string) Option {
	return func(c *Converter) { c.opts.URIPrefix = prefix }
}

// WithPluginURI overrides the synthesizer URI written to manifests
func WithPluginURI(uri string) Option {
	return func(c *Converter) { c.opts.PluginURI = uri }
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *log.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a new Converter writing format
func New(format Format, opts ...Option) (*Converter, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	c := &Converter{format: format, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}
	if format.IsDocument() && c.opts.URIPrefix == "" {
		return nil, ErrMissingURIPrefix
	}
	return c, nil
}

// Format returns the output format
func (c *Converter) Format() Format {
	return c.format
}

// LoadFiles parses every file, stopping at the first one that fails
func LoadFiles(paths []string, logger *log.Logger) ([]NamedBank, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	banks := make([]NamedBank, 0, len(paths))
	for _, path := range paths {
		f, err := wopl.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot load bank file %s: %w", path, err)
		}
		logger.Debug("loaded bank", "path", path, "version", f.Version,
			"melodic", len(f.Melodic), "percussion", len(f.Percussion))
		banks = append(banks, NamedBank{Name: SourceName(path), File: f})
	}
	return banks, nil
}

// ConvertAll converts every instrument of a batch under one dialect,
// which is returned with the results
func ConvertAll(banks []NamedBank) ([]Result, midispec.Mask, error) {
	if len(banks) == 0 {
		return nil, 0, ErrNoInput
	}
	var list []Ins
	for _, b := range banks {
		list = append(list, ExtractAll(b.File, b.Name)...)
	}
	spec := IdentifySpec(list)

	results := make([]Result, len(list))
	for i, ins := range list {
		results[i] = Convert(ins, spec)
		results[i].Index = i
	}
	return results, spec, nil
}

// ConvertFiles loads every file, then converts and writes the batch to
// out. Nothing is written if any file fails to load.
func (c *Converter) ConvertFiles(out io.Writer, paths []string) ([]Result, error) {
	banks, err := LoadFiles(paths, c.logger)
	if err != nil {
		return nil, err
	}
	return c.ConvertBanks(out, banks)
}

// ConvertBanks converts and writes already parsed bank files
func (c *Converter) ConvertBanks(out io.Writer, banks []NamedBank) ([]Result, error) {
	results, spec, err := ConvertAll(banks)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("converting", "instruments", len(results), "spec", spec.String(), "format", c.format)

	w, err := NewWriter(out, c.format, c.opts)
	if err != nil {
		return nil, err
	}
	for i := range results {
		r := &results[i]
		if err := w.Write(r.Index, r.Ins, r.Name, &r.Values); err != nil {
			return nil, err
		}
	}
	return results, nil
}
