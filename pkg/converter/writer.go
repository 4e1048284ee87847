package converter

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/james-see/bank2preset/pkg/params"
)

// DefaultPluginURI identifies the synthesizer in preset manifests
const DefaultPluginURI = "http://jpcima.sdf1.org/lv2/miniopl3"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("base").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.tmpl"),
)

func templateFuncs() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["cquote"] = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace
	return funcs
}

// WriterOptions configure the document formats
type WriterOptions struct {
	URIPrefix string
	PluginURI string
}

// Writer emits converted instruments in one output format. It keeps the
// per-run state of the document formats: whether the header is out, and
// the bank number of every source file seen so far.
type Writer struct {
	out    io.Writer
	format Format
	opts   WriterOptions

	headerWritten bool
	banks         map[string]int
	bankOrder     []string
}

// NewWriter returns a writer for format. Document formats require a URI
// prefix.
func NewWriter(out io.Writer, format Format, opts WriterOptions) (*Writer, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if format.IsDocument() && opts.URIPrefix == "" {
		return nil, ErrMissingURIPrefix
	}
	if opts.PluginURI == "" {
		opts.PluginURI = DefaultPluginURI
	}
	return &Writer{
		out:    out,
		format: format,
		opts:   opts,
		banks:  make(map[string]int),
	}, nil
}

// Format returns the output format of the writer
func (w *Writer) Format() Format {
	return w.format
}

// Banks returns the source files seen so far, in bank number order
func (w *Writer) Banks() []string {
	out := make([]string, len(w.bankOrder))
	copy(out, w.bankOrder)
	return out
}

type port struct {
	Symbol string
	Value  int
}

type record struct {
	Index     int
	Name      string
	Filename  string
	Values    []int
	Ports     []port
	Bank      int
	NewBank   bool
	URIPrefix string
	PluginURI string
}

// Write emits one instrument. The vector is only read.
func (w *Writer) Write(index int, ins Ins, name string, v *params.Vector) error {
	rec := record{
		Index:     index,
		Name:      name,
		Filename:  ins.Filename,
		URIPrefix: w.opts.URIPrefix,
		PluginURI: w.opts.PluginURI,
	}

	if w.format.IsDocument() && !w.headerWritten {
		if err := templates.ExecuteTemplate(w.out, "header", rec); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.headerWritten = true
	}

	switch w.format {
	case FormatTable:
		rec.Values = v.Values()
	case FormatPresets:
		rec.Bank, rec.NewBank = w.bankNumber(ins.Filename)
		rec.Ports = make([]port, params.Count)
		for i, p := range params.All() {
			rec.Ports[i] = port{Symbol: p.Symbol, Value: v[i]}
		}
	}

	if err := templates.ExecuteTemplate(w.out, string(w.format), rec); err != nil {
		return fmt.Errorf("failed to write instrument %d: %w", index, err)
	}
	return nil
}

func (w *Writer) bankNumber(filename string) (int, bool) {
	if n, ok := w.banks[filename]; ok {
		return n, false
	}
	n := len(w.bankOrder)
	w.banks[filename] = n
	w.bankOrder = append(w.bankOrder, filename)
	return n, true
}
