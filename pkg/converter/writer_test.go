package converter

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/james-see/bank2preset/pkg/midispec"
	"github.com/james-see/bank2preset/pkg/params"
)

const turtleHeader = "@prefix syn:  <urn:test:> .\n" +
	"\n" +
	"@prefix lv2:  <http://lv2plug.in/ns/lv2core#> .\n" +
	"@prefix pset: <http://lv2plug.in/ns/ext/presets#> .\n" +
	"@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .\n"

func TestNewWriterErrors(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewWriter(&buf, Format("csv"), WriterOptions{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("NewWriter(csv) error = %v, want ErrUnknownFormat", err)
	}
	if _, err := NewWriter(&buf, FormatManifest, WriterOptions{}); !errors.Is(err, ErrMissingURIPrefix) {
		t.Errorf("NewWriter(manifest) error = %v, want ErrMissingURIPrefix", err)
	}
	if _, err := NewWriter(&buf, FormatTable, WriterOptions{}); err != nil {
		t.Errorf("NewWriter(table) error = %v", err)
	}
}

func TestWriterTable(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatTable, WriterOptions{})
	if err != nil {
		t.Fatal(err)
	}

	v := params.Defaults()
	v.Set(params.Algorithm, 7)
	v.Set(params.Transpose1, -12)
	ins := ExtractAll(fixtureFile(), "bank")[0]

	if err := w.Write(0, ins, `Say "hi"`, &v); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(1, ins, "", &v); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	values := make([]string, params.Count)
	for i, n := range v.Values() {
		values[i] = strconv.Itoa(n)
	}
	list := strings.Join(values, ",")
	want := `{"Say \"hi\"", {` + list + "}},\n" +
		`{"", {` + list + "}},\n"

	if got := buf.String(); got != want {
		t.Errorf("table output =\n%s\nwant\n%s", got, want)
	}
	if !strings.HasPrefix(list, "2,0,0,0,7,0,0,-12,") {
		t.Errorf("table values start %q", list[:20])
	}
}

func TestWriterManifest(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatManifest, WriterOptions{URIPrefix: "urn:test:"})
	if err != nil {
		t.Fatal(err)
	}

	v := params.Defaults()
	ins := ExtractAll(fixtureFile(), "bank")[0]
	for _, index := range []int{0, 12} {
		if err := w.Write(index, ins, "ignored", &v); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	want := turtleHeader +
		"\nsyn:preset0000\n" +
		"\ta pset:Preset ;\n" +
		"\tlv2:appliesTo <http://jpcima.sdf1.org/lv2/miniopl3> ;\n" +
		"\trdfs:seeAlso <presets.ttl> .\n" +
		"\nsyn:preset0012\n" +
		"\ta pset:Preset ;\n" +
		"\tlv2:appliesTo <http://jpcima.sdf1.org/lv2/miniopl3> ;\n" +
		"\trdfs:seeAlso <presets.ttl> .\n"

	if got := buf.String(); got != want {
		t.Errorf("manifest output =\n%s\nwant\n%s", got, want)
	}
}

func TestWriterManifestPluginURI(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatManifest, WriterOptions{URIPrefix: "urn:test:", PluginURI: "urn:synth"})
	if err != nil {
		t.Fatal(err)
	}
	v := params.Defaults()
	if err := w.Write(0, ExtractAll(fixtureFile(), "bank")[0], "", &v); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "lv2:appliesTo <urn:synth> ;") {
		t.Errorf("manifest output missing plugin URI:\n%s", buf.String())
	}
}

func TestWriterPresets(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatPresets, WriterOptions{URIPrefix: "urn:test:"})
	if err != nil {
		t.Fatal(err)
	}

	a := ExtractAll(fixtureFile(), "alpha")[0]
	b := ExtractAll(fixtureFile(), "beta")[0]
	v := params.Defaults()

	for i, ins := range []Ins{a, b, a} {
		if err := w.Write(i, ins, "Piano", &v); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	out := buf.String()

	if !strings.HasPrefix(out, turtleHeader) {
		t.Errorf("presets output does not start with the header:\n%s", out)
	}
	if n := strings.Count(out, "@prefix syn:"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}

	bankAlpha := "\nsyn:bank0000\n\ta pset:Bank ;\n\trdfs:label \"\"\"alpha\"\"\" .\n"
	bankBeta := "\nsyn:bank0001\n\ta pset:Bank ;\n\trdfs:label \"\"\"beta\"\"\" .\n"
	if strings.Count(out, bankAlpha) != 1 || strings.Count(out, bankBeta) != 1 {
		t.Errorf("bank blocks missing or repeated:\n%s", out)
	}

	preset2 := "\nsyn:preset0002\n\trdfs:label \"\"\"Piano\"\"\" ;\n\tpset:bank syn:bank0000 ;\n\tlv2:port\n"
	if !strings.Contains(out, preset2) {
		t.Errorf("preset 2 not assigned to bank 0:\n%s", out)
	}

	firstPort := "\tlv2:port\n\t[\n\t\tlv2:symbol \"\"\"numchips\"\"\" ;\n\t\tpset:value 2.0 ;\n\t],\n\t[\n"
	if !strings.Contains(out, firstPort) {
		t.Errorf("first port block malformed:\n%s", out)
	}
	lastPort := "\t[\n\t\tlv2:symbol \"\"\"op4ksr\"\"\" ;\n\t\tpset:value 0.0 ;\n\t] .\n"
	if !strings.HasSuffix(out, lastPort) {
		t.Errorf("last port block malformed:\n%s", out[len(out)-200:])
	}
	if n := strings.Count(out, "lv2:symbol"); n != 3*params.Count {
		t.Errorf("port count = %d, want %d", n, 3*params.Count)
	}

	if got := w.Banks(); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("Banks() = %v", got)
	}
}

func TestWriterDoesNotMutateVector(t *testing.T) {
	r := Convert(ExtractAll(fixtureFile(), "bank")[0], midispec.GM1)
	before := r.Values

	for _, format := range SupportedFormats() {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, format, WriterOptions{URIPrefix: "urn:test:"})
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Write(0, r.Ins, r.Name, &r.Values); err != nil {
			t.Fatal(err)
		}
	}
	if r.Values != before {
		t.Error("writers changed the parameter vector")
	}
}
