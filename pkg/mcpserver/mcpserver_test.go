package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/james-see/bank2preset/pkg/params"
	"github.com/james-see/bank2preset/pkg/wopl"
)

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func bankPath(t *testing.T) string {
	t.Helper()
	f := &wopl.File{Melodic: []wopl.Bank{wopl.NewBlankBank("Main", 0, 0)}}
	f.Melodic[0].Instruments[0] = wopl.Instrument{Flags: wopl.Ins2Op}
	f.Melodic[0].Instruments[40] = wopl.Instrument{Name: "Strings", Flags: wopl.Ins2Op}
	data, err := wopl.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "gm.wopl")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	if New(Options{}) == nil {
		t.Fatal("New() returned nil")
	}
}

func TestListParameters(t *testing.T) {
	res, err := (&tools{}).withDefaults().listParameters(context.Background(), call(nil))
	if err != nil {
		t.Fatalf("listParameters() error = %v", err)
	}
	var list []params.Parameter
	if err := json.Unmarshal([]byte(resultText(t, res)), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != params.Count || list[0].Symbol != "numchips" {
		t.Errorf("listParameters() returned %d parameters, first %+v", len(list), list[0])
	}
}

func TestListInstruments(t *testing.T) {
	tl := (&tools{}).withDefaults()

	res, err := tl.listInstruments(context.Background(), call(map[string]any{"path": bankPath(t)}))
	if err != nil {
		t.Fatalf("listInstruments() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("listInstruments() tool error: %s", resultText(t, res))
	}
	var body struct {
		Spec        string `json:"spec"`
		Instruments []struct {
			Name    string `json:"name"`
			Program uint8  `json:"program"`
		} `json:"instruments"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Instruments) != 2 || body.Instruments[0].Name != "Acoustic Grand Piano" || body.Instruments[1].Name != "Strings" {
		t.Errorf("listInstruments() = %+v", body)
	}

	res, err = tl.listInstruments(context.Background(), call(map[string]any{}))
	if err != nil || !res.IsError {
		t.Errorf("listInstruments() without path = %v, %v, want tool error", res, err)
	}
}

func TestConvertBank(t *testing.T) {
	path := bankPath(t)
	tl := (&tools{}).withDefaults()

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
		want    string
	}{
		{"table", map[string]any{"path": path, "format": "table"}, false, `{"Strings", {`},
		{"presets", map[string]any{"path": path, "format": "presets", "uri-prefix": "urn:t:"}, false, "syn:preset0001"},
		{"presets without prefix", map[string]any{"path": path, "format": "presets"}, true, "URI prefix"},
		{"unknown format", map[string]any{"path": path, "format": "sfz"}, true, "unknown output format"},
		{"missing file", map[string]any{"path": path + ".gone", "format": "table"}, true, "cannot load bank file"},
		{"missing format", map[string]any{"path": path}, true, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tl.convertBank(context.Background(), call(tt.args))
			if err != nil {
				t.Fatalf("convertBank() error = %v", err)
			}
			if res.IsError != tt.wantErr {
				t.Errorf("convertBank() IsError = %v, want %v", res.IsError, tt.wantErr)
			}
			if text := resultText(t, res); !strings.Contains(text, tt.want) {
				t.Errorf("convertBank() = %q, want it to contain %q", text, tt.want)
			}
		})
	}
}
