package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Format != "table" {
		t.Errorf("Format = %q, want %q", cfg.Format, "table")
	}
	if cfg.PluginURI != "http://jpcima.sdf1.org/lv2/miniopl3" {
		t.Errorf("PluginURI = %q", cfg.PluginURI)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		check   func(Config) bool
		wantErr bool
	}{
		{
			name:  "empty keeps defaults",
			yaml:  "",
			check: func(c Config) bool { return c == Default() },
		},
		{
			name: "overrides",
			yaml: "format: presets\nuri_prefix: \"urn:banks:\"\nlog_level: debug\nserver:\n  port: 9000\n",
			check: func(c Config) bool {
				return c.Format == "presets" && c.URIPrefix == "urn:banks:" &&
					c.LogLevel == "debug" && c.Server.Port == 9000 &&
					c.PluginURI == Default().PluginURI
			},
		},
		{
			name:  "unquoted hash uri",
			yaml:  "format: manifest\nuri_prefix: http://example.com/opl3#\n",
			check: func(c Config) bool { return c.URIPrefix == "http://example.com/opl3#" },
		},
		{name: "unknown key", yaml: "colour: red\n", wantErr: true},
		{name: "bad format", yaml: "format: syx\n", wantErr: true},
		{name: "bad level", yaml: "log_level: chatty\n", wantErr: true},
		{name: "bad port", yaml: "server:\n  port: 70000\n", wantErr: true},
		{name: "not yaml", yaml: "format: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !tt.check(cfg) {
				t.Errorf("Parse() = %+v", cfg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank2preset.yaml")
	if err := os.WriteFile(path, []byte("format: manifest\nuri_prefix: 'urn:x:'\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "manifest" || cfg.URIPrefix != "urn:x:" {
		t.Errorf("Load() = %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.URIPrefix = "urn:round:"
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if back != cfg {
		t.Errorf("Parse(Marshal()) = %+v, want %+v", back, cfg)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "warn"
	logger := cfg.NewLogger(&buf)

	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("GetLevel() = %v, want %v", logger.GetLevel(), log.WarnLevel)
	}
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("logger output = %q", out)
	}
}
