// Package config loads bank2preset settings from YAML
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/james-see/bank2preset/pkg/converter"
)

// Config holds every setting a front end may need
type Config struct {
	Format    string       `yaml:"format"`
	URIPrefix string       `yaml:"uri_prefix"`
	PluginURI string       `yaml:"plugin_uri"`
	LogLevel  string       `yaml:"log_level"`
	Server    ServerConfig `yaml:"server"`
}

// ServerConfig configures the REST API
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Format:    string(converter.FormatTable),
		PluginURI: converter.DefaultPluginURI,
		LogLevel:  "info",
		Server:    ServerConfig{Port: 8080},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that can be wrong independently of the
// command being run
func (c Config) Validate() error {
	if _, err := converter.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config format: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("config log_level: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config server.port %d out of range", c.Server.Port)
	}
	return nil
}

// Level parses the configured log level
func (c Config) Level() (log.Level, error) {
	return log.ParseLevel(strings.ToLower(c.LogLevel))
}

// NewLogger returns a logger writing to w at the configured level.
// Converted output goes to stdout, so front ends pass stderr.
func (c Config) NewLogger(w io.Writer) *log.Logger {
	level, err := c.Level()
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "bank2preset",
		ReportTimestamp: level == log.DebugLevel,
	})
}

// Marshal encodes c as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
