// Package mcpserver exposes bank conversion as Model Context Protocol tools
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/james-see/bank2preset/pkg/converter"
	"github.com/james-see/bank2preset/pkg/params"
)

// Options configure the tool server
type Options struct {
	Version   string
	PluginURI string
	Logger    *log.Logger // must not write to stdout
}

type tools struct {
	pluginURI string
	logger    *log.Logger
}

// New builds the MCP server with every tool registered
func New(opts Options) *server.MCPServer {
	t := (&tools{pluginURI: opts.PluginURI, logger: opts.Logger}).withDefaults()
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := server.NewMCPServer(
		"bank2preset MCP",
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("wopl_list-parameters",
		mcp.WithDescription("Lists the MiniOPL3 synthesizer parameters in index order, with ranges and defaults."),
	), t.listParameters)

	s.AddTool(mcp.NewTool("wopl_list-instruments",
		mcp.WithDescription("Converts a WOPL bank file and lists its instruments with their parameter values."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the .wopl bank file.")),
	), t.listInstruments)

	s.AddTool(mcp.NewTool("wopl_convert-bank",
		mcp.WithDescription("Converts a WOPL bank file to a preset table, an LV2 preset document or an LV2 manifest."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the .wopl bank file.")),
		mcp.WithString("format", mcp.Required(), mcp.Description("Output format: table, presets or manifest.")),
		mcp.WithString("uri-prefix", mcp.Description("URI prefix of preset identifiers, required for presets and manifest.")),
	), t.convertBank)

	return s
}

func (t *tools) withDefaults() *tools {
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	return t
}

// Serve runs the tool server over stdio until the client disconnects
func Serve(opts Options) error {
	if opts.Logger != nil {
		opts.Logger.Info("starting MCP server on stdio")
	}
	return server.ServeStdio(New(opts))
}

func (t *tools) listParameters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.logger.Debug("handling list parameters request")

	asJSON, err := json.MarshalIndent(params.All(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameters to JSON: %w", err)
	}
	return mcp.NewToolResultText(string(asJSON)), nil
}

func (t *tools) listInstruments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.logger.Debug("handling list instruments request", "path", path)

	banks, err := converter.LoadFiles([]string{path}, t.logger)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, spec, err := converter.ConvertAll(banks)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	list := make([]converter.Summary, len(results))
	for i, r := range results {
		list[i] = converter.Summarize(r)
	}
	asJSON, err := json.MarshalIndent(struct {
		Spec        string              `json:"spec"`
		Instruments []converter.Summary `json:"instruments"`
	}{spec.String(), list}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal instruments to JSON: %w", err)
	}
	return mcp.NewToolResultText(string(asJSON)), nil
}

func (t *tools) convertBank(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	uriPrefix := request.GetString("uri-prefix", "")
	t.logger.Debug("handling convert request", "path", path, "format", name)

	format, err := converter.ParseFormat(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conv, err := converter.New(format,
		converter.WithURIPrefix(uriPrefix),
		converter.WithPluginURI(t.pluginURI),
		converter.WithLogger(t.logger))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	if _, err := conv.ConvertFiles(&buf, []string{path}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
