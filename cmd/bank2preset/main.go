// Package main is the entry point for the bank2preset CLI
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/james-see/bank2preset/pkg/api"
	"github.com/james-see/bank2preset/pkg/config"
	"github.com/james-see/bank2preset/pkg/converter"
	"github.com/james-see/bank2preset/pkg/mcpserver"
	"github.com/james-see/bank2preset/pkg/params"
	"github.com/james-see/bank2preset/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath  string
	verbose     bool
	uriPrefix   string
	formatName  string
	presetsURI  string
	manifestURI string
	outputFile  string
	paramsYAML  bool
	serverPort  int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bank2preset",
	Short: "Convert WOPL instrument banks into MiniOPL3 presets",
	Long: `bank2preset reads OPL3 instrument banks in the WOPL format and maps
every instrument onto the parameter set of the MiniOPL3 synthesizer.

Output is written to stdout as an embeddable preset table, an LV2 preset
document or an LV2 preset manifest.

Examples:
  bank2preset table GM.wopl > presets.h
  bank2preset presets --uri-prefix http://example.com/opl3# GM.wopl > presets.ttl
  bank2preset convert -M http://example.com/opl3# GM.wopl > manifest.ttl
  bank2preset audition GM.wopl -o gm.mid
  bank2preset tui
  bank2preset serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var tableCmd = &cobra.Command{
	Use:   "table <bank.wopl>...",
	Short: "Write an embeddable preset table",
	Args:  cobra.MinimumNArgs(1),
	RunE:  formatRunner(converter.FormatTable),
}

var presetsCmd = &cobra.Command{
	Use:   "presets --uri-prefix <uri> <bank.wopl>...",
	Short: "Write an LV2 preset document",
	Args:  cobra.MinimumNArgs(1),
	RunE:  formatRunner(converter.FormatPresets),
}

var manifestCmd = &cobra.Command{
	Use:   "manifest --uri-prefix <uri> <bank.wopl>...",
	Short: "Write an LV2 preset manifest",
	Args:  cobra.MinimumNArgs(1),
	RunE:  formatRunner(converter.FormatManifest),
}

var convertCmd = &cobra.Command{
	Use:   "convert <bank.wopl>...",
	Short: "Convert banks to the format given by flags or config",
	Long: `Converts banks to the format selected with --format, or with the -L/-M
shorthands which select presets or manifest output together with the URI
prefix. Without either, the format comes from the config file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <bank.wopl>...",
	Short: "Dump the converted instruments as YAML",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

var auditionCmd = &cobra.Command{
	Use:   "audition <bank.wopl>...",
	Short: "Write a MIDI file that plays every instrument once",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAudition,
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List the synthesizer parameters",
	Args:  cobra.NoArgs,
	RunE:  runParams,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve conversion tools over the Model Context Protocol on stdio",
	RunE:  runMCP,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	// Format commands
	for _, cmd := range []*cobra.Command{presetsCmd, manifestCmd, convertCmd} {
		cmd.Flags().StringVarP(&uriPrefix, "uri-prefix", "u", "", "URI prefix of preset identifiers")
	}

	// convert command
	convertCmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format (table, presets, manifest)")
	convertCmd.Flags().StringVarP(&presetsURI, "presets", "L", "", "Write presets with this URI prefix")
	convertCmd.Flags().StringVarP(&manifestURI, "manifest", "M", "", "Write a manifest with this URI prefix")
	convertCmd.MarkFlagsMutuallyExclusive("format", "presets", "manifest")

	// audition command
	auditionCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	// params command
	paramsCmd.Flags().BoolVar(&paramsYAML, "yaml", false, "Print the schema as YAML")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(auditionCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

// settings layers the config file and then the command line over the
// defaults
func settings(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("uri-prefix") {
		cfg.URIPrefix = uriPrefix
	}
	if flags.Changed("format") {
		cfg.Format = formatName
	}
	if flags.Changed("presets") {
		cfg.Format, cfg.URIPrefix = string(converter.FormatPresets), presetsURI
	}
	if flags.Changed("manifest") {
		cfg.Format, cfg.URIPrefix = string(converter.FormatManifest), manifestURI
	}
	if flags.Changed("port") {
		cfg.Server.Port = serverPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func newConverter(cfg config.Config, format converter.Format, logger *log.Logger) (*converter.Converter, error) {
	return converter.New(format,
		converter.WithURIPrefix(cfg.URIPrefix),
		converter.WithPluginURI(cfg.PluginURI),
		converter.WithLogger(logger))
}

// convert writes the whole batch to out, or nothing if any step fails
func convert(out io.Writer, conv *converter.Converter, paths []string) error {
	var buf bytes.Buffer
	if _, err := conv.ConvertFiles(&buf, paths); err != nil {
		return err
	}
	_, err := buf.WriteTo(out)
	return err
}

func formatRunner(format converter.Format) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		conv, err := newConverter(cfg, format, cfg.NewLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		return convert(cmd.OutOrStdout(), conv, args)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	format, err := converter.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())
	conv, err := newConverter(cfg, format, logger)
	if err != nil {
		return err
	}
	logger.Debug("converting", "files", len(args), "format", format)
	return convert(cmd.OutOrStdout(), conv, args)
}

type inspectDoc struct {
	Spec        string              `yaml:"spec"`
	Instruments []converter.Summary `yaml:"instruments"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	banks, err := converter.LoadFiles(args, cfg.NewLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	results, spec, err := converter.ConvertAll(banks)
	if err != nil {
		return err
	}

	doc := inspectDoc{Spec: spec.String(), Instruments: make([]converter.Summary, len(results))}
	for i, r := range results {
		doc.Instruments[i] = converter.Summarize(r)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func runAudition(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())
	banks, err := converter.LoadFiles(args, logger)
	if err != nil {
		return err
	}
	results, _, err := converter.ConvertAll(banks)
	if err != nil {
		return err
	}

	output := outputFile
	if output == "" {
		output = banks[0].Name + ".mid"
	}
	if err := converter.NewAuditioner().WriteFile(results, output); err != nil {
		return err
	}
	logger.Info("wrote audition", "path", output, "instruments", len(results))
	return nil
}

func runParams(cmd *cobra.Command, args []string) error {
	all := params.All()
	if paramsYAML {
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(all)
	}

	rows := make([][]string, len(all))
	for i, p := range all {
		rows[i] = []string{
			fmt.Sprint(int(p.ID)),
			p.Symbol,
			p.Name,
			fmt.Sprintf("%d..%d", p.Min, p.Max),
			fmt.Sprint(p.Default),
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "SYMBOL", "NAME", "RANGE", "DEFAULT").
		Rows(rows...)
	_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	// The alternate screen owns the terminal, so only warnings are logged
	logger := cfg.NewLogger(cmd.ErrOrStderr())
	logger.SetLevel(log.WarnLevel)
	return tui.Run(tui.Options{URIPrefix: cfg.URIPrefix, PluginURI: cfg.PluginURI, Logger: logger})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())
	logger.Info("starting API server", "port", cfg.Server.Port)
	return api.StartServer(cfg.Server.Port, api.Options{
		URIPrefix: cfg.URIPrefix,
		PluginURI: cfg.PluginURI,
		Logger:    logger,
	})
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	return mcpserver.Serve(mcpserver.Options{
		Version:   version,
		PluginURI: cfg.PluginURI,
		Logger:    cfg.NewLogger(cmd.ErrOrStderr()),
	})
}
