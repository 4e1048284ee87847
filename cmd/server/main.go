// Package main is the entry point for the bank2preset API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/bank2preset/pkg/api"
	"github.com/james-see/bank2preset/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "Server port, overrides the config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger := cfg.NewLogger(os.Stderr)
	logger.Info("starting bank2preset API server", "port", cfg.Server.Port)
	logger.Infof("Swagger docs available at http://localhost:%d/swagger/index.html", cfg.Server.Port)

	if err := api.StartServer(cfg.Server.Port, api.Options{
		URIPrefix: cfg.URIPrefix,
		PluginURI: cfg.PluginURI,
		Logger:    logger,
	}); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
