// Package main provides the pagetrace CLI: a headless browser session that
// scrapes one paginated page and exports everything it observed (network
// traffic, pagination links, metrics, a screenshot, and the rendered
// markup) as a single event-log snapshot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/entrhq/pagetrace/pkg/config"
	"github.com/entrhq/pagetrace/pkg/trace"
)

const version = "0.1.0"

func main() {
	cfg, showVersion, err := parseFlags()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if showVersion {
		fmt.Printf("pagetrace v%s\n", version)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	result, err := trace.Run(cfg)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	fmt.Printf("Captured %d records; snapshot written to %s\n", result.Len(), cfg.ExportPath)
}

// parseFlags parses command line flags over the config file and environment.
func parseFlags() (config.Config, bool, error) {
	var (
		configPath  string
		targetURL   string
		exportPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML configuration file (optional)")
	flag.StringVar(&targetURL, "url", "", "Target URL to scrape")
	flag.StringVar(&exportPath, "export", "", "Path for the event-log snapshot")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pagetrace - headless scrape session recorder\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pagetrace [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s            Target URL\n", config.EnvTargetURL)
		fmt.Fprintf(os.Stderr, "  %s  CDP endpoint of a running browser (connect instead of launch)\n", config.EnvRemoteDebuggingURL)
		fmt.Fprintf(os.Stderr, "  %s          Local browser executable (used when not connecting)\n", config.EnvBrowserPath)
	}

	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, false, err
	}
	if targetURL != "" {
		cfg.TargetURL = targetURL
	}
	if exportPath != "" {
		cfg.ExportPath = exportPath
	}

	return cfg, showVersion, nil
}
