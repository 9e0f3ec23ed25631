// Package config loads pagetrace run configuration from an optional YAML
// file with environment-variable overrides. Environment values win over the
// file; a configured remote endpoint wins over a local executable path.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables consumed by ApplyEnv.
const (
	EnvTargetURL          = "PAGETRACE_TARGET_URL"
	EnvRemoteDebuggingURL = "PAGETRACE_REMOTE_DEBUGGING_URL"
	EnvBrowserPath        = "PAGETRACE_BROWSER_PATH"
)

// Config describes one scrape run.
type Config struct {
	// TargetURL is the page to scrape.
	TargetURL string `yaml:"target_url"`

	// RemoteDebuggingURL is a running browser's CDP endpoint. When set the
	// session connects instead of launching.
	RemoteDebuggingURL string `yaml:"remote_debugging_url"`

	// BrowserPath is a local browser executable, used only when not
	// connecting remotely.
	BrowserPath string `yaml:"browser_path"`

	// Headless controls the launched browser's mode.
	Headless bool `yaml:"headless"`

	// CookieSnapshot is a prior run's export to replay cookies from.
	CookieSnapshot string `yaml:"cookie_snapshot"`

	// ConsentOverlayID names the consent overlay element to dismiss, by
	// element ID. Empty skips dismissal.
	ConsentOverlayID string `yaml:"consent_overlay_id"`

	// PaginationContainer scopes pagination discovery; empty uses the
	// service default.
	PaginationContainer string `yaml:"pagination_container"`

	// LinkSuffix is the URL suffix the link-discovery pass matches; empty
	// uses the service default.
	LinkSuffix string `yaml:"link_suffix"`

	// ScrollSelector, when set, enables scroll-until-stable on that
	// element before content capture.
	ScrollSelector string `yaml:"scroll_selector"`

	// ScrollDirection is "vertical", "horizontal", or "both".
	ScrollDirection string `yaml:"scroll_direction"`

	// ScreenshotPath is where the full-page screenshot lands. Empty skips
	// the screenshot step.
	ScreenshotPath string `yaml:"screenshot_path"`

	// ExportPath is where the event-log snapshot is written.
	ExportPath string `yaml:"export_path"`

	// SQLitePath, when set, mirrors the snapshot into a SQLite database.
	SQLitePath string `yaml:"sqlite_path"`

	// BlockedURLPatterns are glob patterns whose matching requests are
	// aborted in addition to the fixed resource-type set.
	BlockedURLPatterns []string `yaml:"blocked_url_patterns"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Headless:        true,
		ScrollDirection: "vertical",
		ScreenshotPath:  "screenshot.png",
		ExportPath:      "pagetrace.json",
	}
}

// Load reads a YAML config file over the defaults and applies environment
// overrides. An empty path skips the file; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides file values with any set environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvTargetURL); v != "" {
		c.TargetURL = v
	}
	if v := os.Getenv(EnvRemoteDebuggingURL); v != "" {
		c.RemoteDebuggingURL = v
	}
	if v := os.Getenv(EnvBrowserPath); v != "" {
		c.BrowserPath = v
	}
}

// Validate checks the configuration is runnable.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("target URL is required (set target_url or %s)", EnvTargetURL)
	}
	if c.ExportPath == "" {
		return fmt.Errorf("export path is required")
	}
	return nil
}
