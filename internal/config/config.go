// Package config loads ccxrename settings from the embedded defaults, an
// optional YAML or TOML file, and the environment.
package config

import (
	_ "embed"
	"fmt"
	"strings"
	"time"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "CCXRENAME_"

// Config is the merged runtime configuration.
type Config struct {
	Endpoint    Endpoint        `yaml:"endpoint" toml:"endpoint" json:"endpoint"`
	DisplayName string          `yaml:"display_name" toml:"display_name" json:"display_name"`
	Banner      Banner          `yaml:"banner" toml:"banner" json:"banner"`
	Locale      string          `yaml:"locale" toml:"locale" json:"locale"`
	Catalog     string          `yaml:"catalog" toml:"catalog" json:"catalog"`
	NoColor     bool            `yaml:"no_color" toml:"no_color" json:"no_color"`
	Log         Log             `yaml:"log" toml:"log" json:"log"`
	Theme       ThemeConfig     `yaml:"theme" toml:"theme" json:"theme"`
	Templates   TemplatesConfig `yaml:"templates" toml:"templates" json:"templates"`
}

// Endpoint describes the rename URL and how to call it.
type Endpoint struct {
	URL     string            `yaml:"url" toml:"url" json:"url"`
	Timeout Duration          `yaml:"timeout" toml:"timeout" json:"timeout"`
	Headers map[string]string `yaml:"headers" toml:"headers" json:"headers"`
}

// Banner configures the feedback banner.
type Banner struct {
	Delay Duration `yaml:"delay" toml:"delay" json:"delay"`
}

// Log configures structured logging.
type Log struct {
	Level string `yaml:"level" toml:"level" json:"level"`
	File  string `yaml:"file" toml:"file" json:"file"`
}

// ThemeConfig holds colour values (hex or ANSI index) for each UI element.
type ThemeConfig struct {
	Heading string `yaml:"heading" toml:"heading" json:"heading"`
	Button  string `yaml:"button" toml:"button" json:"button"`
	Input   string `yaml:"input" toml:"input" json:"input"`
	Shown   string `yaml:"shown" toml:"shown" json:"shown"`
	Hiding  string `yaml:"hiding" toml:"hiding" json:"hiding"`
	Error   string `yaml:"error" toml:"error" json:"error"`
	Hint    string `yaml:"hint" toml:"hint" json:"hint"`
}

// TemplatesConfig overrides the embedded text/template sources.
type TemplatesConfig struct {
	DisplayName   string `yaml:"display_name" toml:"display_name" json:"display_name"`
	FeedbackAlert string `yaml:"feedback_alert" toml:"feedback_alert" json:"feedback_alert"`
}

// Duration is a time.Duration that reads and writes "1s" style strings in
// YAML, TOML and JSON.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Validate reports configuration that cannot drive a rename session.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Endpoint.URL) == "" {
		return fmt.Errorf("endpoint.url is required (flag --url or %sURL)", EnvPrefix)
	}
	if cfg.Endpoint.Timeout.Duration <= 0 {
		return fmt.Errorf("endpoint.timeout must be > 0 (got %s)", cfg.Endpoint.Timeout.Duration)
	}
	if cfg.Banner.Delay.Duration <= 0 {
		return fmt.Errorf("banner.delay must be > 0 (got %s)", cfg.Banner.Delay.Duration)
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to the zap level value used by pkg/logger.
func ParseLevel(level string) (int8, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return -1, nil
	case "", "info":
		return 0, nil
	case "warn", "warning":
		return 1, nil
	case "error":
		return 2, nil
	}
	return 0, fmt.Errorf("log.level must be one of debug|info|warn|error (got %q)", level)
}
