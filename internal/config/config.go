// Package config loads the pathnav YAML configuration with environment
// variable expansion.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/kk-code-lab/pathnav/internal/dircache"
	"github.com/kk-code-lab/pathnav/internal/ignore"
	"github.com/kk-code-lab/pathnav/internal/pathref"
	"github.com/kk-code-lab/pathnav/internal/search"
	"github.com/kk-code-lab/pathnav/internal/state"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "PATHNAV_CONFIG"

func init() {
	// Report validation errors with the keys used in the file.
	validation.ErrorTag = "yaml"
}

// Config represents the application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Navigator NavigatorConfig `yaml:"navigator"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Host      HostConfig      `yaml:"host"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Navigator.Validate(); err != nil {
		return fmt.Errorf("navigator: %w", err)
	}
	if err := c.Workspace.Validate(); err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	return nil
}

// LogConfig controls the file logger. An empty File disables logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
	)
}

// ZapLevel returns the configured level, info when unset.
func (c *LogConfig) ZapLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// NavigatorConfig holds the navigator tunables.
type NavigatorConfig struct {
	SearchDepth       int           `yaml:"search_depth"`
	MatchingThreshold float64       `yaml:"matching_threshold"`
	DirScanDebounce   time.Duration `yaml:"dir_scan_debounce"`
	Ignore            []string      `yaml:"ignore"`
}

// Validate validates the navigator configuration.
func (c *NavigatorConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SearchDepth, validation.Required, validation.Min(1)),
		validation.Field(&c.MatchingThreshold, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.DirScanDebounce, validation.Min(time.Duration(0))),
		validation.Field(&c.Ignore, validation.Each(validation.Required)),
	)
}

// WorkspaceConfig lists the initial workspace roots.
type WorkspaceConfig struct {
	Roots []RootConfig `yaml:"roots"`
}

// Validate validates the workspace configuration.
func (c *WorkspaceConfig) Validate() error {
	for i := range c.Roots {
		if err := c.Roots[i].Validate(); err != nil {
			return fmt.Errorf("roots[%d]: %w", i, err)
		}
	}
	return nil
}

// RootConfig is one workspace root. Name defaults to the base name of Path.
type RootConfig struct {
	Name string `yaml:"name,omitempty"`
	Path string `yaml:"path"`
}

// Validate validates the root configuration.
func (c *RootConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.By(noSeparator)),
		validation.Field(&c.Path, validation.Required),
	)
}

// HostConfig configures the side effects of the terminal host.
type HostConfig struct {
	// Editor overrides $VISUAL and $EDITOR.
	Editor string `yaml:"editor"`
	// Terminal is started for "open in new window".
	Terminal string `yaml:"terminal"`
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Navigator: NavigatorConfig{
			SearchDepth:       1,
			MatchingThreshold: search.DefaultThreshold,
			DirScanDebounce:   dircache.DefaultDebounce,
			Ignore:            append([]string(nil), ignore.DefaultPatterns...),
		},
	}
}

// Load reads filename over the defaults. An empty name or a missing file
// yields the defaults.
func Load(filename string) (*Config, error) {
	cfg := NewDefaultConfig()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns $PATHNAV_CONFIG, or config.yaml under the user
// config directory.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pathnav", "config.yaml")
}

// NavigatorSettings converts the file into the navigator's settings
// snapshot.
func (c *Config) NavigatorSettings() state.Settings {
	// A nil list would fall back to the defaults; an explicit empty list
	// disables ignoring.
	patterns := make([]string, len(c.Navigator.Ignore))
	copy(patterns, c.Navigator.Ignore)
	return state.Settings{
		SearchDepth:    c.Navigator.SearchDepth,
		MatchThreshold: c.Navigator.MatchingThreshold,
		ScanDebounce:   c.Navigator.DirScanDebounce,
		IgnorePatterns: patterns,
	}
}

// Roots returns the workspace roots with "~" expanded.
func (c *Config) Roots() []pathref.Root {
	roots := make([]pathref.Root, 0, len(c.Workspace.Roots))
	for _, r := range c.Workspace.Roots {
		roots = append(roots, pathref.Root{Name: r.Name, Path: expandHome(r.Path)})
	}
	return roots
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

func noSeparator(value interface{}) error {
	name, _ := value.(string)
	if strings.ContainsAny(name, `/\`) {
		return errors.New("must not contain a path separator")
	}
	return nil
}
