package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/brooknullsh/envcmd/internal/engine"
	"github.com/brooknullsh/envcmd/internal/output"
	"github.com/brooknullsh/envcmd/internal/runner"
)

// Environment variables that override file settings.
const (
	EnvRules = "ENVCMD_RULES"
	EnvShell = "ENVCMD_SHELL"
)

// DefaultRulesPath is where the rules file lives unless configured otherwise.
const DefaultRulesPath = "~/.envcmd/config.json"

// DefaultHistoryLimit is the number of runs kept in the history file.
const DefaultHistoryLimit = 100

// Config holds the envcmd settings
type Config struct {
	RulesPath    string `toml:"rules_path"`
	Shell        string `toml:"shell"`
	Join         string `toml:"join"`
	Strict       bool   `toml:"strict"`
	FirstMatch   bool   `toml:"first_match"`
	Color        string `toml:"color"`
	History      bool   `toml:"history"`
	HistoryLimit int    `toml:"history_limit"`
}

// Default returns the default configuration
func Default() Config {
	rules, err := expandPath(DefaultRulesPath)
	if err != nil {
		rules = DefaultRulesPath
	}
	return Config{
		RulesPath:    rules,
		Shell:        runner.DefaultShell,
		Join:         engine.JoinRule,
		Color:        output.ColorAuto,
		History:      true,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// Path returns the path of the settings file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "envcmd", "config.toml")
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Load resolves the settings for a run started in dir. Sources are applied
// lowest first: defaults, the settings file at path, the .envcmd.toml in
// dir, then ENVCMD_RULES and ENVCMD_SHELL.
// A missing settings or local file is not an error.
func Load(path, dir string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	local, err := LoadLocal(dir)
	if err != nil {
		return Default(), err
	}
	cfg = *MergeLocal(&cfg, local)
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadFile reads settings from path without looking at the environment.
// Returns Default() if the file doesn't exist.
// Returns error only if file exists but is invalid.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys absent from the file keep their defaults.
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := ValidatePath(c.RulesPath, "rules_path"); err != nil {
		return err
	}
	if err := validateEnum(c.Join, "join", ValidJoinPolicies); err != nil {
		return err
	}
	if err := validateEnum(c.Color, "color", ValidColorModes); err != nil {
		return err
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got: %d", c.HistoryLimit)
	}
	return nil
}

// normalize expands ~ and fills empty values with defaults.
func (c *Config) normalize() error {
	def := Default()
	if c.RulesPath == "" {
		c.RulesPath = def.RulesPath
	}
	expanded, err := expandPath(c.RulesPath)
	if err != nil {
		return fmt.Errorf("expand rules_path: %w", err)
	}
	c.RulesPath = expanded

	if c.Shell == "" {
		c.Shell = def.Shell
	}
	if c.Join == "" {
		c.Join = def.Join
	}
	if c.Color == "" {
		c.Color = def.Color
	}
	return nil
}

// applyEnv overlays ENVCMD_RULES and ENVCMD_SHELL.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvRules); v != "" {
		if err := ValidatePath(v, EnvRules); err != nil {
			return err
		}
		expanded, err := expandPath(v)
		if err != nil {
			return fmt.Errorf("expand %s: %w", EnvRules, err)
		}
		c.RulesPath = expanded
	}
	if v := getenv(EnvShell); v != "" {
		c.Shell = v
	}
	return nil
}

// SetRulesPath sets the rules file location, as given on the command line.
func (c *Config) SetRulesPath(path string) error {
	if err := ValidatePath(path, "--rules"); err != nil {
		return err
	}
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	c.RulesPath = expanded
	return nil
}

type configKey struct{}

// WithConfig returns a new context with the config stored in it.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config from context.
// Returns the defaults if no config is stored.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	def := Default()
	return &def
}

const defaultConfig = `# envcmd configuration

# Location of the rules file (JSON list of rules)
# Must be an absolute path or start with ~ (no relative paths like "." or "..")
# Overridden by the ENVCMD_RULES env var and the --rules flag
# rules_path = "~/.envcmd/config.json"

# Shell used to run every command as: <shell> -c <command>
# Overridden by the ENVCMD_SHELL env var
shell = "sh"

# When to wait for background (async) commands
#   "rule" - before the next rule is evaluated
#   "end"  - once, after every rule has been evaluated
join = "rule"

# Exit with status 1 when any command exits non-zero
strict = false

# Stop after the first rule that matches
first_match = false

# Colour output: "auto", "always" or "never" (NO_COLOR is honoured in auto)
color = "auto"

# Record each run in $XDG_STATE_HOME/envcmd/history.json
# history_limit caps the number of runs kept; 0 keeps every run
history = true
history_limit = 100

# A .envcmd.toml in a directory overrides shell, join, strict and
# first_match for runs started in that directory.
`

// DefaultConfig returns the default configuration file content.
func DefaultConfig() string {
	return defaultConfig
}

// InitFile writes the default configuration to path.
// If force is true, overwrites existing file.
func InitFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use -f to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
