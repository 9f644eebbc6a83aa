package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-directory override file.
const LocalConfigFileName = ".envcmd.toml"

// LocalConfig holds per-directory overrides from .envcmd.toml.
// Pointer fields and zero-value strings indicate "not set" (inherit from global).
type LocalConfig struct {
	Shell      string `toml:"shell"`
	Join       string `toml:"join"`
	Strict     *bool  `toml:"strict"`
	FirstMatch *bool  `toml:"first_match"`
}

// LoadLocal reads .envcmd.toml from dir.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	if err := validateEnum(local.Join, "join", ValidJoinPolicies); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}

	return &local, nil
}

// MergeLocal merges local overrides into a global config, returning a new
// Config without mutating the global. Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	merged := *global
	if local.Shell != "" {
		merged.Shell = local.Shell
	}
	if local.Join != "" {
		merged.Join = local.Join
	}
	if local.Strict != nil {
		merged.Strict = *local.Strict
	}
	if local.FirstMatch != nil {
		merged.FirstMatch = *local.FirstMatch
	}
	return &merged
}
