// Package config handles loading and validation of envcmd settings.
//
// Settings are read from $XDG_CONFIG_HOME/envcmd/config.toml. A missing file
// is not an error: every setting has a default. A .envcmd.toml in the
// current directory may override the run settings for that directory.
//
// # Configuration Sources (highest priority first)
//
//   - Command line flags (--rules, --strict, --join, --color)
//   - ENVCMD_RULES and ENVCMD_SHELL env vars
//   - Local .envcmd.toml (shell, join, strict, first_match)
//   - Global config file settings
//   - Default values
//
// # Key Settings
//
//   - rules_path: Location of the JSON rules file (default: ~/.envcmd/config.json)
//   - shell: Shell used to run each command with "-c" (default: "sh")
//   - join: "rule" waits for background commands after every rule, "end" once after all rules
//   - strict: Exit non-zero when any command exits non-zero
//   - first_match: Stop after the first matching rule
//   - color: "auto", "always" or "never"
//   - history / history_limit: Record runs to the history file
//
// # Path Validation
//
// rules_path must be absolute or start with ~ (no relative paths like "."
// or "..") so the rules file does not depend on the working directory.
package config
