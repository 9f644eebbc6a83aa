package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brooknullsh/envcmd/internal/rule"
)

var (
	// ErrNotFound is returned when the rules file does not exist.
	ErrNotFound = errors.New("no config found")
	// ErrExists is returned when creating a rules file that already exists.
	ErrExists = errors.New("config already exists")
)

// DefaultRules is the rule list written by CreateRules.
func DefaultRules() []rule.Rule {
	return []rule.Rule{{
		Async:    false,
		Kind:     rule.Directory,
		Target:   "example",
		Commands: []string{"echo 'Hello, world!'"},
	}}
}

// LoadRules reads and decodes the rules file, preserving rule order.
func LoadRules(path string) ([]rule.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	rules, err := rule.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// CreateRules writes DefaultRules to path, creating its directory.
func CreateRules(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w at %s", ErrExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	data, err := rule.Encode(DefaultRules())
	if err != nil {
		return err
	}
	if err := writeAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	return nil
}

// DeleteRules removes the rules file and then its directory if that is left
// empty.
func DeleteRules(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return fmt.Errorf("deleting config: %w", err)
	}

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 0 {
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("deleting config directory: %w", err)
		}
	}
	return nil
}
