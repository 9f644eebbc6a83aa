package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brooknullsh/envcmd/internal/engine"
	"github.com/brooknullsh/envcmd/internal/output"
)

// Valid enum values for configuration fields.
var (
	ValidJoinPolicies = engine.ValidJoinPolicies
	ValidColorModes   = output.ValidColorModes
)

// ValidateJoin validates a join policy against ValidJoinPolicies.
// Exported for use in CLI flag validation.
func ValidateJoin(join string) error {
	return validateEnum(join, "join", ValidJoinPolicies)
}

// ValidateColor validates a color mode against ValidColorModes.
// Exported for use in CLI flag validation.
func ValidateColor(mode string) error {
	return validateEnum(mode, "color", ValidColorModes)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
