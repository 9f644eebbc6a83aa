package rule

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Kind selects what a rule's target is compared against.
type Kind int

const (
	// Directory compares against the last path segment of the working directory.
	Directory Kind = iota
	// Branch compares against the current git branch.
	Branch
)

// ValidKinds lists the JSON spellings of every Kind.
var ValidKinds = []string{"directory", "branch"}

// String returns the JSON spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case Branch:
		return "branch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses the JSON spelling of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "directory":
		return Directory, nil
	case "branch":
		return Branch, nil
	}
	return 0, fmt.Errorf("invalid kind %q: must be %q or %q", s, ValidKinds[0], ValidKinds[1])
}

// MarshalJSON encodes the kind as its string spelling.
func (k Kind) MarshalJSON() ([]byte, error) {
	if k != Directory && k != Branch {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind from its string spelling.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("kind must be a string: %w", err)
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Rule is one configured match condition and the commands it triggers.
type Rule struct {
	Async    bool     `json:"async"`
	Kind     Kind     `json:"kind"`
	Target   string   `json:"target"`
	Commands []string `json:"commands"`
}

// wireRule mirrors Rule with pointer fields so absent keys can be told apart
// from zero values.
type wireRule struct {
	Async    *bool     `json:"async"`
	Kind     *Kind     `json:"kind"`
	Target   *string   `json:"target"`
	Commands *[]string `json:"commands"`
}

// UnmarshalJSON decodes a rule, requiring every field to be present.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var w wireRule
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var missing []string
	if w.Async == nil {
		missing = append(missing, "async")
	}
	if w.Kind == nil {
		missing = append(missing, "kind")
	}
	if w.Target == nil {
		missing = append(missing, "target")
	}
	if w.Commands == nil {
		missing = append(missing, "commands")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing field(s): %s", strings.Join(missing, ", "))
	}

	*r = Rule{
		Async:    *w.Async,
		Kind:     *w.Kind,
		Target:   *w.Target,
		Commands: *w.Commands,
	}
	return nil
}

// Mode describes how the rule's commands are scheduled.
func (r Rule) Mode() string {
	if r.Async {
		return "async"
	}
	return "sync"
}

// Slot is one command of a rule together with its position in the list.
// The ordinal drives the output tag and colour and never changes.
type Slot struct {
	Ordinal int
	Command string
}

// Slots derives the ordered command slots of a rule's command list.
func Slots(commands []string) []Slot {
	slots := make([]Slot, len(commands))
	for i, c := range commands {
		slots[i] = Slot{Ordinal: i, Command: c}
	}
	return slots
}

// ErrEmpty is returned by Decode when the input holds no JSON value.
var ErrEmpty = errors.New("empty rules document")

// ErrNotArray is returned by Decode when the document is null rather than
// an array.
var ErrNotArray = errors.New("rules document must be a JSON array")

// Decode parses a JSON array of rules, preserving their order.
func Decode(data []byte) ([]Rule, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmpty
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if raw == nil {
		return nil, ErrNotArray
	}

	rules := make([]Rule, len(raw))
	for i, item := range raw {
		if err := json.Unmarshal(item, &rules[i]); err != nil {
			var ute *json.UnmarshalTypeError
			if errors.As(err, &ute) && ute.Field != "" {
				return nil, fmt.Errorf("decode rule %d: field %q: expected %s, got %s", i, ute.Field, ute.Type, ute.Value)
			}
			return nil, fmt.Errorf("decode rule %d: %w", i, err)
		}
	}
	return rules, nil
}

// Encode renders rules as indented JSON.
func Encode(rules []Rule) ([]byte, error) {
	return json.MarshalIndent(rules, "", "  ")
}

// Filter returns the indexes of rules whose target fuzzy-matches query, in
// rule order. An empty query matches every rule.
func Filter(rules []Rule, query string) []int {
	if query == "" {
		indexes := make([]int, len(rules))
		for i := range rules {
			indexes[i] = i
		}
		return indexes
	}

	targets := make([]string, len(rules))
	for i, r := range rules {
		targets[i] = r.Target
	}
	matches := fuzzy.Find(query, targets)

	indexes := make([]int, 0, len(matches))
	for _, m := range matches {
		indexes = append(indexes, m.Index)
	}
	slices.Sort(indexes)
	return indexes
}
