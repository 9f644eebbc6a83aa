package doctor

// Category groups issues by type.
type Category string

const (
	// CategoryTools represents missing external programs.
	CategoryTools Category = "tools"
	// CategorySettings represents problems with the settings file.
	CategorySettings Category = "settings"
	// CategoryRules represents problems with the rules file.
	CategoryRules Category = "rules"
)

// Severity says whether an issue stops envcmd from working.
type Severity int

const (
	// SeverityWarning issues leave envcmd usable.
	SeverityWarning Severity = iota
	// SeverityError issues make runs fail.
	SeverityError
)

// Fix actions
const (
	FixNone        = ""
	FixCreateRules = "create_rules"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Category    Category
	Severity    Severity
	Description string // human-readable description
	FixAction   string // what --fix would do
}

// Report is the outcome of Run.
type Report struct {
	Passed []string // descriptions of checks that passed
	Issues []Issue
}

// Errors returns the number of error-severity issues.
func (r Report) Errors() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Fixable returns the issues --fix can repair.
func (r Report) Fixable() []Issue {
	var fixable []Issue
	for _, issue := range r.Issues {
		if issue.FixAction != FixNone {
			fixable = append(fixable, issue)
		}
	}
	return fixable
}
