// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction, such as the rule and history
// tables.
package static

import (
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/brooknullsh/envcmd/internal/history"
	"github.com/brooknullsh/envcmd/internal/rule"
	"github.com/brooknullsh/envcmd/internal/ui/styles"
)

// Table headers
var (
	RuleHeaders    = []string{"#", "TARGET", "KIND", "MODE", "COMMANDS"}
	HistoryHeaders = []string{"STARTED", "DIR", "MATCHED", "COMMANDS", "FAILED", "DURATION"}
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle
			}
			return styles.CellStyle
		})

	return t.String() + "\n"
}

// RuleTableRow formats a rule as a table row. Commands are joined with
// " && " for sync rules and " & " for async rules, mirroring how they run.
func RuleTableRow(index int, r rule.Rule) []string {
	sep := " && "
	if r.Async {
		sep = " & "
	}
	commands := strings.Join(r.Commands, sep)
	if len(r.Commands) == 0 {
		commands = styles.MutedStyle.Render("(none)")
	}
	return []string{
		strconv.Itoa(index),
		r.Target,
		r.Kind.String(),
		r.Mode(),
		commands,
	}
}

// HistoryTableRow formats a history entry as a table row.
func HistoryTableRow(e history.Entry) []string {
	matched := strings.Join(e.Matched, ", ")
	if len(e.Matched) == 0 {
		matched = styles.MutedStyle.Render("-")
	}
	failed := strconv.Itoa(e.Failed)
	if e.Failed > 0 {
		failed = lipgloss.NewStyle().Foreground(styles.Error).Render(failed)
	}
	return []string{
		e.StartedAt.Local().Format(time.DateTime),
		e.Dir,
		matched,
		strconv.Itoa(e.Commands),
		failed,
		e.Duration.Round(time.Millisecond).String(),
	}
}
