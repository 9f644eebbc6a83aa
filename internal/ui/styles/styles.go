// Package styles provides shared lipgloss styles for envcmd output.
//
// Styles render full-colour ANSI sequences. Downsampling for the actual
// terminal (or stripping for pipes and NO_COLOR) happens at the writer, see
// [github.com/brooknullsh/envcmd/internal/output.NewTerminal].
package styles

import (
	"image/color"
	"strconv"

	"charm.land/lipgloss/v2"
)

// Palette is cycled through to colour command output tags.
var Palette = []color.Color{
	lipgloss.Color("4"), // blue
	lipgloss.Color("5"), // magenta
	lipgloss.Color("6"), // cyan
	lipgloss.Color("7"), // white
}

// Level colours for log tags
var (
	Success color.Color = lipgloss.Color("2") // green
	Warning color.Color = lipgloss.Color("3") // yellow
	Error   color.Color = lipgloss.Color("1") // red
	Debug   color.Color = lipgloss.Color("4") // blue
	Muted   color.Color = lipgloss.Color("8") // bright black
)

// Common styles
var (
	Bold        = lipgloss.NewStyle().Bold(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(Muted)
	HeaderStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	CellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// Log level tags
var (
	InfoTag  = lipgloss.NewStyle().Bold(true).Foreground(Success).Render("I")
	WarnTag  = lipgloss.NewStyle().Bold(true).Foreground(Warning).Render("W")
	ErrorTag = lipgloss.NewStyle().Bold(true).Foreground(Error).Render("E")
	DebugTag = lipgloss.NewStyle().Bold(true).Foreground(Debug).Render("D")
)

// Status symbols
var (
	SymbolOK   = lipgloss.NewStyle().Foreground(Success).Render("✓")
	SymbolWarn = lipgloss.NewStyle().Foreground(Warning).Render("⚠")
	SymbolFail = lipgloss.NewStyle().Foreground(Error).Render("✗")
)

// PaletteIndex returns the palette entry used for an ordinal.
// Ordinal 0 maps to the second entry.
func PaletteIndex(ordinal int) int {
	return (ordinal + 1) % len(Palette)
}

// TagStyle returns the bold, coloured style for an ordinal's tag.
func TagStyle(ordinal int) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(Palette[PaletteIndex(ordinal)])
}

// Tag renders the numeric output tag for an ordinal.
func Tag(ordinal int) string {
	return TagStyle(ordinal).Render(strconv.Itoa(ordinal))
}
